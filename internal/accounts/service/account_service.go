package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/projectvault/vault-backend/internal/accounts/domain"
	"github.com/projectvault/vault-backend/internal/accounts/validation"
	"github.com/projectvault/vault-backend/internal/logging"
)

// ErrRejected wraps a registration blocked by validation.
var ErrRejected = errors.New("registration rejected")

// ValidationError carries the per-field reasons a registration was blocked.
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string { return ErrRejected.Error() }
func (e *ValidationError) Unwrap() error { return ErrRejected }

type AccountStore interface {
	Exists(ctx context.Context, email, username string) (emailTaken, usernameTaken bool, err error)
	Create(ctx context.Context, a domain.Account) (*domain.Account, error)
}

type AccountService struct {
	store AccountStore
	cost  int
	log   *zap.Logger
}

func NewAccountService(store AccountStore, log *zap.Logger) *AccountService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountService{store: store, cost: bcrypt.DefaultCost, log: log}
}

// Register validates the form, rejects duplicates and stores a bcrypt hash of
// the password.
func (s *AccountService) Register(ctx context.Context, form validation.Registration) (*domain.Account, error) {
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)

	if errs := validation.ValidateRegistration(form); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	emailTaken, usernameTaken, err := s.store.Exists(ctx, form.Email, form.Username)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, domain.ErrEmailTaken
	}
	if usernameTaken {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), s.cost)
	if err != nil {
		return nil, err
	}

	acc, err := s.store.Create(ctx, domain.Account{
		ID:           uuid.NewString(),
		Username:     form.Username,
		Email:        form.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx, s.log).Info("account registered", zap.String("account_id", acc.ID))
	return acc, nil
}
