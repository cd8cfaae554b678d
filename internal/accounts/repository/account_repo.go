package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/projectvault/vault-backend/internal/accounts/domain"
)

const uniqueViolation = "23505"

// DB is the subset of *pgxpool.Pool the repository uses.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type AccountRepository struct {
	db DB
}

func NewAccountRepository(db DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Exists reports whether the email or username is already registered.
// Emails compare case-insensitively.
func (r *AccountRepository) Exists(ctx context.Context, email, username string) (emailTaken, usernameTaken bool, err error) {
	const q = `
select
  exists(select 1 from accounts where lower(email) = lower($1)),
  exists(select 1 from accounts where username = $2);
`
	if err := r.db.QueryRow(ctx, q, email, username).Scan(&emailTaken, &usernameTaken); err != nil {
		return false, false, fmt.Errorf("check account: %w", err)
	}
	return emailTaken, usernameTaken, nil
}

// Create inserts the account. Unique violations map to the domain errors.
func (r *AccountRepository) Create(ctx context.Context, a domain.Account) (*domain.Account, error) {
	const q = `
insert into accounts (id, username, email, password_hash)
values ($1::uuid, $2, $3, $4)
returning id::text, username, email, created_at;
`
	var out domain.Account
	err := r.db.QueryRow(ctx, q, a.ID, a.Username, a.Email, a.PasswordHash).
		Scan(&out.ID, &out.Username, &out.Email, &out.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return nil, domain.ErrEmailTaken
			}
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return &out, nil
}
