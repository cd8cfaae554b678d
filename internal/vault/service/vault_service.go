package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/projectvault/vault-backend/internal/logging"
	"github.com/projectvault/vault-backend/internal/vault/domain"
	"github.com/projectvault/vault-backend/internal/vault/filter"
	"github.com/projectvault/vault-backend/internal/vault/repository"
)

// ProjectStore is the persistence the service needs.
type ProjectStore interface {
	// Create enforces maxOwned atomically; repository.NoLimit disables it.
	Create(ctx context.Context, p domain.Project, maxOwned int) (*domain.Project, error)
	Get(ctx context.Context, ownerID, publicID string) (*domain.Project, error)
	List(ctx context.Context, ownerID string) ([]domain.Project, error)
	Update(ctx context.Context, p domain.Project) (*domain.Project, error)
	SoftDelete(ctx context.Context, ownerID, publicID string) (bool, error)
	PurgeDeleted(ctx context.Context, cutoff time.Time) (int64, error)
}

// SummaryStore caches per-owner summaries. It may be nil.
type SummaryStore interface {
	Get(ctx context.Context, ownerID string) (*repository.Summary, bool, error)
	Generation(ctx context.Context, ownerID string) (int64, error)
	Set(ctx context.Context, ownerID string, gen int64, s repository.Summary) error
	Invalidate(ctx context.Context, ownerID string) error
}

// Owner identifies who is acting. Unauthenticated visitors share the demo
// allowance configured on the service.
type Owner struct {
	ID            string
	Authenticated bool
}

// ProjectInput carries the raw form fields of a create request.
type ProjectInput struct {
	Title         string
	Description   string
	Status        string
	Difficulty    string
	Priority      string
	TechStack     []string
	GithubURL     string
	DeploymentURL string
}

// ProjectPatch carries an update; nil fields keep their stored value.
type ProjectPatch struct {
	Title         *string
	Description   *string
	Status        *string
	Difficulty    *string
	Priority      *string
	TechStack     []string
	ReplaceTech   bool
	GithubURL     *string
	DeploymentURL *string
}

// View is the filtered project list plus the aggregates for the whole collection.
type View struct {
	Projects       []domain.Project `json:"projects"`
	VisibleIDs     []string         `json:"visible_ids"`
	Stats          filter.Stats     `json:"stats"`
	TechVocabulary []string         `json:"tech_vocabulary"`
	Criteria       domain.Criteria  `json:"criteria"`
}

// VaultService handles project-vault business logic
type VaultService struct {
	store     ProjectStore
	cache     SummaryStore
	demoLimit int
	log       *zap.Logger
}

// NewVaultService creates a new vault service. cache may be nil.
func NewVaultService(store ProjectStore, cache SummaryStore, demoLimit int, log *zap.Logger) *VaultService {
	if log == nil {
		log = zap.NewNop()
	}
	return &VaultService{store: store, cache: cache, demoLimit: demoLimit, log: log}
}

// Create stores a new project for owner.
func (s *VaultService) Create(ctx context.Context, owner Owner, in ProjectInput) (*domain.Project, error) {
	if owner.ID == "" {
		return nil, fmt.Errorf("owner id required")
	}

	p := domain.Project{
		OwnerID:       owner.ID,
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Status:        orDefault(in.Status, domain.DefaultStatus),
		Difficulty:    orDefault(in.Difficulty, domain.DefaultDifficulty),
		Priority:      orDefault(in.Priority, domain.DefaultPriority),
		TechStack:     domain.NormalizeTechStack(in.TechStack),
		GithubURL:     strings.TrimSpace(in.GithubURL),
		DeploymentURL: strings.TrimSpace(in.DeploymentURL),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	limit := repository.NoLimit
	if !owner.Authenticated {
		limit = s.demoLimit
	}

	created, err := s.store.Create(ctx, p, limit)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, owner.ID)
	s.logger(ctx).Info("project created",
		zap.String("project_id", created.ID),
		zap.String("owner_id", owner.ID))
	return created, nil
}

// Get returns one project owned by owner.
func (s *VaultService) Get(ctx context.Context, owner Owner, id string) (*domain.Project, error) {
	return s.store.Get(ctx, owner.ID, id)
}

// Update applies patch to the stored project. Absent fields keep their values;
// the tech stack is replaced wholesale when ReplaceTech is set.
func (s *VaultService) Update(ctx context.Context, owner Owner, id string, patch ProjectPatch) (*domain.Project, error) {
	current, err := s.store.Get(ctx, owner.ID, id)
	if err != nil {
		return nil, err
	}

	next := *current
	apply(&next.Title, patch.Title)
	apply(&next.Description, patch.Description)
	apply(&next.Status, patch.Status)
	apply(&next.Difficulty, patch.Difficulty)
	apply(&next.Priority, patch.Priority)
	apply(&next.GithubURL, patch.GithubURL)
	apply(&next.DeploymentURL, patch.DeploymentURL)
	next.Title = strings.TrimSpace(next.Title)
	if patch.ReplaceTech {
		next.TechStack = domain.NormalizeTechStack(patch.TechStack)
	}

	if err := next.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, next)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, owner.ID)
	s.logger(ctx).Info("project updated",
		zap.String("project_id", id),
		zap.String("owner_id", owner.ID))
	return updated, nil
}

// Delete soft-deletes a project.
func (s *VaultService) Delete(ctx context.Context, owner Owner, id string) error {
	ok, err := s.store.SoftDelete(ctx, owner.ID, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}

	s.invalidate(ctx, owner.ID)
	s.logger(ctx).Info("project deleted",
		zap.String("project_id", id),
		zap.String("owner_id", owner.ID))
	return nil
}

// List returns the projects visible under criteria together with stats and
// vocabulary computed over the owner's whole collection. It does not fill the
// summary cache; only Summary does.
func (s *VaultService) List(ctx context.Context, owner Owner, criteria domain.Criteria) (*View, error) {
	all, err := s.store.List(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	summary := summarize(all)

	return &View{
		Projects:       filter.FilterVisible(all, criteria),
		VisibleIDs:     filter.VisibleIDs(all, criteria),
		Stats:          summary.Stats,
		TechVocabulary: summary.TechVocabulary,
		Criteria:       criteria,
	}, nil
}

// Summary returns stats and vocabulary, from cache when possible. The cache
// generation is read before the store so a write that lands in between keeps
// the stale result out of the cache.
func (s *VaultService) Summary(ctx context.Context, owner Owner) (*repository.Summary, error) {
	gen, cacheable := int64(0), false
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, owner.ID)
		switch {
		case err != nil:
			s.logger(ctx).Warn("summary cache read failed", zap.String("owner_id", owner.ID), zap.Error(err))
		case ok:
			return cached, nil
		default:
			gen, err = s.cache.Generation(ctx, owner.ID)
			if err != nil {
				s.logger(ctx).Warn("summary cache generation read failed", zap.String("owner_id", owner.ID), zap.Error(err))
			}
			cacheable = err == nil
		}
	}

	all, err := s.store.List(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	summary := summarize(all)
	if cacheable {
		s.remember(ctx, owner.ID, gen, summary)
	}
	return &summary, nil
}

// PurgeDeleted hard-deletes projects soft-deleted longer than retention ago.
func (s *VaultService) PurgeDeleted(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	n, err := s.store.PurgeDeleted(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.log.Info("purged deleted projects", zap.Int64("count", n), zap.Time("cutoff", cutoff))
	return n, nil
}

func summarize(projects []domain.Project) repository.Summary {
	return repository.Summary{
		Stats:          filter.ComputeStats(projects),
		TechVocabulary: filter.CollectTechVocabulary(projects),
	}
}

func (s *VaultService) remember(ctx context.Context, ownerID string, gen int64, summary repository.Summary) {
	if err := s.cache.Set(ctx, ownerID, gen, summary); err != nil {
		s.logger(ctx).Warn("summary cache write failed", zap.String("owner_id", ownerID), zap.Error(err))
	}
}

func (s *VaultService) invalidate(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, ownerID); err != nil {
		s.logger(ctx).Warn("summary cache invalidation failed", zap.String("owner_id", ownerID), zap.Error(err))
	}
}

func (s *VaultService) logger(ctx context.Context) *zap.Logger {
	return logging.FromContext(ctx, s.log)
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func apply(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
