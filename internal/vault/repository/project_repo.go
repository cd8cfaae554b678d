package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/projectvault/vault-backend/internal/vault/domain"
)

const countLiveQuery = `SELECT COUNT(*) FROM projects WHERE owner_id = $1 AND deleted_at IS NULL;`

const projectColumns = `public_id, owner_id, title, description, status, difficulty, priority,
       tech_stack, github_url, deployment_url, created_at, updated_at`

// ProjectRepository provides persistence operations for vault projects.
type ProjectRepository struct {
	db    *sql.DB
	newID func(prefix string) (string, error)
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db, newID: domain.NewPublicID}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p          domain.Project
		tech       []string
		github     sql.NullString
		deployment sql.NullString
	)
	err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Status, &p.Difficulty, &p.Priority,
		pq.Array(&tech), &github, &deployment, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.TechStack = domain.NormalizeTechStack(tech)
	p.GithubURL = github.String
	p.DeploymentURL = deployment.String
	return &p, nil
}

// NoLimit disables the per-owner project cap in Create.
const NoLimit = -1

// Create inserts p for its owner and returns the stored row. When maxOwned is
// not NoLimit the owner's live project count is checked inside the same
// transaction, under a per-owner advisory lock, so concurrent creates cannot
// overshoot the cap. The public id is generated here; collisions are retried
// a few times.
func (r *ProjectRepository) Create(ctx context.Context, p domain.Project, maxOwned int) (*domain.Project, error) {
	if p.OwnerID == "" {
		return nil, fmt.Errorf("owner id required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create project: %w", err)
	}
	defer tx.Rollback()

	if maxOwned != NoLimit {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, p.OwnerID); err != nil {
			return nil, fmt.Errorf("lock owner: %w", err)
		}
		var n int
		if err := tx.QueryRowContext(ctx, countLiveQuery, p.OwnerID).Scan(&n); err != nil {
			return nil, fmt.Errorf("count projects: %w", err)
		}
		if n >= maxOwned {
			return nil, domain.ErrDemoLimitReached
		}
	}

	const q = `
INSERT INTO projects (public_id, owner_id, title, description, status, difficulty, priority,
                      tech_stack, github_url, deployment_url)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''))
ON CONFLICT (public_id) DO NOTHING
RETURNING ` + projectColumns + `;
`
	for i := 0; i < 5; i++ {
		publicID, err := r.newID(domain.PublicIDPrefix)
		if err != nil {
			return nil, err
		}

		row := tx.QueryRowContext(ctx, q, publicID, p.OwnerID, p.Title, p.Description, p.Status,
			p.Difficulty, p.Priority, pq.Array(domain.NormalizeTechStack(p.TechStack)), p.GithubURL, p.DeploymentURL)
		created, err := scanProject(row)
		// no row: public_id already taken, retry
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("insert project: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit project: %w", err)
		}
		return created, nil
	}

	return nil, fmt.Errorf("failed to generate unique project id")
}

// Get returns one non-deleted project owned by ownerID.
func (r *ProjectRepository) Get(ctx context.Context, ownerID, publicID string) (*domain.Project, error) {
	const q = `
SELECT ` + projectColumns + `
FROM projects
WHERE owner_id = $1 AND public_id = $2 AND deleted_at IS NULL;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, ownerID, publicID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// List returns all non-deleted projects for the owner, newest first.
func (r *ProjectRepository) List(ctx context.Context, ownerID string) ([]domain.Project, error) {
	const q = `
SELECT ` + projectColumns + `
FROM projects
WHERE owner_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites every editable column of p, including the tech stack.
func (r *ProjectRepository) Update(ctx context.Context, p domain.Project) (*domain.Project, error) {
	const q = `
UPDATE projects
SET title = $3, description = $4, status = $5, difficulty = $6, priority = $7,
    tech_stack = $8, github_url = NULLIF($9, ''), deployment_url = NULLIF($10, ''),
    updated_at = now()
WHERE owner_id = $1 AND public_id = $2 AND deleted_at IS NULL
RETURNING ` + projectColumns + `;
`
	updated, err := scanProject(r.db.QueryRowContext(ctx, q, p.OwnerID, p.ID, p.Title, p.Description,
		p.Status, p.Difficulty, p.Priority, pq.Array(domain.NormalizeTechStack(p.TechStack)),
		p.GithubURL, p.DeploymentURL))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update project: %w", err)
	}
	return updated, nil
}

// SoftDelete marks a project as deleted (soft delete).
func (r *ProjectRepository) SoftDelete(ctx context.Context, ownerID, publicID string) (bool, error) {
	const q = `
UPDATE projects
SET deleted_at = now(), updated_at = now()
WHERE owner_id = $1 AND public_id = $2 AND deleted_at IS NULL;
`
	result, err := r.db.ExecContext(ctx, q, ownerID, publicID)
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

// PurgeDeleted permanently removes projects soft-deleted before cutoff.
func (r *ProjectRepository) PurgeDeleted(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `DELETE FROM projects WHERE deleted_at IS NOT NULL AND deleted_at < $1;`

	result, err := r.db.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge projects: %w", err)
	}
	return result.RowsAffected()
}
