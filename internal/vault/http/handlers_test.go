package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectvault/vault-backend/internal/auth"
	"github.com/projectvault/vault-backend/internal/vault/domain"
	"github.com/projectvault/vault-backend/internal/vault/repository"
	"github.com/projectvault/vault-backend/internal/vault/service"
)

type fakeStore struct {
	seq   int
	items []domain.Project
	fail  error
}

func (f *fakeStore) Create(ctx context.Context, p domain.Project, maxOwned int) (*domain.Project, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	if maxOwned != repository.NoLimit {
		owned, _ := f.List(ctx, p.OwnerID)
		if len(owned) >= maxOwned {
			return nil, domain.ErrDemoLimitReached
		}
	}
	f.seq++
	p.ID = fmt.Sprintf("vault-%05d-0001", f.seq)
	p.CreatedAt = time.Unix(int64(f.seq), 0)
	f.items = append([]domain.Project{p}, f.items...)
	return &p, nil
}

func (f *fakeStore) Get(_ context.Context, ownerID, id string) (*domain.Project, error) {
	for _, p := range f.items {
		if p.ID == id && p.OwnerID == ownerID {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeStore) List(_ context.Context, ownerID string) ([]domain.Project, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	var out []domain.Project
	for _, p := range f.items {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, p domain.Project) (*domain.Project, error) {
	for i := range f.items {
		if f.items[i].ID == p.ID {
			f.items[i] = p
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeStore) SoftDelete(_ context.Context, ownerID, id string) (bool, error) {
	for i, p := range f.items {
		if p.ID == id && p.OwnerID == ownerID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) PurgeDeleted(context.Context, time.Time) (int64, error) { return 0, nil }

func setupRouter(store *fakeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(auth.WithUser())
	New(service.NewVaultService(store, nil, 1, nil)).Register(r.Group("/projects"))
	return r
}

type envelope struct {
	Success        bool             `json:"success"`
	Message        string           `json:"message"`
	AuthRequired   bool             `json:"auth_required"`
	Project        *domain.Project  `json:"project"`
	Projects       []domain.Project `json:"projects"`
	VisibleIDs     []string         `json:"visible_ids"`
	TechVocabulary []string         `json:"tech_vocabulary"`
	Stats          struct {
		Total        int `json:"total"`
		InProgress   int `json:"in_progress"`
		Completed    int `json:"completed"`
		HighPriority int `json:"high_priority"`
	} `json:"stats"`
}

func do(t *testing.T, r *gin.Engine, req *http.Request, asUser bool) (int, envelope) {
	t.Helper()
	if asUser {
		req.Header.Set(auth.HeaderUserID, "user-1")
		req.Header.Set(auth.HeaderAuthenticated, "true")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return rr.Code, env
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func formRequest(method, path string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func seed(t *testing.T, r *gin.Engine) {
	t.Helper()
	bodies := []string{
		`{"title":"Budget Tracker","description":"finance","status":"in-progress","priority":"high","tech_stack":["Go","PostgreSQL"]}`,
		`{"title":"Recipe Box","status":"completed","difficulty":"easy","priority":"low","tech_stack":["React"]}`,
	}
	for _, b := range bodies {
		code, env := do(t, r, jsonRequest(http.MethodPost, "/projects", b), true)
		require.Equal(t, http.StatusCreated, code, env.Message)
	}
}

func TestCreate_JSON(t *testing.T) {
	r := setupRouter(&fakeStore{})
	code, env := do(t, r, jsonRequest(http.MethodPost, "/projects",
		`{"title":" Vault ","tech_stack":["Go"," Go",""],"github":"https://github.com/me/vault"}`), true)

	require.Equal(t, http.StatusCreated, code)
	assert.True(t, env.Success)
	assert.Equal(t, "Project created successfully!", env.Message)
	require.NotNil(t, env.Project)
	assert.Equal(t, "Vault", env.Project.Title)
	assert.Equal(t, []string{"Go"}, env.Project.TechStack)
	assert.Equal(t, domain.StatusIdea, env.Project.Status)
	assert.Equal(t, "https://github.com/me/vault", env.Project.GithubURL)
}

func TestCreate_FormWithRepeatedTech(t *testing.T) {
	r := setupRouter(&fakeStore{})
	form := url.Values{
		"title":      {"Form Project"},
		"status":     {"planning"},
		"tech_stack": {"Django", "HTMX", "Django"},
	}
	code, env := do(t, r, formRequest(http.MethodPost, "/projects", form), true)

	require.Equal(t, http.StatusCreated, code, env.Message)
	assert.Equal(t, []string{"Django", "HTMX"}, env.Project.TechStack)
	assert.Equal(t, domain.StatusPlanning, env.Project.Status)
}

func TestCreate_Invalid(t *testing.T) {
	r := setupRouter(&fakeStore{})

	code, env := do(t, r, jsonRequest(http.MethodPost, "/projects", `{"title":""}`), true)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "title is required")

	code, _ = do(t, r, jsonRequest(http.MethodPost, "/projects", `{"title":`), true)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCreate_DemoLimit(t *testing.T) {
	r := setupRouter(&fakeStore{})
	const visitor = "0b0c1d5e-8f3a-4c6e-9d1b-2a3b4c5d6e7f"

	first := jsonRequest(http.MethodPost, "/projects", `{"title":"demo"}`)
	first.AddCookie(&http.Cookie{Name: auth.VisitorCookie, Value: visitor})
	code, _ := do(t, r, first, false)
	require.Equal(t, http.StatusCreated, code)

	second := jsonRequest(http.MethodPost, "/projects", `{"title":"demo 2"}`)
	second.AddCookie(&http.Cookie{Name: auth.VisitorCookie, Value: visitor})
	code, env := do(t, r, second, false)
	assert.Equal(t, http.StatusForbidden, code)
	assert.True(t, env.AuthRequired)
}

func TestList_Filters(t *testing.T) {
	r := setupRouter(&fakeStore{})
	seed(t, r)

	code, env := do(t, r, httptest.NewRequest(http.MethodGet, "/projects", nil), true)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, env.Projects, 2)
	assert.Equal(t, 2, env.Stats.Total)
	assert.Equal(t, 1, env.Stats.InProgress)
	assert.Equal(t, 1, env.Stats.Completed)
	assert.Equal(t, 1, env.Stats.HighPriority)
	assert.Equal(t, []string{"Go", "PostgreSQL", "React"}, env.TechVocabulary)

	code, env = do(t, r, httptest.NewRequest(http.MethodGet, "/projects?tech=React&status=all", nil), true)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, env.Projects, 1)
	assert.Equal(t, "Recipe Box", env.Projects[0].Title)
	assert.Equal(t, 2, env.Stats.Total, "stats cover the whole collection")

	code, env = do(t, r, httptest.NewRequest(http.MethodGet, "/projects?search=FINANCE", nil), true)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, env.VisibleIDs, 1)
	assert.Equal(t, "Budget Tracker", env.Projects[0].Title)

	code, env = do(t, r, httptest.NewRequest(http.MethodGet, "/projects?difficulty=hard", nil), true)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, env.Projects)
}

func TestList_StoreFailure(t *testing.T) {
	store := &fakeStore{fail: fmt.Errorf("db down")}
	r := setupRouter(store)

	code, env := do(t, r, httptest.NewRequest(http.MethodGet, "/projects", nil), true)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Error listing projects. Please try again.", env.Message)
}

func TestSummary(t *testing.T) {
	r := setupRouter(&fakeStore{})
	seed(t, r)

	code, env := do(t, r, httptest.NewRequest(http.MethodGet, "/projects/summary", nil), true)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, env.Stats.Total)
	assert.Equal(t, []string{"Go", "PostgreSQL", "React"}, env.TechVocabulary)
}

func TestGetUpdateDelete(t *testing.T) {
	store := &fakeStore{}
	r := setupRouter(store)
	seed(t, r)
	id := store.items[0].ID // Recipe Box

	code, env := do(t, r, httptest.NewRequest(http.MethodGet, "/projects/"+id, nil), true)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Recipe Box", env.Project.Title)

	t.Run("form post keeps absent fields", func(t *testing.T) {
		form := url.Values{"status": {"in-progress"}, "tech_stack": {"Vue"}}
		code, env := do(t, r, formRequest(http.MethodPost, "/projects/"+id, form), true)
		require.Equal(t, http.StatusOK, code, env.Message)
		assert.Equal(t, "Project updated successfully", env.Message)
		assert.Equal(t, domain.StatusInProgress, env.Project.Status)
		assert.Equal(t, "Recipe Box", env.Project.Title)
		assert.Equal(t, []string{"Vue"}, env.Project.TechStack)
	})

	t.Run("json patch without tech keeps tech", func(t *testing.T) {
		code, env := do(t, r, jsonRequest(http.MethodPatch, "/projects/"+id, `{"priority":"high"}`), true)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, domain.PriorityHigh, env.Project.Priority)
		assert.Equal(t, []string{"Vue"}, env.Project.TechStack)
	})

	t.Run("invalid update", func(t *testing.T) {
		code, _ := do(t, r, jsonRequest(http.MethodPatch, "/projects/"+id, `{"difficulty":"impossible"}`), true)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("unknown id", func(t *testing.T) {
		code, env := do(t, r, jsonRequest(http.MethodPatch, "/projects/vault-00000-0000", `{"title":"x"}`), true)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "Project not found", env.Message)
	})

	t.Run("delete via post", func(t *testing.T) {
		code, env := do(t, r, httptest.NewRequest(http.MethodPost, "/projects/"+id+"/delete", nil), true)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Project deleted successfully", env.Message)

		code, _ = do(t, r, httptest.NewRequest(http.MethodDelete, "/projects/"+id, nil), true)
		assert.Equal(t, http.StatusNotFound, code)
	})
}
