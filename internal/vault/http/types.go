package http

import (
	"github.com/projectvault/vault-backend/internal/vault/service"
)

// Handler bundles the dependencies for vault HTTP endpoints.
type Handler struct {
	svc *service.VaultService
}

func New(svc *service.VaultService) *Handler {
	return &Handler{svc: svc}
}

// projectFields is a create/update body. Pointers distinguish "absent" from
// "empty" so updates only touch what the client sent.
type projectFields struct {
	Title         *string   `json:"title"`
	Description   *string   `json:"description"`
	Status        *string   `json:"status"`
	Difficulty    *string   `json:"difficulty"`
	Priority      *string   `json:"priority"`
	TechStack     *[]string `json:"tech_stack"`
	GithubURL     *string   `json:"github"`
	DeploymentURL *string   `json:"deployment"`
}

func (f projectFields) input() service.ProjectInput {
	in := service.ProjectInput{
		Title:         deref(f.Title),
		Description:   deref(f.Description),
		Status:        deref(f.Status),
		Difficulty:    deref(f.Difficulty),
		Priority:      deref(f.Priority),
		GithubURL:     deref(f.GithubURL),
		DeploymentURL: deref(f.DeploymentURL),
	}
	if f.TechStack != nil {
		in.TechStack = *f.TechStack
	}
	return in
}

func (f projectFields) patch() service.ProjectPatch {
	p := service.ProjectPatch{
		Title:         f.Title,
		Description:   f.Description,
		Status:        f.Status,
		Difficulty:    f.Difficulty,
		Priority:      f.Priority,
		GithubURL:     f.GithubURL,
		DeploymentURL: f.DeploymentURL,
	}
	if f.TechStack != nil {
		p.ReplaceTech = true
		p.TechStack = *f.TechStack
	}
	return p
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
