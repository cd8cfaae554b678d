package domain

import (
	"net/url"
	"strings"
	"time"
)

// Project is a single vault entry shown to the user as a card.
// It is storage-agnostic and shared by the repository, service and HTTP layers.
type Project struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"-"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	Difficulty    string    `json:"difficulty"`
	Priority      string    `json:"priority"`
	TechStack     []string  `json:"tech_stack"`
	GithubURL     string    `json:"github_url,omitempty"`
	DeploymentURL string    `json:"deployment_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Status values
const (
	StatusIdea       = "idea"
	StatusPlanning   = "planning"
	StatusNotStarted = "not-started"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Difficulty values
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Priority values
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Defaults applied when a create request leaves a field blank.
const (
	DefaultStatus     = StatusIdea
	DefaultDifficulty = DifficultyMedium
	DefaultPriority   = PriorityMedium
)

const (
	MaxTitleLength    = 200
	MaxTechNameLength = 100
)

var (
	validStatuses     = []string{StatusIdea, StatusPlanning, StatusNotStarted, StatusInProgress, StatusCompleted}
	validDifficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}
	validPriorities   = []string{PriorityLow, PriorityMedium, PriorityHigh}
)

func IsValidStatus(s string) bool     { return contains(validStatuses, s) }
func IsValidDifficulty(s string) bool { return contains(validDifficulties, s) }
func IsValidPriority(s string) bool   { return contains(validPriorities, s) }

// NormalizeTechStack trims every entry, drops empty ones and removes duplicates
// while keeping first-seen order.
func NormalizeTechStack(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// HasTech reports whether name is part of the project's tech stack.
func (p Project) HasTech(name string) bool {
	return contains(p.TechStack, name)
}

// Validate checks the fields a write path is about to persist.
func (p Project) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return invalid("title is required")
	}
	if len(p.Title) > MaxTitleLength {
		return invalid("title must be at most 200 characters")
	}
	if !IsValidStatus(p.Status) {
		return invalid("unknown status " + quote(p.Status))
	}
	if !IsValidDifficulty(p.Difficulty) {
		return invalid("unknown difficulty " + quote(p.Difficulty))
	}
	if !IsValidPriority(p.Priority) {
		return invalid("unknown priority " + quote(p.Priority))
	}
	for _, t := range p.TechStack {
		if len(t) > MaxTechNameLength {
			return invalid("technology name " + quote(t) + " is too long")
		}
	}
	if err := validateURL("github url", p.GithubURL); err != nil {
		return err
	}
	return validateURL("deployment url", p.DeploymentURL)
}

func validateURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return invalid(field + " must be an absolute http(s) URL")
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func quote(s string) string { return `"` + s + `"` }
