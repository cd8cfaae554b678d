package filter

import (
	"strings"

	"github.com/projectvault/vault-backend/internal/vault/domain"
)

// Matches reports whether p passes every criterion. A criterion set to "all"
// (or left blank) passes everything; a missing field never matches a
// concrete criterion.
func Matches(p domain.Project, c domain.Criteria) bool {
	return matchesSelector(c.Status, p.Status) &&
		matchesSelector(c.Difficulty, p.Difficulty) &&
		matchesTech(c.Tech, p) &&
		matchesSearch(c.SearchText, p)
}

// ComputeVisibility returns the visibility decision for every project, keyed by
// id. Projects sharing an id (or with an empty id) collapse into one entry, the
// last one winning; use VisibleIDs or FilterVisible when order and
// multiplicity matter.
func ComputeVisibility(projects []domain.Project, c domain.Criteria) map[string]bool {
	out := make(map[string]bool, len(projects))
	for _, p := range projects {
		out[p.ID] = Matches(p, c)
	}
	return out
}

// VisibleIDs returns the ids of matching projects in input order, keeping
// duplicates.
func VisibleIDs(projects []domain.Project, c domain.Criteria) []string {
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		if Matches(p, c) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// FilterVisible returns the matching projects in input order.
func FilterVisible(projects []domain.Project, c domain.Criteria) []domain.Project {
	out := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		if Matches(p, c) {
			out = append(out, p)
		}
	}
	return out
}

func isAll(v string) bool {
	return v == "" || v == domain.FilterAll
}

func matchesSelector(want, got string) bool {
	return isAll(want) || (got != "" && got == want)
}

func matchesTech(want string, p domain.Project) bool {
	return isAll(want) || p.HasTech(want)
}

func matchesSearch(search string, p domain.Project) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(p.Title), search) ||
		strings.Contains(strings.ToLower(p.Description), search)
}
