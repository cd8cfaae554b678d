package filter

import (
	"sort"
	"strings"

	"github.com/projectvault/vault-backend/internal/vault/domain"
)

// CollectTechVocabulary unions every project's tech stack into a sorted,
// duplicate-free list. Entries are trimmed and blanks dropped.
func CollectTechVocabulary(projects []domain.Project) []string {
	seen := make(map[string]struct{})
	for _, p := range projects {
		for _, t := range p.TechStack {
			if t = strings.TrimSpace(t); t != "" {
				seen[t] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
