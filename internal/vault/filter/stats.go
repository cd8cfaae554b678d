package filter

import "github.com/projectvault/vault-backend/internal/vault/domain"

// Stats are the summary counters shown above the project grid.
type Stats struct {
	Total        int `json:"total"`
	InProgress   int `json:"in_progress"`
	Completed    int `json:"completed"`
	HighPriority int `json:"high_priority"`
}

// ComputeStats counts projects by exact field match. Total is always len(projects).
func ComputeStats(projects []domain.Project) Stats {
	s := Stats{Total: len(projects)}
	for _, p := range projects {
		switch p.Status {
		case domain.StatusInProgress:
			s.InProgress++
		case domain.StatusCompleted:
			s.Completed++
		}
		if p.Priority == domain.PriorityHigh {
			s.HighPriority++
		}
	}
	return s
}
