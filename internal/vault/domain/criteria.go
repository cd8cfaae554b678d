package domain

import "strings"

// FilterAll disables a criterion.
const FilterAll = "all"

// Criteria is the combined filter state of the project list. It is rebuilt
// from the request on every call and never stored.
type Criteria struct {
	Status     string `json:"status"`
	Difficulty string `json:"difficulty"`
	Tech       string `json:"tech"`
	SearchText string `json:"search"`
}

// AllCriteria matches every project.
func AllCriteria() Criteria {
	return Criteria{Status: FilterAll, Difficulty: FilterAll, Tech: FilterAll}
}

// NewCriteria builds criteria from raw control values. Blank selectors mean
// "all"; the search text is lowercased but otherwise kept as typed.
func NewCriteria(status, difficulty, tech, search string) Criteria {
	return Criteria{
		Status:     selector(status),
		Difficulty: selector(difficulty),
		Tech:       selector(tech),
		SearchText: strings.ToLower(search),
	}
}

func selector(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return FilterAll
	}
	return v
}
