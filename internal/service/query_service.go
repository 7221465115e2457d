package service

import (
	"strings"

	"github.com/hubpal/backend/internal/model"
)

// Filter selects a marketplace view of the project collection.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterActive Filter = "active"
	FilterFunded Filter = "funded"
)

// ParseFilter maps a query-string value to a Filter, defaulting to all.
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterActive, FilterFunded:
		return Filter(s)
	default:
		return FilterAll
	}
}

// QueryService is the read-only façade over the project collection. All
// operations are pure given the current snapshot and never mutate the store.
type QueryService interface {
	Browse(q string, filter Filter) []model.Project
	ActivityFeed(projectID string, limit int) ([]model.ActivityEntry, error)
	IsFullyFunded(p model.Project) bool
	CompletionRatio(p model.Project) float64
}

// QueryStore is the slice of the store the façade reads from.
type QueryStore interface {
	List() []model.Project
	GetByID(id string) (model.Project, error)
}

type queryService struct {
	store QueryStore
}

// NewQueryService returns a QueryService over the given store.
func NewQueryService(store QueryStore) QueryService {
	return &queryService{store: store}
}

// Browse returns the projects matching a case-insensitive name substring and
// the given filter, in insertion order.
func (s *queryService) Browse(q string, filter Filter) []model.Project {
	projects := s.store.List()
	q = strings.ToLower(q)

	out := projects[:0]
	for _, p := range projects {
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		switch filter {
		case FilterActive:
			if allReleased(p) {
				continue
			}
		case FilterFunded:
			if !s.IsFullyFunded(p) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// ActivityFeed returns the newest activity entries for a project, capped at
// limit when limit > 0.
func (s *queryService) ActivityFeed(projectID string, limit int) ([]model.ActivityEntry, error) {
	p, err := s.store.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	entries := p.Activity
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// IsFullyFunded reports whether released funds have reached the budget.
func (s *queryService) IsFullyFunded(p model.Project) bool {
	return p.FundsRaised >= p.TotalBudget
}

// CompletionRatio returns the fraction of milestones that are completed or
// verified, 0 for a project with no milestones.
func (s *queryService) CompletionRatio(p model.Project) float64 {
	if len(p.Milestones) == 0 {
		return 0
	}
	done := 0
	for _, m := range p.Milestones {
		if m.Status.Released() {
			done++
		}
	}
	return float64(done) / float64(len(p.Milestones))
}

func allReleased(p model.Project) bool {
	for _, m := range p.Milestones {
		if !m.Status.Released() {
			return false
		}
	}
	return true
}
