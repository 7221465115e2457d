// Package store owns the authoritative project collection: the milestone
// status state machine, derived funding totals, and the append-only activity
// log. Every mutation persists a full snapshot before returning.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hubpal/backend/internal/model"
	"github.com/hubpal/backend/internal/repository"
)

var (
	// ErrInvalidTransition is returned when a requested status change is not
	// a legal forward step in the milestone lifecycle.
	ErrInvalidTransition = errors.New("invalid milestone status transition")
	// ErrDuplicateID is returned by Create when the project ID is taken.
	ErrDuplicateID = errors.New("duplicate project id")
)

// ProjectStore holds the canonical in-memory collection and is the only
// writer to the durable snapshot. All operations are serialized behind one
// mutex: the mutation path is read-modify-persist and interleaving it would
// lose writes on the snapshot.
type ProjectStore struct {
	mu        sync.Mutex
	snapshots repository.SnapshotRepository
	projects  []model.Project
}

// New constructs a store hydrated from the durable snapshot. A missing or
// unreadable snapshot is not an error: the store starts empty and logs the
// reason, since the durable medium is an advisory cache rather than a system
// of record.
func New(ctx context.Context, snapshots repository.SnapshotRepository) *ProjectStore {
	s := &ProjectStore{snapshots: snapshots}

	projects, err := snapshots.LoadProjects(ctx)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		// First run, nothing persisted yet.
	case err != nil:
		slog.Warn("store: discarding unreadable snapshot, starting empty", "error", err)
	default:
		s.projects = projects
	}
	return s
}

// List returns a defensive copy of the full collection.
func (s *ProjectStore) List() []model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Project, len(s.projects))
	for i, p := range s.projects {
		out[i] = p.Clone()
	}
	return out
}

// Count returns the number of projects.
func (s *ProjectStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.projects)
}

// IsEmpty reports whether the collection holds no projects.
func (s *ProjectStore) IsEmpty() bool {
	return s.Count() == 0
}

// GetBySlug returns the first project whose slug matches. Slugs are not
// enforced unique at creation; when two projects derive the same slug the
// first one created wins, by design.
func (s *ProjectStore) GetBySlug(slug string) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.projects {
		if s.projects[i].Slug == slug {
			return s.projects[i].Clone(), nil
		}
	}
	return model.Project{}, repository.ErrNotFound
}

// GetByID returns the project with the given ID.
func (s *ProjectStore) GetByID(id string) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p := s.find(id); p != nil {
		return p.Clone(), nil
	}
	return model.Project{}, repository.ErrNotFound
}

// Create appends a new project and persists. The ID must be unused. Budget
// versus milestone-sum validation is the caller's concern; the funds cache is
// recomputed here regardless of what the caller supplied.
func (s *ProjectStore) Create(ctx context.Context, p model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(p.ID) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
	}

	p = p.Clone()
	recalcFunds(&p)
	if p.LastUpdated.IsZero() {
		p.LastUpdated = time.Now()
	}
	s.projects = append(s.projects, p)
	s.persist(ctx)
	return nil
}

// Update merges patch fields into the project and bumps LastUpdated.
func (s *ProjectStore) Update(ctx context.Context, id string, patch model.ProjectPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(id)
	if p == nil {
		return repository.ErrNotFound
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	p.LastUpdated = time.Now()
	s.persist(ctx)
	return nil
}

// SetMilestoneStatus performs at most one forward status step and optionally
// merges a metadata patch. A call with the current status and no metadata is
// a complete no-op: no activity entry, no timestamp bump, no persist. Skipping
// a step or moving backward returns ErrInvalidTransition; callers that want
// pending -> verified use AdvanceMilestone.
func (s *ProjectStore) SetMilestoneStatus(ctx context.Context, projectID, milestoneID string, status model.MilestoneStatus, meta *model.MilestoneMeta) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(projectID)
	if p == nil {
		return repository.ErrNotFound
	}
	m := findMilestone(p, milestoneID)
	if m == nil {
		return repository.ErrNotFound
	}

	if status == m.Status {
		if meta == nil {
			return nil
		}
		mergeMeta(m, meta)
		p.LastUpdated = time.Now()
		s.persist(ctx)
		return nil
	}

	if !m.Status.CanStepTo(status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.Status, status)
	}

	m.Status = status
	if meta != nil {
		mergeMeta(m, meta)
	}
	prependActivity(p, model.ActivityEntry{
		Timestamp: time.Now(),
		Actor:     model.ActorUser,
		Action:    "Milestone " + string(status),
		Details:   fmt.Sprintf("%q marked as %s", m.Title, status),
	})
	recalcFunds(p)
	p.LastUpdated = time.Now()
	s.persist(ctx)
	return nil
}

// AdvanceMilestone moves a milestone forward to the target status, applying
// the minimal chain of legal steps in one atomic operation. Each applied step
// appends its own activity entry, but the snapshot is persisted once. Already
// being at or past the target is a no-op.
func (s *ProjectStore) AdvanceMilestone(ctx context.Context, projectID, milestoneID string, target model.MilestoneStatus) error {
	if !target.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, target)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(projectID)
	if p == nil {
		return repository.ErrNotFound
	}
	m := findMilestone(p, milestoneID)
	if m == nil {
		return repository.ErrNotFound
	}
	if m.Status.Rank() >= target.Rank() {
		return nil
	}

	steps := []model.MilestoneStatus{model.StatusCompleted, model.StatusVerified}
	for _, next := range steps {
		if m.Status.Rank() >= next.Rank() || next.Rank() > target.Rank() {
			continue
		}
		m.Status = next
		prependActivity(p, model.ActivityEntry{
			Timestamp: time.Now(),
			Actor:     model.ActorUser,
			Action:    "Milestone " + string(next),
			Details:   fmt.Sprintf("%q marked as %s", m.Title, next),
		})
	}
	recalcFunds(p)
	p.LastUpdated = time.Now()
	s.persist(ctx)
	return nil
}

// AttachArtifact records an external storage reference on a milestone.
func (s *ProjectStore) AttachArtifact(ctx context.Context, projectID, milestoneID, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(projectID)
	if p == nil {
		return repository.ErrNotFound
	}
	m := findMilestone(p, milestoneID)
	if m == nil {
		return repository.ErrNotFound
	}

	m.ArtifactRef = ref
	p.LastUpdated = time.Now()
	s.persist(ctx)
	return nil
}

// RecordActivity appends an activity entry without touching milestone state.
// Demo collaborators use it to narrate side effects they perform against the
// project.
func (s *ProjectStore) RecordActivity(ctx context.Context, projectID, actor, action, details string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(projectID)
	if p == nil {
		return repository.ErrNotFound
	}

	prependActivity(p, model.ActivityEntry{
		Timestamp: time.Now(),
		Actor:     actor,
		Action:    action,
		Details:   details,
	})
	p.LastUpdated = time.Now()
	s.persist(ctx)
	return nil
}

// Reset drops the in-memory collection and clears the durable snapshot and
// flags. The only supported way back to a pristine state.
func (s *ProjectStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects = nil
	if err := s.snapshots.Clear(ctx); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}

// persist writes the full collection synchronously. A write failure degrades
// to in-memory-only operation: the mutation already happened, so it is logged
// and swallowed rather than surfaced.
func (s *ProjectStore) persist(ctx context.Context) {
	if err := s.snapshots.SaveProjects(ctx, s.projects); err != nil {
		slog.Error("store: persist snapshot failed", "error", err, "projects", len(s.projects))
	}
}

// find returns a pointer into the live collection. Callers hold s.mu.
func (s *ProjectStore) find(id string) *model.Project {
	for i := range s.projects {
		if s.projects[i].ID == id {
			return &s.projects[i]
		}
	}
	return nil
}

func findMilestone(p *model.Project, id string) *model.Milestone {
	for i := range p.Milestones {
		if p.Milestones[i].ID == id {
			return &p.Milestones[i]
		}
	}
	return nil
}

func prependActivity(p *model.Project, e model.ActivityEntry) {
	p.Activity = append([]model.ActivityEntry{e}, p.Activity...)
}

// recalcFunds rebuilds the FundsRaised cache from milestone statuses. Run
// after every mutation so the cache can never diverge from the derived sum.
func recalcFunds(p *model.Project) {
	total := 0
	for _, m := range p.Milestones {
		if m.Status.Released() {
			total += m.Amount
		}
	}
	p.FundsRaised = total
}

func mergeMeta(m *model.Milestone, patch *model.MilestoneMeta) {
	if m.Meta == nil {
		m.Meta = &model.MilestoneMeta{}
	}
	if patch.SignedOff {
		m.Meta.SignedOff = true
	}
	if patch.SignOffEventID != "" {
		m.Meta.SignOffEventID = patch.SignOffEventID
	}
	if patch.PaidInstallments != 0 {
		m.Meta.PaidInstallments = patch.PaidInstallments
	}
}
