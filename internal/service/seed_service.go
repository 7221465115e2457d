package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/hubpal/backend/internal/model"
	"github.com/hubpal/backend/internal/repository"
	"github.com/hubpal/backend/internal/slug"
)

// SeedService populates the store with demo data on first use. Seeding is
// guarded by persisted one-time flags so restarts never overwrite real data
// or resurrect a deliberately emptied store.
type SeedService interface {
	SeedIfEmpty(ctx context.Context) error
	SeedBooksDemo(ctx context.Context) error
	ResetAndReseed(ctx context.Context) error
}

// SeedStore is the slice of the store the seeder writes through.
type SeedStore interface {
	IsEmpty() bool
	List() []model.Project
	Create(ctx context.Context, p model.Project) error
	SetMilestoneStatus(ctx context.Context, projectID, milestoneID string, status model.MilestoneStatus, meta *model.MilestoneMeta) error
	RecordActivity(ctx context.Context, projectID, actor, action, details string) error
	Reset(ctx context.Context) error
}

// FlagRepository is the slice of the snapshot repository holding seed flags.
type FlagRepository interface {
	Flag(ctx context.Context, key string) (bool, error)
	SetFlag(ctx context.Context, key string, value bool) error
}

type seedService struct {
	store SeedStore
	flags FlagRepository
	rng   *rand.Rand
}

// NewSeedService builds a seeder over the given store and flag repository.
func NewSeedService(store SeedStore, flags FlagRepository) SeedService {
	return &seedService{
		store: store,
		flags: flags,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// seedMilestone is one entry of the fixed demo catalog.
type seedMilestone struct {
	title  string
	amount int
}

// seedProject describes a demo project. Names, titles, order and amounts are
// deterministic; only completion states are randomized.
type seedProject struct {
	name        string
	description string
	budget      int
	milestones  []seedMilestone
}

var demoCatalog = []seedProject{
	{
		name:        "Solar Microgrid for Riverside School",
		description: "Install a community-owned solar microgrid powering the school and charging stations.",
		budget:      12000,
		milestones: []seedMilestone{
			{"Site Survey", 2000},
			{"Panel Installation", 6000},
			{"Grid Hookup", 2500},
			{"Community Training", 1500},
		},
	},
	{
		name:        "Open Source Irrigation Controller",
		description: "Design and field-test an open hardware irrigation controller for smallholder farms.",
		budget:      8000,
		milestones: []seedMilestone{
			{"Hardware Prototype", 3000},
			{"Firmware v1", 2500},
			{"Field Trial", 2500},
		},
	},
	{
		name:        "Neighborhood Maker Lab",
		description: "Convert the old print shop into a shared fabrication space with open workshops.",
		budget:      15000,
		milestones: []seedMilestone{
			{"Lease and Buildout", 7000},
			{"Tooling", 5000},
			{"Opening Workshops", 3000},
		},
	},
}

// SeedIfEmpty loads the demo catalog into an empty store. Once the flag is
// persisted the call is a no-op forever, even if the user later empties the
// store on purpose.
func (s *seedService) SeedIfEmpty(ctx context.Context) error {
	seeded, err := s.flags.Flag(ctx, repository.SeedFlagKey)
	if err != nil {
		slog.Warn("seed: flag read failed, assuming unseeded", "error", err)
	}
	if seeded {
		return nil
	}

	if !s.store.IsEmpty() {
		// Real data exists; remember that so we never seed over it.
		return s.flags.SetFlag(ctx, repository.SeedFlagKey, true)
	}

	for _, sp := range demoCatalog {
		if err := s.store.Create(ctx, s.buildProject(sp)); err != nil {
			return fmt.Errorf("seed %q: %w", sp.name, err)
		}
	}
	slog.Info("seed: demo catalog loaded", "projects", len(demoCatalog))
	return s.flags.SetFlag(ctx, repository.SeedFlagKey, true)
}

// SeedBooksDemo is the second, narrower pass: it marks one released
// milestone as signed off in the books so the sign-off demo has data to
// show. Guarded by its own flag.
func (s *seedService) SeedBooksDemo(ctx context.Context) error {
	seeded, err := s.flags.Flag(ctx, repository.BooksFlagKey)
	if err != nil {
		slog.Warn("seed: books flag read failed, assuming unseeded", "error", err)
	}
	if seeded {
		return nil
	}

	for _, p := range s.store.List() {
		for _, m := range p.Milestones {
			if !m.Status.Released() || (m.Meta != nil && m.Meta.SignedOff) {
				continue
			}
			meta := &model.MilestoneMeta{SignedOff: true, SignOffEventID: newSignOffEventID()}
			if err := s.store.SetMilestoneStatus(ctx, p.ID, m.ID, m.Status, meta); err != nil {
				return fmt.Errorf("seed books demo: %w", err)
			}
			_ = s.store.RecordActivity(ctx, p.ID, model.ActorSystem, "Books Sign-Off",
				fmt.Sprintf("Sign-Off recorded for %q (%s)", m.Title, meta.SignOffEventID))
			return s.flags.SetFlag(ctx, repository.BooksFlagKey, true)
		}
	}
	// Nothing released yet; still mark the pass done so it stays one-time.
	return s.flags.SetFlag(ctx, repository.BooksFlagKey, true)
}

// ResetAndReseed clears all persisted state and flags, then reruns both
// seeding passes. The only supported way back to a pristine demo state.
func (s *seedService) ResetAndReseed(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	if err := s.SeedIfEmpty(ctx); err != nil {
		return err
	}
	return s.SeedBooksDemo(ctx)
}

// buildProject turns a catalog entry into a full project with derived
// references and bounded-random completion states. Statuses follow the
// timeline: a random prefix of milestones is released, never all of them,
// and released milestones are randomly completed or verified.
func (s *seedService) buildProject(sp seedProject) model.Project {
	projectSlug := slug.Slugify(sp.name)
	released := s.rng.Intn(len(sp.milestones)) // 0..n-1, keeps every project active

	milestones := make([]model.Milestone, len(sp.milestones))
	for i, sm := range sp.milestones {
		mSlug := slug.Slugify(sm.title)
		status := model.StatusPending
		if i < released {
			status = model.StatusCompleted
			if s.rng.Intn(2) == 0 {
				status = model.StatusVerified
			}
		}
		milestones[i] = model.Milestone{
			ID:        fmt.Sprintf("%s-milestone-%d", projectSlug, i+1),
			Title:     sm.title,
			Amount:    sm.amount,
			Status:    status,
			ENSName:   slug.ENSName(projectSlug, mSlug),
			MirrorURL: slug.MirrorPath(projectSlug, mSlug),
		}
	}

	now := time.Now()
	return model.Project{
		ID:          uuid.NewString(),
		Slug:        projectSlug,
		Name:        sp.name,
		Description: sp.description,
		TotalBudget: sp.budget,
		Milestones:  milestones,
		LastUpdated: now,
		Activity: []model.ActivityEntry{{
			Timestamp: now,
			Actor:     model.ActorUser,
			Action:    "Project created",
			Details:   fmt.Sprintf("%q listed with %d milestones", sp.name, len(milestones)),
		}},
	}
}
