package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/hubpal/backend/internal/model"
)

func TestMemorySnapshotRepository_LoadBeforeSave(t *testing.T) {
	repo := NewMemorySnapshotRepository()

	_, err := repo.LoadProjects(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemorySnapshotRepository_RoundTrip(t *testing.T) {
	repo := NewMemorySnapshotRepository()
	ctx := context.Background()

	in := []model.Project{{
		ID:   "p1",
		Slug: "solar-microgrid",
		Name: "Solar Microgrid",
		Milestones: []model.Milestone{
			{ID: "m1", Title: "Site Survey", Amount: 2000, Status: model.StatusCompleted},
		},
		FundsRaised: 2000,
	}}
	if err := repo.SaveProjects(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Mutating the input after save must not leak into the snapshot.
	in[0].Name = "mutated"

	got, err := repo.LoadProjects(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Solar Microgrid" {
		t.Errorf("unexpected snapshot contents: %+v", got)
	}
	if got[0].Milestones[0].Status != model.StatusCompleted {
		t.Errorf("milestone status lost in round trip: %+v", got[0].Milestones)
	}
}

func TestMemorySnapshotRepository_Flags(t *testing.T) {
	repo := NewMemorySnapshotRepository()
	ctx := context.Background()

	v, err := repo.Flag(ctx, SeedFlagKey)
	if err != nil || v {
		t.Fatalf("absent flag: got %v, %v, want false, nil", v, err)
	}

	if err := repo.SetFlag(ctx, SeedFlagKey, true); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if v, _ := repo.Flag(ctx, SeedFlagKey); !v {
		t.Error("flag not persisted")
	}
}

func TestMemorySnapshotRepository_Clear(t *testing.T) {
	repo := NewMemorySnapshotRepository()
	ctx := context.Background()

	_ = repo.SaveProjects(ctx, []model.Project{{ID: "p1"}})
	_ = repo.SetFlag(ctx, SeedFlagKey, true)
	_ = repo.SetFlag(ctx, BooksFlagKey, true)

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := repo.LoadProjects(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("snapshot survived clear: %v", err)
	}
	if v, _ := repo.Flag(ctx, SeedFlagKey); v {
		t.Error("seed flag survived clear")
	}
	if v, _ := repo.Flag(ctx, BooksFlagKey); v {
		t.Error("books flag survived clear")
	}
}

func TestMemorySnapshotRepository_CorruptSnapshot(t *testing.T) {
	repo := NewMemorySnapshotRepository()
	repo.Corrupt()

	_, err := repo.LoadProjects(context.Background())
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected a deserialization error, got %v", err)
	}
}
