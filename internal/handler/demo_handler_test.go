package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hubpal/backend/internal/repository"
	"github.com/hubpal/backend/internal/service"
	"github.com/hubpal/backend/internal/store"
)

func newDemoFixture(t *testing.T) (*store.ProjectStore, *DemoHandler) {
	t.Helper()
	snapshots := repository.NewMemorySnapshotRepository()
	st := store.New(context.Background(), snapshots)
	return st, NewDemoHandler(service.NewSeedService(st, snapshots))
}

func TestDemoHandler_Seed(t *testing.T) {
	st, h := newDemoFixture(t)

	mux := http.NewServeMux()
	mux.Handle("POST /api/demo/seed", http.HandlerFunc(h.Seed))

	req := httptest.NewRequest("POST", "/api/demo/seed", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if st.Count() != 3 {
		t.Errorf("expected 3 seeded projects, got %d", st.Count())
	}
}

func TestDemoHandler_Seed_Idempotent(t *testing.T) {
	st, h := newDemoFixture(t)

	mux := http.NewServeMux()
	mux.Handle("POST /api/demo/seed", http.HandlerFunc(h.Seed))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/demo/seed", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("call %d: expected 200, got %d", i, rec.Code)
		}
	}

	if st.Count() != 3 {
		t.Errorf("repeated seeding should not duplicate, got %d projects", st.Count())
	}
}

func TestDemoHandler_Reset(t *testing.T) {
	st, h := newDemoFixture(t)
	seedProject(t, st)

	mux := http.NewServeMux()
	mux.Handle("POST /api/demo/reset", http.HandlerFunc(h.Reset))

	req := httptest.NewRequest("POST", "/api/demo/reset", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if st.Count() != 3 {
		t.Errorf("expected fresh demo catalog, got %d projects", st.Count())
	}
	if _, err := st.GetByID("p1"); err == nil {
		t.Error("pre-existing project should be gone after reset")
	}
}
