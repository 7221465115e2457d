package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hubpal/backend/internal/model"
	"github.com/hubpal/backend/internal/repository"
	"github.com/hubpal/backend/internal/service"
	"github.com/hubpal/backend/internal/slug"
	"github.com/hubpal/backend/internal/store"
)

// ProjectHandler serves project browsing, creation and mutation.
type ProjectHandler struct {
	store *store.ProjectStore
	query service.QueryService
}

// NewProjectHandler creates a ProjectHandler.
func NewProjectHandler(st *store.ProjectStore, query service.QueryService) *ProjectHandler {
	return &ProjectHandler{store: st, query: query}
}

// List handles GET /api/projects with optional ?q= and ?filter= params.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	filter := service.ParseFilter(r.URL.Query().Get("filter"))

	projects := h.query.Browse(q, filter)
	if projects == nil {
		projects = []model.Project{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]model.Project{"projects": projects})
}

// Create handles POST /api/projects. Budget versus milestone-sum validation
// lives here, at the form boundary; the store accepts whatever passes it.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		TotalBudget int    `json:"total_budget"`
		Milestones  []struct {
			Title  string `json:"title"`
			Amount int    `json:"amount"`
		} `json:"milestones"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	if req.Name == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "name_required"})
		return
	}
	if req.TotalBudget <= 0 {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "budget_required"})
		return
	}
	if len(req.Milestones) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "milestones_required"})
		return
	}
	sum := 0
	for _, m := range req.Milestones {
		if m.Title == "" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "milestone_title_required"})
			return
		}
		if m.Amount < 0 {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "milestone_amount_negative"})
			return
		}
		sum += m.Amount
	}
	if sum != req.TotalBudget {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error": fmt.Sprintf("milestone amounts must sum to total budget (currently %d)", sum),
		})
		return
	}

	projectSlug := slug.Slugify(req.Name)
	milestones := make([]model.Milestone, len(req.Milestones))
	for i, m := range req.Milestones {
		mSlug := slug.Slugify(m.Title)
		milestones[i] = model.Milestone{
			ID:        fmt.Sprintf("%s-milestone-%d", projectSlug, i+1),
			Title:     m.Title,
			Amount:    m.Amount,
			Status:    model.StatusPending,
			ENSName:   slug.ENSName(projectSlug, mSlug),
			MirrorURL: slug.MirrorPath(projectSlug, mSlug),
		}
	}

	now := time.Now()
	project := model.Project{
		ID:          uuid.NewString(),
		Slug:        projectSlug,
		Name:        req.Name,
		Description: req.Description,
		TotalBudget: req.TotalBudget,
		Milestones:  milestones,
		LastUpdated: now,
		Activity: []model.ActivityEntry{{
			Timestamp: now,
			Actor:     model.ActorUser,
			Action:    "Project created",
			Details:   fmt.Sprintf("%q listed with %d milestones", req.Name, len(milestones)),
		}},
	}

	if err := h.store.Create(r.Context(), project); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrDuplicateID) {
			status = http.StatusConflict
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "create_failed"})
		return
	}

	created, err := h.store.GetByID(project.ID)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal_error"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

// Get handles GET /api/projects/{slug}. Slugs are not unique; the first
// match wins.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.store.GetBySlug(r.PathValue("slug"))
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(project)
}

// Update handles PATCH /api/projects/{id}.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}
	if req.Name != nil && *req.Name == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "name_required"})
		return
	}

	id := r.PathValue("id")
	err := h.store.Update(r.Context(), id, model.ProjectPatch{Name: req.Name, Description: req.Description})
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal_error"})
		return
	}

	project, _ := h.store.GetByID(id)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(project)
}

// Activity handles GET /api/projects/{id}/activity?limit=.
func (h *ProjectHandler) Activity(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.query.ActivityFeed(r.PathValue("id"), limit)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		return
	}
	if entries == nil {
		entries = []model.ActivityEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]model.ActivityEntry{"activity": entries})
}

// RecordActivity handles POST /api/projects/{id}/activity. External demo
// collaborators use it to narrate side effects; the actor defaults to
// "system".
func (h *ProjectHandler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Actor   string `json:"actor"`
		Action  string `json:"action"`
		Details string `json:"details"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}
	if req.Details == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "details_required"})
		return
	}
	if req.Actor == "" {
		req.Actor = model.ActorSystem
	}
	if req.Action == "" {
		req.Action = "External Event"
	}

	err := h.store.RecordActivity(r.Context(), r.PathValue("id"), req.Actor, req.Action, req.Details)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal_error"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "recorded"})
}
