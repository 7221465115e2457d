package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hubpal/backend/internal/model"
	"github.com/hubpal/backend/internal/repository"
)

// SignOffService simulates the accounting sign-off sponsor demo: a
// bookkeeper approves a milestone, which stamps the milestone metadata with
// an event ID and promotes pending work to completed.
type SignOffService struct {
	store MutationStore
}

// NewSignOffService builds the books demo collaborator.
func NewSignOffService(store MutationStore) *SignOffService {
	return &SignOffService{store: store}
}

// SignOff records a books sign-off for the milestone. Signing off a pending
// milestone also marks it completed. Repeat calls are idempotent and return
// the original event ID.
func (s *SignOffService) SignOff(ctx context.Context, projectID, milestoneID string) (string, error) {
	p, err := s.store.GetByID(projectID)
	if err != nil {
		return "", err
	}
	var target *model.Milestone
	for i := range p.Milestones {
		if p.Milestones[i].ID == milestoneID {
			target = &p.Milestones[i]
			break
		}
	}
	if target == nil {
		return "", fmt.Errorf("milestone %s: %w", milestoneID, repository.ErrNotFound)
	}

	if target.Meta != nil && target.Meta.SignedOff {
		return target.Meta.SignOffEventID, nil
	}

	eventID := newSignOffEventID()
	meta := &model.MilestoneMeta{SignedOff: true, SignOffEventID: eventID}

	status := target.Status
	if status == model.StatusPending {
		status = model.StatusCompleted
	}
	if err := s.store.SetMilestoneStatus(ctx, projectID, milestoneID, status, meta); err != nil {
		return "", err
	}
	_ = s.store.RecordActivity(ctx, projectID, model.ActorUser, "Books Sign-Off",
		fmt.Sprintf("Sign-Off recorded for %q (%s)", target.Title, eventID))
	return eventID, nil
}

// newSignOffEventID mints a short human-pasteable reference like "QB-1A2B3C".
func newSignOffEventID() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "QB-" + raw[:6]
}
