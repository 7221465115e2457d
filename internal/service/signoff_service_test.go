package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hubpal/backend/internal/model"
	"github.com/hubpal/backend/internal/repository"
)

func TestSignOffService_SignOffPendingMilestone(t *testing.T) {
	st := demoFixture(t)
	svc := NewSignOffService(st)

	eventID, err := svc.SignOff(context.Background(), "p1", "a")
	if err != nil {
		t.Fatalf("sign off: %v", err)
	}
	if !strings.HasPrefix(eventID, "QB-") || len(eventID) != 9 {
		t.Errorf("malformed event id %q", eventID)
	}

	p, _ := st.GetByID("p1")
	m := p.Milestones[0]
	if m.Status != model.StatusCompleted {
		t.Errorf("pending milestone should complete on sign-off, got %s", m.Status)
	}
	if m.Meta == nil || !m.Meta.SignedOff || m.Meta.SignOffEventID != eventID {
		t.Errorf("meta not stamped: %+v", m.Meta)
	}
	if p.FundsRaised != 1000 {
		t.Errorf("FundsRaised = %d, want 1000", p.FundsRaised)
	}
	// Transition entry plus the sign-off narration.
	if len(p.Activity) != 2 || p.Activity[0].Action != "Books Sign-Off" {
		t.Errorf("unexpected activity: %+v", p.Activity)
	}
}

func TestSignOffService_SignOffCompletedMilestoneKeepsStatus(t *testing.T) {
	st := demoFixture(t)
	svc := NewSignOffService(st)

	if _, err := svc.SignOff(context.Background(), "p1", "b"); err != nil {
		t.Fatalf("sign off: %v", err)
	}
	p, _ := st.GetByID("p1")
	if p.Milestones[1].Status != model.StatusCompleted {
		t.Errorf("status changed on sign-off of completed milestone: %s", p.Milestones[1].Status)
	}
}

func TestSignOffService_Idempotent(t *testing.T) {
	st := demoFixture(t)
	svc := NewSignOffService(st)
	ctx := context.Background()

	first, err := svc.SignOff(ctx, "p1", "a")
	if err != nil {
		t.Fatalf("first sign off: %v", err)
	}
	second, err := svc.SignOff(ctx, "p1", "a")
	if err != nil {
		t.Fatalf("second sign off: %v", err)
	}
	if first != second {
		t.Errorf("repeat sign-off minted a new event id: %q vs %q", first, second)
	}

	p, _ := st.GetByID("p1")
	count := 0
	for _, e := range p.Activity {
		if e.Action == "Books Sign-Off" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("repeat sign-off narrated %d times", count)
	}
}

func TestSignOffService_NotFound(t *testing.T) {
	svc := NewSignOffService(demoFixture(t))

	if _, err := svc.SignOff(context.Background(), "p1", "nope"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
