package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/hubpal/backend/internal/model"
	"github.com/hubpal/backend/internal/repository"
)

// MutationStore is the slice of the store the demo collaborators mutate
// through. They only ever call public operations and narrate side effects
// via RecordActivity.
type MutationStore interface {
	GetByID(id string) (model.Project, error)
	SetMilestoneStatus(ctx context.Context, projectID, milestoneID string, status model.MilestoneStatus, meta *model.MilestoneMeta) error
	AdvanceMilestone(ctx context.Context, projectID, milestoneID string, target model.MilestoneStatus) error
	RecordActivity(ctx context.Context, projectID, actor, action, details string) error
}

// VerifyService simulates the oracle verification sponsor demo. Verification
// is a single atomic store operation; the presentation layer's old
// delayed-second-call trick is gone on purpose.
type VerifyService struct {
	store MutationStore
	rng   *rand.Rand
}

// NewVerifyService builds the oracle demo collaborator.
func NewVerifyService(store MutationStore) *VerifyService {
	return &VerifyService{store: store, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Verify advances the milestone to verified, chaining through completed when
// needed, and records the simulated oracle round-trip. Returns the pseudo
// transaction hash shown in the demo panel.
func (s *VerifyService) Verify(ctx context.Context, projectID, milestoneID string) (string, error) {
	m, err := s.milestone(projectID, milestoneID)
	if err != nil {
		return "", err
	}

	if err := s.store.AdvanceMilestone(ctx, projectID, milestoneID, model.StatusVerified); err != nil {
		return "", err
	}

	txHash := s.pseudoTxHash()
	_ = s.store.RecordActivity(ctx, projectID, model.ActorSystem, "Functions Verification",
		fmt.Sprintf("Verified %q via oracle request %s", m.Title, txHash))
	return txHash, nil
}

// RelayMessage records a cross-chain verification narration without touching
// milestone state.
func (s *VerifyService) RelayMessage(ctx context.Context, projectID, milestoneID, fromChain, toChain string) (string, error) {
	m, err := s.milestone(projectID, milestoneID)
	if err != nil {
		return "", err
	}

	txHash := s.pseudoTxHash()
	err = s.store.RecordActivity(ctx, projectID, model.ActorSystem, "Cross-Chain Relay",
		fmt.Sprintf("%s -> %s MILESTONE_VERIFIED for %q (%s)", fromChain, toChain, m.Title, txHash))
	if err != nil {
		return "", err
	}
	return txHash, nil
}

func (s *VerifyService) milestone(projectID, milestoneID string) (model.Milestone, error) {
	p, err := s.store.GetByID(projectID)
	if err != nil {
		return model.Milestone{}, err
	}
	for _, m := range p.Milestones {
		if m.ID == milestoneID {
			return m, nil
		}
	}
	return model.Milestone{}, fmt.Errorf("milestone %s: %w", milestoneID, repository.ErrNotFound)
}

// pseudoTxHash fabricates an EVM-looking transaction hash for demo
// narrations. Not cryptographic.
func (s *VerifyService) pseudoTxHash() string {
	const hexDigits = "0123456789abcdef"
	b := make([]byte, 66)
	b[0], b[1] = '0', 'x'
	for i := 2; i < len(b); i++ {
		b[i] = hexDigits[s.rng.Intn(16)]
	}
	return string(b)
}
