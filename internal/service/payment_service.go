package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hubpal/backend/internal/model"
	"github.com/hubpal/backend/internal/repository"
)

// ErrAlreadySettled is returned when a payment is attempted against a
// milestone that is no longer pending.
var ErrAlreadySettled = errors.New("milestone already settled")

// installmentCount splits a milestone payout into equal demo installments.
const installmentCount = 4

// PaymentService simulates the stablecoin sponsor demo: milestone payouts in
// installments or in full. No real settlement happens; the store recomputes
// FundsRaised from milestone statuses, so payments can never desync the
// funds cache.
type PaymentService struct {
	store MutationStore
}

// NewPaymentService builds the stablecoin demo collaborator.
func NewPaymentService(store MutationStore) *PaymentService {
	return &PaymentService{store: store}
}

// PaymentResult reports the state of a milestone payout after a payment.
type PaymentResult struct {
	PaidInstallments  int  `json:"paid_installments"`
	TotalInstallments int  `json:"total_installments"`
	Amount            int  `json:"amount"`
	Completed         bool `json:"completed"`
}

// PayInstallment pays one quarter of the milestone amount. The installment
// counter persists in milestone metadata; when the last installment lands
// the milestone completes and the funds release is narrated.
func (s *PaymentService) PayInstallment(ctx context.Context, projectID, milestoneID string) (*PaymentResult, error) {
	m, err := s.milestone(projectID, milestoneID)
	if err != nil {
		return nil, err
	}
	if m.Status != model.StatusPending {
		return nil, fmt.Errorf("%w: %s is %s", ErrAlreadySettled, m.Title, m.Status)
	}

	paid := 1
	if m.Meta != nil {
		paid = m.Meta.PaidInstallments + 1
	}
	meta := &model.MilestoneMeta{PaidInstallments: paid}
	installment := m.Amount / installmentCount

	if paid < installmentCount {
		if err := s.store.SetMilestoneStatus(ctx, projectID, milestoneID, model.StatusPending, meta); err != nil {
			return nil, err
		}
		_ = s.store.RecordActivity(ctx, projectID, model.ActorSystem, "Stablecoin Payment",
			fmt.Sprintf("PYUSD installment paid (%d/%d) for %q", paid, installmentCount, m.Title))
		return &PaymentResult{PaidInstallments: paid, TotalInstallments: installmentCount, Amount: installment}, nil
	}

	// Final installment: complete the milestone and release funds.
	if err := s.store.SetMilestoneStatus(ctx, projectID, milestoneID, model.StatusCompleted, meta); err != nil {
		return nil, err
	}
	_ = s.store.RecordActivity(ctx, projectID, model.ActorSystem, "Stablecoin Payment",
		fmt.Sprintf("PYUSD installment paid (%d/%d) for %q", paid, installmentCount, m.Title))
	_ = s.store.RecordActivity(ctx, projectID, model.ActorSystem, "Funds Release",
		fmt.Sprintf("Release funds to %s", m.ENSName))
	return &PaymentResult{PaidInstallments: paid, TotalInstallments: installmentCount, Amount: installment, Completed: true}, nil
}

// PayFull settles the whole milestone amount at once.
func (s *PaymentService) PayFull(ctx context.Context, projectID, milestoneID string) (*PaymentResult, error) {
	m, err := s.milestone(projectID, milestoneID)
	if err != nil {
		return nil, err
	}
	if m.Status != model.StatusPending {
		return nil, fmt.Errorf("%w: %s is %s", ErrAlreadySettled, m.Title, m.Status)
	}

	meta := &model.MilestoneMeta{PaidInstallments: installmentCount}
	if err := s.store.SetMilestoneStatus(ctx, projectID, milestoneID, model.StatusCompleted, meta); err != nil {
		return nil, err
	}
	_ = s.store.RecordActivity(ctx, projectID, model.ActorSystem, "Stablecoin Payment",
		fmt.Sprintf("PYUSD full payment received for %q", m.Title))
	_ = s.store.RecordActivity(ctx, projectID, model.ActorSystem, "Funds Release",
		fmt.Sprintf("Release funds to %s", m.ENSName))
	return &PaymentResult{PaidInstallments: installmentCount, TotalInstallments: installmentCount, Amount: m.Amount, Completed: true}, nil
}

func (s *PaymentService) milestone(projectID, milestoneID string) (model.Milestone, error) {
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
