package model

import "time"

// MilestoneStatus is the lifecycle state of a milestone. Transitions only
// ever move forward: pending -> completed -> verified.
type MilestoneStatus string

const (
	StatusPending   MilestoneStatus = "pending"
	StatusCompleted MilestoneStatus = "completed"
	StatusVerified  MilestoneStatus = "verified"
)

var statusRank = map[MilestoneStatus]int{
	StatusPending:   0,
	StatusCompleted: 1,
	StatusVerified:  2,
}

// Valid reports whether s is a known milestone status.
func (s MilestoneStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Rank returns the position of s in the forward lifecycle (-1 if unknown).
func (s MilestoneStatus) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return -1
}

// CanStepTo reports whether next is the single legal forward step from s.
func (s MilestoneStatus) CanStepTo(next MilestoneStatus) bool {
	return s.Valid() && next.Valid() && next.Rank() == s.Rank()+1
}

// Released reports whether a milestone in this status counts toward
// a project's FundsRaised.
func (s MilestoneStatus) Released() bool {
	return s == StatusCompleted || s == StatusVerified
}

// Activity actors.
const (
	ActorUser   = "user"
	ActorSystem = "system"
)

// Milestone is a funded sub-deliverable of a project. ENSName and MirrorURL
// are derived once at creation and never change afterwards.
type Milestone struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Amount      int             `json:"amount"`
	Status      MilestoneStatus `json:"status"`
	ENSName     string          `json:"ens_name"`
	MirrorURL   string          `json:"mirror_url"`
	ArtifactRef string          `json:"artifact_ref,omitempty"`
	Meta        *MilestoneMeta  `json:"meta,omitempty"`
}

// MilestoneMeta holds annotations written by demo collaborators. The set of
// recognized fields is closed on purpose; the store persists them without
// interpreting them.
type MilestoneMeta struct {
	SignedOff        bool   `json:"signed_off,omitempty"`
	SignOffEventID   string `json:"sign_off_event_id,omitempty"`
	PaidInstallments int    `json:"paid_installments,omitempty"`
}

// ActivityEntry is an immutable audit record on a project's activity log.
type ActivityEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"` // "user" or "system"
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}

// Project is a crowdfunded project broken into milestones. FundsRaised is a
// cache of the completed/verified milestone amount sum; the store recomputes
// it after every mutation. Activity is ordered newest-first.
type Project struct {
	ID          string          `json:"id"`
	Slug        string          `json:"slug"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	TotalBudget int             `json:"total_budget"`
	Milestones  []Milestone     `json:"milestones"`
	FundsRaised int             `json:"funds_raised"`
	LastUpdated time.Time       `json:"last_updated"`
	Activity    []ActivityEntry `json:"activity"`
}

// ProjectPatch holds the fields that can be updated on an existing project.
// Budget and milestones are fixed at creation.
type ProjectPatch struct {
	Name        *string
	Description *string
}

// Clone returns a deep copy of the project so callers never observe
// store-internal mutation.
func (p Project) Clone() Project {
	out := p
	if p.Milestones != nil {
		out.Milestones = make([]Milestone, len(p.Milestones))
		for i, m := range p.Milestones {
			out.Milestones[i] = m
			if m.Meta != nil {
				meta := *m.Meta
				out.Milestones[i].Meta = &meta
			}
		}
	}
	if p.Activity != nil {
		out.Activity = make([]ActivityEntry, len(p.Activity))
		copy(out.Activity, p.Activity)
	}
	return out
}
