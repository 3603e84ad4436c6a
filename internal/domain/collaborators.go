package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProposedPolicy is the Proposer's raw output for one candidate, before the
// planner computes its EFE and confidence.
type ProposedPolicy struct {
	Name    string         `json:"name"`
	Actions []PolicyAction `json:"actions"`
}

// StepScore is the StepScorer's judgment of one planned action. Both values
// are in [0,1]; their sum is the action's contribution to cumulative EFE.
type StepScore struct {
	Uncertainty float64 `json:"uncertainty"`
	Divergence  float64 `json:"divergence"`
}

// Proposer generates candidate multi-step policies for a planning request.
// Implementations must return well-formed candidates or an error; the
// planner treats any error as non-fatal and substitutes a fallback.
type Proposer interface {
	Propose(ctx context.Context, req PlanRequest) ([]ProposedPolicy, error)
}

// StepScorer scores a candidate policy one action at a time, in action
// order. A failure is local to the candidate being scored.
type StepScorer interface {
	Score(ctx context.Context, policy ActionPolicy, req PlanRequest) ([]StepScore, error)
}

// PlannerClient bundles the two planner collaborators; LLM providers
// implement both.
type PlannerClient interface {
	Proposer
	StepScorer
}

// EmbeddingClient produces vector embeddings for journal similarity recall.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// PlanRecord is a journaled planning outcome.
type PlanRecord struct {
	ID            uuid.UUID    `json:"id"`
	Task          string       `json:"task"`
	Goal          string       `json:"goal"`
	BestPolicy    ActionPolicy `json:"best_policy"`
	CumulativeEFE float64      `json:"cumulative_efe"`
	Confidence    float64      `json:"confidence"`
	Trace         string       `json:"trace"`
	Embedding     []float32    `json:"-"`
	CreatedAt     time.Time    `json:"created_at"`
}

// PlanRecordWithScore is a plan record with its similarity score.
type PlanRecordWithScore struct {
	PlanRecord
	Score float32 `json:"score"`
}

// TickRecord is a journaled triadic tick outcome.
type TickRecord struct {
	ID             uuid.UUID `json:"id"`
	FreeEnergy     float64   `json:"free_energy"`
	Activation     float64   `json:"activation"`
	Classification string    `json:"classification"`
	Resonance      float64   `json:"resonance"`
	CreatedAt      time.Time `json:"created_at"`
}

// JournalStore persists decision outcomes. The decision core owns no
// durable state; the journal is a best-effort observer.
type JournalStore interface {
	InsertPlan(ctx context.Context, rec *PlanRecord) error
	RecentPlans(ctx context.Context, limit int) ([]PlanRecord, error)
	SimilarPlans(ctx context.Context, embedding []float32, limit int) ([]PlanRecordWithScore, error)
	InsertTick(ctx context.Context, rec *TickRecord) error
	RecentTicks(ctx context.Context, limit int) ([]TickRecord, error)
}
