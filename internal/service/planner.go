package service

import (
	"context"
	"fmt"

	"github.com/bionicbutterfly13/praxis/internal/domain"
	"go.uber.org/zap"
)

const (
	// FallbackPolicyName identifies the synthetic single-action policy
	// substituted when the proposer fails or returns nothing usable.
	FallbackPolicyName = "direct_execution"

	// DefaultStepEFE is charged per action when a candidate's step scores
	// are unavailable or malformed.
	DefaultStepEFE = 1.0

	// DefaultConfidence is assigned to a candidate whose scoring failed.
	DefaultConfidence = 0.5
)

// LookaheadPlanner proposes, scores and selects multi-step action policies.
// Each planning request moves through generate, evaluate and select stages
// with no retries; collaborator failures degrade to deterministic defaults
// instead of failing the request.
type LookaheadPlanner struct {
	proposer domain.Proposer
	scorer   domain.StepScorer
	logger   *zap.Logger
}

func NewLookaheadPlanner(proposer domain.Proposer, scorer domain.StepScorer, logger *zap.Logger) *LookaheadPlanner {
	return &LookaheadPlanner{proposer: proposer, scorer: scorer, logger: logger}
}

// Plan runs one full planning request and returns the selected policy, the
// complete candidate list and a human-readable trace.
func (p *LookaheadPlanner) Plan(ctx context.Context, req domain.PlanRequest) (*domain.PolicyResult, error) {
	candidates := p.generateCandidates(ctx, req)
	p.evaluateCandidates(ctx, req, candidates)

	best, err := selectMinimum(candidates)
	if err != nil {
		return nil, err
	}

	trace := fmt.Sprintf("selected policy %q (cumulative EFE %.3f, confidence %.2f) from %d candidate(s)",
		best.Name, best.CumulativeEFE, best.Confidence, len(candidates))

	p.logger.Debug("planning complete",
		zap.String("task", req.Task),
		zap.String("best_policy", best.Name),
		zap.Float64("cumulative_efe", best.CumulativeEFE),
		zap.Int("candidates", len(candidates)))

	return &domain.PolicyResult{
		BestPolicy:    *best,
		Candidates:    candidates,
		PlanningTrace: trace,
	}, nil
}

// generateCandidates obtains candidate policies from the proposer. Proposer
// failure, malformed output or an empty list is not an error: exactly one
// synthetic fallback policy is substituted instead.
func (p *LookaheadPlanner) generateCandidates(ctx context.Context, req domain.PlanRequest) []domain.ActionPolicy {
	proposed, err := p.proposer.Propose(ctx, req)
	if err != nil {
		p.logger.Warn("proposer failed, substituting fallback policy",
			zap.String("task", req.Task), zap.Error(err))
		return []domain.ActionPolicy{fallbackPolicy(req)}
	}

	candidates := make([]domain.ActionPolicy, 0, len(proposed))
	for _, pp := range proposed {
		if pp.Name == "" || len(pp.Actions) == 0 {
			continue
		}
		candidates = append(candidates, domain.ActionPolicy{Name: pp.Name, Actions: pp.Actions})
	}

	if len(candidates) == 0 {
		p.logger.Warn("proposer returned no usable candidates, substituting fallback policy",
			zap.String("task", req.Task))
		return []domain.ActionPolicy{fallbackPolicy(req)}
	}

	return candidates
}

// evaluateCandidates fills in cumulative EFE and confidence for every
// candidate. A scorer failure is local to one candidate: it receives the
// default EFE of one per action and the default confidence, and evaluation
// of its siblings continues.
func (p *LookaheadPlanner) evaluateCandidates(ctx context.Context, req domain.PlanRequest, candidates []domain.ActionPolicy) {
	for i := range candidates {
		scores, err := p.scorer.Score(ctx, candidates[i], req)
		if err != nil || len(scores) < len(candidates[i].Actions) {
			if err != nil {
				p.logger.Warn("step scorer failed, using default EFE",
					zap.String("policy", candidates[i].Name), zap.Error(err))
			} else {
				p.logger.Warn("step scorer returned too few scores, using default EFE",
					zap.String("policy", candidates[i].Name),
					zap.Int("scores", len(scores)),
					zap.Int("actions", len(candidates[i].Actions)))
			}
			candidates[i].CumulativeEFE = float64(len(candidates[i].Actions)) * DefaultStepEFE
			candidates[i].Confidence = DefaultConfidence
			continue
		}

		efe := 0.0
		for j := range candidates[i].Actions {
			efe += scores[j].Uncertainty + scores[j].Divergence
		}
		candidates[i].CumulativeEFE = efe
		candidates[i].Confidence = confidence(efe, len(candidates[i].Actions))
	}
}

// selectMinimum picks the candidate with the strictly minimum cumulative
// EFE; ties resolve to the first candidate in generation order.
func selectMinimum(candidates []domain.ActionPolicy) (*domain.ActionPolicy, error) {
	if len(candidates) == 0 {
		return nil, domain.ErrNoViableCandidates
	}

	best := 0
	for i := range candidates {
		if candidates[i].CumulativeEFE < candidates[best].CumulativeEFE {
			best = i
		}
	}
	return &candidates[best], nil
}

// confidence maps cumulative EFE to [0,1]: 1 - EFE/(2n), floored at zero.
// A zero-action policy is treated as one action to avoid dividing by zero.
func confidence(cumulativeEFE float64, actionCount int) float64 {
	if actionCount < 1 {
		actionCount = 1
	}
	c := 1.0 - cumulativeEFE/(2.0*float64(actionCount))
	if c < 0 {
		return 0
	}
	return c
}

func fallbackPolicy(req domain.PlanRequest) domain.ActionPolicy {
	return domain.ActionPolicy{
		Name: FallbackPolicyName,
		Actions: []domain.PolicyAction{{
			ToolName:        "execute_task",
			Rationale:       "proposer unavailable, executing the task directly",
			ExpectedOutcome: fmt.Sprintf("task %q completed without lookahead", req.Task),
		}},
	}
}
