package llm

import (
	"context"

	"github.com/bionicbutterfly13/praxis/internal/domain"
)

// MockClient is a configurable planner client for testing and local runs.
// Set the response fields to control what each method returns; per-policy
// overrides take precedence over the shared defaults.
type MockClient struct {
	ProposeResponse []domain.ProposedPolicy
	ProposeError    error

	ScoreResponse         []domain.StepScore
	ScoreError            error
	ScoreResponseByPolicy map[string][]domain.StepScore
	ScoreErrorByPolicy    map[string]error

	// Call tracking for assertions
	ProposeCalls []domain.PlanRequest
	ScoreCalls   []string
}

func NewMockClient() *MockClient {
	return &MockClient{
		ProposeResponse: []domain.ProposedPolicy{{
			Name: "mock_policy",
			Actions: []domain.PolicyAction{{
				ToolName:        "execute_task",
				Rationale:       "mock rationale",
				ExpectedOutcome: "mock outcome",
			}},
		}},
		ScoreResponse: []domain.StepScore{{Uncertainty: 0.2, Divergence: 0.2}},
	}
}

func (c *MockClient) Propose(ctx context.Context, req domain.PlanRequest) ([]domain.ProposedPolicy, error) {
	c.ProposeCalls = append(c.ProposeCalls, req)
	if c.ProposeError != nil {
		return nil, c.ProposeError
	}
	return c.ProposeResponse, nil
}

func (c *MockClient) Score(ctx context.Context, policy domain.ActionPolicy, req domain.PlanRequest) ([]domain.StepScore, error) {
	c.ScoreCalls = append(c.ScoreCalls, policy.Name)
	if err, ok := c.ScoreErrorByPolicy[policy.Name]; ok {
		return nil, err
	}
	if scores, ok := c.ScoreResponseByPolicy[policy.Name]; ok {
		return scores, nil
	}
	if c.ScoreError != nil {
		return nil, c.ScoreError
	}

	// Pad the shared default out to one score per action.
	scores := make([]domain.StepScore, 0, len(policy.Actions))
	for i := range policy.Actions {
		if i < len(c.ScoreResponse) {
			scores = append(scores, c.ScoreResponse[i])
		} else if len(c.ScoreResponse) > 0 {
			scores = append(scores, c.ScoreResponse[len(c.ScoreResponse)-1])
		} else {
			scores = append(scores, domain.StepScore{Uncertainty: 0.2, Divergence: 0.2})
		}
	}
	return scores, nil
}

// Reset clears recorded calls and restores default responses.
func (c *MockClient) Reset() {
	fresh := NewMockClient()
	*c = *fresh
}
