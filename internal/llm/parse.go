package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bionicbutterfly13/praxis/internal/domain"
)

// stripFences removes markdown code fences some models wrap around JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// parsePolicies validates the proposer's raw output against the candidate
// contract: a non-empty array of named policies, each with at least one
// action carrying a tool name. A violation is an error; the planner treats
// it as a proposer failure and substitutes its fallback.
func parsePolicies(raw string) ([]domain.ProposedPolicy, error) {
	raw = stripFences(raw)

	var proposed []domain.ProposedPolicy
	if err := json.Unmarshal([]byte(raw), &proposed); err != nil {
		return nil, fmt.Errorf("parse proposed policies: %w (raw: %s)", err, raw)
	}
	if len(proposed) == 0 {
		return nil, fmt.Errorf("proposer returned no candidates")
	}

	for i, p := range proposed {
		if p.Name == "" {
			return nil, fmt.Errorf("candidate %d has no name", i)
		}
		if len(p.Actions) == 0 {
			return nil, fmt.Errorf("candidate %q has no actions", p.Name)
		}
		for j, a := range p.Actions {
			if a.ToolName == "" {
				return nil, fmt.Errorf("candidate %q action %d has no tool name", p.Name, j)
			}
		}
	}

	return proposed, nil
}

// parseStepScores validates the scorer's raw output: an array of score
// pairs, one per planned action, in action order. Out-of-range values are
// clamped to [0,1]; a short or malformed list is an error scoped to the
// candidate being scored.
func parseStepScores(raw string, actionCount int) ([]domain.StepScore, error) {
	raw = stripFences(raw)

	var scores []domain.StepScore
	if err := json.Unmarshal([]byte(raw), &scores); err != nil {
		return nil, fmt.Errorf("parse step scores: %w (raw: %s)", err, raw)
	}
	if len(scores) < actionCount {
		return nil, fmt.Errorf("got %d step scores, want %d", len(scores), actionCount)
	}

	for i := range scores {
		scores[i].Uncertainty = clamp01(scores[i].Uncertainty)
		scores[i].Divergence = clamp01(scores[i].Divergence)
	}

	return scores, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func formatContext(contextData map[string]any) string {
	if len(contextData) == 0 {
		return "(none)"
	}
	b, err := json.Marshal(contextData)
	if err != nil {
		return "(unserializable)"
	}
	return string(b)
}

func formatActions(actions []domain.PolicyAction) string {
	var sb strings.Builder
	for i, a := range actions {
		sb.WriteString(fmt.Sprintf("%d. tool=%s rationale=%s expected=%s\n", i+1, a.ToolName, a.Rationale, a.ExpectedOutcome))
	}
	return sb.String()
}
