package llm

import (
	"testing"
)

func TestParsePolicies(t *testing.T) {
	raw := `[{"name":"research_then_draft","actions":[{"tool_name":"search_docs","rationale":"gather context","expected_outcome":"passages found"},{"tool_name":"draft_answer","rationale":"synthesize","expected_outcome":"answer drafted"}]}]`

	proposed, err := parsePolicies(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(proposed) != 1 {
		t.Fatalf("got %d policies, want 1", len(proposed))
	}
	if proposed[0].Name != "research_then_draft" || len(proposed[0].Actions) != 2 {
		t.Errorf("unexpected policy: %+v", proposed[0])
	}
}

func TestParsePolicies_StripsMarkdownFences(t *testing.T) {
	raw := "```json\n[{\"name\":\"p\",\"actions\":[{\"tool_name\":\"execute_task\"}]}]\n```"

	proposed, err := parsePolicies(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proposed[0].Name != "p" {
		t.Errorf("unexpected policy name %q", proposed[0].Name)
	}
}

func TestParsePolicies_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "I think you should just execute the task."},
		{name: "empty array", raw: "[]"},
		{name: "nameless policy", raw: `[{"actions":[{"tool_name":"x"}]}]`},
		{name: "actionless policy", raw: `[{"name":"p","actions":[]}]`},
		{name: "missing tool name", raw: `[{"name":"p","actions":[{"rationale":"r"}]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parsePolicies(tt.raw); err == nil {
				t.Error("expected parse error, got nil")
			}
		})
	}
}

func TestParseStepScores(t *testing.T) {
	raw := `[{"uncertainty":0.2,"divergence":0.3},{"uncertainty":0.1,"divergence":0.4}]`

	scores, err := parseStepScores(raw, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("got %d scores, want 2", len(scores))
	}
	if scores[0].Uncertainty != 0.2 || scores[1].Divergence != 0.4 {
		t.Errorf("unexpected scores: %+v", scores)
	}
}

func TestParseStepScores_ClampsOutOfRange(t *testing.T) {
	raw := `[{"uncertainty":-0.5,"divergence":1.8}]`

	scores, err := parseStepScores(raw, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scores[0].Uncertainty != 0 || scores[0].Divergence != 1 {
		t.Errorf("scores should be clamped to [0,1]: %+v", scores[0])
	}
}

func TestParseStepScores_TooFewScores(t *testing.T) {
	raw := `[{"uncertainty":0.2,"divergence":0.3}]`

	if _, err := parseStepScores(raw, 2); err == nil {
		t.Error("expected error for short score list, got nil")
	}
}

func TestParseStepScores_Malformed(t *testing.T) {
	if _, err := parseStepScores("the plan looks fine to me", 1); err == nil {
		t.Error("expected parse error, got nil")
	}
}
