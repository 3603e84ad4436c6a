package domain

// Policy is a single-step candidate: one action of one control factor plus
// its computed expected free energy. Lower EFE is preferred.
type Policy struct {
	Factor string  `json:"factor"`
	Action string  `json:"action"`
	EFE    float64 `json:"efe"`
}

// Selection is the outcome of single-step action selection: one chosen
// policy per control factor, and the minimum EFE over the full candidate
// set reported as the tick's free energy.
type Selection struct {
	Actions    []Policy `json:"actions"`
	FreeEnergy float64  `json:"free_energy"`
}

// PolicyAction is one planned step in a multi-step policy.
type PolicyAction struct {
	ToolName        string `json:"tool_name"`
	Rationale       string `json:"rationale"`
	ExpectedOutcome string `json:"expected_outcome"`
}

// ActionPolicy is a multi-step candidate produced by the lookahead planner:
// an ordered action sequence with its cumulative EFE and derived confidence
// in [0,1].
type ActionPolicy struct {
	Name          string         `json:"name"`
	Actions       []PolicyAction `json:"actions"`
	CumulativeEFE float64        `json:"cumulative_efe"`
	Confidence    float64        `json:"confidence"`
}

// PlanRequest is the lookahead planner's input.
type PlanRequest struct {
	Task    string         `json:"task"`
	Context map[string]any `json:"context"`
	Goal    string         `json:"goal"`
}

// PolicyResult is the planner's output: the selected policy, the full
// candidate list including the losers, and a human-readable trace. The
// trace is informational only and never parsed by callers.
type PolicyResult struct {
	BestPolicy    ActionPolicy   `json:"best_policy"`
	Candidates    []ActionPolicy `json:"candidates"`
	PlanningTrace string         `json:"planning_trace"`
}
