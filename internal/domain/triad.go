package domain

// Role identifies one of the three triad agents.
type Role string

const (
	RoleDesigner Role = "designer"
	RoleArtifact Role = "artifact"
	RoleUser     Role = "user"
)

// TriadModels holds the three generative models advanced together by the
// triadic coordinator. Built once at startup and treated as read-only.
type TriadModels struct {
	Designer *GenerativeModel
	Artifact *GenerativeModel
	User     *GenerativeModel
}

// RoleTick is one role's output for a synchronized tick.
type RoleTick struct {
	Actions     []Policy    `json:"action"`
	FreeEnergy  float64     `json:"free_energy"`
	BeliefState [][]float64 `json:"belief_state"`
}

// TriadStepResult is the full outcome of one synchronized tick, including
// the presentation-level metrics derived from the artifact role.
type TriadStepResult struct {
	Designer RoleTick `json:"designer"`
	Artifact RoleTick `json:"artifact"`
	User     RoleTick `json:"user"`

	Activation     float64 `json:"activation"`
	Classification string  `json:"classification"`
	Resonance      float64 `json:"resonance"`
}

// DefaultTriadModels builds the three triad models with their placeholder
// tables: uniform likelihoods and identity transitions. The placeholders are
// deliberate uncalibrated defaults; richer dynamics are an explicit
// extension, not an assumed requirement.
func DefaultTriadModels() *TriadModels {
	return &TriadModels{
		Designer: triadModel(string(RoleDesigner),
			StateFactor{Name: "intent", Values: []string{"explore", "refine", "present"}},
			[]Modality{
				{Name: "user_signal", Values: []string{"negative", "neutral", "positive"}},
				{Name: "artifact_state", Values: []string{"rough", "forming", "polished"}},
			},
			ControlFactor{Factor: "intent", Actions: []string{"diverge", "converge", "hold"}},
		),
		Artifact: triadModel(string(RoleArtifact),
			StateFactor{Name: "coherence", Values: []string{"low", "medium", "high"}},
			[]Modality{
				{Name: "design_input", Values: []string{"conflicting", "partial", "aligned"}},
				{Name: "user_response", Values: []string{"rejecting", "ambivalent", "accepting"}},
			},
			ControlFactor{Factor: "coherence", Actions: []string{"simplify", "elaborate", "hold"}},
		),
		User: triadModel(string(RoleUser),
			StateFactor{Name: "engagement", Values: []string{"disengaged", "curious", "engaged"}},
			[]Modality{
				{Name: "artifact_signal", Values: []string{"flat", "novel", "resonant"}},
				{Name: "pacing", Values: []string{"rushed", "steady", "inviting"}},
			},
			ControlFactor{Factor: "engagement", Actions: []string{"withdraw", "observe", "engage"}},
		),
	}
}

// triadModel assembles a single-factor model with placeholder tables and a
// mildly increasing preference over each modality's values.
func triadModel(role string, factor StateFactor, modalities []Modality, control ControlFactor) *GenerativeModel {
	m := &GenerativeModel{
		Role:           role,
		StateFactors:   []StateFactor{factor},
		Modalities:     modalities,
		ControlFactors: []ControlFactor{control},
		Likelihood:     make(map[string]LikelihoodTable, len(modalities)),
		Transitions:    make(map[string]TransitionTable, 1),
		Preferences:    make(map[string][]float64, len(modalities)),
	}

	for _, mod := range modalities {
		m.Likelihood[mod.Name] = UniformLikelihood(factor.Name, len(factor.Values), len(mod.Values))
		m.Preferences[mod.Name] = risingPreference(len(mod.Values))
	}
	m.Transitions[factor.Name] = IdentityTransition(len(factor.Values), len(control.Actions))

	return m
}

// risingPreference returns a normalized vector that weights later observation
// values more heavily, so higher-indexed outcomes are preferred.
func risingPreference(n int) []float64 {
	total := float64(n*(n+1)) / 2
	p := make([]float64, n)
	for i := range p {
		p[i] = float64(i+1) / total
	}
	return p
}
