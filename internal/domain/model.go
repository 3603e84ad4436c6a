package domain

import (
	"fmt"
	"math"
)

// ProbTolerance is the tolerance used when checking that a probability
// distribution sums to 1.
const ProbTolerance = 1e-6

// StateFactor is a named discrete hidden-state variable.
type StateFactor struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Modality is a named discrete observation variable.
type Modality struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// ControlFactor marks a state factor as actionable and enumerates its actions.
type ControlFactor struct {
	Factor  string   `json:"factor"`
	Actions []string `json:"actions"`
}

// LikelihoodTable maps states of one factor to a distribution over one
// modality's values. P[stateIdx][obsIdx] = P(observation | state).
type LikelihoodTable struct {
	Factor string      `json:"factor"`
	P      [][]float64 `json:"p"`
}

// TransitionTable maps (action, previous state) to a distribution over next
// states for one factor. P[actionIdx][prevIdx][nextIdx] = P(next | prev, action).
// Factors without a control factor carry a single implicit action.
type TransitionTable struct {
	P [][][]float64 `json:"p"`
}

// GenerativeModel is the static per-agent description of hidden states,
// observations, controls and the three probability tables. It is constructed
// once per role and treated as read-only for the process lifetime.
type GenerativeModel struct {
	Role           string
	StateFactors   []StateFactor
	Modalities     []Modality
	ControlFactors []ControlFactor

	// Likelihood is keyed by modality name.
	Likelihood map[string]LikelihoodTable
	// Transitions is keyed by state factor name.
	Transitions map[string]TransitionTable
	// Preferences is keyed by modality name; each vector is a normalized
	// distribution over that modality's values expressing desired outcomes.
	Preferences map[string][]float64
}

// FactorIndex returns the position of the named state factor, or -1.
func (m *GenerativeModel) FactorIndex(name string) int {
	for i, f := range m.StateFactors {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// ModalityIndex returns the position of the named modality, or -1.
func (m *GenerativeModel) ModalityIndex(name string) int {
	for i, mod := range m.Modalities {
		if mod.Name == name {
			return i
		}
	}
	return -1
}

// Validate checks structural consistency and that every probability
// distribution in every table sums to 1 within ProbTolerance.
func (m *GenerativeModel) Validate() error {
	if m.Role == "" {
		return fmt.Errorf("model: role is required")
	}
	if len(m.StateFactors) == 0 {
		return fmt.Errorf("model %s: at least one state factor is required", m.Role)
	}
	if len(m.Modalities) == 0 {
		return fmt.Errorf("model %s: at least one modality is required", m.Role)
	}

	for _, cf := range m.ControlFactors {
		if m.FactorIndex(cf.Factor) < 0 {
			return fmt.Errorf("model %s: control factor %q is not a state factor", m.Role, cf.Factor)
		}
		if len(cf.Actions) == 0 {
			return fmt.Errorf("model %s: control factor %q has no actions", m.Role, cf.Factor)
		}
	}

	for _, mod := range m.Modalities {
		lt, ok := m.Likelihood[mod.Name]
		if !ok {
			return fmt.Errorf("model %s: missing likelihood table for modality %q", m.Role, mod.Name)
		}
		fi := m.FactorIndex(lt.Factor)
		if fi < 0 {
			return fmt.Errorf("model %s: likelihood for %q names unknown factor %q", m.Role, mod.Name, lt.Factor)
		}
		if len(lt.P) != len(m.StateFactors[fi].Values) {
			return fmt.Errorf("model %s: likelihood for %q has %d rows, factor %q has %d values",
				m.Role, mod.Name, len(lt.P), lt.Factor, len(m.StateFactors[fi].Values))
		}
		for si, row := range lt.P {
			if len(row) != len(mod.Values) {
				return fmt.Errorf("model %s: likelihood row %d for %q has %d entries, modality has %d values",
					m.Role, si, mod.Name, len(row), len(mod.Values))
			}
			if err := checkDistribution(row); err != nil {
				return fmt.Errorf("model %s: likelihood for %q state %d: %w", m.Role, mod.Name, si, err)
			}
		}

		pref, ok := m.Preferences[mod.Name]
		if !ok {
			return fmt.Errorf("model %s: missing preference vector for modality %q", m.Role, mod.Name)
		}
		if len(pref) != len(mod.Values) {
			return fmt.Errorf("model %s: preference vector for %q has %d entries, modality has %d values",
				m.Role, mod.Name, len(pref), len(mod.Values))
		}
		if err := checkDistribution(pref); err != nil {
			return fmt.Errorf("model %s: preferences for %q: %w", m.Role, mod.Name, err)
		}
	}

	for _, f := range m.StateFactors {
		tt, ok := m.Transitions[f.Name]
		if !ok {
			return fmt.Errorf("model %s: missing transition table for factor %q", m.Role, f.Name)
		}
		if len(tt.P) != m.NumActions(f.Name) {
			return fmt.Errorf("model %s: transition table for %q has %d action slices, want %d",
				m.Role, f.Name, len(tt.P), m.NumActions(f.Name))
		}
		for ai, slice := range tt.P {
			if len(slice) != len(f.Values) {
				return fmt.Errorf("model %s: transition for %q action %d has %d rows, factor has %d values",
					m.Role, f.Name, ai, len(slice), len(f.Values))
			}
			for pi, row := range slice {
				if len(row) != len(f.Values) {
					return fmt.Errorf("model %s: transition for %q action %d row %d is not square", m.Role, f.Name, ai, pi)
				}
				if err := checkDistribution(row); err != nil {
					return fmt.Errorf("model %s: transition for %q action %d state %d: %w", m.Role, f.Name, ai, pi, err)
				}
			}
		}
	}

	return nil
}

// NumActions returns the number of actions for the named factor: the size of
// its control factor's action set, or 1 for uncontrolled factors.
func (m *GenerativeModel) NumActions(factor string) int {
	for _, cf := range m.ControlFactors {
		if cf.Factor == factor {
			return len(cf.Actions)
		}
	}
	return 1
}

func checkDistribution(p []float64) error {
	sum := 0.0
	for _, v := range p {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("entry %v is not a valid probability", v)
		}
		sum += v
	}
	if math.Abs(sum-1.0) > ProbTolerance {
		return fmt.Errorf("distribution sums to %v, want 1", sum)
	}
	return nil
}

// UniformLikelihood builds a placeholder likelihood table: every state maps
// to a uniform distribution over the modality's values.
func UniformLikelihood(factor string, states, observations int) LikelihoodTable {
	p := make([][]float64, states)
	for s := range p {
		row := make([]float64, observations)
		for o := range row {
			row[o] = 1.0 / float64(observations)
		}
		p[s] = row
	}
	return LikelihoodTable{Factor: factor, P: p}
}

// IdentityTransition builds a placeholder transition table: for every action
// the next state equals the previous state with probability 1.
func IdentityTransition(states, actions int) TransitionTable {
	p := make([][][]float64, actions)
	for a := range p {
		slice := make([][]float64, states)
		for prev := range slice {
			row := make([]float64, states)
			row[prev] = 1.0
			slice[prev] = row
		}
		p[a] = slice
	}
	return TransitionTable{P: p}
}
