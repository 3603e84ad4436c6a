package domain

import (
	"math"
	"testing"
)

func TestDefaultTriadModels_Valid(t *testing.T) {
	models := DefaultTriadModels()
	for _, m := range []*GenerativeModel{models.Designer, models.Artifact, models.User} {
		if err := m.Validate(); err != nil {
			t.Errorf("model %s failed validation: %v", m.Role, err)
		}
	}
}

func TestDefaultTriadModels_TablesNormalized(t *testing.T) {
	models := DefaultTriadModels()
	for _, m := range []*GenerativeModel{models.Designer, models.Artifact, models.User} {
		for name, lt := range m.Likelihood {
			for si, row := range lt.P {
				if s := sum(row); math.Abs(s-1.0) > ProbTolerance {
					t.Errorf("%s likelihood %s state %d sums to %v", m.Role, name, si, s)
				}
			}
		}
		for name, tt := range m.Transitions {
			for ai, slice := range tt.P {
				for pi, row := range slice {
					if s := sum(row); math.Abs(s-1.0) > ProbTolerance {
						t.Errorf("%s transition %s action %d state %d sums to %v", m.Role, name, ai, pi, s)
					}
				}
			}
		}
		for name, pref := range m.Preferences {
			if s := sum(pref); math.Abs(s-1.0) > ProbTolerance {
				t.Errorf("%s preferences %s sum to %v", m.Role, name, s)
			}
		}
	}
}

func TestDefaultTriadModels_PlaceholderTransitionsAreIdentity(t *testing.T) {
	models := DefaultTriadModels()
	for _, m := range []*GenerativeModel{models.Designer, models.Artifact, models.User} {
		for name, tt := range m.Transitions {
			for ai, slice := range tt.P {
				for prev, row := range slice {
					for next, p := range row {
						want := 0.0
						if prev == next {
							want = 1.0
						}
						if p != want {
							t.Fatalf("%s transition %s action %d P[%d][%d] = %v, want %v",
								m.Role, name, ai, prev, next, p, want)
						}
					}
				}
			}
		}
	}
}

func TestGenerativeModel_Validate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *GenerativeModel)
	}{
		{
			name:   "missing likelihood",
			mutate: func(m *GenerativeModel) { delete(m.Likelihood, "user_signal") },
		},
		{
			name: "unnormalized likelihood",
			mutate: func(m *GenerativeModel) {
				lt := m.Likelihood["user_signal"]
				lt.P[0][0] = 0.9
				m.Likelihood["user_signal"] = lt
			},
		},
		{
			name:   "missing transition",
			mutate: func(m *GenerativeModel) { delete(m.Transitions, "intent") },
		},
		{
			name: "unnormalized preferences",
			mutate: func(m *GenerativeModel) {
				m.Preferences["artifact_state"] = []float64{0.5, 0.5, 0.5}
			},
		},
		{
			name: "control factor without actions",
			mutate: func(m *GenerativeModel) {
				m.ControlFactors[0].Actions = nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := DefaultTriadModels().Designer
			tt.mutate(m)
			if err := m.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestUniformBelief(t *testing.T) {
	m := DefaultTriadModels().Artifact
	b := UniformBelief(m)

	if len(b.Factors) != len(m.StateFactors) {
		t.Fatalf("got %d factor beliefs, want %d", len(b.Factors), len(m.StateFactors))
	}
	for _, f := range b.Factors {
		if s := sum(f.Probs); math.Abs(s-1.0) > ProbTolerance {
			t.Errorf("factor %s prior sums to %v", f.Factor, s)
		}
		for _, p := range f.Probs {
			if math.Abs(p-1.0/float64(len(f.Probs))) > ProbTolerance {
				t.Errorf("factor %s prior is not uniform: %v", f.Factor, f.Probs)
			}
		}
	}
}

func TestValidationError_UnwrapsToInvalidObservation(t *testing.T) {
	err := &ValidationError{Input: "designer_obs", Reason: "expected 2 values, got 1"}
	if got := err.Error(); got != "validation failed for designer_obs: expected 2 values, got 1" {
		t.Errorf("unexpected message: %s", got)
	}
	if err.Unwrap() != ErrInvalidObservation {
		t.Error("ValidationError should unwrap to ErrInvalidObservation")
	}
}

func sum(p []float64) float64 {
	s := 0.0
	for _, v := range p {
		s += v
	}
	return s
}
