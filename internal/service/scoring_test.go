package service

import (
	"math"
	"testing"

	"github.com/bionicbutterfly13/praxis/internal/domain"
)

func TestScorePolicies_OnePolicyPerAction(t *testing.T) {
	m := weatherModel()
	belief := domain.UniformBelief(m)

	policies, err := ScorePolicies(belief, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(policies) != 2 {
		t.Fatalf("got %d policies, want 2", len(policies))
	}
	for _, p := range policies {
		if p.Factor != "sky" {
			t.Errorf("unexpected factor %q", p.Factor)
		}
	}
}

func TestScorePolicies_FiniteEFE(t *testing.T) {
	models := domain.DefaultTriadModels()
	for _, m := range []*domain.GenerativeModel{models.Designer, models.Artifact, models.User} {
		policies, err := ScorePolicies(domain.UniformBelief(m), m)
		if err != nil {
			t.Fatalf("role %s: unexpected error: %v", m.Role, err)
		}
		for _, p := range policies {
			if math.IsNaN(p.EFE) || math.IsInf(p.EFE, 0) {
				t.Errorf("role %s action %q has non-finite EFE %v", m.Role, p.Action, p.EFE)
			}
		}
	}
}

func TestScorePolicies_IdentityTransitionSharesEpistemicTerm(t *testing.T) {
	// Under identity transitions the predicted state equals the belief for
	// every action, so all candidate actions of a factor tie on EFE.
	m := weatherModel()
	belief := &domain.BeliefState{Factors: []domain.FactorBelief{
		{Factor: "sky", Probs: []float64{0.7, 0.3}},
	}}

	policies, err := ScorePolicies(belief, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(policies[0].EFE-policies[1].EFE) > domain.ProbTolerance {
		t.Errorf("identity transitions should tie actions: %v vs %v", policies[0].EFE, policies[1].EFE)
	}
}

func TestScorePolicies_TransitionChangesRanking(t *testing.T) {
	// Give the model a real transition for one action: "look_up" drives the
	// sky factor toward "clear", whose observations are preferred. That
	// action must then score strictly lower EFE.
	m := weatherModel()
	m.Transitions["sky"] = domain.TransitionTable{P: [][][]float64{
		{ // wait: identity
			{1.0, 0.0},
			{0.0, 1.0},
		},
		{ // look_up: collapse toward clear
			{1.0, 0.0},
			{0.9, 0.1},
		},
	}}

	belief := &domain.BeliefState{Factors: []domain.FactorBelief{
		{Factor: "sky", Probs: []float64{0.5, 0.5}},
	}}

	policies, err := ScorePolicies(belief, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wait, lookUp float64
	for _, p := range policies {
		switch p.Action {
		case "wait":
			wait = p.EFE
		case "look_up":
			lookUp = p.EFE
		}
	}

	if lookUp >= wait {
		t.Errorf("look_up should be preferred: look_up EFE %v, wait EFE %v", lookUp, wait)
	}
}

func TestEntropy(t *testing.T) {
	tests := []struct {
		name string
		p    []float64
		want float64
	}{
		{name: "certain", p: []float64{1, 0}, want: 0},
		{name: "uniform binary", p: []float64{0.5, 0.5}, want: math.Log(2)},
		{name: "uniform ternary", p: []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, want: math.Log(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := entropy(tt.p); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("entropy(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}
