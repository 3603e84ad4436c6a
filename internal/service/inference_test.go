package service

import (
	"errors"
	"math"
	"testing"

	"github.com/bionicbutterfly13/praxis/internal/domain"
)

// weatherModel is a small hand-calibrated model: one factor, one informative
// modality, so posterior shifts are easy to verify by hand.
func weatherModel() *domain.GenerativeModel {
	return &domain.GenerativeModel{
		Role: "weather",
		StateFactors: []domain.StateFactor{
			{Name: "sky", Values: []string{"clear", "overcast"}},
		},
		Modalities: []domain.Modality{
			{Name: "light", Values: []string{"dim", "bright"}},
		},
		ControlFactors: []domain.ControlFactor{
			{Factor: "sky", Actions: []string{"wait", "look_up"}},
		},
		Likelihood: map[string]domain.LikelihoodTable{
			"light": {Factor: "sky", P: [][]float64{
				{0.1, 0.9}, // clear skies are usually bright
				{0.8, 0.2},
			}},
		},
		Transitions: map[string]domain.TransitionTable{
			"sky": domain.IdentityTransition(2, 2),
		},
		Preferences: map[string][]float64{
			"light": {0.25, 0.75},
		},
	}
}

func TestInferStates_PosteriorSumsToOne(t *testing.T) {
	models := domain.DefaultTriadModels()
	for _, m := range []*domain.GenerativeModel{models.Designer, models.Artifact, models.User} {
		obs := map[string]int{}
		for _, mod := range m.Modalities {
			obs[mod.Name] = 0
		}

		belief, err := InferStates(m, obs, nil)
		if err != nil {
			t.Fatalf("role %s: unexpected error: %v", m.Role, err)
		}

		for _, fb := range belief.Factors {
			total := 0.0
			for _, p := range fb.Probs {
				total += p
			}
			if math.Abs(total-1.0) > domain.ProbTolerance {
				t.Errorf("role %s factor %s posterior sums to %v", m.Role, fb.Factor, total)
			}
		}
	}
}

func TestInferStates_LikelihoodShiftsPosterior(t *testing.T) {
	m := weatherModel()

	belief, err := InferStates(m, map[string]int{"light": 1}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	probs := belief.Get("sky")
	// P(clear | bright) = 0.9 / (0.9 + 0.2) with a uniform prior.
	want := 0.9 / 1.1
	if math.Abs(probs[0]-want) > domain.ProbTolerance {
		t.Errorf("P(clear | bright) = %v, want %v", probs[0], want)
	}
	if probs[0] <= probs[1] {
		t.Error("bright observation should favor clear skies")
	}
}

func TestInferStates_PriorCombines(t *testing.T) {
	m := weatherModel()
	prior := &domain.BeliefState{Factors: []domain.FactorBelief{
		{Factor: "sky", Probs: []float64{0.2, 0.8}},
	}}

	belief, err := InferStates(m, map[string]int{"light": 1}, prior)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	probs := belief.Get("sky")
	want := (0.2 * 0.9) / (0.2*0.9 + 0.8*0.2)
	if math.Abs(probs[0]-want) > domain.ProbTolerance {
		t.Errorf("P(clear | bright, prior) = %v, want %v", probs[0], want)
	}
}

func TestInferStates_UniformLikelihoodKeepsPrior(t *testing.T) {
	// Placeholder uniform tables must leave the belief at the prior.
	m := domain.DefaultTriadModels().Artifact

	belief, err := InferStates(m, map[string]int{"design_input": 2, "user_response": 0}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, fb := range belief.Factors {
		uniform := 1.0 / float64(len(fb.Probs))
		for i, p := range fb.Probs {
			if math.Abs(p-uniform) > domain.ProbTolerance {
				t.Errorf("factor %s entry %d = %v, want %v", fb.Factor, i, p, uniform)
			}
		}
	}
}

func TestInferStates_InvalidObservation(t *testing.T) {
	m := weatherModel()

	tests := []struct {
		name string
		obs  map[string]int
	}{
		{name: "value above domain", obs: map[string]int{"light": 2}},
		{name: "negative value", obs: map[string]int{"light": -1}},
		{name: "unknown modality", obs: map[string]int{"sound": 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			belief, err := InferStates(m, tt.obs, nil)
			if !errors.Is(err, domain.ErrInvalidObservation) {
				t.Fatalf("expected ErrInvalidObservation, got %v", err)
			}
			if belief != nil {
				t.Error("no partial inference should be returned on invalid input")
			}
		})
	}
}
