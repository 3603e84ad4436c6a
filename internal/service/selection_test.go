package service

import (
	"math"
	"math/rand"
	"testing"

	"github.com/bionicbutterfly13/praxis/internal/domain"
)

func TestActionSelector_ArgMin(t *testing.T) {
	policies := []domain.Policy{
		{Factor: "sky", Action: "wait", EFE: 1.4},
		{Factor: "sky", Action: "look_up", EFE: 0.9},
		{Factor: "sky", Action: "shade", EFE: 2.1},
	}

	sel, err := NewActionSelector(0, true, nil).SelectActions(policies)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sel.Actions) != 1 {
		t.Fatalf("got %d selected actions, want 1", len(sel.Actions))
	}
	if sel.Actions[0].Action != "look_up" {
		t.Errorf("selected %q, want look_up", sel.Actions[0].Action)
	}
	// Arg-min mode never returns an action with higher EFE than any sibling.
	for _, p := range policies {
		if sel.Actions[0].EFE > p.EFE {
			t.Errorf("selected EFE %v exceeds candidate EFE %v", sel.Actions[0].EFE, p.EFE)
		}
	}
	if sel.FreeEnergy != 0.9 {
		t.Errorf("free energy = %v, want 0.9", sel.FreeEnergy)
	}
}

func TestActionSelector_ArgMinTieIsStable(t *testing.T) {
	policies := []domain.Policy{
		{Factor: "sky", Action: "first", EFE: 1.0},
		{Factor: "sky", Action: "second", EFE: 1.0},
	}

	sel, err := NewActionSelector(0, true, nil).SelectActions(policies)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Actions[0].Action != "first" {
		t.Errorf("tie should resolve to the first candidate, got %q", sel.Actions[0].Action)
	}
}

func TestActionSelector_PolicyPosterior(t *testing.T) {
	group := []domain.Policy{
		{Factor: "sky", Action: "wait", EFE: 1.4},
		{Factor: "sky", Action: "look_up", EFE: 0.9},
		{Factor: "sky", Action: "shade", EFE: 2.1},
	}

	selector := NewActionSelector(DefaultSelectionPrecision, false, rand.New(rand.NewSource(1)))
	posterior := selector.PolicyPosterior(group)

	total := 0.0
	for _, w := range posterior {
		total += w
	}
	if math.Abs(total-1.0) > domain.ProbTolerance {
		t.Errorf("posterior sums to %v", total)
	}

	// The arg-min EFE action must carry the maximum selection probability.
	for i, w := range posterior {
		if i != 1 && w >= posterior[1] {
			t.Errorf("action %d probability %v should be below arg-min probability %v", i, w, posterior[1])
		}
	}
}

func TestActionSelector_SamplingCoversPosterior(t *testing.T) {
	group := []domain.Policy{
		{Factor: "sky", Action: "wait", EFE: 1.0},
		{Factor: "sky", Action: "look_up", EFE: 1.0},
	}

	selector := NewActionSelector(DefaultSelectionPrecision, false, rand.New(rand.NewSource(42)))

	counts := map[string]int{}
	for i := 0; i < 200; i++ {
		sel, err := selector.SelectActions(group)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		counts[sel.Actions[0].Action]++
	}

	// Equal EFE means both actions must be sampled.
	if counts["wait"] == 0 || counts["look_up"] == 0 {
		t.Errorf("sampling never chose one of two equal actions: %v", counts)
	}
}

func TestActionSelector_MultipleControlFactors(t *testing.T) {
	policies := []domain.Policy{
		{Factor: "sky", Action: "wait", EFE: 1.5},
		{Factor: "sky", Action: "look_up", EFE: 0.8},
		{Factor: "mood", Action: "rest", EFE: 0.4},
		{Factor: "mood", Action: "walk", EFE: 0.6},
	}

	sel, err := NewActionSelector(0, true, nil).SelectActions(policies)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sel.Actions) != 2 {
		t.Fatalf("got %d selected actions, want 2", len(sel.Actions))
	}
	if sel.Actions[0].Action != "look_up" || sel.Actions[1].Action != "rest" {
		t.Errorf("unexpected selection: %+v", sel.Actions)
	}
	if sel.FreeEnergy != 0.4 {
		t.Errorf("free energy = %v, want minimum over all candidates 0.4", sel.FreeEnergy)
	}
}

func TestActionSelector_EmptyInput(t *testing.T) {
	if _, err := NewActionSelector(0, true, nil).SelectActions(nil); err != ErrNoPolicies {
		t.Errorf("expected ErrNoPolicies, got %v", err)
	}
}
