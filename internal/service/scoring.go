package service

import (
	"fmt"
	"math"

	"github.com/bionicbutterfly13/praxis/internal/domain"
)

// ScorePolicies computes the expected free energy of every candidate
// one-step action, one Policy per member of each control factor's action
// set. EFE = epistemic value + pragmatic value:
//
//   - epistemic value is the total entropy of the predicted state
//     distributions under the action (under identity transitions this
//     reduces to the current belief entropy, shared across actions);
//   - pragmatic value is the negative expected preference of the action's
//     predicted observation distribution.
//
// Every EFE is a finite real number for a normalized generative model.
func ScorePolicies(belief *domain.BeliefState, m *domain.GenerativeModel) ([]domain.Policy, error) {
	var policies []domain.Policy

	for _, cf := range m.ControlFactors {
		for ai, action := range cf.Actions {
			predicted, err := propagateBelief(belief, m, cf.Factor, ai)
			if err != nil {
				return nil, err
			}

			efe := epistemicValue(predicted) + pragmaticValue(predicted, m)
			if math.IsNaN(efe) || math.IsInf(efe, 0) {
				return nil, fmt.Errorf("non-finite EFE for action %q of factor %q in role %s", action, cf.Factor, m.Role)
			}

			policies = append(policies, domain.Policy{Factor: cf.Factor, Action: action, EFE: efe})
		}
	}

	return policies, nil
}

// propagateBelief applies one tick of the transition model: the controlled
// factor moves under the chosen action, every other factor under its single
// implicit action.
func propagateBelief(belief *domain.BeliefState, m *domain.GenerativeModel, controlled string, actionIdx int) (*domain.BeliefState, error) {
	out := &domain.BeliefState{Factors: make([]domain.FactorBelief, 0, len(belief.Factors))}

	for _, fb := range belief.Factors {
		tt, ok := m.Transitions[fb.Factor]
		if !ok {
			return nil, fmt.Errorf("missing transition table for factor %q in role %s", fb.Factor, m.Role)
		}

		ai := 0
		if fb.Factor == controlled {
			ai = actionIdx
		}

		next := make([]float64, len(fb.Probs))
		for prev, p := range fb.Probs {
			for n, t := range tt.P[ai][prev] {
				next[n] += p * t
			}
		}
		out.Factors = append(out.Factors, domain.FactorBelief{Factor: fb.Factor, Probs: next})
	}

	return out, nil
}

// epistemicValue is the total Shannon entropy of the predicted state
// distributions: higher residual uncertainty makes an action less
// attractive unless its observations are informative.
func epistemicValue(predicted *domain.BeliefState) float64 {
	total := 0.0
	for _, fb := range predicted.Factors {
		total += entropy(fb.Probs)
	}
	return total
}

// pragmaticValue is the negative expected preference over the predicted
// observation distribution of every modality. More preferred outcomes make
// the value more negative, lowering EFE.
func pragmaticValue(predicted *domain.BeliefState, m *domain.GenerativeModel) float64 {
	value := 0.0
	for _, mod := range m.Modalities {
		lt := m.Likelihood[mod.Name]
		state := predicted.Get(lt.Factor)
		if state == nil {
			continue
		}

		for o := range mod.Values {
			qo := 0.0
			for s, ps := range state {
				qo += ps * lt.P[s][o]
			}
			value -= qo * m.Preferences[mod.Name][o]
		}
	}
	return value
}

func entropy(p []float64) float64 {
	h := 0.0
	for _, v := range p {
		if v > 0 {
			h -= v * math.Log(v)
		}
	}
	return h
}
