package service

import (
	"fmt"

	"github.com/bionicbutterfly13/praxis/internal/domain"
)

// InferStates computes the posterior belief over every hidden state factor
// given one observation per modality (keyed by modality name, valued by the
// observed value's index). For each factor the posterior is proportional to
// the prior times the product, over all modalities whose likelihood table
// depends on that factor, of the likelihood of the observed value. The
// result is renormalized per factor.
//
// A nil prior means uniform. The per-tick transition is identity, so the
// update is direct Bayesian filtering with no forecast of state drift
// within the tick.
func InferStates(m *domain.GenerativeModel, observations map[string]int, prior *domain.BeliefState) (*domain.BeliefState, error) {
	for name, value := range observations {
		mi := m.ModalityIndex(name)
		if mi < 0 {
			return nil, fmt.Errorf("%w: unknown modality %q for role %s", domain.ErrInvalidObservation, name, m.Role)
		}
		if value < 0 || value >= len(m.Modalities[mi].Values) {
			return nil, fmt.Errorf("%w: value %d outside domain of modality %q (size %d)",
				domain.ErrInvalidObservation, value, name, len(m.Modalities[mi].Values))
		}
	}

	if prior == nil {
		prior = domain.UniformBelief(m)
	}

	posterior := &domain.BeliefState{Factors: make([]domain.FactorBelief, 0, len(m.StateFactors))}
	for _, factor := range m.StateFactors {
		priorProbs := prior.Get(factor.Name)
		if priorProbs == nil || len(priorProbs) != len(factor.Values) {
			return nil, fmt.Errorf("prior for factor %q does not match model %s", factor.Name, m.Role)
		}

		probs := make([]float64, len(factor.Values))
		copy(probs, priorProbs)

		for modName, value := range observations {
			lt := m.Likelihood[modName]
			if lt.Factor != factor.Name {
				continue
			}
			for s := range probs {
				probs[s] *= lt.P[s][value]
			}
		}

		total := 0.0
		for _, p := range probs {
			total += p
		}
		if total <= 0 {
			return nil, fmt.Errorf("posterior for factor %q of role %s has zero mass", factor.Name, m.Role)
		}
		for s := range probs {
			probs[s] /= total
		}

		posterior.Factors = append(posterior.Factors, domain.FactorBelief{Factor: factor.Name, Probs: probs})
	}

	return posterior, nil
}
