package service

import (
	"errors"
	"math"
	"math/rand"

	"github.com/bionicbutterfly13/praxis/internal/domain"
)

// DefaultSelectionPrecision is the softmax inverse temperature applied to
// negated EFE when converting scores to a policy posterior.
const DefaultSelectionPrecision = 4.0

var ErrNoPolicies = errors.New("no candidate policies to select from")

// ActionSelector converts per-action EFE into a selection. In deterministic
// mode it takes the arg-min EFE action per control factor; otherwise it
// samples from the softmax policy posterior with fixed precision.
type ActionSelector struct {
	Precision     float64
	Deterministic bool

	rng *rand.Rand
}

// NewActionSelector builds a sampling selector. A nil source falls back to
// the shared global source.
func NewActionSelector(precision float64, deterministic bool, rng *rand.Rand) *ActionSelector {
	if precision <= 0 {
		precision = DefaultSelectionPrecision
	}
	return &ActionSelector{Precision: precision, Deterministic: deterministic, rng: rng}
}

// SelectActions picks one action per control factor and reports the minimum
// EFE over the whole candidate set as the tick's free energy. Pure function
// of its inputs apart from sampling noise in non-deterministic mode.
func (s *ActionSelector) SelectActions(policies []domain.Policy) (*domain.Selection, error) {
	if len(policies) == 0 {
		return nil, ErrNoPolicies
	}

	byFactor := make(map[string][]domain.Policy)
	var order []string
	for _, p := range policies {
		if _, seen := byFactor[p.Factor]; !seen {
			order = append(order, p.Factor)
		}
		byFactor[p.Factor] = append(byFactor[p.Factor], p)
	}

	sel := &domain.Selection{FreeEnergy: math.Inf(1)}
	for _, factor := range order {
		group := byFactor[factor]

		chosen := group[argmin(group)]
		if !s.Deterministic {
			chosen = group[s.sample(group)]
		}
		sel.Actions = append(sel.Actions, chosen)

		if min := group[argmin(group)].EFE; min < sel.FreeEnergy {
			sel.FreeEnergy = min
		}
	}

	return sel, nil
}

// PolicyPosterior returns the softmax distribution over a candidate group:
// P(a) proportional to exp(-precision * EFE(a)).
func (s *ActionSelector) PolicyPosterior(group []domain.Policy) []float64 {
	// Shift by the minimum EFE before exponentiating for numeric stability.
	min := group[argmin(group)].EFE

	weights := make([]float64, len(group))
	total := 0.0
	for i, p := range group {
		weights[i] = math.Exp(-s.Precision * (p.EFE - min))
		total += weights[i]
	}
	for i := range weights {
		weights[i] /= total
	}
	return weights
}

func (s *ActionSelector) sample(group []domain.Policy) int {
	posterior := s.PolicyPosterior(group)

	var r float64
	if s.rng != nil {
		r = s.rng.Float64()
	} else {
		r = rand.Float64()
	}

	acc := 0.0
	for i, w := range posterior {
		acc += w
		if r < acc {
			return i
		}
	}
	return len(group) - 1
}

func argmin(group []domain.Policy) int {
	best := 0
	for i, p := range group {
		if p.EFE < group[best].EFE {
			best = i
		}
	}
	return best
}
