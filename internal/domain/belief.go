package domain

// FactorBelief is a probability distribution over one state factor's values.
type FactorBelief struct {
	Factor string    `json:"factor"`
	Probs  []float64 `json:"probs"`
}

// BeliefState is the posterior over every hidden state factor, in model
// order. It is ephemeral: recomputed each tick and owned by the tick that
// produced it. A caller may retain it as the next tick's prior.
type BeliefState struct {
	Factors []FactorBelief `json:"factors"`
}

// Get returns the distribution for the named factor, or nil.
func (b *BeliefState) Get(factor string) []float64 {
	for _, f := range b.Factors {
		if f.Factor == factor {
			return f.Probs
		}
	}
	return nil
}

// Vectors returns the per-factor probability vectors in model order.
func (b *BeliefState) Vectors() [][]float64 {
	out := make([][]float64, 0, len(b.Factors))
	for _, f := range b.Factors {
		out = append(out, f.Probs)
	}
	return out
}

// UniformBelief builds the uninformative prior for a model: a uniform
// distribution over each state factor.
func UniformBelief(m *GenerativeModel) *BeliefState {
	b := &BeliefState{Factors: make([]FactorBelief, 0, len(m.StateFactors))}
	for _, f := range m.StateFactors {
		probs := make([]float64, len(f.Values))
		for i := range probs {
			probs[i] = 1.0 / float64(len(f.Values))
		}
		b.Factors = append(b.Factors, FactorBelief{Factor: f.Name, Probs: probs})
	}
	return b
}
