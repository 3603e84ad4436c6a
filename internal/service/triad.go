package service

import (
	"context"
	"fmt"

	"github.com/bionicbutterfly13/praxis/internal/domain"
	"go.uber.org/zap"
)

// Activation bands derived from the artifact role's minimum free energy.
const (
	ActivationBandA = 0.70
	ActivationBandB = 0.40

	ClassificationResonant  = "resonant"
	ClassificationReceptive = "receptive"
	ClassificationDormant   = "dormant"
)

// TriadicCoordinator drives the three generative models through one
// synchronized inference tick each. Roles are processed independently
// within a tick; coupling happens only across ticks through how callers
// choose subsequent observations.
type TriadicCoordinator struct {
	models   *domain.TriadModels
	selector *ActionSelector
	logger   *zap.Logger
}

func NewTriadicCoordinator(models *domain.TriadModels, selector *ActionSelector, logger *zap.Logger) *TriadicCoordinator {
	return &TriadicCoordinator{models: models, selector: selector, logger: logger}
}

// Step validates the three observation sequences, runs one tick per role,
// and derives the presentation metrics from the artifact role's free
// energy. Invalid input fails the whole tick with a ValidationError naming
// the offending sequence; no inference is performed.
func (c *TriadicCoordinator) Step(ctx context.Context, designerObs, artifactObs, userObs []int) (*domain.TriadStepResult, error) {
	if err := validateObs("designer_obs", designerObs, c.models.Designer); err != nil {
		return nil, err
	}
	if err := validateObs("artifact_obs", artifactObs, c.models.Artifact); err != nil {
		return nil, err
	}
	if err := validateObs("user_obs", userObs, c.models.User); err != nil {
		return nil, err
	}

	designer, err := c.tick(c.models.Designer, designerObs)
	if err != nil {
		return nil, fmt.Errorf("designer tick: %w", err)
	}
	artifact, err := c.tick(c.models.Artifact, artifactObs)
	if err != nil {
		return nil, fmt.Errorf("artifact tick: %w", err)
	}
	user, err := c.tick(c.models.User, userObs)
	if err != nil {
		return nil, fmt.Errorf("user tick: %w", err)
	}

	activation := Activation(artifact.FreeEnergy)
	result := &domain.TriadStepResult{
		Designer:       *designer,
		Artifact:       *artifact,
		User:           *user,
		Activation:     activation,
		Classification: ClassifyActivation(activation),
		Resonance:      Resonance(activation),
	}

	c.logger.Debug("triad tick",
		zap.Float64("artifact_free_energy", artifact.FreeEnergy),
		zap.Float64("activation", activation),
		zap.String("classification", result.Classification))

	return result, nil
}

// tick runs one role: belief update from the observation vector, EFE
// scoring of every candidate action, then selection.
func (c *TriadicCoordinator) tick(m *domain.GenerativeModel, obs []int) (*domain.RoleTick, error) {
	observations := make(map[string]int, len(obs))
	for i, v := range obs {
		observations[m.Modalities[i].Name] = v
	}

	belief, err := InferStates(m, observations, nil)
	if err != nil {
		return nil, err
	}

	policies, err := ScorePolicies(belief, m)
	if err != nil {
		return nil, err
	}

	sel, err := c.selector.SelectActions(policies)
	if err != nil {
		return nil, err
	}

	return &domain.RoleTick{
		Actions:     sel.Actions,
		FreeEnergy:  sel.FreeEnergy,
		BeliefState: belief.Vectors(),
	}, nil
}

func validateObs(input string, obs []int, m *domain.GenerativeModel) error {
	if len(obs) != len(m.Modalities) {
		return &domain.ValidationError{
			Input:  input,
			Reason: fmt.Sprintf("expected %d observations, got %d", len(m.Modalities), len(obs)),
		}
	}
	for i, v := range obs {
		if v < 0 || v >= len(m.Modalities[i].Values) {
			return &domain.ValidationError{
				Input: input,
				Reason: fmt.Sprintf("observation %d value %d outside domain of modality %q (size %d)",
					i, v, m.Modalities[i].Name, len(m.Modalities[i].Values)),
			}
		}
	}
	return nil
}

// Activation maps a free energy value into (0,1]: zero or negative free
// energy saturates at 1, rising free energy decays hyperbolically.
func Activation(freeEnergy float64) float64 {
	clamped := freeEnergy
	if clamped < 0 {
		clamped = 0
	}
	return 1.0 / (1.0 + clamped)
}

// ClassifyActivation thresholds an activation value into its band.
func ClassifyActivation(activation float64) string {
	switch {
	case activation >= ActivationBandA:
		return ClassificationResonant
	case activation >= ActivationBandB:
		return ClassificationReceptive
	default:
		return ClassificationDormant
	}
}

// Resonance scales activation into the 20-60 presentation range.
func Resonance(activation float64) float64 {
	return 20.0 + 40.0*activation
}
