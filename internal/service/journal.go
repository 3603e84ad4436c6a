package service

import (
	"context"
	"errors"

	"github.com/bionicbutterfly13/praxis/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrJournalDisabled = errors.New("journal is not configured")

// JournalService records decision outcomes and serves them back. The
// decision core never depends on it: recording is best-effort and failures
// are logged, not propagated to the caller's result.
type JournalService struct {
	store     domain.JournalStore
	embClient domain.EmbeddingClient
	logger    *zap.Logger
}

func NewJournalService(store domain.JournalStore, embClient domain.EmbeddingClient, logger *zap.Logger) *JournalService {
	return &JournalService{store: store, embClient: embClient, logger: logger}
}

// Enabled reports whether a backing store is configured.
func (s *JournalService) Enabled() bool {
	return s != nil && s.store != nil
}

// RecordPlan journals a completed planning request. The task and trace are
// embedded for later similarity recall when an embedding client is wired.
func (s *JournalService) RecordPlan(ctx context.Context, req domain.PlanRequest, result *domain.PolicyResult) {
	if !s.Enabled() {
		return
	}

	rec := &domain.PlanRecord{
		ID:            uuid.New(),
		Task:          req.Task,
		Goal:          req.Goal,
		BestPolicy:    result.BestPolicy,
		CumulativeEFE: result.BestPolicy.CumulativeEFE,
		Confidence:    result.BestPolicy.Confidence,
		Trace:         result.PlanningTrace,
	}

	if s.embClient != nil {
		emb, err := s.embClient.Embed(ctx, req.Task+"\n"+result.PlanningTrace)
		if err != nil {
			s.logger.Warn("failed to embed plan record", zap.Error(err))
		} else {
			rec.Embedding = emb
		}
	}

	if err := s.store.InsertPlan(ctx, rec); err != nil {
		s.logger.Warn("failed to journal plan", zap.String("task", req.Task), zap.Error(err))
	}
}

// RecordTick journals the derived metrics of one triad tick.
func (s *JournalService) RecordTick(ctx context.Context, result *domain.TriadStepResult) {
	if !s.Enabled() {
		return
	}

	rec := &domain.TickRecord{
		ID:             uuid.New(),
		FreeEnergy:     result.Artifact.FreeEnergy,
		Activation:     result.Activation,
		Classification: result.Classification,
		Resonance:      result.Resonance,
	}

	if err := s.store.InsertTick(ctx, rec); err != nil {
		s.logger.Warn("failed to journal tick", zap.Error(err))
	}
}

func (s *JournalService) RecentPlans(ctx context.Context, limit int) ([]domain.PlanRecord, error) {
	if !s.Enabled() {
		return nil, ErrJournalDisabled
	}
	if limit <= 0 {
		limit = 20
	}
	return s.store.RecentPlans(ctx, limit)
}

// SimilarPlans recalls past plans whose task and trace embed close to the
// query text.
func (s *JournalService) SimilarPlans(ctx context.Context, query string, limit int) ([]domain.PlanRecordWithScore, error) {
	if !s.Enabled() {
		return nil, ErrJournalDisabled
	}
	if s.embClient == nil {
		return nil, ErrJournalDisabled
	}
	if limit <= 0 {
		limit = 5
	}

	emb, err := s.embClient.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.store.SimilarPlans(ctx, emb, limit)
}

func (s *JournalService) RecentTicks(ctx context.Context, limit int) ([]domain.TickRecord, error) {
	if !s.Enabled() {
		return nil, ErrJournalDisabled
	}
	if limit <= 0 {
		limit = 50
	}
	return s.store.RecentTicks(ctx, limit)
}
