package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bionicbutterfly13/praxis/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// JournalStore persists plan and tick records in Postgres. Plan traces are
// stored with an optional embedding for similarity recall via pgvector.
type JournalStore struct {
	db *pgxpool.Pool
}

func NewJournalStore(db *pgxpool.Pool) *JournalStore {
	return &JournalStore{db: db}
}

func (s *JournalStore) InsertPlan(ctx context.Context, rec *domain.PlanRecord) error {
	policy, err := json.Marshal(rec.BestPolicy)
	if err != nil {
		return fmt.Errorf("marshal best policy: %w", err)
	}

	var embedding *pgvector.Vector
	if len(rec.Embedding) > 0 {
		v := pgvector.NewVector(rec.Embedding)
		embedding = &v
	}

	return s.db.QueryRow(ctx,
		`INSERT INTO plan_records (id, task, goal, best_policy, cumulative_efe, confidence, trace, embedding)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		rec.ID, rec.Task, rec.Goal, policy, rec.CumulativeEFE, rec.Confidence, rec.Trace, embedding,
	).Scan(&rec.CreatedAt)
}

func (s *JournalStore) RecentPlans(ctx context.Context, limit int) ([]domain.PlanRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, task, goal, best_policy, cumulative_efe, confidence, trace, created_at
		 FROM plan_records
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent plans query: %w", err)
	}
	defer rows.Close()

	var records []domain.PlanRecord
	for rows.Next() {
		var rec domain.PlanRecord
		var policy []byte
		if err := rows.Scan(&rec.ID, &rec.Task, &rec.Goal, &policy, &rec.CumulativeEFE, &rec.Confidence, &rec.Trace, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(policy, &rec.BestPolicy); err != nil {
			return nil, fmt.Errorf("unmarshal best policy for record %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *JournalStore) SimilarPlans(ctx context.Context, embedding []float32, limit int) ([]domain.PlanRecordWithScore, error) {
	vec := pgvector.NewVector(embedding)

	rows, err := s.db.Query(ctx,
		`SELECT id, task, goal, best_policy, cumulative_efe, confidence, trace, created_at,
		        1 - (embedding <=> $1) AS score
		 FROM plan_records
		 WHERE embedding IS NOT NULL
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		vec, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("similar plans query: %w", err)
	}
	defer rows.Close()

	var records []domain.PlanRecordWithScore
	for rows.Next() {
		var rec domain.PlanRecordWithScore
		var policy []byte
		if err := rows.Scan(&rec.ID, &rec.Task, &rec.Goal, &policy, &rec.CumulativeEFE, &rec.Confidence, &rec.Trace, &rec.CreatedAt, &rec.Score); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(policy, &rec.BestPolicy); err != nil {
			return nil, fmt.Errorf("unmarshal best policy for record %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *JournalStore) InsertTick(ctx context.Context, rec *domain.TickRecord) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO tick_records (id, free_energy, activation, classification, resonance)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		rec.ID, rec.FreeEnergy, rec.Activation, rec.Classification, rec.Resonance,
	).Scan(&rec.CreatedAt)
}

func (s *JournalStore) RecentTicks(ctx context.Context, limit int) ([]domain.TickRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, free_energy, activation, classification, resonance, created_at
		 FROM tick_records
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent ticks query: %w", err)
	}
	defer rows.Close()

	var records []domain.TickRecord
	for rows.Next() {
		var rec domain.TickRecord
		if err := rows.Scan(&rec.ID, &rec.FreeEnergy, &rec.Activation, &rec.Classification, &rec.Resonance, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
