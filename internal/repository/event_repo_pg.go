package repository

import (
	"context"

	"github.com/Domenick1991/flightclaim/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Insert(ctx context.Context, event *domain.ClaimEventRecord) error
}

type PGEventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) EventRepository {
	return &PGEventRepository{db: db}
}

func (r *PGEventRepository) Insert(ctx context.Context, e *domain.ClaimEventRecord) error {
	return r.db.QueryRow(ctx, `INSERT INTO claim_events (event_type, claim_id, claim_reference, user_id, stage, error, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, recorded_at`,
		e.Type, e.ClaimID, e.ClaimReference, e.UserID, e.Stage, e.Error, e.OccurredAt).
		Scan(&e.ID, &e.RecordedAt)
}

var _ EventRepository = (*PGEventRepository)(nil)
