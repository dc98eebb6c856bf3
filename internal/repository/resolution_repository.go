package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/msp-dashboard/internal/domain"
)

// ResolutionRepository stores the one resolution a ticket may have.
type ResolutionRepository interface {
	Upsert(ctx context.Context, res *domain.Resolution) error
	GetByTicketID(ctx context.Context, ticketID string) (*domain.Resolution, error)
}

type resolutionRepository struct {
	pool *pgxpool.Pool
}

// NewResolutionRepository returns a Postgres-backed implementation.
func NewResolutionRepository(pool *pgxpool.Pool) ResolutionRepository {
	return &resolutionRepository{pool: pool}
}

func (r *resolutionRepository) Upsert(ctx context.Context, res *domain.Resolution) error {
	const query = `
        INSERT INTO resolutions (ticket_id, summary, root_cause, fix_applied, validation_steps, prevention,
            time_spent_minutes, collaborators, handoff_notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (ticket_id) DO UPDATE SET
            summary=EXCLUDED.summary, root_cause=EXCLUDED.root_cause, fix_applied=EXCLUDED.fix_applied,
            validation_steps=EXCLUDED.validation_steps, prevention=EXCLUDED.prevention,
            time_spent_minutes=EXCLUDED.time_spent_minutes, collaborators=EXCLUDED.collaborators,
            handoff_notes=EXCLUDED.handoff_notes, updated_at=NOW()
        RETURNING created_at, updated_at`
	if !validID(res.TicketID) {
		return pgx.ErrNoRows
	}
	return r.pool.QueryRow(ctx, query,
		res.TicketID,
		res.Summary,
		res.RootCause,
		res.FixApplied,
		res.ValidationSteps,
		res.Prevention,
		res.TimeSpentMinutes,
		res.Collaborators,
		res.HandoffNotes,
	).Scan(&res.CreatedAt, &res.UpdatedAt)
}

func (r *resolutionRepository) GetByTicketID(ctx context.Context, ticketID string) (*domain.Resolution, error) {
	const query = `
        SELECT ticket_id, summary, root_cause, fix_applied, validation_steps, prevention,
               time_spent_minutes, collaborators, handoff_notes, created_at, updated_at
        FROM resolutions WHERE ticket_id=$1`
	if !validID(ticketID) {
		return nil, pgx.ErrNoRows
	}
	var res domain.Resolution
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&res.TicketID,
		&res.Summary,
		&res.RootCause,
		&res.FixApplied,
		&res.ValidationSteps,
		&res.Prevention,
		&res.TimeSpentMinutes,
		&res.Collaborators,
		&res.HandoffNotes,
		&res.CreatedAt,
		&res.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &res, nil
}
