package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/msp-dashboard/internal/domain"
)

// ClientRepository persists managed customers.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	ListActive(ctx context.Context) ([]domain.Client, error)
}

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository returns a Postgres-backed implementation.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

const clientColumns = `c.id, c.name, c.acronym, c.notes, c.env_type, c.env_tags, c.is_active, c.created_at, c.updated_at`

func clientDest(c *domain.Client) []any {
	return []any{&c.ID, &c.Name, &c.Acronym, &c.Notes, &c.EnvType, &c.EnvTags, &c.IsActive, &c.CreatedAt, &c.UpdatedAt}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (name, acronym, notes, env_type, env_tags, is_active)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	if client.EnvTags == nil {
		client.EnvTags = []string{}
	}
	return r.pool.QueryRow(ctx, query,
		client.Name,
		client.Acronym,
		client.Notes,
		client.EnvType,
		client.EnvTags,
		client.IsActive,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	const query = `
        UPDATE clients SET name=$1, acronym=$2, notes=$3, env_type=$4, env_tags=$5, is_active=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`
	if !validID(client.ID) {
		return pgx.ErrNoRows
	}
	if client.EnvTags == nil {
		client.EnvTags = []string{}
	}
	return r.pool.QueryRow(ctx, query,
		client.Name,
		client.Acronym,
		client.Notes,
		client.EnvType,
		client.EnvTags,
		client.IsActive,
		client.ID,
	).Scan(&client.UpdatedAt)
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	if !validID(id) {
		return nil, pgx.ErrNoRows
	}
	var client domain.Client
	query := `SELECT ` + clientColumns + ` FROM clients c WHERE c.id=$1`
	if err := r.pool.QueryRow(ctx, query, id).Scan(clientDest(&client)...); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) ListActive(ctx context.Context) ([]domain.Client, error) {
	query := `
        SELECT ` + clientColumns + `, (SELECT COUNT(*) FROM tickets t WHERE t.client_id = c.id)
        FROM clients c WHERE c.is_active ORDER BY c.name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Client{}
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(append(clientDest(&client), &client.TicketCount)...); err != nil {
			return nil, err
		}
		result = append(result, client)
	}
	return result, rows.Err()
}
