package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/msp-dashboard/internal/domain"
)

// pillarLink is the join table holding one owner kind's pillar assignments.
type pillarLink struct {
	table  string
	column string
}

var pillarLinks = map[domain.PillarOwner]pillarLink{
	domain.PillarOwnerTicket:    {table: "ticket_pillars", column: "ticket_id"},
	domain.PillarOwnerKBArticle: {table: "kb_article_pillars", column: "kb_article_id"},
	domain.PillarOwnerSnippet:   {table: "snippet_pillars", column: "snippet_id"},
}

func linkFor(owner domain.PillarOwner) (pillarLink, error) {
	link, ok := pillarLinks[owner]
	if !ok {
		return pillarLink{}, fmt.Errorf("unknown pillar owner %q", owner)
	}
	return link, nil
}

// PillarRepository stores technology pillars and their assignments to
// tickets, KB articles and snippets.
type PillarRepository interface {
	Create(ctx context.Context, pillar *domain.Pillar) error
	Update(ctx context.Context, pillar *domain.Pillar) error
	GetByID(ctx context.Context, id string) (*domain.Pillar, error)
	List(ctx context.Context, includeInactive bool) ([]domain.Pillar, error)
	// Resolve returns refs for the ids that exist, in sort order.
	Resolve(ctx context.Context, ids []string) ([]domain.PillarRef, error)
	// RefsFor loads the pillars of many owners at once, keyed by owner id.
	RefsFor(ctx context.Context, owner domain.PillarOwner, ownerIDs []string) (map[string][]domain.PillarRef, error)
	// Assign replaces the owner's pillar set.
	Assign(ctx context.Context, owner domain.PillarOwner, ownerID string, pillarIDs []string) error
}

type pillarRepository struct {
	pool *pgxpool.Pool
}

// NewPillarRepository returns a Postgres-backed implementation.
func NewPillarRepository(pool *pgxpool.Pool) PillarRepository {
	return &pillarRepository{pool: pool}
}

const pillarColumns = `id, name, color, sort_order, is_active, created_at, updated_at`

func pillarDest(p *domain.Pillar) []any {
	return []any{&p.ID, &p.Name, &p.Color, &p.SortOrder, &p.IsActive, &p.CreatedAt, &p.UpdatedAt}
}

func (r *pillarRepository) Create(ctx context.Context, pillar *domain.Pillar) error {
	const query = `
        INSERT INTO pillars (name, color, sort_order, is_active)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, pillar.Name, pillar.Color, pillar.SortOrder, pillar.IsActive).
		Scan(&pillar.ID, &pillar.CreatedAt, &pillar.UpdatedAt)
}

func (r *pillarRepository) Update(ctx context.Context, pillar *domain.Pillar) error {
	if !validID(pillar.ID) {
		return pgx.ErrNoRows
	}
	const query = `
        UPDATE pillars SET name=$1, color=$2, sort_order=$3, is_active=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query, pillar.Name, pillar.Color, pillar.SortOrder, pillar.IsActive, pillar.ID).
		Scan(&pillar.UpdatedAt)
}

func (r *pillarRepository) GetByID(ctx context.Context, id string) (*domain.Pillar, error) {
	if !validID(id) {
		return nil, pgx.ErrNoRows
	}
	var pillar domain.Pillar
	if err := r.pool.QueryRow(ctx, `SELECT `+pillarColumns+` FROM pillars WHERE id=$1`, id).Scan(pillarDest(&pillar)...); err != nil {
		return nil, err
	}
	return &pillar, nil
}

func (r *pillarRepository) List(ctx context.Context, includeInactive bool) ([]domain.Pillar, error) {
	query := `SELECT ` + pillarColumns + ` FROM pillars`
	if !includeInactive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY sort_order, name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Pillar{}
	for rows.Next() {
		var pillar domain.Pillar
		if err := rows.Scan(pillarDest(&pillar)...); err != nil {
			return nil, err
		}
		result = append(result, pillar)
	}
	return result, rows.Err()
}

func (r *pillarRepository) Resolve(ctx context.Context, ids []string) ([]domain.PillarRef, error) {
	valid := validIDs(ids)
	if len(valid) == 0 {
		return []domain.PillarRef{}, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, color FROM pillars WHERE id = ANY($1::uuid[]) ORDER BY sort_order, name`, valid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.PillarRef{}
	for rows.Next() {
		var ref domain.PillarRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Color); err != nil {
			return nil, err
		}
		result = append(result, ref)
	}
	return result, rows.Err()
}

func (r *pillarRepository) RefsFor(ctx context.Context, owner domain.PillarOwner, ownerIDs []string) (map[string][]domain.PillarRef, error) {
	link, err := linkFor(owner)
	if err != nil {
		return nil, err
	}
	result := map[string][]domain.PillarRef{}
	valid := validIDs(ownerIDs)
	if len(valid) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`
        SELECT l.%[2]s, p.id, p.name, p.color
        FROM %[1]s l JOIN pillars p ON p.id = l.pillar_id
        WHERE l.%[2]s = ANY($1::uuid[])
        ORDER BY p.sort_order, p.name`, link.table, link.column)
	rows, err := r.pool.Query(ctx, query, valid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ownerID string
			ref     domain.PillarRef
		)
		if err := rows.Scan(&ownerID, &ref.ID, &ref.Name, &ref.Color); err != nil {
			return nil, err
		}
		result[ownerID] = append(result[ownerID], ref)
	}
	return result, rows.Err()
}

func (r *pillarRepository) Assign(ctx context.Context, owner domain.PillarOwner, ownerID string, pillarIDs []string) error {
	link, err := linkFor(owner)
	if err != nil {
		return err
	}
	if !validID(ownerID) {
		return pgx.ErrNoRows
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s=$1`, link.table, link.column), ownerID); err != nil {
			return err
		}
		valid := validIDs(pillarIDs)
		if len(valid) == 0 {
			return nil
		}
		_, err := tx.Exec(ctx, fmt.Sprintf(
			`INSERT INTO %s (%s, pillar_id) SELECT $1, unnest($2::uuid[]) ON CONFLICT DO NOTHING`,
			link.table, link.column), ownerID, valid)
		return err
	})
}

func validIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			out = append(out, id)
		}
	}
	return out
}
