package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/msp-dashboard/internal/domain"
)

// KBFilter narrows knowledge-base listings.
type KBFilter struct {
	Search   *string
	Tag      *string
	PillarID *string
}

// KBRepository persists knowledge-base articles. Pillar links are kept by
// PillarRepository.
type KBRepository interface {
	Create(ctx context.Context, article *domain.KBArticle) error
	Update(ctx context.Context, article *domain.KBArticle) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.KBArticleListItem, error)
	List(ctx context.Context, filter KBFilter) ([]domain.KBArticleListItem, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.KBArticleRef, error)
	ListCreated(ctx context.Context, from, to time.Time) ([]domain.KBArticleRef, error)
}

type kbRepository struct {
	pool *pgxpool.Pool
}

// NewKBRepository returns a Postgres-backed implementation.
func NewKBRepository(pool *pgxpool.Pool) KBRepository {
	return &kbRepository{pool: pool}
}

const kbColumns = `k.id, k.title, k.problem, k.environment, k.symptoms, k.cause, k.resolution, k.commands,
       k."references", k.sensitivity, k.ticket_id, k.client_id, k.user_id, k.tags, k.created_at, k.updated_at,
       c.name, c.acronym, t.title, t.external_id, u.name`

const kbFrom = `kb_articles k
        LEFT JOIN clients c ON c.id = k.client_id
        LEFT JOIN tickets t ON t.id = k.ticket_id
        JOIN users u ON u.id = k.user_id`

func kbDest(a *domain.KBArticleListItem) []any {
	return []any{
		&a.ID, &a.Title, &a.Problem, &a.Environment, &a.Symptoms, &a.Cause, &a.Resolution, &a.Commands,
		&a.References, &a.Sensitivity, &a.TicketID, &a.ClientID, &a.UserID, &a.Tags, &a.CreatedAt, &a.UpdatedAt,
		&a.ClientName, &a.ClientAcronym, &a.TicketTitle, &a.TicketExternalID, &a.AuthorName,
	}
}

func (r *kbRepository) Create(ctx context.Context, article *domain.KBArticle) error {
	const query = `
        INSERT INTO kb_articles (title, problem, environment, symptoms, cause, resolution, commands, "references",
            sensitivity, ticket_id, client_id, user_id, tags)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at, updated_at`
	if article.Tags == nil {
		article.Tags = []string{}
	}
	return r.pool.QueryRow(ctx, query,
		article.Title,
		article.Problem,
		article.Environment,
		article.Symptoms,
		article.Cause,
		article.Resolution,
		article.Commands,
		article.References,
		article.Sensitivity,
		article.TicketID,
		article.ClientID,
		article.UserID,
		article.Tags,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
}

func (r *kbRepository) Update(ctx context.Context, article *domain.KBArticle) error {
	if !validID(article.ID) {
		return pgx.ErrNoRows
	}
	const query = `
        UPDATE kb_articles SET title=$1, problem=$2, environment=$3, symptoms=$4, cause=$5, resolution=$6,
            commands=$7, "references"=$8, sensitivity=$9, ticket_id=$10, client_id=$11, tags=$12, updated_at=NOW()
        WHERE id=$13
        RETURNING updated_at`
	if article.Tags == nil {
		article.Tags = []string{}
	}
	return r.pool.QueryRow(ctx, query,
		article.Title,
		article.Problem,
		article.Environment,
		article.Symptoms,
		article.Cause,
		article.Resolution,
		article.Commands,
		article.References,
		article.Sensitivity,
		article.TicketID,
		article.ClientID,
		article.Tags,
		article.ID,
	).Scan(&article.UpdatedAt)
}

func (r *kbRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return pgx.ErrNoRows
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM kb_articles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *kbRepository) GetByID(ctx context.Context, id string) (*domain.KBArticleListItem, error) {
	if !validID(id) {
		return nil, pgx.ErrNoRows
	}
	var item domain.KBArticleListItem
	query := `SELECT ` + kbColumns + ` FROM ` + kbFrom + ` WHERE k.id=$1`
	if err := r.pool.QueryRow(ctx, query, id).Scan(kbDest(&item)...); err != nil {
		return nil, err
	}
	return &item, nil
}

func buildKBWhere(filter KBFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		args = append(args, "%"+strings.TrimSpace(*filter.Search)+"%")
		p := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(k.title ILIKE %[1]s OR k.problem ILIKE %[1]s OR k.symptoms ILIKE %[1]s OR k.resolution ILIKE %[1]s OR k.commands ILIKE %[1]s)", p))
	}
	if filter.Tag != nil && strings.TrimSpace(*filter.Tag) != "" {
		args = append(args, strings.ToLower(strings.TrimSpace(*filter.Tag)))
		clauses = append(clauses, fmt.Sprintf("$%d = ANY(k.tags)", len(args)))
	}
	if filter.PillarID != nil {
		args = append(args, *filter.PillarID)
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM kb_article_pillars kp WHERE kp.kb_article_id = k.id AND kp.pillar_id::text=$%d)", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

func (r *kbRepository) List(ctx context.Context, filter KBFilter) ([]domain.KBArticleListItem, error) {
	where, args := buildKBWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY k.updated_at DESC`, kbColumns, kbFrom, where)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.KBArticleListItem{}
	for rows.Next() {
		var item domain.KBArticleListItem
		if err := rows.Scan(kbDest(&item)...); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *kbRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.KBArticleRef, error) {
	if !validID(ticketID) {
		return []domain.KBArticleRef{}, nil
	}
	return r.refs(ctx, `SELECT id, title, created_at FROM kb_articles WHERE ticket_id=$1 ORDER BY created_at`, ticketID)
}

func (r *kbRepository) ListCreated(ctx context.Context, from, to time.Time) ([]domain.KBArticleRef, error) {
	return r.refs(ctx, `
        SELECT id, title, created_at FROM kb_articles
        WHERE created_at >= $1 AND created_at <= $2
        ORDER BY created_at DESC`, from, to)
}

func (r *kbRepository) refs(ctx context.Context, query string, args ...any) ([]domain.KBArticleRef, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.KBArticleRef{}
	for rows.Next() {
		var ref domain.KBArticleRef
		if err := rows.Scan(&ref.ID, &ref.Title, &ref.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, ref)
	}
	return result, rows.Err()
}
