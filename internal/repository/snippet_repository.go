package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/msp-dashboard/internal/domain"
)

// SnippetFilter narrows snippet listings.
type SnippetFilter struct {
	Language *domain.SnippetLanguage
	Search   *string
}

// SnippetRepository persists saved scripts and commands.
type SnippetRepository interface {
	Create(ctx context.Context, snippet *domain.Snippet) error
	Update(ctx context.Context, snippet *domain.Snippet) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Snippet, error)
	List(ctx context.Context, filter SnippetFilter) ([]domain.Snippet, error)
}

type snippetRepository struct {
	pool *pgxpool.Pool
}

// NewSnippetRepository returns a Postgres-backed implementation.
func NewSnippetRepository(pool *pgxpool.Pool) SnippetRepository {
	return &snippetRepository{pool: pool}
}

const snippetColumns = `id, title, language, code, description, usage_notes, tags, user_id, created_at, updated_at`

func snippetDest(s *domain.Snippet) []any {
	return []any{&s.ID, &s.Title, &s.Language, &s.Code, &s.Description, &s.UsageNotes, &s.Tags, &s.UserID, &s.CreatedAt, &s.UpdatedAt}
}

func (r *snippetRepository) Create(ctx context.Context, snippet *domain.Snippet) error {
	const query = `
        INSERT INTO snippets (title, language, code, description, usage_notes, tags, user_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	if snippet.Tags == nil {
		snippet.Tags = []string{}
	}
	return r.pool.QueryRow(ctx, query,
		snippet.Title, snippet.Language, snippet.Code, snippet.Description, snippet.UsageNotes, snippet.Tags, snippet.UserID,
	).Scan(&snippet.ID, &snippet.CreatedAt, &snippet.UpdatedAt)
}

func (r *snippetRepository) Update(ctx context.Context, snippet *domain.Snippet) error {
	if !validID(snippet.ID) {
		return pgx.ErrNoRows
	}
	const query = `
        UPDATE snippets SET title=$1, language=$2, code=$3, description=$4, usage_notes=$5, tags=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`
	if snippet.Tags == nil {
		snippet.Tags = []string{}
	}
	return r.pool.QueryRow(ctx, query,
		snippet.Title, snippet.Language, snippet.Code, snippet.Description, snippet.UsageNotes, snippet.Tags, snippet.ID,
	).Scan(&snippet.UpdatedAt)
}

func (r *snippetRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return pgx.ErrNoRows
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM snippets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *snippetRepository) GetByID(ctx context.Context, id string) (*domain.Snippet, error) {
	if !validID(id) {
		return nil, pgx.ErrNoRows
	}
	var snippet domain.Snippet
	if err := r.pool.QueryRow(ctx, `SELECT `+snippetColumns+` FROM snippets WHERE id=$1`, id).Scan(snippetDest(&snippet)...); err != nil {
		return nil, err
	}
	return &snippet, nil
}

func buildSnippetWhere(filter SnippetFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Language != nil {
		args = append(args, *filter.Language)
		clauses = append(clauses, fmt.Sprintf("language=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		args = append(args, "%"+strings.TrimSpace(*filter.Search)+"%")
		p := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(title ILIKE %[1]s OR code ILIKE %[1]s OR description ILIKE %[1]s)", p))
	}
	return strings.Join(clauses, " AND "), args
}

func (r *snippetRepository) List(ctx context.Context, filter SnippetFilter) ([]domain.Snippet, error) {
	where, args := buildSnippetWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM snippets WHERE %s ORDER BY updated_at DESC`, snippetColumns, where)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Snippet{}
	for rows.Next() {
		var snippet domain.Snippet
		if err := rows.Scan(snippetDest(&snippet)...); err != nil {
			return nil, err
		}
		result = append(result, snippet)
	}
	return result, rows.Err()
}
