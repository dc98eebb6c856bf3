package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/msp-dashboard/internal/domain"
)

// TemplateRepository persists export templates.
type TemplateRepository interface {
	Create(ctx context.Context, tpl *domain.ExportTemplate) error
	Update(ctx context.Context, tpl *domain.ExportTemplate) error
	GetByID(ctx context.Context, id string) (*domain.ExportTemplate, error)
	GetDefaultByType(ctx context.Context, templateType string) (*domain.ExportTemplate, error)
	List(ctx context.Context) ([]domain.ExportTemplate, error)
	Count(ctx context.Context) (int, error)
}

type templateRepository struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository returns a Postgres-backed implementation.
func NewTemplateRepository(pool *pgxpool.Pool) TemplateRepository {
	return &templateRepository{pool: pool}
}

const templateColumns = `id, name, type, content, is_default, created_at, updated_at`

func templateDest(t *domain.ExportTemplate) []any {
	return []any{&t.ID, &t.Name, &t.Type, &t.Content, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt}
}

// clearDefault runs inside the write transaction so a type never has two defaults.
func clearDefault(ctx context.Context, tx pgx.Tx, tpl *domain.ExportTemplate) error {
	if !tpl.IsDefault {
		return nil
	}
	_, err := tx.Exec(ctx,
		`UPDATE export_templates SET is_default=FALSE, updated_at=NOW() WHERE type=$1 AND is_default AND id::text<>$2`,
		tpl.Type, tpl.ID)
	return err
}

func (r *templateRepository) Create(ctx context.Context, tpl *domain.ExportTemplate) error {
	const query = `
        INSERT INTO export_templates (name, type, content, is_default)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := clearDefault(ctx, tx, tpl); err != nil {
			return err
		}
		return tx.QueryRow(ctx, query, tpl.Name, tpl.Type, tpl.Content, tpl.IsDefault).
			Scan(&tpl.ID, &tpl.CreatedAt, &tpl.UpdatedAt)
	})
}

func (r *templateRepository) Update(ctx context.Context, tpl *domain.ExportTemplate) error {
	const query = `
        UPDATE export_templates SET name=$1, type=$2, content=$3, is_default=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	if !validID(tpl.ID) {
		return pgx.ErrNoRows
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := clearDefault(ctx, tx, tpl); err != nil {
			return err
		}
		return tx.QueryRow(ctx, query, tpl.Name, tpl.Type, tpl.Content, tpl.IsDefault, tpl.ID).
			Scan(&tpl.UpdatedAt)
	})
}

func (r *templateRepository) GetByID(ctx context.Context, id string) (*domain.ExportTemplate, error) {
	if !validID(id) {
		return nil, pgx.ErrNoRows
	}
	var tpl domain.ExportTemplate
	if err := r.pool.QueryRow(ctx, `SELECT `+templateColumns+` FROM export_templates WHERE id=$1`, id).
		Scan(templateDest(&tpl)...); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepository) GetDefaultByType(ctx context.Context, templateType string) (*domain.ExportTemplate, error) {
	var tpl domain.ExportTemplate
	if err := r.pool.QueryRow(ctx,
		`SELECT `+templateColumns+` FROM export_templates WHERE type=$1 AND is_default LIMIT 1`, templateType).
		Scan(templateDest(&tpl)...); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepository) List(ctx context.Context) ([]domain.ExportTemplate, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+templateColumns+` FROM export_templates ORDER BY type, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ExportTemplate{}
	for rows.Next() {
		var tpl domain.ExportTemplate
		if err := rows.Scan(templateDest(&tpl)...); err != nil {
			return nil, err
		}
		result = append(result, tpl)
	}
	return result, rows.Err()
}

func (r *templateRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM export_templates`).Scan(&n)
	return n, err
}
