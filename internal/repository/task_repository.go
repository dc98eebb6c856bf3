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

// TaskFilter narrows task listings.
type TaskFilter struct {
	Status    *domain.TaskStatus
	ClientID  *string
	TicketID  *string
	DueBefore *time.Time
	OpenOnly  bool
}

// TaskCounts summarises tasks touched within a period.
type TaskCounts struct {
	Total     int
	Completed int
}

// TaskRepository persists follow-up tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	CountForPeriod(ctx context.Context, from, to time.Time) (TaskCounts, error)
}

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation.
func NewTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `id, title, description, status, priority, category, due_date, ticket_id, client_id,
       user_id, completed_at, created_at, updated_at`

func taskDest(t *domain.Task) []any {
	return []any{
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.Category, &t.DueDate, &t.TicketID,
		&t.ClientID, &t.UserID, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
	}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	const query = `
        INSERT INTO tasks (title, description, status, priority, category, due_date, ticket_id, client_id, user_id, completed_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.Category,
		task.DueDate,
		task.TicketID,
		task.ClientID,
		task.UserID,
		task.CompletedAt,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	const query = `
        UPDATE tasks SET title=$1, description=$2, status=$3, priority=$4, category=$5, due_date=$6,
            ticket_id=$7, client_id=$8, completed_at=$9, updated_at=NOW()
        WHERE id=$10
        RETURNING updated_at`
	if !validID(task.ID) {
		return pgx.ErrNoRows
	}
	return r.pool.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.Category,
		task.DueDate,
		task.TicketID,
		task.ClientID,
		task.CompletedAt,
		task.ID,
	).Scan(&task.UpdatedAt)
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return pgx.ErrNoRows
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if !validID(id) {
		return nil, pgx.ErrNoRows
	}
	var task domain.Task
	if err := r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id=$1`, id).Scan(taskDest(&task)...); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) List(ctx context.Context, filter TaskFilter) ([]domain.Task, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("client_id::text=$%d", len(args)))
	}
	if filter.TicketID != nil {
		args = append(args, *filter.TicketID)
		clauses = append(clauses, fmt.Sprintf("ticket_id::text=$%d", len(args)))
	}
	if filter.DueBefore != nil {
		args = append(args, *filter.DueBefore)
		clauses = append(clauses, fmt.Sprintf("due_date <= $%d", len(args)))
	}
	if filter.OpenOnly {
		clauses = append(clauses, "status <> 'done'")
	}

	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE %s ORDER BY due_date ASC NULLS LAST, created_at DESC`,
		taskColumns, strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Task{}
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(taskDest(&task)...); err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	return result, rows.Err()
}

func (r *taskRepository) CountForPeriod(ctx context.Context, from, to time.Time) (TaskCounts, error) {
	const query = `
        SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'done')
        FROM tasks
        WHERE (created_at BETWEEN $1 AND $2) OR (completed_at BETWEEN $1 AND $2)`
	var counts TaskCounts
	err := r.pool.QueryRow(ctx, query, from, to).Scan(&counts.Total, &counts.Completed)
	return counts, err
}
