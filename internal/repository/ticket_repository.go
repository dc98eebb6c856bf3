package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/msp-dashboard/internal/domain"
)

// TicketFilter captures list parameters.
type TicketFilter struct {
	ClientID    *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
	Category    *domain.TicketCategory
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// ReportRow is the per-ticket slice of a period report.
type ReportRow struct {
	ID               string
	Title            string
	ClientAcronym    string
	Priority         domain.TicketPriority
	Status           domain.TicketStatus
	CreatedAt        time.Time
	TimeSpentMinutes int
	Pillars          []string
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetExportGraph(ctx context.Context, id string) (*domain.TicketGraph, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.TicketListItem, error)
	Count(ctx context.Context, filter TicketFilter) (int, error)
	CountByStatus(ctx context.Context) (map[domain.TicketStatus]int, error)
	ListForReport(ctx context.Context, from, to time.Time) ([]ReportRow, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `t.id, t.external_id, t.title, t.client_id, t.user_id, t.category, t.priority, t.status,
       t.sensitivity, t.symptoms, t.impacted_service, t.quick_notes, t.description, t.affected_users,
       t.is_outage, t.tags, t.detected_at, t.acknowledged_at, t.mitigated_at, t.resolved_at, t.closed_at,
       t.created_at, t.updated_at`

func ticketDest(t *domain.Ticket) []any {
	return []any{
		&t.ID, &t.ExternalID, &t.Title, &t.ClientID, &t.UserID, &t.Category, &t.Priority, &t.Status,
		&t.Sensitivity, &t.Symptoms, &t.ImpactedService, &t.QuickNotes, &t.Description, &t.AffectedUsers,
		&t.IsOutage, &t.Tags, &t.DetectedAt, &t.AcknowledgedAt, &t.MitigatedAt, &t.ResolvedAt, &t.ClosedAt,
		&t.CreatedAt, &t.UpdatedAt,
	}
}

// validID screens out ids Postgres would reject as malformed uuids, so they
// surface as not found instead of a query error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (external_id, title, client_id, user_id, category, priority, status, sensitivity,
            symptoms, impacted_service, quick_notes, description, affected_users, is_outage, tags, detected_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
        RETURNING id, created_at, updated_at`
	if ticket.Tags == nil {
		ticket.Tags = []string{}
	}
	return r.pool.QueryRow(ctx, query,
		ticket.ExternalID,
		ticket.Title,
		ticket.ClientID,
		ticket.UserID,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
		ticket.Sensitivity,
		ticket.Symptoms,
		ticket.ImpactedService,
		ticket.QuickNotes,
		ticket.Description,
		ticket.AffectedUsers,
		ticket.IsOutage,
		ticket.Tags,
		ticket.DetectedAt,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET external_id=$1, title=$2, client_id=$3, category=$4, priority=$5, status=$6,
            sensitivity=$7, symptoms=$8, impacted_service=$9, quick_notes=$10, description=$11,
            affected_users=$12, is_outage=$13, tags=$14, detected_at=$15, acknowledged_at=$16,
            mitigated_at=$17, resolved_at=$18, closed_at=$19, updated_at=NOW()
        WHERE id=$20
        RETURNING updated_at`
	if !validID(ticket.ID) {
		return pgx.ErrNoRows
	}
	if ticket.Tags == nil {
		ticket.Tags = []string{}
	}
	return r.pool.QueryRow(ctx, query,
		ticket.ExternalID,
		ticket.Title,
		ticket.ClientID,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
		ticket.Sensitivity,
		ticket.Symptoms,
		ticket.ImpactedService,
		ticket.QuickNotes,
		ticket.Description,
		ticket.AffectedUsers,
		ticket.IsOutage,
		ticket.Tags,
		ticket.DetectedAt,
		ticket.AcknowledgedAt,
		ticket.MitigatedAt,
		ticket.ResolvedAt,
		ticket.ClosedAt,
		ticket.ID,
	).Scan(&ticket.UpdatedAt)
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return pgx.ErrNoRows
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if !validID(id) {
		return nil, pgx.ErrNoRows
	}
	query := `SELECT ` + ticketColumns + ` FROM tickets t WHERE t.id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(ticketDest(&ticket)...); err != nil {
		return nil, err
	}
	return &ticket, nil
}

type exportTask struct {
	ID     string            `json:"id"`
	Title  string            `json:"title"`
	Status domain.TaskStatus `json:"status"`
}

// GetExportGraph reads the ticket with its client, assigned user, resolution
// and tasks (oldest first) in one statement.
func (r *ticketRepository) GetExportGraph(ctx context.Context, id string) (*domain.TicketGraph, error) {
	if !validID(id) {
		return nil, pgx.ErrNoRows
	}
	query := `
        SELECT ` + ticketColumns + `,
               c.id, c.name, c.acronym, c.env_type,
               u.id, u.name, u.email, u.role,
               r.summary, r.root_cause, r.fix_applied, r.validation_steps, r.prevention,
               r.time_spent_minutes, r.collaborators, r.handoff_notes,
               COALESCE((
                   SELECT json_agg(json_build_object('id', k.id, 'title', k.title, 'status', k.status)
                                   ORDER BY k.created_at)
                   FROM tasks k WHERE k.ticket_id = t.id
               ), '[]'::json)
        FROM tickets t
        JOIN clients c ON c.id = t.client_id
        JOIN users u ON u.id = t.user_id
        LEFT JOIN resolutions r ON r.ticket_id = t.id
        WHERE t.id=$1`

	var (
		graph   domain.TicketGraph
		summary *string
		res     domain.Resolution
		tasks   []exportTask
	)
	dest := ticketDest(&graph.Ticket)
	dest = append(dest,
		&graph.Client.ID, &graph.Client.Name, &graph.Client.Acronym, &graph.Client.EnvType,
		&graph.User.ID, &graph.User.Name, &graph.User.Email, &graph.User.Role,
		&summary, &res.RootCause, &res.FixApplied, &res.ValidationSteps, &res.Prevention,
		&res.TimeSpentMinutes, &res.Collaborators, &res.HandoffNotes,
		&tasks,
	)
	if err := r.pool.QueryRow(ctx, query, id).Scan(dest...); err != nil {
		return nil, err
	}

	if summary != nil {
		res.TicketID = graph.Ticket.ID
		res.Summary = *summary
		graph.Resolution = &res
	}
	graph.Tasks = make([]domain.Task, 0, len(tasks))
	for _, k := range tasks {
		graph.Tasks = append(graph.Tasks, domain.Task{ID: k.ID, Title: k.Title, Status: k.Status})
	}
	return &graph, nil
}

func buildTicketWhere(filter TicketFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("t.client_id::text=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("t.status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("t.priority=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("t.category=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("t.created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("t.created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		args = append(args, "%"+strings.TrimSpace(*filter.SearchTerm)+"%")
		p := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(t.title ILIKE %[1]s OR t.description ILIKE %[1]s OR t.symptoms ILIKE %[1]s OR t.quick_notes ILIKE %[1]s OR t.external_id ILIKE %[1]s)", p))
	}
	return strings.Join(clauses, " AND "), args
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.TicketListItem, error) {
	where, args := buildTicketWhere(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
        SELECT %s, c.name, c.acronym,
               (SELECT COUNT(*) FROM tasks k WHERE k.ticket_id = t.id)
        FROM tickets t JOIN clients c ON c.id = t.client_id
        WHERE %s ORDER BY t.created_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.TicketListItem{}
	for rows.Next() {
		var item domain.TicketListItem
		dest := append(ticketDest(&item.Ticket), &item.ClientName, &item.ClientAcronym, &item.TaskCount)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *ticketRepository) Count(ctx context.Context, filter TicketFilter) (int, error) {
	where, args := buildTicketWhere(filter)
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets t WHERE `+where, args...).Scan(&n)
	return n, err
}

func (r *ticketRepository) CountByStatus(ctx context.Context) (map[domain.TicketStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM tickets GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[domain.TicketStatus]int{}
	for rows.Next() {
		var (
			status domain.TicketStatus
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *ticketRepository) ListForReport(ctx context.Context, from, to time.Time) ([]ReportRow, error) {
	const query = `
        SELECT t.id, t.title, c.acronym, t.priority, t.status, t.created_at,
               COALESCE(r.time_spent_minutes, 0),
               ARRAY(SELECT p.name FROM ticket_pillars tp JOIN pillars p ON p.id = tp.pillar_id
                     WHERE tp.ticket_id = t.id ORDER BY p.sort_order, p.name)
        FROM tickets t
        JOIN clients c ON c.id = t.client_id
        LEFT JOIN resolutions r ON r.ticket_id = t.id
        WHERE t.created_at >= $1 AND t.created_at <= $2
        ORDER BY t.created_at DESC`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []ReportRow{}
	for rows.Next() {
		var row ReportRow
		if err := rows.Scan(&row.ID, &row.Title, &row.ClientAcronym, &row.Priority, &row.Status,
			&row.CreatedAt, &row.TimeSpentMinutes, &row.Pillars); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
