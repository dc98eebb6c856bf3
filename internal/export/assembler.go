// Package export turns a ticket and its relations into a display-ready record
// and renders operator templates against it.
package export

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spec-kit/msp-dashboard/internal/domain"
	"github.com/spec-kit/msp-dashboard/internal/redact"
)

// Sentinels written for absent values.
const (
	NotAvailable       = "N/A"
	Pending            = "Pending"
	UnderInvestigation = "Under investigation"
	ToBeDetermined     = "TBD"
	NoTasks            = "No tasks"
)

// DateLayout mirrors the en-US locale date-time rendering.
const DateLayout = "1/2/2006, 3:04:05 PM"

// GraphSource loads a ticket together with its client, user, resolution and
// tasks in a single read.
type GraphSource interface {
	GetExportGraph(ctx context.Context, ticketID string) (*domain.TicketGraph, error)
}

// AssemblerOptions tunes record formatting.
type AssemblerOptions struct {
	Location     *time.Location
	RedactAlways bool
	Now          func() time.Time
}

// Assembler builds export records from storage.
type Assembler struct {
	source       GraphSource
	location     *time.Location
	redactAlways bool
	now          func() time.Time
}

// NewAssembler constructs an Assembler.
func NewAssembler(source GraphSource, opts AssemblerOptions) *Assembler {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Assembler{source: source, location: loc, redactAlways: opts.RedactAlways, now: now}
}

// Assemble fetches the ticket graph and formats it. redactFreeform forces the
// redaction pass regardless of the ticket's sensitivity.
func (a *Assembler) Assemble(ctx context.Context, ticketID string, redactFreeform bool) (*Record, error) {
	graph, err := a.source.GetExportGraph(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return a.Build(graph, redactFreeform), nil
}

// ShouldRedact reports whether freeform text of t must be scrubbed.
func (a *Assembler) ShouldRedact(t *domain.Ticket, requested bool) bool {
	return requested || a.redactAlways || t.Sensitivity == domain.SensitivityClientShareable
}

// Build formats an already loaded graph.
func (a *Assembler) Build(graph *domain.TicketGraph, redactFreeform bool) *Record {
	t := &graph.Ticket
	scrub := a.ShouldRedact(t, redactFreeform)
	freeform := func(s *string, fallback string) Value {
		if s == nil || *s == "" {
			return String(fallback)
		}
		if scrub {
			return String(redact.Redact(*s))
		}
		return String(*s)
	}

	affected := String(NotAvailable)
	if t.AffectedUsers != nil {
		affected = Int(*t.AffectedUsers)
	}

	rec := NewRecord().
		Set("title", String(t.Title)).
		Set("client", String(graph.Client.Name)).
		Set("clientAcronym", String(graph.Client.Acronym)).
		Set("ticketId", String(t.DisplayID())).
		Set("internalId", String(t.ID)).
		Set("priority", String(string(t.Priority))).
		Set("status", String(string(t.Status))).
		Set("category", String(string(t.Category))).
		Set("sensitivity", String(string(t.Sensitivity))).
		Set("createdAt", String(a.formatDate(&t.CreatedAt))).
		Set("symptoms", freeform(t.Symptoms, NotAvailable)).
		Set("impactedService", freeform(t.ImpactedService, NotAvailable)).
		Set("quickNotes", freeform(t.QuickNotes, "")).
		Set("description", freeform(t.Description, "")).
		Set("affectedUsers", affected).
		Set("isOutage", Bool(t.IsOutage)).
		Set("detectedAt", String(a.formatDate(t.DetectedAt))).
		Set("acknowledgedAt", String(a.formatDate(t.AcknowledgedAt))).
		Set("mitigatedAt", String(a.formatDate(t.MitigatedAt))).
		Set("resolvedAt", String(a.formatDate(t.ResolvedAt))).
		Set("closedAt", String(a.formatDate(t.ClosedAt))).
		Set("user", String(graph.User.Name)).
		Set("date", String(a.formatDate(ptr(a.now())))).
		Set("tags", String(strings.Join(t.Tags, ", "))).
		Set("resolution", Nested(a.resolutionRecord(graph.Resolution, freeform))).
		Set("tasks", String(TaskChecklist(graph.Tasks))).
		Set("outageDuration", String(OutageDuration(t.DetectedAt, t.ResolvedAt)))
	return rec
}

func (a *Assembler) resolutionRecord(res *domain.Resolution, freeform func(*string, string) Value) *Record {
	if res == nil {
		res = &domain.Resolution{}
	}
	summary := res.Summary
	minutes := 0
	if res.TimeSpentMinutes != nil {
		minutes = *res.TimeSpentMinutes
	}
	return NewRecord().
		Set("summary", freeform(&summary, Pending)).
		Set("rootCause", freeform(res.RootCause, UnderInvestigation)).
		Set("fixApplied", freeform(res.FixApplied, Pending)).
		Set("validationSteps", freeform(res.ValidationSteps, Pending)).
		Set("prevention", freeform(res.Prevention, ToBeDetermined)).
		Set("timeSpentMinutes", Int(minutes)).
		Set("collaborators", freeform(res.Collaborators, "")).
		Set("handoffNotes", freeform(res.HandoffNotes, ""))
}

func (a *Assembler) formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return NotAvailable
	}
	return t.In(a.location).Format(DateLayout)
}

// OutageDuration renders resolved minus detected in whole minutes, or N/A
// unless both timestamps are set.
func OutageDuration(detected, resolved *time.Time) string {
	if detected == nil || resolved == nil {
		return NotAvailable
	}
	minutes := int64(math.Round(resolved.Sub(*detected).Minutes()))
	return fmt.Sprintf("%d minutes", minutes)
}

// TaskChecklist renders one Markdown checkbox per task, in the given order.
func TaskChecklist(tasks []domain.Task) string {
	if len(tasks) == 0 {
		return NoTasks
	}
	lines := make([]string, 0, len(tasks))
	for _, task := range tasks {
		box := " "
		if task.Done() {
			box = "x"
		}
		lines = append(lines, fmt.Sprintf("- [%s] %s", box, task.Title))
	}
	return strings.Join(lines, "\n")
}

func ptr[T any](v T) *T { return &v }

// SampleRecord is a record with every field an export produces, all set to
// their fallback values. It is used to check which template paths resolve.
func SampleRecord() *Record {
	return NewAssembler(nil, AssemblerOptions{}).Build(&domain.TicketGraph{}, false)
}
