package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/msp-dashboard/internal/domain"
	"github.com/spec-kit/msp-dashboard/internal/events"
	"github.com/spec-kit/msp-dashboard/internal/repository"
	"github.com/spec-kit/msp-dashboard/internal/service"
)

// DueWindow is how far ahead the reminder looks for due tasks.
const DueWindow = 24 * time.Hour

// TaskLister lists tasks.
type TaskLister interface {
	List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error)
}

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// TaskReminder periodically publishes a task_due event for open tasks whose
// due date falls within DueWindow. Each task is announced once per due date.
type TaskReminder struct {
	tasks      TaskLister
	dispatcher events.Dispatcher
	logger     *zap.Logger
	interval   time.Duration
	now        func() time.Time

	mu       sync.Mutex
	reminded map[string]time.Time
}

// NewTaskReminder builds a reminder. now defaults to time.Now.
func NewTaskReminder(tasks TaskLister, dispatcher events.Dispatcher, logger *zap.Logger, interval time.Duration, now func() time.Time) *TaskReminder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &TaskReminder{
		tasks:      tasks,
		dispatcher: dispatcher,
		logger:     logger,
		interval:   interval,
		now:        now,
		reminded:   map[string]time.Time{},
	}
}

// Run sweeps immediately and then every interval until ctx is cancelled. A
// non-positive interval returns at once.
func (r *TaskReminder) Run(ctx context.Context) {
	if r.interval <= 0 {
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		if _, err := r.Sweep(ctx); err != nil {
			r.logger.Warn("task reminder sweep failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Sweep publishes reminders for newly due tasks and returns how many were sent.
func (r *TaskReminder) Sweep(ctx context.Context) (int, error) {
	dueBefore := r.now().Add(DueWindow)
	due, err := r.tasks.List(ctx, repository.TaskFilter{DueBefore: &dueBefore, OpenOnly: true})
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]time.Time, len(due))
	sent := 0
	for _, task := range due {
		if task.DueDate == nil {
			continue
		}
		seen[task.ID] = *task.DueDate
		if last, ok := r.reminded[task.ID]; ok && last.Equal(*task.DueDate) {
			continue
		}
		ticketID := ""
		if task.TicketID != nil {
			ticketID = *task.TicketID
		}
		event := events.NewEvent(events.EventTaskDue, ticketID, "", events.TaskDuePayload{
			TaskID:   task.ID,
			Title:    task.Title,
			Priority: task.Priority,
			DueDate:  *task.DueDate,
			UserID:   task.UserID,
		})
		if r.dispatcher != nil {
			if err := r.dispatcher.Publish(ctx, event); err != nil {
				r.logger.Warn("task reminder handler failed", zap.String("task_id", task.ID), zap.Error(err))
			}
		}
		sent++
	}
	// Forget tasks that are no longer due so a reopened task is announced again.
	r.reminded = seen
	if sent > 0 {
		r.logger.Info("task reminders sent", zap.Int("count", sent))
	}
	return sent, nil
}
