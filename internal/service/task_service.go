package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/msp-dashboard/internal/domain"
	"github.com/spec-kit/msp-dashboard/internal/repository"
	"github.com/spec-kit/msp-dashboard/pkg/util/errorutil"
)

// TaskService manages follow-up tasks.
type TaskService struct {
	tasks repository.TaskRepository
	now   func() time.Time
}

// TaskCreateInput describes a new task.
type TaskCreateInput struct {
	Title       string
	Description *string
	Priority    domain.TicketPriority
	Category    domain.TaskCategory
	DueDate     *time.Time
	TicketID    *string
	ClientID    *string
}

// TaskUpdateInput carries a partial update; nil fields are left alone.
type TaskUpdateInput struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TicketPriority
	Category    *domain.TaskCategory
	DueDate     *time.Time
}

// NewTaskService constructs the service.
func NewTaskService(tasks repository.TaskRepository, now func() time.Time) *TaskService {
	if now == nil {
		now = time.Now
	}
	return &TaskService{tasks: tasks, now: now}
}

// ListTasks lists tasks by due date, undated last, newest first within a date.
func (s *TaskService) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return s.tasks.List(ctx, filter)
}

// CreateTask records a task for the acting engineer.
func (s *TaskService) CreateTask(ctx context.Context, actor *domain.Session, input TaskCreateInput) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errorutil.NewValidationError("title is required", map[string]any{"title": "required"})
	}
	task := &domain.Task{
		Title:       title,
		Description: input.Description,
		Status:      domain.TaskStatusTodo,
		Priority:    input.Priority,
		Category:    input.Category,
		DueDate:     input.DueDate,
		TicketID:    trimmedOrNil(input.TicketID),
		ClientID:    trimmedOrNil(input.ClientID),
		UserID:      actor.UserID,
	}
	if task.Priority == "" {
		task.Priority = domain.TicketPriorityMedium
	}
	if task.Category == "" {
		task.Category = domain.TaskCategoryFollowUp
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask applies a partial update. Moving to done stamps completion;
// moving anywhere else clears it.
func (s *TaskService) UpdateTask(ctx context.Context, id string, input TaskUpdateInput) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "task")
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, errorutil.NewValidationError("title is required", map[string]any{"title": "required"})
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = input.Description
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.Category != nil {
		task.Category = *input.Category
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Status != nil {
		task.Status = *input.Status
		if task.Done() {
			now := s.now()
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, notFoundAs(err, "task")
	}
	return task, nil
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	return notFoundAs(s.tasks.Delete(ctx, id), "task")
}
