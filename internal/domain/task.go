package domain

import "time"

// TaskStatus enumerates task states.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusBlocked    TaskStatus = "blocked"
)

// TaskCategory groups follow-up work.
type TaskCategory string

const (
	TaskCategoryFollowUp     TaskCategory = "follow_up"
	TaskCategoryMonitoring   TaskCategory = "monitoring"
	TaskCategoryClientAction TaskCategory = "client_action"
	TaskCategoryInternal     TaskCategory = "internal"
)

// Task is a follow-up item, optionally linked to a ticket and client.
type Task struct {
	ID          string
	Title       string
	Description *string
	Status      TaskStatus
	Priority    TicketPriority
	Category    TaskCategory
	DueDate     *time.Time
	TicketID    *string
	ClientID    *string
	UserID      string
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Done reports whether the task is complete.
func (t Task) Done() bool {
	return t.Status == TaskStatusDone
}
