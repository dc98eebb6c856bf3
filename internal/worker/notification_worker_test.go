package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/msp-dashboard/internal/domain"
	"github.com/spec-kit/msp-dashboard/internal/events"
	"github.com/spec-kit/msp-dashboard/internal/repository"
)

type staticTasks struct {
	tasks   []domain.Task
	filters []repository.TaskFilter
}

func (s *staticTasks) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	s.filters = append(s.filters, filter)
	return s.tasks, nil
}

func TestTaskReminderSweepAnnouncesOnce(t *testing.T) {
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	due := now.Add(3 * time.Hour)
	ticketID := "ticket-1"
	lister := &staticTasks{tasks: []domain.Task{
		{ID: "task-1", Title: "Call vendor", DueDate: &due, TicketID: &ticketID, Priority: domain.TicketPriorityHigh},
		{ID: "task-2", Title: "no date"},
	}}

	dispatcher := events.NewInMemoryDispatcher()
	var got []events.Event
	dispatcher.Subscribe(events.EventTaskDue, func(_ context.Context, e events.Event) error {
		got = append(got, e)
		return nil
	})

	reminder := NewTaskReminder(lister, dispatcher, nil, time.Minute, func() time.Time { return now })
	sent, err := reminder.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	require.Len(t, lister.filters, 1)
	assert.True(t, lister.filters[0].OpenOnly)
	assert.Equal(t, now.Add(DueWindow), *lister.filters[0].DueBefore)

	require.Len(t, got, 1)
	assert.Equal(t, "ticket-1", got[0].TicketID)
	payload := got[0].Payload.(events.TaskDuePayload)
	assert.Equal(t, "task-1", payload.TaskID)
	assert.Equal(t, due, payload.DueDate)

	sent, err = reminder.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)

	// A rescheduled task is announced again.
	moved := due.Add(time.Hour)
	lister.tasks[0].DueDate = &moved
	sent, err = reminder.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Len(t, got, 2)
}

func TestTaskReminderRunStopsOnCancel(t *testing.T) {
	lister := &staticTasks{}
	reminder := NewTaskReminder(lister, nil, nil, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan struct{})
	go func() {
		reminder.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Len(t, lister.filters, 1)
}

func TestTaskReminderDisabled(t *testing.T) {
	lister := &staticTasks{}
	NewTaskReminder(lister, nil, nil, 0, nil).Run(context.Background())
	assert.Empty(t, lister.filters)
}
