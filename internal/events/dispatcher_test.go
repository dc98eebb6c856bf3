package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishRunsAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	d.Subscribe(EventTicketExported, func(_ context.Context, e Event) error {
		calls = append(calls, "first")
		return errors.New("sink down")
	})
	d.Subscribe(EventTicketExported, func(_ context.Context, e Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventTicketExported, "t1", "u1", TicketExportedPayload{Format: "docx"}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink down")
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestPublishRecoversPanickingSink(t *testing.T) {
	d := NewInMemoryDispatcher()
	delivered := false
	d.Subscribe(EventTaskDue, func(context.Context, Event) error { panic("boom") })
	d.Subscribe(EventTaskDue, func(context.Context, Event) error {
		delivered = true
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventTaskDue, "", "", nil))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "task_due sink 0: panic: boom")
	assert.True(t, delivered)
}

func TestPublishWithoutListeners(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), NewEvent(EventTemplateSaved, "", "", nil)))
}

func TestNewEvent(t *testing.T) {
	e := NewEvent(EventTicketCreated, "t1", "u1", nil)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "t1", e.TicketID)
	assert.False(t, e.Timestamp.IsZero())
	assert.NotEqual(t, e.ID, NewEvent(EventTicketCreated, "t1", "u1", nil).ID)
}
