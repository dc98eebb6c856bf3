package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// EventHandler reacts to one published event.
type EventHandler func(context.Context, Event) error

// Dispatcher fans events out to the sinks registered per event type.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

type inMemoryDispatcher struct {
	mu    sync.RWMutex
	sinks map[EventType][]EventHandler
}

// NewInMemoryDispatcher returns a synchronous in-process dispatcher.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{sinks: make(map[EventType][]EventHandler)}
}

// Publish runs every sink for event.Type in subscription order. A failing or
// panicking sink does not stop the rest; failures come back joined.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	sinks := append([]EventHandler(nil), d.sinks[event.Type]...)
	d.mu.RUnlock()

	var errs []error
	for i, sink := range sinks {
		if err := invoke(ctx, sink, event); err != nil {
			errs = append(errs, fmt.Errorf("%s sink %d: %w", event.Type, i, err))
		}
	}
	return errors.Join(errs...)
}

func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	d.sinks[eventType] = append(d.sinks[eventType], handler)
	d.mu.Unlock()
}

func invoke(ctx context.Context, sink EventHandler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return sink(ctx, event)
}
