package events

import (
	"context"
	"errors"
	"sync"
)

// EventHandler reacts to a store change. Handlers run on the publishing goroutine.
type EventHandler func(context.Context, Event) error

// Dispatcher fans store changes out to subscribers such as the audit worker.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

type syncDispatcher struct {
	mu       sync.RWMutex
	handlers map[EventType][]EventHandler
}

// NewInMemoryDispatcher returns a process-local Dispatcher.
func NewInMemoryDispatcher() Dispatcher {
	return &syncDispatcher{handlers: make(map[EventType][]EventHandler)}
}

// Publish calls the handlers of event.Type in subscription order. A failing
// handler does not stop the rest; all failures are joined into the result.
func (d *syncDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	subscribed := append([]EventHandler(nil), d.handlers[event.Type]...)
	d.mu.RUnlock()

	var errs []error
	for _, handle := range subscribed {
		if err := handle(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *syncDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
	d.mu.Unlock()
}
