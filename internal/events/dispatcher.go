// Package events carries domain events from the services that commit them
// to the consumers that react to them. Publishing never blocks the caller
// on a consumer.
package events

import (
	"context"
	"sync"
	"time"

	"gig-marketplace/internal/models"
	"gig-marketplace/utils"
)

// Event is a committed state change that someone should be told about
type Event struct {
	Type        models.NotificationType
	RecipientID string
	GigID       string
	BidID       string
	Message     string
}

// Handler consumes published events
type Handler interface {
	HandleEvent(ctx context.Context, ev Event) error
}

// HandlerFunc adapts a plain function to Handler
type HandlerFunc func(ctx context.Context, ev Event) error

// HandleEvent calls f(ctx, ev)
func (f HandlerFunc) HandleEvent(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// Dispatcher queues events and hands them to a Handler from a fixed set
// of worker goroutines
type Dispatcher struct {
	handler        Handler
	queue          chan Event
	workers        int
	handlerTimeout time.Duration

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher with the given worker count and
// queue capacity. Call Start before publishing.
func NewDispatcher(handler Handler, workers, buffer int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Dispatcher{
		handler:        handler,
		queue:          make(chan Event, buffer),
		workers:        workers,
		handlerTimeout: 5 * time.Second,
	}
}

// Start launches the worker goroutines. Calling it twice is a no-op.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
}

// Publish enqueues ev. When the queue is full the event is handled on its
// own goroutine instead of blocking the publisher. Events published after
// Close are dropped.
func (d *Dispatcher) Publish(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		utils.Warn("dispatcher closed, dropping event", map[string]any{
			"type":         ev.Type,
			"recipient_id": ev.RecipientID,
			"gig_id":       ev.GigID,
		})
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.handle(ev)
		}()
	}
}

// Close stops accepting events, drains the queue and waits for every
// in-flight handler to return
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	started := d.started
	d.mu.Unlock()

	if !started {
		// nobody is reading the queue, drain it here
		for ev := range d.queue {
			d.handle(ev)
		}
	}
	d.wg.Wait()
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for ev := range d.queue {
		d.handle(ev)
	}
}

func (d *Dispatcher) handle(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.handlerTimeout)
	defer cancel()

	if err := d.handler.HandleEvent(ctx, ev); err != nil {
		utils.Error("dispatcher: event handler failed", map[string]any{
			"type":         ev.Type,
			"recipient_id": ev.RecipientID,
			"gig_id":       ev.GigID,
			"bid_id":       ev.BidID,
			"error":        err.Error(),
		})
	}
}
