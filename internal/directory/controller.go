// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package directory

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/quixsi/seating/internal/db"
)

// Controller owns the state of one guest directory page. Events are
// applied one at a time.
type Controller struct {
	mu         sync.Mutex
	opts       Options
	state      *State
	dispatcher *Dispatcher
	logger     *slog.Logger

	loadOnce sync.Once
	loaded   chan struct{}
}

func NewController(o Options) *Controller {
	d := NewDispatcher()
	RegisterDefaults(d, o)
	return &Controller{
		opts:       o,
		state:      NewState(o),
		dispatcher: d,
		logger:     slog.Default().WithGroup("directory"),
		loaded:     make(chan struct{}),
	}
}

// Dispatch applies e and returns the resulting view. One-shot effects are
// part of this view only.
func (c *Controller) Dispatch(ctx context.Context, e Event) (View, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "Controller.Dispatch")
	defer span.End()
	span.SetAttributes(attribute.String("event", string(e.Name())))

	span.AddEvent("Lock")
	c.mu.Lock()
	defer span.AddEvent("Unlock")
	defer c.mu.Unlock()

	if err := c.dispatcher.Dispatch(c.state, e); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return View{}, err
	}
	v := Render(c.state, c.opts)
	c.state.clearEffects()
	return v, nil
}

// View renders the current state without applying an event.
func (c *Controller) View(ctx context.Context) View {
	var span trace.Span
	_, span = tracer.Start(ctx, "Controller.View")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	return Render(c.state, c.opts)
}

// Load reads the guest list from store and records the outcome. A failed
// load leaves the list empty and is not retried.
func (c *Controller) Load(ctx context.Context, store db.GuestStore) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Controller.Load")
	defer span.End()
	defer c.loadOnce.Do(func() { close(c.loaded) })

	guests, err := store.ListGuests(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.ErrorContext(ctx, "error loading guest list", "error", err)
		_, _ = c.Dispatch(ctx, LoadFailed{Err: err})
		return
	}
	c.logger.InfoContext(ctx, "loaded guests from seating chart", "guests", len(guests))
	span.SetAttributes(attribute.Int("guests", len(guests)))
	_, _ = c.Dispatch(ctx, GuestsLoaded{Guests: guests})
}

// Loaded is closed once Load has finished, successfully or not.
func (c *Controller) Loaded() <-chan struct{} {
	return c.loaded
}
