// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package directory

import (
	"errors"
	"fmt"

	"github.com/quixsi/seating/internal/model"
)

type EventName string

const (
	EventQueryChanged   EventName = "query-changed"
	EventClearRequested EventName = "clear-requested"
	EventViewAllToggled EventName = "view-all-toggled"
	EventGuestSelected  EventName = "guest-selected"
	EventTableSelected  EventName = "table-selected"
	EventModalDismissed EventName = "modal-dismissed"
	EventGuestsLoaded   EventName = "guests-loaded"
	EventLoadFailed     EventName = "load-failed"
)

type Event interface {
	Name() EventName
}

// QueryChanged carries the raw value of the search input.
type QueryChanged struct {
	Query string
}

type ClearRequested struct{}

type ViewAllToggled struct{}

// GuestSelected is a click on a result card.
type GuestSelected struct {
	Table string
}

// TableSelected is a click on a table of the seating map.
type TableSelected struct {
	Table string
}

type DismissTarget int

const (
	DismissClose DismissTarget = iota
	DismissBackdrop
	// DismissContent is a click inside the modal content, which keeps it open.
	DismissContent
)

type ModalDismissed struct {
	Target DismissTarget
}

type GuestsLoaded struct {
	Guests []*model.Guest
}

type LoadFailed struct {
	Err error
}

func (QueryChanged) Name() EventName   { return EventQueryChanged }
func (ClearRequested) Name() EventName { return EventClearRequested }
func (ViewAllToggled) Name() EventName { return EventViewAllToggled }
func (GuestSelected) Name() EventName  { return EventGuestSelected }
func (TableSelected) Name() EventName  { return EventTableSelected }
func (ModalDismissed) Name() EventName { return EventModalDismissed }
func (GuestsLoaded) Name() EventName   { return EventGuestsLoaded }
func (LoadFailed) Name() EventName     { return EventLoadFailed }

var ErrUnhandledEvent = errors.New("unhandled event")

type HandlerFunc func(*State, Event)

// Dispatcher routes events to the handlers registered for their name.
type Dispatcher struct {
	handlers map[EventName][]HandlerFunc
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[EventName][]HandlerFunc)}
}

// Register appends h to the handlers of name. Handlers run in registration order.
func (d *Dispatcher) Register(name EventName, h HandlerFunc) {
	d.handlers[name] = append(d.handlers[name], h)
}

func (d *Dispatcher) Dispatch(s *State, e Event) error {
	handlers, ok := d.handlers[e.Name()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnhandledEvent, e.Name())
	}
	for _, h := range handlers {
		h(s, e)
	}
	return nil
}
