// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/quixsi/seating/internal/db"
	"github.com/quixsi/seating/internal/directory"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrFull     = errors.New("maximum number of sessions exceeded")
)

type entry struct {
	ctrl     *directory.Controller
	lastSeen time.Time
}

// Store keeps one directory controller per open page. Nothing is written
// to disk; idle pages are swept after ttl.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entry

	guests db.GuestStore
	opts   directory.Options
	ttl    time.Duration
	max    int
	now    func() time.Time
	logger *slog.Logger
}

func NewStore(guests db.GuestStore, opts directory.Options, ttl time.Duration, max int) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*entry),
		guests:   guests,
		opts:     opts,
		ttl:      ttl,
		max:      max,
		now:      time.Now,
		logger:   slog.Default().WithGroup("session"),
	}
}

// Create opens a new page session and starts loading its guest list in
// the background.
func (s *Store) Create(ctx context.Context) (uuid.UUID, *directory.Controller, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Create")
	defer span.End()

	span.AddEvent("Lock")
	s.mu.Lock()
	defer span.AddEvent("Unlock")
	defer s.mu.Unlock()

	if s.max > 0 && len(s.sessions) >= s.max {
		s.sweepLocked()
		if len(s.sessions) >= s.max {
			span.RecordError(ErrFull)
			return uuid.Nil, nil, ErrFull
		}
	}

	id := uuid.New()
	ctrl := directory.NewController(s.opts)
	s.sessions[id] = &entry{ctrl: ctrl, lastSeen: s.now()}

	// The load outlives the request that opened the page.
	loadCtx := trace.ContextWithSpanContext(context.Background(), span.SpanContext())
	go ctrl.Load(loadCtx, s.guests)
	return id, ctrl, nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*directory.Controller, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "Get")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok || s.expired(e) {
		span.RecordError(ErrNotFound)
		return nil, ErrNotFound
	}
	e.lastSeen = s.now()
	return e.ctrl, nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops idle sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked()
}

func (s *Store) sweepLocked() int {
	removed := 0
	for id, e := range s.sessions {
		if s.expired(e) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Store) expired(e *entry) bool {
	return s.ttl > 0 && s.now().Sub(e.lastSeen) > s.ttl
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.DebugContext(ctx, "swept idle sessions", "removed", n, "open", s.Len())
			}
		}
	}
}
