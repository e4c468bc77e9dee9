// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quixsi/seating/internal/directory"
	"github.com/quixsi/seating/internal/model"
)

type stubStore struct {
	guests []*model.Guest
}

func (s *stubStore) ListGuests(context.Context) ([]*model.Guest, error) {
	return s.guests, nil
}

func newTestStore(ttl time.Duration, max int) (*Store, *time.Time) {
	now := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	s := NewStore(
		&stubStore{guests: []*model.Guest{{Name: "Jane Doe", Table: "5"}}},
		directory.DefaultOptions(model.SchemaGuestName),
		ttl,
		max,
	)
	s.now = func() time.Time { return now }
	return s, &now
}

func waitLoaded(t *testing.T, ctrl *directory.Controller) {
	t.Helper()
	select {
	case <-ctrl.Loaded():
	case <-time.After(2 * time.Second):
		t.Fatal("guest list was not loaded")
	}
}

func TestStore_CreateGet(t *testing.T) {
	s, _ := newTestStore(time.Minute, 0)
	ctx := context.Background()

	id, ctrl, err := s.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}
	waitLoaded(t, ctrl)

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got != ctrl {
		t.Fatal("Get returned a different controller")
	}
	v, err := got.Dispatch(ctx, directory.QueryChanged{Query: "jane"})
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Results.Cards) != 1 {
		t.Fatalf("expected loaded guest list, got %+v", v.Results)
	}

	if _, err := s.Get(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Expiry(t *testing.T) {
	s, now := newTestStore(time.Minute, 0)
	ctx := context.Background()

	idle, _, _ := s.Create(ctx)
	*now = now.Add(45 * time.Second)
	active, _, _ := s.Create(ctx)
	*now = now.Add(30 * time.Second)

	if _, err := s.Get(ctx, idle); !errors.Is(err, ErrNotFound) {
		t.Fatalf("idle session should be expired, got %v", err)
	}
	if _, err := s.Get(ctx, active); err != nil {
		t.Fatalf("active session expired: %v", err)
	}
	if n := s.Sweep(); n != 1 {
		t.Fatalf("expected 1 swept session, got %d", n)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 open session, got %d", s.Len())
	}
}

func TestStore_Max(t *testing.T) {
	s, now := newTestStore(time.Minute, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, _, err := s.Create(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if _, _, err := s.Create(ctx); !errors.Is(err, ErrFull) {
		t.Fatalf("expected ErrFull, got %v", err)
	}

	*now = now.Add(2 * time.Minute)
	if _, _, err := s.Create(ctx); err != nil {
		t.Fatalf("expired sessions should make room: %v", err)
	}
}

func TestStore_Run(t *testing.T) {
	s, _ := newTestStore(time.Minute, 0)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
