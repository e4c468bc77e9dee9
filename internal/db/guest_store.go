// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package db

import (
	"context"

	"github.com/quixsi/seating/internal/model"
)

// GuestStore yields the seating chart in source row order.
type GuestStore interface {
	ListGuests(context.Context) ([]*model.Guest, error)
}
