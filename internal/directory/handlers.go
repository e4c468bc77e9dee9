// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package directory

import (
	"unicode/utf8"

	"github.com/quixsi/seating/internal/model"
)

// RegisterDefaults wires the guest directory behaviour into d.
func RegisterDefaults(d *Dispatcher, o Options) {
	d.Register(EventQueryChanged, func(s *State, e Event) {
		queryChanged(s, o, e.(QueryChanged))
	})
	d.Register(EventClearRequested, func(s *State, _ Event) {
		clearSearch(s, o)
	})
	d.Register(EventViewAllToggled, func(s *State, _ Event) {
		toggleViewAll(s, o)
	})
	d.Register(EventGuestSelected, func(s *State, e Event) {
		highlight(s, o, e.(GuestSelected).Table)
		s.ScrollToMap = true
	})
	d.Register(EventTableSelected, func(s *State, e Event) {
		showRoster(s, e.(TableSelected).Table)
	})
	d.Register(EventModalDismissed, func(s *State, e Event) {
		if e.(ModalDismissed).Target == DismissContent {
			return
		}
		s.Modal.Visible = false
	})
	d.Register(EventGuestsLoaded, func(s *State, e Event) {
		s.Guests = e.(GuestsLoaded).Guests
		s.Loaded = true
	})
	d.Register(EventLoadFailed, func(s *State, _ Event) {
		s.Guests = nil
		s.Loaded = true
		s.Results = nil
		s.Mode = ResultsLoadError
	})
}

func queryChanged(s *State, o Options, e QueryChanged) {
	s.Query = e.Query
	query := Normalize(e.Query)
	if utf8.RuneCountInString(query) < o.MinQueryLength {
		s.Mode = idleMode(o)
		s.Results = nil
		return
	}
	s.ViewAll = false
	showResults(s, o, Search(s.Guests, o.Schema, query))
}

func clearSearch(s *State, o Options) {
	s.Query = ""
	s.ResetInput = true
	s.FocusInput = true
	s.ViewAll = false
	s.Mode = idleMode(o)
	s.Results = nil
	s.Highlighted = ""
}

func toggleViewAll(s *State, o Options) {
	if !o.ViewAll {
		return
	}
	s.Query = ""
	s.ResetInput = true
	if s.ViewAll {
		s.ViewAll = false
		s.Mode = idleMode(o)
		s.Results = nil
		s.Highlighted = ""
		return
	}
	s.ViewAll = true
	all := make([]*model.Guest, len(s.Guests))
	copy(all, s.Guests)
	showResults(s, o, all)
}

func showResults(s *State, o Options, results []*model.Guest) {
	s.Highlighted = ""
	if len(results) == 0 {
		s.Mode = ResultsNoMatch
		s.Results = nil
		return
	}
	s.Mode = ResultsList
	s.Results = results
	if len(results) == 1 {
		highlight(s, o, results[0].Table)
	}
}

// highlight moves the single highlight to table. Tables that are not drawn
// on the map leave nothing highlighted.
func highlight(s *State, o Options, table string) {
	s.Highlighted = ""
	if table == "" || table == model.NoTable {
		return
	}
	if o.HasTable(table) {
		s.Highlighted = table
	}
}

func showRoster(s *State, table string) {
	if table == "" {
		return
	}
	s.Modal.Table = table
	s.Modal.Guests = Roster(s.Guests, table)
	s.Modal.Visible = true
}
