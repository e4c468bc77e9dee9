// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package directory

import (
	"github.com/quixsi/seating/internal/model"
)

// ResultsMode is what the results area currently shows.
type ResultsMode int

const (
	ResultsBlank ResultsMode = iota
	ResultsPrompt
	ResultsList
	ResultsNoMatch
	ResultsLoadError
)

// Modal is the table roster overlay. It exists for the whole lifetime of
// the state and only changes visibility and content.
type Modal struct {
	Visible bool
	Table   string
	Guests  []*model.Guest
}

// State is everything one page of the guest directory knows.
type State struct {
	Guests []*model.Guest
	Loaded bool

	// Query is the raw search input.
	Query   string
	ViewAll bool

	Mode    ResultsMode
	Results []*model.Guest

	// Highlighted is the table number carrying the highlight, or empty.
	Highlighted string

	Modal Modal

	// One-shot effects, reset after each render by the controller.
	ResetInput  bool
	FocusInput  bool
	ScrollToMap bool
}

func NewState(o Options) *State {
	return &State{Mode: idleMode(o)}
}

func idleMode(o Options) ResultsMode {
	if o.Prompt != "" {
		return ResultsPrompt
	}
	return ResultsBlank
}

func (s *State) clearEffects() {
	s.ResetInput = false
	s.FocusInput = false
	s.ScrollToMap = false
}
