// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package directory

import (
	"github.com/quixsi/seating/internal/model"
)

// View is the rendered form of a State, ready for the templates.
type View struct {
	Query        string
	ResetInput   bool
	FocusInput   bool
	ClearVisible bool

	ViewAllEnabled bool
	ViewAllLabel   string

	Loading bool
	Results Results
	Tables  []TableView
	Modal   ModalView

	ScrollToMap bool
}

type Results struct {
	// Message is a placeholder shown instead of cards. Empty when Cards is set
	// or the area is blank.
	Message string
	Cards   []Card
}

type Card struct {
	Name     string
	Nickname string
	Table    string
}

type TableView struct {
	Number      string
	ID          string
	X           float64
	Y           float64
	Highlighted bool
}

type ModalView struct {
	Visible bool
	Title   string
	Names   []string
	// Empty is set when no guest sits at the table.
	Empty string
}

// Render computes the view of s. It does not modify s.
func Render(s *State, o Options) View {
	v := View{
		Query:          s.Query,
		ResetInput:     s.ResetInput,
		FocusInput:     s.FocusInput,
		ClearVisible:   len(Normalize(s.Query)) > 0,
		ViewAllEnabled: o.ViewAll,
		ViewAllLabel:   ViewAllLabel,
		Loading:        !s.Loaded,
		ScrollToMap:    s.ScrollToMap,
	}
	if s.ViewAll {
		v.ViewAllLabel = HideAllLabel
	}

	switch s.Mode {
	case ResultsPrompt:
		v.Results.Message = o.Prompt
	case ResultsNoMatch:
		v.Results.Message = NoMatchMessage
	case ResultsLoadError:
		v.Results.Message = LoadErrorMessage
	case ResultsList:
		v.Results.Cards = make([]Card, 0, len(s.Results))
		for _, g := range s.Results {
			v.Results.Cards = append(v.Results.Cards, renderCard(g))
		}
	}

	v.Tables = make([]TableView, 0, len(o.Tables))
	for _, t := range o.Tables {
		v.Tables = append(v.Tables, TableView{
			Number:      t.Number,
			ID:          TableID(t.Number),
			X:           t.X,
			Y:           t.Y,
			Highlighted: s.Highlighted != "" && t.Number == s.Highlighted,
		})
	}

	v.Modal = ModalView{
		Visible: s.Modal.Visible,
		Title:   "Table " + s.Modal.Table,
	}
	if len(s.Modal.Guests) == 0 {
		v.Modal.Empty = NoGuestsAssigned
	}
	for _, g := range s.Modal.Guests {
		v.Modal.Names = append(v.Modal.Names, g.DisplayName())
	}
	return v
}

func renderCard(g *model.Guest) Card {
	c := Card{
		Name:  g.DisplayName(),
		Table: g.TableLabel(),
	}
	if g.Nickname != "" && g.Nickname != c.Name {
		c.Nickname = g.Nickname
	}
	return c
}
