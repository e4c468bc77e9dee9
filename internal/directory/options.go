// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package directory

import (
	"github.com/quixsi/seating/internal/model"
)

const (
	PromptMessage    = "Enter your first and last name above to find your table."
	NoMatchMessage   = "No guests found. Please check the spelling."
	LoadErrorMessage = "Error loading guest list. Please try again later."
	NoGuestsAssigned = "No guests assigned"

	ViewAllLabel = "View All Guests"
	HideAllLabel = "Hide Guest List"
)

// Table is one table drawn on the seating map.
type Table struct {
	Number string
	X      float64
	Y      float64
}

// Options carry the per-schema search rules and the seating map layout.
type Options struct {
	Schema         model.Schema
	MinQueryLength int
	// Prompt is shown in the results area while no search is active.
	// Empty means the area stays blank.
	Prompt string
	// ViewAll enables the "view all guests" toggle.
	ViewAll bool
	Tables  []Table
}

func DefaultOptions(schema model.Schema) Options {
	switch schema {
	case model.SchemaSplitName:
		return Options{
			Schema:         schema,
			MinQueryLength: 1,
		}
	default:
		return Options{
			Schema:         model.SchemaGuestName,
			MinQueryLength: 2,
			Prompt:         PromptMessage,
			ViewAll:        true,
		}
	}
}

// HasTable reports whether the seating map draws the given table.
func (o Options) HasTable(number string) bool {
	for _, t := range o.Tables {
		if t.Number == number {
			return true
		}
	}
	return false
}

// TableID is the element id of a table on the seating map.
func TableID(number string) string {
	return "table-" + number
}
