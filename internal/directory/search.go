// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package directory

import (
	"strings"

	"github.com/quixsi/seating/internal/model"
)

// Normalize lowercases and trims a search query.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Matches reports whether a guest matches an already normalized query.
func Matches(schema model.Schema, g *model.Guest, query string) bool {
	contains := func(field string) bool {
		return field != "" && strings.Contains(strings.ToLower(field), query)
	}
	switch schema {
	case model.SchemaSplitName:
		return contains(g.FirstName) ||
			contains(g.LastName) ||
			contains(g.Nickname) ||
			contains(g.FirstName+" "+g.LastName)
	default:
		return contains(g.Name)
	}
}

// Search filters guests in list order.
func Search(guests []*model.Guest, schema model.Schema, query string) []*model.Guest {
	var res []*model.Guest
	for _, g := range guests {
		if Matches(schema, g, query) {
			res = append(res, g)
		}
	}
	return res
}

// Roster returns the guests seated at a table in list order.
func Roster(guests []*model.Guest, table string) []*model.Guest {
	var res []*model.Guest
	for _, g := range guests {
		if g.Table == table {
			res = append(res, g)
		}
	}
	return res
}
