// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package model

import (
	"fmt"
	"strings"
)

// Schema selects which seating chart layout the guest list uses.
type Schema int

const (
	SchemaUnknown Schema = iota
	// SchemaGuestName has a single "Guest Name" column.
	SchemaGuestName
	// SchemaSplitName has first name, last name and nickname columns.
	SchemaSplitName
)

const (
	ColumnGuestName   = "Guest Name"
	ColumnFirstName   = "First Name"
	ColumnLastName    = "Last Name"
	ColumnNickname    = "Nickname/Group Name"
	ColumnTableNumber = "Table Number"
)

// NotAttending marks a split-name row that must not be seated.
const NotAttending = "not attending"

// NoTable is rendered when a guest has no table number.
const NoTable = "-"

func ParseSchema(s string) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "guest-name":
		return SchemaGuestName, nil
	case "split-name":
		return SchemaSplitName, nil
	}
	return SchemaUnknown, fmt.Errorf("unknown schema %q: must be one of guest-name, split-name", s)
}

func (s Schema) String() string {
	switch s {
	case SchemaGuestName:
		return "guest-name"
	case SchemaSplitName:
		return "split-name"
	}
	return "unknown"
}

// RequiredColumns lists the header columns a chart of this schema must carry.
func (s Schema) RequiredColumns() []string {
	switch s {
	case SchemaGuestName:
		return []string{ColumnGuestName, ColumnTableNumber}
	case SchemaSplitName:
		return []string{ColumnFirstName, ColumnLastName, ColumnTableNumber}
	}
	return nil
}

type Guest struct {
	Name      string `json:"name,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
	Table     string `json:"table"`
}

// FullName joins first and last name.
func (g *Guest) FullName() string {
	return strings.TrimSpace(g.FirstName + " " + g.LastName)
}

// DisplayName is the guest name as shown on cards and in the table roster.
func (g *Guest) DisplayName() string {
	if g.Name != "" {
		return g.Name
	}
	if full := g.FullName(); full != "" {
		return full
	}
	return g.Nickname
}

// TableLabel returns the table number or NoTable when it is missing.
func (g *Guest) TableLabel() string {
	if g.Table == "" {
		return NoTable
	}
	return g.Table
}
