// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package model

import "testing"

func TestGuest_DisplayName(t *testing.T) {
	tt := []struct {
		name  string
		guest Guest
		want  string
	}{
		{
			name:  "guest name",
			guest: Guest{Name: "Jane Doe", Table: "5"},
			want:  "Jane Doe",
		},
		{
			name:  "first and last",
			guest: Guest{FirstName: "Bob", LastName: "Smith", Table: "3"},
			want:  "Bob Smith",
		},
		{
			name:  "first only",
			guest: Guest{FirstName: "Bob", Table: "3"},
			want:  "Bob",
		},
		{
			name:  "nickname fallback",
			guest: Guest{Nickname: "The Millers", Table: "2"},
			want:  "The Millers",
		},
		{
			name:  "empty",
			guest: Guest{},
			want:  "",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.guest.DisplayName(); got != tc.want {
				t.Fatalf("DisplayName() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGuest_TableLabel(t *testing.T) {
	if got := (&Guest{}).TableLabel(); got != NoTable {
		t.Fatalf("TableLabel() = %q, want %q", got, NoTable)
	}
	if got := (&Guest{Table: "12"}).TableLabel(); got != "12" {
		t.Fatalf("TableLabel() = %q, want 12", got)
	}
}

func TestParseSchema(t *testing.T) {
	tt := []struct {
		in      string
		want    Schema
		wantErr bool
	}{
		{in: "guest-name", want: SchemaGuestName},
		{in: " Split-Name ", want: SchemaSplitName},
		{in: "b", want: SchemaUnknown, wantErr: true},
		{in: "single", want: SchemaUnknown, wantErr: true},
		{in: "json", want: SchemaUnknown, wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseSchema(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ParseSchema(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
