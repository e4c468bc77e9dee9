// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const chart = `Guest Name,Table Number
Jane Doe,5
John Doe,5
Ann Lee,2
`

func runLookup(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seating_chart.csv")
	if err := os.WriteFile(path, []byte(chart), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", "", "--source", path}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestLookup_Search(t *testing.T) {
	out, err := runLookup(t, "search", "doe")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two guests, got %q", out)
	}
	if !strings.HasPrefix(lines[1], "Jane Doe") || !strings.HasSuffix(lines[1], "5") {
		t.Fatalf("unexpected first row %q", lines[1])
	}
}

func TestLookup_SearchNoMatch(t *testing.T) {
	out, err := runLookup(t, "search", "zelda")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "No guests found. Please check the spelling." {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestLookup_Table(t *testing.T) {
	out, err := runLookup(t, "table", "5")
	if err != nil {
		t.Fatal(err)
	}
	if out != "Table 5\n  Jane Doe\n  John Doe\n" {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = runLookup(t, "table", "9")
	if err != nil {
		t.Fatal(err)
	}
	if out != "Table 9\n  No guests assigned\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestLookup_MissingSource(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", "", "--source", filepath.Join(t.TempDir(), "missing.csv"), "search", "jane"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for missing chart")
	}
}
