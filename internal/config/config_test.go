// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quixsi/seating/internal/model"
)

const testConfig = `
source: https://example.com/seating_chart.csv
schema: split-name
cache_bust: true
title: Anna & Ben
session_ttl: 10m
tables:
  - number: "1"
    x: 100
    y: 80
  - number: "head"
    x: 300
    y: 40
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seating.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SEATING_ADDR", "127.0.0.1:9999")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.Source != "https://example.com/seating_chart.csv" || cfg.Schema != "split-name" || !cfg.CacheBust {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.SessionTTL != 10*time.Minute {
		t.Fatalf("session_ttl = %s", cfg.SessionTTL)
	}
	if cfg.Addr != "127.0.0.1:9999" {
		t.Fatalf("env override not applied, addr = %q", cfg.Addr)
	}
	if cfg.ServiceName != "seating-chart" {
		t.Fatalf("default lost, service_name = %q", cfg.ServiceName)
	}
	if len(cfg.Tables) != 2 || cfg.Tables[1].Number != "head" {
		t.Fatalf("unexpected tables %+v", cfg.Tables)
	}

	o, err := cfg.DirectoryOptions()
	if err != nil {
		t.Fatal(err)
	}
	if o.Schema != model.SchemaSplitName || o.MinQueryLength != 1 || o.ViewAll {
		t.Fatalf("unexpected options %+v", o)
	}
	if !o.HasTable("head") || o.HasTable("2") {
		t.Fatalf("layout not taken from config: %+v", o.Tables)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if cfg.Schema != "guest-name" {
		t.Fatalf("unexpected schema %q", cfg.Schema)
	}
}

func TestValidate(t *testing.T) {
	tt := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "no source", mutate: func(c *Config) { c.Source = "" }, wantErr: true},
		{name: "bad schema", mutate: func(c *Config) { c.Schema = "xml" }, wantErr: true},
		{name: "negative ttl", mutate: func(c *Config) { c.SessionTTL = -time.Second }, wantErr: true},
		{name: "negative max", mutate: func(c *Config) { c.MaxSessions = -1 }, wantErr: true},
		{name: "duplicate table", mutate: func(c *Config) {
			c.Tables = []Table{{Number: "1"}, {Number: "1"}}
		}, wantErr: true},
		{name: "unnumbered table", mutate: func(c *Config) {
			c.Tables = []Table{{X: 1}}
		}, wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tc.wantErr {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestGridLayout(t *testing.T) {
	tables := GridLayout(5)
	if len(tables) != 5 {
		t.Fatalf("expected 5 tables, got %d", len(tables))
	}
	if tables[0].Number != "1" || tables[4].Number != "5" {
		t.Fatalf("unexpected numbering %+v", tables)
	}
	// 3 columns for 5 tables: table 4 starts the second row.
	if tables[3].X != 60 || tables[3].Y != 180 {
		t.Fatalf("unexpected position of table 4: %+v", tables[3])
	}
	if GridLayout(0) != nil {
		t.Fatal("expected no tables")
	}
}
