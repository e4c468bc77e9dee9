// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/quixsi/seating/internal/directory"
	"github.com/quixsi/seating/internal/model"
)

const EnvPrefix = "SEATING_"

type Table struct {
	Number string  `koanf:"number"`
	X      float64 `koanf:"x"`
	Y      float64 `koanf:"y"`
}

type Config struct {
	ServiceName string `koanf:"service_name"`
	Addr        string `koanf:"addr"`
	// Source is a path, file:// or http(s):// URL of the seating chart CSV.
	Source    string `koanf:"source"`
	Schema    string `koanf:"schema"`
	CacheBust bool   `koanf:"cache_bust"`
	Title     string `koanf:"title"`
	// Welcome is Markdown shown above the search field.
	Welcome     string        `koanf:"welcome"`
	StaticDir   string        `koanf:"static_dir"`
	SessionTTL  time.Duration `koanf:"session_ttl"`
	MaxSessions int           `koanf:"max_sessions"`
	TableCount  int           `koanf:"table_count"`
	Tables      []Table       `koanf:"tables"`
}

func DefaultConfig() *Config {
	return &Config{
		ServiceName: "seating-chart",
		Addr:        "0.0.0.0:8080",
		Source:      "testdata/seating_chart.csv",
		Schema:      model.SchemaGuestName.String(),
		Title:       "Find Your Seat",
		SessionTTL:  30 * time.Minute,
		MaxSessions: 1000,
		TableCount:  12,
	}
}

// Load reads the YAML file at path when it exists and overlays SEATING_*
// environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if _, err := model.ParseSchema(c.Schema); err != nil {
		return err
	}
	if c.SessionTTL < 0 {
		return errors.New("session_ttl must be non-negative")
	}
	if c.MaxSessions < 0 {
		return errors.New("max_sessions must be non-negative")
	}
	if len(c.Tables) == 0 && c.TableCount < 0 {
		return errors.New("table_count must be non-negative")
	}
	seen := make(map[string]bool, len(c.Tables))
	for _, t := range c.Tables {
		if t.Number == "" {
			return errors.New("tables: number is required")
		}
		if seen[t.Number] {
			return fmt.Errorf("tables: duplicate table %q", t.Number)
		}
		seen[t.Number] = true
	}
	return nil
}

// DirectoryOptions turns the config into search rules and a seating map
// layout. Without explicit tables a grid of TableCount tables is laid out.
func (c *Config) DirectoryOptions() (directory.Options, error) {
	schema, err := model.ParseSchema(c.Schema)
	if err != nil {
		return directory.Options{}, err
	}
	o := directory.DefaultOptions(schema)
	for _, t := range c.Tables {
		o.Tables = append(o.Tables, directory.Table{Number: t.Number, X: t.X, Y: t.Y})
	}
	if len(o.Tables) == 0 {
		o.Tables = GridLayout(c.TableCount)
	}
	return o, nil
}

// GridLayout places n tables numbered from 1 on a square-ish grid with
// 120 units between table centres.
func GridLayout(n int) []directory.Table {
	if n <= 0 {
		return nil
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	tables := make([]directory.Table, 0, n)
	for i := 0; i < n; i++ {
		tables = append(tables, directory.Table{
			Number: strconv.Itoa(i + 1),
			X:      float64(60 + (i%cols)*120),
			Y:      float64(60 + (i/cols)*120),
		})
	}
	return tables
}
