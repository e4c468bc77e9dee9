// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quixsi/seating/internal/config"
	"github.com/quixsi/seating/internal/db/csvdb"
	"github.com/quixsi/seating/internal/directory"
	"github.com/quixsi/seating/internal/model"
)

type rootOptions struct {
	configPath string
	source     string
	schema     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Look up guests and tables in a seating chart",
		Long: `lookup reads the same seating chart CSV as the server and answers
the questions a guest would ask on the page: where do I sit, and who sits
at this table.

Examples:
  lookup search jane
  lookup --source https://example.com/seating_chart.csv --schema split-name search smith
  lookup table 5`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "seating.yaml", "config file path")
	cmd.PersistentFlags().StringVar(&opts.source, "source", "", "seating chart CSV path or URL, overrides the config file")
	cmd.PersistentFlags().StringVar(&opts.schema, "schema", "", "guest-name or split-name, overrides the config file")

	cmd.AddCommand(newSearchCmd(opts), newTableCmd(opts))
	return cmd
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find the table of every guest matching query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctrl, err := opts.controller(ctx)
			if err != nil {
				return err
			}
			v, err := ctrl.Dispatch(ctx, directory.QueryChanged{Query: args[0]})
			if err != nil {
				return err
			}
			return printResults(cmd.OutOrStdout(), v)
		},
	}
}

func newTableCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "table <number>",
		Short: "List the guests seated at a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctrl, err := opts.controller(ctx)
			if err != nil {
				return err
			}
			v, err := ctrl.Dispatch(ctx, directory.TableSelected{Table: args[0]})
			if err != nil {
				return err
			}
			return printRoster(cmd.OutOrStdout(), v.Modal)
		},
	}
}

// controller loads the seating chart synchronously so a failed load is
// reported as an error instead of an empty result.
func (o *rootOptions) controller(ctx context.Context) (*directory.Controller, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.source != "" {
		cfg.Source = o.source
	}
	if o.schema != "" {
		cfg.Schema = o.schema
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	schema, err := model.ParseSchema(cfg.Schema)
	if err != nil {
		return nil, err
	}
	store, err := csvdb.NewGuestStore(cfg.Source, schema, csvdb.WithCacheBust(cfg.CacheBust))
	if err != nil {
		return nil, err
	}
	guests, err := store.ListGuests(ctx)
	if err != nil {
		slog.Default().ErrorContext(ctx, "error loading guest list", "source", cfg.Source, "error", err)
		return nil, fmt.Errorf("loading %s: %w", cfg.Source, err)
	}

	dirOpts, err := cfg.DirectoryOptions()
	if err != nil {
		return nil, err
	}
	// The prompt is meant for the web page; a short query prints nothing.
	dirOpts.Prompt = ""
	ctrl := directory.NewController(dirOpts)
	if _, err := ctrl.Dispatch(ctx, directory.GuestsLoaded{Guests: guests}); err != nil {
		return nil, err
	}
	return ctrl, nil
}

func printResults(out io.Writer, v directory.View) error {
	if v.Results.Message != "" {
		_, err := fmt.Fprintln(out, v.Results.Message)
		return err
	}
	if len(v.Results.Cards) == 0 {
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GUEST\tNICKNAME\tTABLE")
	for _, c := range v.Results.Cards {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, c.Nickname, c.Table)
	}
	return w.Flush()
}

func printRoster(out io.Writer, m directory.ModalView) error {
	if _, err := fmt.Fprintln(out, m.Title); err != nil {
		return err
	}
	if m.Empty != "" {
		_, err := fmt.Fprintln(out, "  "+m.Empty)
		return err
	}
	for _, name := range m.Names {
		if _, err := fmt.Fprintln(out, "  "+name); err != nil {
			return err
		}
	}
	return nil
}
