package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/rexa/internal/cli/formatter"
	"github.com/alexanderramin/rexa/internal/metrics"
	"github.com/spf13/cobra"
)

const probeTimeout = 2 * time.Second

var errRecordingDisabled = errors.New("routing history is disabled (set REXA_RECORD=true)")

func newTopicsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List retrieval topics in scoring order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			writeString(cmd.OutOrStdout(), formatter.FormatTopics(app.Catalog))
			return nil
		},
	}
}

func newKnowledgeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "knowledge",
		Aliases: []string{"services"},
		Short:   "Print the company knowledge document",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			writeString(cmd.OutOrStdout(), formatter.FormatKnowledge(app.Knowledge))
			return nil
		},
	}
}

func newStatusCmd(app *App) *cobra.Command {
	var warm bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show strategy, model and backend state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if warm && app.Readiness != nil {
				stop := func() {}
				if app.interactive() {
					stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Warming up "+app.Model+"...")
				}
				err := app.Readiness.WarmUp(ctx)
				stop()
				if err != nil {
					writeString(cmd.ErrOrStderr(), formatter.StyleYellow.Render("warm-up failed: "+err.Error())+"\n")
				}
			}

			v := formatter.StatusView{
				Strategy:        string(app.Strategy),
				Model:           app.Model,
				Endpoint:        app.Endpoint,
				Topics:          len(app.Catalog.Topics),
				KnowledgeSource: app.Knowledge.Source,
				DBPath:          app.DBPath,
				Recording:       app.Recording,
			}
			if app.Readiness != nil {
				v.Warm = app.Readiness.IsWarm()
				v.WarmErr = app.Readiness.Err()
			}
			if app.LLM != nil {
				probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
				v.OllamaReachable = app.LLM.Available(probeCtx)
				cancel()
			}

			writeString(cmd.OutOrStdout(), formatter.FormatStatus(v))
			return nil
		},
	}

	cmd.Flags().BoolVar(&warm, "warm", false, "warm up the model before reporting")
	return cmd
}

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show routed-query counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.Registry == nil {
				return errors.New("metrics are not configured")
			}
			samples, err := metrics.Snapshot(app.Registry)
			if err != nil {
				return fmt.Errorf("gathering metrics: %w", err)
			}
			writeString(cmd.OutOrStdout(), formatter.FormatStats(samples))
			return nil
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently routed queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.History == nil {
				return errRecordingDisabled
			}
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}
			records, err := app.History.ListRecent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("listing history: %w", err)
			}
			writeString(cmd.OutOrStdout(), formatter.FormatHistory(records, time.Now()))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of records to show")
	return cmd
}
