package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/rexa/internal/cli/formatter"
	"github.com/alexanderramin/rexa/internal/intelligence"
	"github.com/spf13/cobra"
)

func newAskCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   `ask "<question>"`,
		Short: "Answer one question and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := app.router()
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			res := resolveWithSpinner(cmd, app, r, query)
			writeString(cmd.OutOrStdout(), formatter.FormatAnswer(res))
			return nil
		},
	}
}

// resolveWithSpinner shows a spinner on stderr while a generative answer is
// pending. Retrieval answers are instant and piped output stays clean.
func resolveWithSpinner(cmd *cobra.Command, app *App, r *intelligence.Router, query string) intelligence.RoutingResult {
	if app.interactive() && r.Strategy() == intelligence.StrategyGenerative {
		stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Thinking...")
		defer stop()
	}
	return r.Resolve(cmd.Context(), query)
}

// answerLines routes every non-blank line of in and writes the plain reply
// text, one block per question. Lines of any length reach the router so
// oversized questions get the router's own reply.
func answerLines(ctx context.Context, in io.Reader, out io.Writer, r *intelligence.Router) error {
	br := bufio.NewReader(in)
	for {
		raw, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("reading questions: %w", readErr)
		}
		if line := strings.TrimSpace(raw); line != "" {
			if _, err := fmt.Fprintf(out, "%s\n\n", r.Route(ctx, line)); err != nil {
				return fmt.Errorf("writing answer: %w", err)
			}
		}
		if readErr != nil {
			return nil
		}
	}
}
