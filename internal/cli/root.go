package cli

import (
	"fmt"
	"io"

	"github.com/alexanderramin/rexa/internal/intelligence"
	"github.com/alexanderramin/rexa/internal/knowledge"
	"github.com/alexanderramin/rexa/internal/llm"
	"github.com/alexanderramin/rexa/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// App holds everything the commands need. Routers is keyed by strategy so
// the --strategy flag can switch without rewiring.
type App struct {
	Routers   map[intelligence.StrategyName]*intelligence.Router
	Strategy  intelligence.StrategyName
	Catalog   *knowledge.Catalog
	Knowledge knowledge.Document

	// Generative only. Readiness is nil when the process never warms a model.
	Readiness *intelligence.ModelReadiness
	LLM       llm.ChatClient
	Model     string
	Endpoint  string

	// History is nil when recording is disabled.
	History   repository.RoutingRepo
	Registry  prometheus.Gatherer
	Recording bool
	DBPath    string

	// Debug adds a timing note under every chat reply.
	Debug bool

	// IsInteractive reports whether stdin is a terminal. Nil means false.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// router returns the router for the active strategy.
func (a *App) router() (*intelligence.Router, error) {
	r, ok := a.Routers[a.Strategy]
	if !ok || r == nil {
		return nil, fmt.Errorf("%w: %q is not configured", intelligence.ErrUnknownStrategy, a.Strategy)
	}
	return r, nil
}

// strategyFlag parses --strategy at flag-parse time so a bad name fails
// before any command runs.
type strategyFlag struct {
	target *intelligence.StrategyName
}

var _ pflag.Value = strategyFlag{}

func (f strategyFlag) String() string {
	if f.target == nil {
		return ""
	}
	return string(*f.target)
}

func (f strategyFlag) Set(s string) error {
	name, err := intelligence.ParseStrategy(s)
	if err != nil {
		return err
	}
	*f.target = name
	return nil
}

func (strategyFlag) Type() string { return "strategy" }

// NewRootCmd creates the top-level "rexa" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "rexa",
		Short: "CR IT Infopark question router",
		Long: "Answers questions about CR IT Infopark, either from the local topic table\n" +
			"(retrieval) or from a local Ollama model (generative).",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.interactive() {
				return runChat(cmd, app)
			}
			return runPipe(cmd, app)
		},
	}

	root.PersistentFlags().Var(strategyFlag{target: &app.Strategy}, "strategy", "answer strategy: generative or retrieval")

	root.AddCommand(
		newAskCmd(app),
		newChatCmd(app),
		newQuickCmd(app),
		newTopicsCmd(app),
		newKnowledgeCmd(app),
		newStatusCmd(app),
		newStatsCmd(app),
		newHistoryCmd(app),
	)

	return root
}

// runPipe answers one question per input line. Blank lines are skipped.
func runPipe(cmd *cobra.Command, app *App) error {
	r, err := app.router()
	if err != nil {
		return err
	}
	return answerLines(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), r)
}

func writeString(w io.Writer, s string) {
	_, _ = io.WriteString(w, s)
}
