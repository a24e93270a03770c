package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/rexa/internal/cli/formatter"
	"github.com/alexanderramin/rexa/internal/knowledge"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// rexaHuhTheme matches huh forms to the formatter palette.
func rexaHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// quickActionForm builds a select over the quick actions. The chosen
// prompt is written to result.
func quickActionForm(actions []knowledge.QuickAction, result *string) *huh.Form {
	if len(actions) == 0 {
		return nil
	}

	options := make([]huh.Option[string], 0, len(actions))
	for _, a := range actions {
		label := a.Label
		if a.Icon != "" {
			label = a.Icon + " " + a.Label
		}
		options = append(options, huh.NewOption(label, a.Prompt))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("What would you like to know?").
				Options(options...).
				Value(result),
		),
	).WithTheme(rexaHuhTheme()).WithShowHelp(false)
}

func newQuickCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "quick [n]",
		Short: "Ask one of the quick-action questions",
		Long: "Pick a quick action from a menu, or pass its number to ask it directly.\n" +
			"Without a terminal and without a number, the actions are listed.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := app.router()
			if err != nil {
				return err
			}
			actions := app.Catalog.Actions(string(r.Strategy()))
			out := cmd.OutOrStdout()

			var prompt string
			switch {
			case len(args) == 1:
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 || n > len(actions) {
					return fmt.Errorf("quick action must be 1-%d, got %q", len(actions), args[0])
				}
				prompt = actions[n-1].Prompt
			case app.interactive():
				form := quickActionForm(actions, &prompt)
				if form == nil {
					return fmt.Errorf("no quick actions for %s", r.Strategy())
				}
				if err := form.RunWithContext(cmd.Context()); err != nil {
					return fmt.Errorf("quick action: %w", err)
				}
			default:
				writeString(out, formatter.FormatQuickActions(actions))
				return nil
			}

			writeString(out, formatter.FormatUserLine(prompt)+"\n\n")
			writeString(out, formatter.FormatAnswer(resolveWithSpinner(cmd, app, r, prompt)))
			return nil
		},
	}
}
