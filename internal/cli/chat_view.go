package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/rexa/internal/cli/formatter"
	"github.com/alexanderramin/rexa/internal/intelligence"
	"github.com/alexanderramin/rexa/internal/knowledge"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const (
	slowReplyThreshold = 3 * time.Second
	instantThreshold   = 10 * time.Millisecond
)

// Transcript windows and input limits per strategy.
const (
	generativeWindow   = 10
	retrievalWindow    = 6
	generativeMaxInput = 500
	retrievalMaxInput  = intelligence.MaxRetrievalQueryLen
)

type chatKeyMap struct {
	Send key.Binding
	Quit key.Binding
}

var chatKeys = chatKeyMap{
	Send: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
	Quit: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
}

// answerMsg carries a finished routing result back into the view.
type answerMsg struct {
	res intelligence.RoutingResult
}

// warmedMsg is sent once the background model warm-up has finished.
type warmedMsg struct{}

// chatView is the interactive chat. Routing runs in a tea.Cmd so the view
// keeps rendering while a generative answer is pending.
type chatView struct {
	ctx     context.Context
	app     *App
	router  *intelligence.Router
	actions []knowledge.QuickAction

	input   textinput.Model
	spinner spinner.Model

	welcome  string
	messages []string
	window   int
	count    int
	pending  bool
	warm     bool
	warmErr  error
}

func newChatView(ctx context.Context, app *App, r *intelligence.Router) *chatView {
	strategy := r.Strategy()

	ti := textinput.New()
	ti.Focus()
	ti.Prompt = ""
	ti.Placeholder = "Ask about CR IT Infopark..."

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StylePurple

	v := &chatView{
		ctx:     ctx,
		app:     app,
		router:  r,
		actions: app.Catalog.Actions(string(strategy)),
		input:   ti,
		spinner: sp,
		welcome: formatter.FormatChatWelcome(strategy),
		warm:    true,
	}

	if strategy == intelligence.StrategyGenerative {
		v.window = generativeWindow
		v.input.CharLimit = generativeMaxInput
		v.syncReadiness()
	} else {
		v.window = retrievalWindow
		v.input.CharLimit = retrievalMaxInput
	}
	return v
}

// ── tea.Model interface ──────────────────────────────────────────────────────

func (v *chatView) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if !v.warm {
		readiness := v.app.Readiness
		ctx := v.ctx
		cmds = append(cmds, func() tea.Msg {
			<-readiness.StartBackground(ctx)
			return warmedMsg{}
		})
	}
	return tea.Batch(cmds...)
}

func (v *chatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, chatKeys.Quit):
			return v, tea.Quit
		case key.Matches(msg, chatKeys.Send):
			if v.pending {
				return v, nil
			}
			input := strings.TrimSpace(v.input.Value())
			v.input.Reset()
			if input == "" {
				return v, nil
			}
			return v.handleInput(input)
		}

	case warmedMsg:
		v.syncReadiness()
		return v, nil

	case answerMsg:
		v.pending = false
		v.onAnswer(msg.res)
		return v, nil

	case spinner.TickMsg:
		if !v.pending {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *chatView) View() string {
	var b strings.Builder

	b.WriteString(v.welcome)
	b.WriteString("  ")
	b.WriteString(formatter.StyleFg.Render(string(v.router.Strategy())))
	b.WriteString(formatter.Dim(" · "))
	b.WriteString(formatter.ReadyIndicator(v.warm, v.warmErr))
	b.WriteString(formatter.Dim(fmt.Sprintf(" · %d messages", v.count)))
	b.WriteString("\n\n")

	for _, m := range v.visible() {
		b.WriteString(m)
		b.WriteString("\n")
	}

	if v.pending {
		b.WriteString("  " + v.spinner.View() + formatter.Dim(" Thinking...") + "\n")
	}

	b.WriteString(formatter.StylePurple.Render("rexa") + formatter.Dim("> "))
	b.WriteString(v.input.View())
	return b.String()
}

// ── input handling ───────────────────────────────────────────────────────────

func (v *chatView) handleInput(input string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(input) {
	case "/quit", "/exit", "/q":
		return v, tea.Quit
	case "/clear":
		v.messages = nil
		v.count = 0
		return v, nil
	case "/services":
		v.messages = append(v.messages, formatter.FormatKnowledge(v.app.Knowledge))
		return v, nil
	case "/topics":
		v.messages = append(v.messages, formatter.FormatTopics(v.app.Catalog))
		return v, nil
	}

	if prompt, ok, err := v.quickAction(input); ok {
		if err != nil {
			v.messages = append(v.messages, formatter.StyleYellow.Render("  "+err.Error()))
			return v, nil
		}
		input = prompt
	}

	return v, v.ask(input)
}

// quickAction resolves "/N" to the Nth quick-action prompt.
func (v *chatView) quickAction(input string) (string, bool, error) {
	if len(input) < 2 || input[0] != '/' {
		return "", false, nil
	}
	n, err := strconv.Atoi(input[1:])
	if err != nil {
		return "", false, nil
	}
	if n < 1 || n > len(v.actions) {
		return "", true, fmt.Errorf("no quick action /%d (have /1-/%d)", n, len(v.actions))
	}
	return v.actions[n-1].Prompt, true, nil
}

func (v *chatView) ask(query string) tea.Cmd {
	v.messages = append(v.messages, formatter.FormatUserLine(query))
	v.count++
	v.pending = true

	ctx, r := v.ctx, v.router
	route := func() tea.Msg {
		return answerMsg{res: r.Resolve(ctx, query)}
	}
	return tea.Batch(route, v.spinner.Tick)
}

func (v *chatView) onAnswer(res intelligence.RoutingResult) {
	text := formatter.FormatAnswer(res)
	switch {
	case res.Elapsed > slowReplyThreshold:
		text += formatter.FormatSlowWarning(res.Elapsed.Seconds()) + "\n"
	case v.app.Debug:
		text += formatter.FormatTimingNote(res.Elapsed.Seconds()) + "\n"
	case res.Strategy == intelligence.StrategyRetrieval && res.Elapsed < instantThreshold:
		text += formatter.FormatInstantNote(float64(res.Elapsed.Microseconds())/1000) + "\n"
	}
	v.messages = append(v.messages, text)
	v.count++

	if v.router.Strategy() == intelligence.StrategyGenerative {
		v.syncReadiness()
	}
}

func (v *chatView) syncReadiness() {
	if v.app.Readiness == nil {
		v.warm, v.warmErr = true, nil
		return
	}
	v.warm = v.app.Readiness.IsWarm()
	v.warmErr = v.app.Readiness.Err()
}

func (v *chatView) visible() []string {
	if len(v.messages) <= v.window {
		return v.messages
	}
	return v.messages[len(v.messages)-v.window:]
}

// runChat starts the chat TUI on the command's streams.
func runChat(cmd *cobra.Command, app *App) error {
	r, err := app.router()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	p := tea.NewProgram(
		newChatView(ctx, app, r),
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running chat: %w", err)
	}
	return nil
}

func newChatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd, app)
		},
	}
}
