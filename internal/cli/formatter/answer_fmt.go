package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/rexa/internal/intelligence"
)

const answerWrapWidth = 88

// FormatAnswer renders a routed reply with a dim footer naming the
// strategy, topic and latency.
func FormatAnswer(res intelligence.RoutingResult) string {
	var b strings.Builder
	b.WriteString(indentWrapped(res.Text, 2, answerWrapWidth))
	b.WriteString("\n\n  ")
	b.WriteString(AnswerFooter(res))
	b.WriteString("\n")
	return b.String()
}

// AnswerFooter is the one-line provenance note under an answer.
func AnswerFooter(res intelligence.RoutingResult) string {
	return Dim("[") +
		Dim(string(res.Strategy)+" · ") +
		OutcomeStyle(string(res.Outcome)).Render(res.Topic) +
		Dim(" · "+FormatLatency(res.Elapsed)+"]")
}

// FormatChatWelcome renders the banner shown at the top of the chat view.
func FormatChatWelcome(strategy intelligence.StrategyName) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(StylePurple.Render("  REXA") + StyleDim.Render(" · CR IT Infopark assistant"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("  ─────────────────────────────") + "\n")
	if strategy == intelligence.StrategyRetrieval {
		b.WriteString(StyleDim.Render("  Instant answers from local topics, no model required.") + "\n")
	} else {
		b.WriteString(StyleDim.Render("  Answers generated by the local model.") + "\n")
	}
	b.WriteString(StyleDim.Render("  /1-/5 quick actions · /services · /topics · /clear · /quit") + "\n")
	return b.String()
}

// FormatUserLine renders one user turn in the transcript.
func FormatUserLine(text string) string {
	return StyleBlue.Render("You: ") + text
}

// FormatSlowWarning flags replies over the 3s target.
func FormatSlowWarning(seconds float64) string {
	return StyleYellow.Render(fmt.Sprintf("  Response time: %.2fs (target: <3s)", seconds))
}

// FormatTimingNote is the plain debug timing line.
func FormatTimingNote(seconds float64) string {
	return StyleBlue.Render(fmt.Sprintf("  Response time: %.2fs", seconds))
}

func FormatInstantNote(ms float64) string {
	return StyleGreen.Render(fmt.Sprintf("  ⚡ Instant response: %.1fms", ms))
}

func indentWrapped(text string, indent, width int) string {
	prefix := strings.Repeat(" ", indent)
	lines := strings.Split(wrapText(text, width), "\n")
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString(prefix)
		b.WriteString(line)
	}
	return b.String()
}

// wrapText word-wraps each line of text to width, keeping blank lines.
func wrapText(text string, width int) string {
	if width <= 0 {
		return strings.TrimSpace(text)
	}

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			if len([]rune(current))+1+len([]rune(word)) <= width {
				current += " " + word
				continue
			}
			out = append(out, current)
			current = word
		}
		out = append(out, current)
	}
	return strings.Join(out, "\n")
}
