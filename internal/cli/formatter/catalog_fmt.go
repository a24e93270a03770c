package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/rexa/internal/knowledge"
)

const answerPreviewLen = 48

// FormatTopics renders the topic table in scoring order.
func FormatTopics(c *knowledge.Catalog) string {
	rows := make([][]string, 0, len(c.Topics))
	for i, t := range c.Topics {
		name := t.Name
		if name == c.DefaultTopic {
			name += StyleDim.Render(" (default)")
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			StyleGreen.Render(name),
			strings.Join(t.Keywords, ", "),
			Dim(Truncate(t.Answer, answerPreviewLen)),
		})
	}
	var b strings.Builder
	b.WriteString(Header("Topics"))
	b.WriteString("\n")
	b.WriteString(RenderTable([]string{"#", "TOPIC", "KEYWORDS", "ANSWER"}, rows))
	b.WriteString(Dim("Ties go to the earlier topic.") + "\n")
	return b.String()
}

// FormatQuickActions lists the numbered quick actions.
func FormatQuickActions(actions []knowledge.QuickAction) string {
	var b strings.Builder
	for i, a := range actions {
		label := a.Label
		if a.Icon != "" {
			label = a.Icon + " " + label
		}
		b.WriteString(fmt.Sprintf("  %s %s  %s\n",
			StylePurple.Render(fmt.Sprintf("/%d", i+1)),
			Bold(label),
			Dim(a.Prompt)))
	}
	return b.String()
}

// FormatKnowledge shows the knowledge document in a box.
func FormatKnowledge(doc knowledge.Document) string {
	return RenderBox("Company knowledge", strings.TrimSpace(doc.Text)) + "\n" +
		Dim("  source: "+doc.Source) + "\n"
}
