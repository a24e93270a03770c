package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/rexa/internal/domain"
	"github.com/alexanderramin/rexa/internal/metrics"
)

// StatusView is what `rexa status` reports.
type StatusView struct {
	Strategy        string
	Model           string
	Endpoint        string
	OllamaReachable bool
	Warm            bool
	WarmErr         error
	Topics          int
	KnowledgeSource string
	DBPath          string
	Recording       bool
}

// FormatStatus renders the status report.
func FormatStatus(v StatusView) string {
	ollama := StyleRed.Render("✖ unreachable")
	if v.OllamaReachable {
		ollama = StyleGreen.Render("● reachable")
	}
	model := ReadyIndicator(v.Warm, v.WarmErr)
	if v.Strategy == "retrieval" {
		model = StyleGreen.Render("● Ready") + Dim(" (no model needed)")
	}
	recording := Dim("off")
	if v.Recording {
		recording = StyleGreen.Render("on") + Dim(" · "+v.DBPath)
	}

	rows := [][]string{
		{"Strategy", Bold(v.Strategy)},
		{"Model", v.Model + "  " + model},
		{"Ollama", v.Endpoint + "  " + ollama},
		{"Topics", fmt.Sprintf("%d", v.Topics)},
		{"Knowledge", v.KnowledgeSource},
		{"Recording", recording},
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %-10s %s\n", Dim(r[0]), r[1]))
	}
	return RenderBox("Status", strings.TrimRight(b.String(), "\n")) + "\n"
}

// FormatStats renders gathered metric samples. Routed-query counters come
// first, then latency counts.
func FormatStats(samples []metrics.Sample) string {
	if len(samples) == 0 {
		return Dim("No routed queries recorded yet.") + "\n"
	}

	var counts, latency [][]string
	total := 0.0
	for _, s := range samples {
		switch s.Name {
		case "rexa_routed_queries_total":
			total += s.Value
			counts = append(counts, []string{
				s.Labels["strategy"],
				s.Labels["topic"],
				OutcomeStyle(s.Labels["outcome"]).Render(s.Labels["outcome"]),
				fmt.Sprintf("%.0f", s.Value),
			})
		case "rexa_answer_latency_seconds_count":
			latency = append(latency, []string{
				s.Labels["strategy"],
				s.Labels["outcome"],
				fmt.Sprintf("%.0f", s.Value),
			})
		}
	}

	var b strings.Builder
	b.WriteString(Header("Routed queries"))
	b.WriteString("\n")
	b.WriteString(RenderTable([]string{"STRATEGY", "TOPIC", "OUTCOME", "COUNT"}, counts))
	b.WriteString(fmt.Sprintf("%s %.0f\n", Dim("total"), total))
	if len(latency) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("This session"))
		b.WriteString("\n")
		b.WriteString(RenderTable([]string{"STRATEGY", "OUTCOME", "ANSWERS"}, latency))
	}
	return b.String()
}

// FormatHistory renders recent routing records, newest first.
func FormatHistory(records []*domain.RoutingRecord, now time.Time) string {
	if len(records) == 0 {
		return Dim("No routing history.") + "\n"
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			Dim(HumanTimestamp(r.CreatedAt, now)),
			r.Strategy,
			r.Topic,
			OutcomeStyle(r.Outcome).Render(r.Outcome),
			fmt.Sprintf("%d", r.QueryChars),
			FormatLatency(time.Duration(r.LatencyMs) * time.Millisecond),
		})
	}
	return RenderTable([]string{"WHEN", "STRATEGY", "TOPIC", "OUTCOME", "CHARS", "LATENCY"}, rows)
}
