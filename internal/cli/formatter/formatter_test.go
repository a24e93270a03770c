package formatter

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/rexa/internal/domain"
	"github.com/alexanderramin/rexa/internal/intelligence"
	"github.com/alexanderramin/rexa/internal/knowledge"
	"github.com/alexanderramin/rexa/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ansiPattern matches ANSI escape sequences so assertions are terminal-independent.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "LONGER"}, [][]string{
		{"xxxx", "1"},
		{StyleGreen.Render("y"), "22"},
	}))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "A     LONGER", lines[0])
	assert.Equal(t, "────  ──────", lines[1])
	assert.Equal(t, "xxxx  1", lines[2])
	assert.Equal(t, "y     22", lines[3])

	assert.Empty(t, RenderTable(nil, nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "a b", Truncate("a\n\nb", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "…", Truncate("abc", 1))
}

func TestFormatLatency(t *testing.T) {
	assert.Equal(t, "3ms", FormatLatency(3*time.Millisecond))
	assert.Equal(t, "1.50s", FormatLatency(1500*time.Millisecond))
}

func TestHumanTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Just now", HumanTimestamp(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", HumanTimestamp(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", HumanTimestamp(now.Add(-3*time.Hour), now))
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, "one two\nthree", wrapText("one two three", 8))
	assert.Equal(t, "a\n\nb", wrapText("a\n\nb", 10))
}

func TestFormatAnswer(t *testing.T) {
	out := stripANSI(FormatAnswer(intelligence.RoutingResult{
		Strategy: intelligence.StrategyRetrieval,
		Topic:    "apply",
		Outcome:  intelligence.OutcomeAnswered,
		Text:     "Send your resume.",
		Elapsed:  2 * time.Millisecond,
	}))

	assert.Contains(t, out, "  Send your resume.")
	assert.Contains(t, out, "[retrieval · apply · 2ms]")
}

func TestFormatTopics(t *testing.T) {
	out := stripANSI(FormatTopics(knowledge.DefaultCatalog()))

	assert.Contains(t, out, "TOPICS")
	assert.Contains(t, out, "about (default)")
	assert.Contains(t, out, "apply, application, how to")
	assert.Less(t, strings.Index(out, "services"), strings.Index(out, "requirements"))
}

func TestFormatQuickActions(t *testing.T) {
	out := stripANSI(FormatQuickActions(knowledge.DefaultCatalog().Actions("retrieval")))

	assert.Contains(t, out, "/1 🏢 About Us")
	assert.Contains(t, out, "/5 🎯 Services")
}

func TestFormatStatus(t *testing.T) {
	out := stripANSI(FormatStatus(StatusView{
		Strategy:        "generative",
		Model:           "llama3",
		Endpoint:        "http://localhost:11434",
		OllamaReachable: false,
		Warm:            false,
		Topics:          10,
		KnowledgeSource: "embedded",
	}))

	assert.Contains(t, out, "generative")
	assert.Contains(t, out, "○ Loading...")
	assert.Contains(t, out, "✖ unreachable")
	assert.Contains(t, out, "off")
}

func TestReadyIndicator(t *testing.T) {
	assert.Equal(t, "○ Loading...", stripANSI(ReadyIndicator(false, nil)))
	assert.Equal(t, "● Ready", stripANSI(ReadyIndicator(true, nil)))
	assert.Equal(t, "✖ Unavailable", stripANSI(ReadyIndicator(true, errors.New("connection refused"))))
}

func TestFormatStatus_FailedWarmUp(t *testing.T) {
	out := stripANSI(FormatStatus(StatusView{
		Strategy: "generative",
		Model:    "llama3",
		Warm:     true,
		WarmErr:  errors.New("connection refused"),
	}))

	assert.Contains(t, out, "✖ Unavailable")
	assert.NotContains(t, out, "● Ready")
}

func TestFormatStats(t *testing.T) {
	assert.Contains(t, stripANSI(FormatStats(nil)), "No routed queries")

	out := stripANSI(FormatStats([]metrics.Sample{
		{Name: "rexa_answer_latency_seconds_count", Labels: map[string]string{"strategy": "retrieval", "outcome": "answered"}, Value: 1},
		{Name: "rexa_routed_queries_total", Labels: map[string]string{"strategy": "retrieval", "topic": "apply", "outcome": "answered"}, Value: 4},
		{Name: "rexa_routed_queries_total", Labels: map[string]string{"strategy": "retrieval", "topic": "rejected", "outcome": "rejected"}, Value: 2},
	}))

	assert.Contains(t, out, "ROUTED QUERIES")
	assert.Contains(t, out, "total 6")
	assert.Contains(t, out, "THIS SESSION")
}

func TestFormatHistory(t *testing.T) {
	now := time.Now()
	out := stripANSI(FormatHistory([]*domain.RoutingRecord{
		{Strategy: "retrieval", Topic: "jobs", Outcome: "answered", QueryChars: 12, LatencyMs: 1, CreatedAt: now},
	}, now))

	assert.Contains(t, out, "Just now")
	assert.Contains(t, out, "jobs")
	assert.Contains(t, out, "1ms")
	assert.Contains(t, stripANSI(FormatHistory(nil, now)), "No routing history")
}

func TestSpinner_WritesAndClears(t *testing.T) {
	var buf syncBuffer
	stop := StartSpinner(&buf, "Thinking...")
	time.Sleep(200 * time.Millisecond)
	stop()
	stop()

	out := stripANSI(buf.String())
	assert.Contains(t, out, "Thinking...")
	assert.True(t, strings.HasSuffix(buf.String(), "\r\033[K"))
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}
