package intelligence

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alexanderramin/rexa/internal/knowledge"
)

// Fixed replies of the retrieval strategy.
const (
	RetrievalEmptyQuery = "Please ask me something about CR IT Infopark!"
	RetrievalTooLong    = "Please ask a shorter, more specific question for faster response."
	RetrievalRefusal    = "I can only answer questions about CR IT Infopark. Please ask about our services, careers, or company information."
)

const (
	// MaxRetrievalQueryLen is the longest query (in runes) the lookup accepts.
	MaxRetrievalQueryLen = 200

	// Queries of this many words or fewer skip the coarse gate.
	coarseGateMaxWords = 3

	lightningThreshold = 100 * time.Millisecond
)

// RetrievalConfig tunes the retrieval strategy.
type RetrievalConfig struct {
	LatencyNotes bool // append a timing note to fast answers
}

// RetrievalStrategy answers from the canned topic table without any model.
type RetrievalStrategy struct {
	catalog *knowledge.Catalog
	cfg     RetrievalConfig
}

func NewRetrievalStrategy(catalog *knowledge.Catalog, cfg RetrievalConfig) *RetrievalStrategy {
	return &RetrievalStrategy{catalog: catalog, cfg: cfg}
}

func (s *RetrievalStrategy) Name() StrategyName { return StrategyRetrieval }

func (s *RetrievalStrategy) Answer(_ context.Context, query string) RoutingResult {
	start := time.Now()
	res := RoutingResult{Strategy: StrategyRetrieval}

	switch {
	case strings.TrimSpace(query) == "":
		res.Topic, res.Outcome, res.Text = TopicNone, OutcomeInvalid, RetrievalEmptyQuery
	case utf8.RuneCountInString(query) > MaxRetrievalQueryLen:
		res.Topic, res.Outcome, res.Text = TopicNone, OutcomeInvalid, RetrievalTooLong
	case !s.passesCoarseGate(query):
		res.Topic, res.Outcome, res.Text = TopicRejected, OutcomeRejected, RetrievalRefusal
	default:
		topic := s.SelectTopic(query)
		res.Topic, res.Outcome, res.Text = topic.Name, OutcomeAnswered, topic.Answer
		res.Elapsed = time.Since(start)
		if s.cfg.LatencyNotes && res.Elapsed < lightningThreshold {
			res.Text += fmt.Sprintf("\n\n⚡ _Lightning response: %.0fms_", float64(res.Elapsed.Microseconds())/1000)
		}
		return res
	}

	res.Elapsed = time.Since(start)
	return res
}

// passesCoarseGate lets short queries through unconditionally; longer ones
// need a coarse keyword as a substring.
func (s *RetrievalStrategy) passesCoarseGate(query string) bool {
	if ContainsAny(strings.ToLower(query), s.catalog.CoarseKeywords) {
		return true
	}
	return len(strings.Fields(query)) <= coarseGateMaxWords
}

// SelectTopic scores every topic by the number of its keywords found in the
// lowercased query. The first topic to reach the top score wins; with no
// hits the default topic is returned.
func (s *RetrievalStrategy) SelectTopic(query string) knowledge.Topic {
	lower := strings.ToLower(query)
	best, _ := s.catalog.Topic(s.catalog.DefaultTopic)
	maxScore := 0
	for _, t := range s.catalog.Topics {
		if score := CountSubstrings(lower, t.Keywords); score > maxScore {
			maxScore = score
			best = t
		}
	}
	return best
}
