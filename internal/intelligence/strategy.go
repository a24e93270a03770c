package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// StrategyName selects an AnswerStrategy.
type StrategyName string

const (
	StrategyGenerative StrategyName = "generative"
	StrategyRetrieval  StrategyName = "retrieval"
)

// ErrUnknownStrategy is returned by ParseStrategy for unrecognised names.
var ErrUnknownStrategy = errors.New("unknown strategy")

// ParseStrategy maps a config or flag value to a StrategyName.
func ParseStrategy(s string) (StrategyName, error) {
	switch StrategyName(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyGenerative:
		return StrategyGenerative, nil
	case StrategyRetrieval:
		return StrategyRetrieval, nil
	default:
		return "", fmt.Errorf("%w: %q (want generative or retrieval)", ErrUnknownStrategy, s)
	}
}

// Outcome classifies how a query was resolved.
type Outcome string

const (
	OutcomeAnswered Outcome = "answered"
	OutcomeRejected Outcome = "rejected"
	OutcomeInvalid  Outcome = "invalid"
	OutcomeFailed   Outcome = "failed"
)

// Pseudo-topics for results that did not come from the topic table.
const (
	TopicRejected  = "rejected"
	TopicGenerated = "generated"
	TopicNone      = "none"
)

// RoutingResult is the full outcome of answering one query.
type RoutingResult struct {
	Strategy StrategyName
	Topic    string
	Outcome  Outcome
	Text     string
	Elapsed  time.Duration
}

// AnswerStrategy turns a query into a user-facing reply. Implementations
// never return errors: every failure becomes reply text.
type AnswerStrategy interface {
	Name() StrategyName
	Answer(ctx context.Context, query string) RoutingResult
}
