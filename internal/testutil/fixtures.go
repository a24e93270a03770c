package testutil

import (
	"time"

	"github.com/alexanderramin/rexa/internal/domain"
	"github.com/alexanderramin/rexa/internal/knowledge"
	"github.com/google/uuid"
)

// RoutingRecord options
type RecordOption func(*domain.RoutingRecord)

func WithStrategy(s string) RecordOption {
	return func(r *domain.RoutingRecord) {
		r.Strategy = s
	}
}

func WithOutcome(o string) RecordOption {
	return func(r *domain.RoutingRecord) {
		r.Outcome = o
	}
}

func WithCreatedAt(t time.Time) RecordOption {
	return func(r *domain.RoutingRecord) {
		r.CreatedAt = t
	}
}

func WithModel(m string) RecordOption {
	return func(r *domain.RoutingRecord) {
		r.Model = m
	}
}

// NewTestRoutingRecord returns an answered retrieval record for topic.
func NewTestRoutingRecord(topic string, opts ...RecordOption) *domain.RoutingRecord {
	r := &domain.RoutingRecord{
		ID:         uuid.New().String(),
		Strategy:   "retrieval",
		Topic:      topic,
		Outcome:    "answered",
		QueryChars: 24,
		LatencyMs:  1,
		CreatedAt:  time.Now().UTC(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// SmallCatalog is a three-topic table with a tie between "alpha" and "beta"
// on the keyword "shared".
func SmallCatalog() *knowledge.Catalog {
	c, err := knowledge.ParseCatalog([]byte(`
domain_keywords: [widget, gadget]
coarse_keywords: [widget]
default_topic: alpha
topics:
  - {name: alpha, keywords: [shared, one], answer: alpha answer}
  - {name: beta, keywords: [shared, two], answer: beta answer}
  - {name: gamma, keywords: [three], answer: gamma answer}
quick_actions:
  retrieval:
    - {label: Alpha, prompt: shared}
`))
	if err != nil {
		panic(err)
	}
	return c
}
