package domain

import "time"

// RoutingRecord is the audit row written for every routed query. The query
// text itself is never stored, only its length.
type RoutingRecord struct {
	ID         string
	Strategy   string
	Topic      string
	Outcome    string
	Model      string // empty for retrieval
	QueryChars int
	LatencyMs  int64
	CreatedAt  time.Time
}

// TopicCount is an aggregate over routing records.
type TopicCount struct {
	Strategy string
	Topic    string
	Outcome  string
	Count    int
}
