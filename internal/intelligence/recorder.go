package intelligence

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/alexanderramin/rexa/internal/domain"
	"github.com/google/uuid"
)

// RecordWriter persists routing records.
type RecordWriter interface {
	Create(ctx context.Context, r *domain.RoutingRecord) error
}

// RecordingObserver writes one audit row per routed query.
type RecordingObserver struct {
	repo  RecordWriter
	model string
	now   func() time.Time
}

// NewRecordingObserver records into repo. model is stored on generative rows.
func NewRecordingObserver(repo RecordWriter, model string) *RecordingObserver {
	return &RecordingObserver{repo: repo, model: model, now: time.Now}
}

func (o *RecordingObserver) OnRouted(ctx context.Context, query string, res RoutingResult) error {
	rec := &domain.RoutingRecord{
		ID:         uuid.New().String(),
		Strategy:   string(res.Strategy),
		Topic:      res.Topic,
		Outcome:    string(res.Outcome),
		QueryChars: utf8.RuneCountInString(query),
		LatencyMs:  res.Elapsed.Milliseconds(),
		CreatedAt:  o.now().UTC(),
	}
	if res.Strategy == StrategyGenerative && res.Topic == TopicGenerated {
		rec.Model = o.model
	}
	if err := o.repo.Create(ctx, rec); err != nil {
		return fmt.Errorf("recording routing result: %w", err)
	}
	return nil
}
