package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/rexa/internal/domain"
	"github.com/alexanderramin/rexa/internal/intelligence"
	"github.com/alexanderramin/rexa/internal/repository"
	"github.com/alexanderramin/rexa/internal/testutil"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type errSource struct{}

func (errSource) CountByTopic(context.Context) ([]domain.TopicCount, error) {
	return nil, errors.New("db locked")
}

func seededRepo(t *testing.T) *repository.SQLiteRoutingRepo {
	t.Helper()
	repo := repository.NewSQLiteRoutingRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	for _, r := range []*domain.RoutingRecord{
		testutil.NewTestRoutingRecord("apply"),
		testutil.NewTestRoutingRecord("apply"),
		testutil.NewTestRoutingRecord("rejected", testutil.WithOutcome("rejected")),
	} {
		require.NoError(t, repo.Create(ctx, r))
	}
	return repo
}

func TestRoutingCollector_EmitsCountsFromRepo(t *testing.T) {
	c := NewRoutingCollector(seededRepo(t), nil)

	expected := `
# HELP rexa_routed_queries_total Total routed queries by strategy, topic and outcome
# TYPE rexa_routed_queries_total counter
rexa_routed_queries_total{outcome="answered",strategy="retrieval",topic="apply"} 2
rexa_routed_queries_total{outcome="rejected",strategy="retrieval",topic="rejected"} 1
`
	require.NoError(t, promtest.CollectAndCompare(c, strings.NewReader(expected), "rexa_routed_queries_total"))
}

func TestRoutingCollector_SourceErrorLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	c := NewRoutingCollector(errSource{}, zap.New(core))

	assert.Equal(t, 0, promtest.CollectAndCount(c))
	assert.Equal(t, 1, logs.FilterMessage("failed to collect routing metrics").Len())
}

func TestLatencyObserver_Observes(t *testing.T) {
	lat := NewLatencyObserver()
	res := intelligence.RoutingResult{
		Strategy: intelligence.StrategyRetrieval,
		Outcome:  intelligence.OutcomeAnswered,
		Elapsed:  2 * time.Millisecond,
	}
	require.NoError(t, lat.OnRouted(context.Background(), "q", res))
	require.NoError(t, lat.OnRouted(context.Background(), "q", res))

	assert.Equal(t, 1, promtest.CollectAndCount(lat.hist))
}

func TestSnapshot(t *testing.T) {
	lat := NewLatencyObserver()
	reg := NewRegistry(seededRepo(t), lat, nil)
	_ = lat.OnRouted(context.Background(), "q", intelligence.RoutingResult{
		Strategy: intelligence.StrategyRetrieval,
		Outcome:  intelligence.OutcomeAnswered,
	})

	samples, err := Snapshot(reg)
	require.NoError(t, err)
	require.Len(t, samples, 3)

	assert.Equal(t, "rexa_answer_latency_seconds_count", samples[0].Name)
	assert.Equal(t, float64(1), samples[0].Value)

	assert.Equal(t, "rexa_routed_queries_total", samples[1].Name)
	assert.Equal(t, "apply", samples[1].Labels["topic"])
	assert.Equal(t, float64(2), samples[1].Value)
	assert.Equal(t, "rejected", samples[2].Labels["outcome"])
}

func TestNewRegistry_WithoutSource(t *testing.T) {
	reg := NewRegistry(nil, nil, nil)

	samples, err := Snapshot(reg)
	require.NoError(t, err)
	assert.Empty(t, samples)
}
