// Package metrics exposes routing counters through a Prometheus registry.
// Per-topic totals are read from the routing log on every gather, so they
// survive restarts; latency is observed in-process.
package metrics

import (
	"context"
	"sort"
	"time"

	"github.com/alexanderramin/rexa/internal/domain"
	"github.com/alexanderramin/rexa/internal/intelligence"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const collectTimeout = 2 * time.Second

var routedQueriesDesc = prometheus.NewDesc(
	"rexa_routed_queries_total",
	"Total routed queries by strategy, topic and outcome",
	[]string{"strategy", "topic", "outcome"},
	nil,
)

// CountSource provides aggregated routing counts.
type CountSource interface {
	CountByTopic(ctx context.Context) ([]domain.TopicCount, error)
}

// RoutingCollector is a custom Prometheus collector that reads routing
// counts from the database on each gather.
type RoutingCollector struct {
	src CountSource
	log *zap.Logger
}

func NewRoutingCollector(src CountSource, log *zap.Logger) *RoutingCollector {
	if log == nil {
		log = zap.NewNop()
	}
	return &RoutingCollector{src: src, log: log.Named("metrics")}
}

// Describe sends the metric descriptor to the channel.
func (c *RoutingCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- routedQueriesDesc
}

// Collect queries the routing log and emits one counter per label set.
func (c *RoutingCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	counts, err := c.src.CountByTopic(ctx)
	if err != nil {
		c.log.Error("failed to collect routing metrics", zap.Error(err))
		return
	}
	for _, rc := range counts {
		ch <- prometheus.MustNewConstMetric(
			routedQueriesDesc,
			prometheus.CounterValue,
			float64(rc.Count),
			rc.Strategy,
			rc.Topic,
			rc.Outcome,
		)
	}
}

// LatencyObserver records per-strategy answer latency. It implements
// intelligence.RoutingObserver.
type LatencyObserver struct {
	hist *prometheus.HistogramVec
}

func NewLatencyObserver() *LatencyObserver {
	return &LatencyObserver{
		hist: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rexa_answer_latency_seconds",
			Help:    "Time to produce an answer, by strategy and outcome",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 3, 10, 30},
		}, []string{"strategy", "outcome"}),
	}
}

func (o *LatencyObserver) OnRouted(_ context.Context, _ string, res intelligence.RoutingResult) error {
	o.hist.WithLabelValues(string(res.Strategy), string(res.Outcome)).Observe(res.Elapsed.Seconds())
	return nil
}

// NewRegistry builds a registry holding the routing collector and the
// latency histogram. src may be nil when recording is disabled.
func NewRegistry(src CountSource, latency *LatencyObserver, log *zap.Logger) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	if src != nil {
		reg.MustRegister(NewRoutingCollector(src, log))
	}
	if latency != nil {
		reg.MustRegister(latency.hist)
	}
	return reg
}

// Sample is one flattened metric value.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// Snapshot gathers the registry into counter and histogram-count samples,
// sorted by name then labels.
func Snapshot(g prometheus.Gatherer) ([]Sample, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}
	var out []Sample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make(map[string]string, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			s := Sample{Name: mf.GetName(), Labels: labels}
			switch {
			case m.GetCounter() != nil:
				s.Value = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				s.Name += "_count"
				s.Value = float64(m.GetHistogram().GetSampleCount())
			case m.GetGauge() != nil:
				s.Value = m.GetGauge().GetValue()
			default:
				continue
			}
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return labelKey(out[i].Labels) < labelKey(out[j].Labels)
	})
	return out, nil
}

func labelKey(l map[string]string) string {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var s string
	for _, k := range keys {
		s += k + "=" + l[k] + ","
	}
	return s
}
