// Package app wires configuration, storage, strategies and observers into
// the cli.App the commands run against.
package app

import (
	"database/sql"
	"fmt"

	"github.com/alexanderramin/rexa/internal/cli"
	"github.com/alexanderramin/rexa/internal/db"
	"github.com/alexanderramin/rexa/internal/intelligence"
	"github.com/alexanderramin/rexa/internal/knowledge"
	"github.com/alexanderramin/rexa/internal/llm"
	"github.com/alexanderramin/rexa/internal/metrics"
	"github.com/alexanderramin/rexa/internal/repository"
	"go.uber.org/zap"
)

// Build assembles the application. The returned close function releases
// the database and is safe to call when recording is off.
func Build(cfg Config, llmCfg llm.LLMConfig, client llm.ChatClient, log *zap.Logger) (*cli.App, func() error, error) {
	if log == nil {
		log = zap.NewNop()
	}
	noop := func() error { return nil }

	strategy, err := intelligence.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, noop, fmt.Errorf("parsing REXA_STRATEGY: %w", err)
	}

	catalog := knowledge.DefaultCatalog()
	if cfg.TopicsFile != "" {
		catalog, err = knowledge.LoadCatalog(cfg.TopicsFile)
		if err != nil {
			return nil, noop, fmt.Errorf("loading topics: %w", err)
		}
	}

	doc, err := knowledge.LoadDocument(cfg.KnowledgeFile)
	if err != nil {
		return nil, noop, fmt.Errorf("loading knowledge: %w", err)
	}
	if doc.Text == knowledge.MissingDocumentText {
		log.Warn("knowledge file not found, answering with placeholder", zap.String("path", cfg.KnowledgeFile))
	}

	latency := metrics.NewLatencyObserver()
	observers := []intelligence.RoutingObserver{latency}

	var (
		database *sql.DB
		history  repository.RoutingRepo
		counts   metrics.CountSource
	)
	if cfg.Record {
		database, err = db.OpenDB(cfg.DBPath)
		if err != nil {
			return nil, noop, fmt.Errorf("opening database: %w", err)
		}
		repo := repository.NewSQLiteRoutingRepo(database)
		history, counts = repo, repo
		observers = append(observers, intelligence.NewRecordingObserver(repo, llmCfg.Model))
	}

	opts := intelligence.DefaultGenerativeOptions()
	if tc, ok := llmCfg.Tasks[llm.TaskAnswer]; ok {
		opts = tc.Options
	}

	readiness := intelligence.NewModelReadiness(client, log)
	generative := intelligence.NewGenerativeStrategy(
		intelligence.NewTopicGate(catalog.DomainKeywords),
		client,
		readiness,
		doc,
		intelligence.GenerativeConfig{Model: llmCfg.Model, Debug: cfg.Debug, Options: opts},
	)
	retrieval := intelligence.NewRetrievalStrategy(catalog, intelligence.RetrievalConfig{LatencyNotes: cfg.LatencyNotes})

	a := &cli.App{
		Routers: map[intelligence.StrategyName]*intelligence.Router{
			intelligence.StrategyGenerative: intelligence.NewRouter(generative, log, observers...),
			intelligence.StrategyRetrieval:  intelligence.NewRouter(retrieval, log, observers...),
		},
		Strategy:  strategy,
		Catalog:   catalog,
		Knowledge: doc,
		Readiness: readiness,
		LLM:       client,
		Model:     llmCfg.Model,
		Endpoint:  llmCfg.Endpoint,
		History:   history,
		Registry:  metrics.NewRegistry(counts, latency, log),
		Recording: cfg.Record,
		DBPath:    cfg.DBPath,
		Debug:     cfg.Debug,
	}

	closeFn := noop
	if database != nil {
		closeFn = database.Close
	}
	return a, closeFn, nil
}
