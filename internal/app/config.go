package app

import (
	"os"
	"strconv"

	"github.com/alexanderramin/rexa/internal/db"
)

// Config holds the application-level settings. LLM and logging settings
// live with their own packages.
type Config struct {
	Strategy      string
	DBPath        string
	Record        bool
	KnowledgeFile string // empty uses the embedded document
	TopicsFile    string // empty uses the embedded topic table
	LatencyNotes  bool
	Debug         bool
}

// DefaultConfig answers from the topic table and records to ~/.rexa/rexa.db.
func DefaultConfig() Config {
	return Config{
		Strategy:     "retrieval",
		DBPath:       db.DefaultPath(),
		Record:       true,
		LatencyNotes: true,
	}
}

// LoadConfig reads REXA_* variables over the defaults. DEBUG enables timing
// notes on generative answers when set to anything.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("REXA_STRATEGY"); v != "" {
		cfg.Strategy = v
	}
	if v := os.Getenv("REXA_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("REXA_RECORD"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Record = b
		}
	}
	cfg.KnowledgeFile = os.Getenv("REXA_KNOWLEDGE_FILE")
	cfg.TopicsFile = os.Getenv("REXA_TOPICS_FILE")
	if v := os.Getenv("REXA_LATENCY_NOTES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LatencyNotes = b
		}
	}
	cfg.Debug = os.Getenv("DEBUG") != ""

	return cfg
}
