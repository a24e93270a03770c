package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of chat call being made.
type TaskType string

const (
	TaskAnswer TaskType = "answer"
	TaskWarmup TaskType = "warmup"
)

// ChatOptions are the sampling knobs forwarded to Ollama. Zero values are
// omitted from the request so the model default applies.
type ChatOptions struct {
	Temperature     float64
	MaxOutputTokens int
	TopK            int
	TopP            float64
	ContextWindow   int
}

// TaskConfig holds per-task defaults.
type TaskConfig struct {
	Options   ChatOptions
	TimeoutMs int // overrides global if > 0
}

// LLMConfig holds all configuration for the chat backend.
type LLMConfig struct {
	LogCalls   bool
	Endpoint   string
	Model      string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults.
// Retries are off: a failed answer is reported to the user, not re-sent.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		LogCalls:   false,
		Endpoint:   "http://localhost:11434",
		Model:      "llama3",
		TimeoutMs:  30000,
		MaxRetries: 0,
		Tasks: map[TaskType]TaskConfig{
			TaskAnswer: {
				Options: ChatOptions{
					Temperature:     0.7,
					MaxOutputTokens: 150,
					TopK:            20,
					TopP:            0.9,
					ContextWindow:   2048,
				},
				TimeoutMs: 30000,
			},
			// First load of a model can take a while; the warm-up only needs a few tokens.
			TaskWarmup: {
				Options:   ChatOptions{MaxOutputTokens: 10},
				TimeoutMs: 60000,
			},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("REXA_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("REXA_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("REXA_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("REXA_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("REXA_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskAnswer, "REXA_LLM_ANSWER_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskWarmup, "REXA_LLM_WARMUP_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
