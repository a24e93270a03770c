package intelligence

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/alexanderramin/rexa/internal/llm"
	"go.uber.org/zap"
)

const warmupMessage = "hi"

// ModelReadiness tracks whether the chat model has been loaded. It moves
// from cold to warm exactly once per process, after the first warm-up call
// completes, whether that call succeeded or not.
type ModelReadiness struct {
	client llm.ChatClient
	log    *zap.Logger

	mu   sync.Mutex
	err  error // written under mu before warm is set
	warm atomic.Bool
}

func NewModelReadiness(client llm.ChatClient, log *zap.Logger) *ModelReadiness {
	if log == nil {
		log = zap.NewNop()
	}
	return &ModelReadiness{client: client, log: log.Named("readiness")}
}

// WarmUp issues the warm-up call if the model is still cold. Concurrent
// callers wait for the one in flight and then return. The returned error is
// the retained warm-up error, if any.
func (r *ModelReadiness) WarmUp(ctx context.Context) error {
	if r.warm.Load() {
		return r.err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.warm.Load() {
		return r.err
	}

	_, err := r.client.Complete(ctx, llm.ChatRequest{
		Task:        llm.TaskWarmup,
		UserMessage: warmupMessage,
		Options:     &llm.ChatOptions{MaxOutputTokens: 10},
	})
	if err != nil {
		r.log.Warn("model warm-up failed", zap.Error(err))
	} else {
		r.log.Info("model warm")
	}
	r.err = err
	r.warm.Store(true)
	return err
}

// StartBackground runs WarmUp on its own goroutine. The returned channel is
// closed when it finishes.
func (r *ModelReadiness) StartBackground(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.WarmUp(ctx)
	}()
	return done
}

// IsWarm is a lock-free read for status indicators.
func (r *ModelReadiness) IsWarm() bool {
	return r.warm.Load()
}

// Err returns the warm-up error once warm, nil before.
func (r *ModelReadiness) Err() error {
	if !r.warm.Load() {
		return nil
	}
	return r.err
}
