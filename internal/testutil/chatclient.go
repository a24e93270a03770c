package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alexanderramin/rexa/internal/llm"
)

// FakeChatClient is a spy llm.ChatClient. It records every request and
// answers with Reply, or fails with Err when set.
type FakeChatClient struct {
	Reply string
	Err   error
	Delay time.Duration
	Up    bool

	mu    sync.Mutex
	calls []llm.ChatRequest
}

func NewFakeChatClient(reply string) *FakeChatClient {
	return &FakeChatClient{Reply: reply, Up: true}
}

func (f *FakeChatClient) Complete(ctx context.Context, req llm.ChatRequest) (*llm.ChatCompletionResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return nil, &llm.ChatCompletionError{Code: "TIMEOUT", Err: llm.ErrTimeout}
		}
	}
	if f.Err != nil {
		var cerr *llm.ChatCompletionError
		if errors.As(f.Err, &cerr) {
			return nil, cerr
		}
		return nil, &llm.ChatCompletionError{Code: "UNKNOWN", Err: f.Err}
	}
	return &llm.ChatCompletionResult{Text: f.Reply, Model: "fake", LatencyMs: f.Delay.Milliseconds()}, nil
}

func (f *FakeChatClient) Available(context.Context) bool { return f.Up }

// Calls returns a copy of all recorded requests.
func (f *FakeChatClient) Calls() []llm.ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]llm.ChatRequest, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount counts recorded requests for one task.
func (f *FakeChatClient) CallCount(task llm.TaskType) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Task == task {
			n++
		}
	}
	return n
}
