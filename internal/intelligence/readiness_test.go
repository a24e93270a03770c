package intelligence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/rexa/internal/llm"
	"github.com/alexanderramin/rexa/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"
)

func TestModelReadiness_ColdUntilWarmUp(t *testing.T) {
	spy := testutil.NewFakeChatClient("hello")
	r := NewModelReadiness(spy, nil)

	assert.False(t, r.IsWarm())
	require.NoError(t, r.WarmUp(context.Background()))
	assert.True(t, r.IsWarm())
	assert.NoError(t, r.Err())

	require.NoError(t, r.WarmUp(context.Background()))
	assert.Equal(t, 1, spy.CallCount(llm.TaskWarmup))
}

func TestModelReadiness_FailedWarmUpStillTransitions(t *testing.T) {
	spy := testutil.NewFakeChatClient("")
	spy.Err = &llm.ChatCompletionError{Code: "UNAVAILABLE", Err: llm.ErrOllamaUnavailable}
	core, logs := observer.New(zap.WarnLevel)
	r := NewModelReadiness(spy, zap.New(core))

	assert.NoError(t, r.Err(), "no error before warm-up ran")

	err := r.WarmUp(context.Background())
	assert.ErrorIs(t, err, llm.ErrOllamaUnavailable)
	assert.True(t, r.IsWarm())
	assert.ErrorIs(t, r.Err(), llm.ErrOllamaUnavailable)
	assert.Equal(t, 1, logs.FilterMessage("model warm-up failed").Len())

	// Not retried.
	_ = r.WarmUp(context.Background())
	assert.Equal(t, 1, spy.CallCount(llm.TaskWarmup))
}

func TestModelReadiness_ConcurrentCallersShareOneCall(t *testing.T) {
	spy := testutil.NewFakeChatClient("hi")
	spy.Delay = 30 * time.Millisecond
	r := NewModelReadiness(spy, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.WarmUp(context.Background())
			assert.True(t, r.IsWarm(), "WarmUp must not return before the model is warm")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, spy.CallCount(llm.TaskWarmup))
}

func TestModelReadiness_StartBackground(t *testing.T) {
	spy := testutil.NewFakeChatClient("hi")
	spy.Delay = 10 * time.Millisecond
	r := NewModelReadiness(spy, nil)

	done := r.StartBackground(context.Background())
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("background warm-up did not finish")
	}
	assert.True(t, r.IsWarm())

	// A later foreground answer does not warm up again.
	require.NoError(t, r.WarmUp(context.Background()))
	assert.Equal(t, 1, spy.CallCount(llm.TaskWarmup))
}

func TestProperty_AtMostOneWarmUpCall(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 16).Draw(t, "callers")
		fail := rapid.Bool().Draw(t, "fail")

		spy := testutil.NewFakeChatClient("hi")
		if fail {
			spy.Err = errors.New("model missing")
		}
		r := NewModelReadiness(spy, nil)

		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = r.WarmUp(context.Background())
			}()
		}
		wg.Wait()

		if got := spy.CallCount(llm.TaskWarmup); got != 1 {
			t.Fatalf("%d callers produced %d warm-up calls", n, got)
		}
		if !r.IsWarm() {
			t.Fatalf("not warm after %d callers", n)
		}
	})
}
