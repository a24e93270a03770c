package llm

import "errors"

var (
	// ErrOllamaUnavailable indicates the Ollama server is unreachable.
	ErrOllamaUnavailable = errors.New("ollama server unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the chat response body could not be decoded
	// or carried no assistant message.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrBackend indicates Ollama answered with a non-200 status.
	ErrBackend = errors.New("ollama backend error")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")
)

// ChatCompletionError is returned by ChatClient.Complete for every failed
// call. Code is a stable short label (TIMEOUT, UNAVAILABLE, INVALID_OUTPUT,
// BACKEND, UNKNOWN); Err keeps the sentinel chain for errors.Is.
type ChatCompletionError struct {
	Code string
	Err  error
}

func (e *ChatCompletionError) Error() string {
	return e.Err.Error()
}

func (e *ChatCompletionError) Unwrap() error {
	return e.Err
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrOllamaUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrBackend):
		return "BACKEND"
	default:
		return "UNKNOWN"
	}
}
