package intelligence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/rexa/internal/knowledge"
	"github.com/alexanderramin/rexa/internal/llm"
)

// GenerativeRefusal is returned for queries the topic gate rejects.
const GenerativeRefusal = "I can only answer questions about CR IT Infopark."

const generativeSystemPromptTemplate = `You are an AI assistant for CR IT Infopark. Provide concise, helpful information about:
1. Company services, history, values
2. Job careers, positions, benefits, culture
3. Success stories, case studies, achievements
4. Clients and industries served

For non-CR IT Infopark queries, respond: "I can only answer questions about CR IT Infopark."

Company Knowledge:
%KNOWLEDGE%

Keep responses concise and under 200 words for faster delivery.`

// BuildGenerativeSystemPrompt embeds the knowledge document verbatim in the
// instruction text.
func BuildGenerativeSystemPrompt(doc knowledge.Document) string {
	return strings.Replace(generativeSystemPromptTemplate, "%KNOWLEDGE%", doc.Text, 1)
}

// DefaultGenerativeOptions are the sampling settings for answers.
func DefaultGenerativeOptions() llm.ChatOptions {
	return llm.ChatOptions{
		Temperature:     0.7,
		MaxOutputTokens: 150,
		TopK:            20,
		TopP:            0.9,
		ContextWindow:   2048,
	}
}

// GenerativeConfig tunes the generative strategy.
type GenerativeConfig struct {
	Model   string // only used in the failure message
	Debug   bool   // append response time to answers
	Options llm.ChatOptions
}

// GenerativeStrategy gates a query and forwards it to the chat model with the
// knowledge document as context.
type GenerativeStrategy struct {
	gate         *TopicGate
	client       llm.ChatClient
	readiness    *ModelReadiness
	systemPrompt string
	cfg          GenerativeConfig
}

func NewGenerativeStrategy(gate *TopicGate, client llm.ChatClient, readiness *ModelReadiness, doc knowledge.Document, cfg GenerativeConfig) *GenerativeStrategy {
	return &GenerativeStrategy{
		gate:         gate,
		client:       client,
		readiness:    readiness,
		systemPrompt: BuildGenerativeSystemPrompt(doc),
		cfg:          cfg,
	}
}

func (s *GenerativeStrategy) Name() StrategyName { return StrategyGenerative }

// SystemPrompt returns the prompt sent with every answer call.
func (s *GenerativeStrategy) SystemPrompt() string { return s.systemPrompt }

func (s *GenerativeStrategy) Answer(ctx context.Context, query string) RoutingResult {
	start := time.Now()
	res := RoutingResult{Strategy: StrategyGenerative}

	if !s.gate.InDomain(query) {
		res.Topic = TopicRejected
		res.Outcome = OutcomeRejected
		res.Text = GenerativeRefusal
		res.Elapsed = time.Since(start)
		return res
	}

	res.Topic = TopicGenerated
	if s.readiness != nil {
		// A failed warm-up is already logged; the answer call reports its own error.
		_ = s.readiness.WarmUp(ctx)
	}

	opts := s.cfg.Options
	out, err := s.client.Complete(ctx, llm.ChatRequest{
		Task:         llm.TaskAnswer,
		SystemPrompt: s.systemPrompt,
		UserMessage:  query,
		Options:      &opts,
	})
	res.Elapsed = time.Since(start)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Text = fmt.Sprintf("Error: %s. Please ensure Ollama is running with %s model.", err.Error(), s.cfg.Model)
		return res
	}

	res.Outcome = OutcomeAnswered
	res.Text = out.Text
	if s.cfg.Debug {
		res.Text += fmt.Sprintf("\n\n_Response time: %.2fs_", res.Elapsed.Seconds())
	}
	return res
}
