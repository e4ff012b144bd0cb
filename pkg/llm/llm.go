// Package llm turns retrieved journey context into prose insights via an
// OpenAI-compatible chat API. Without an API key the Disabled generator
// returns the raw context unchanged, so retrieval works offline.
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dd0wney/journeygraph/pkg/logging"
)

// DefaultModel is used when the configuration names none.
const DefaultModel = "llama-3.1-8b-instant"

// DefaultBaseURL points at Groq's OpenAI-compatible endpoint.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

const systemPrompt = `You are an expert product analyst specializing in customer journey analysis for e-commerce/marketplace platforms.

Your role is to:
- Analyze user journey patterns from graph-based behavioral data
- Identify conversion drivers, drop-off points, and optimization opportunities
- Provide actionable product insights backed by specific journey examples
- Compare cohorts (high-LTV vs low-LTV, converters vs churners, etc.)

Guidelines:
- Be precise and cite specific patterns, percentages, and counts from the provided data
- Frame insights in product/business terms that would be actionable for a product manager
- When comparing cohorts, highlight meaningful differences in behavior
- Suggest concrete next steps or experiments when appropriate

Always base your analysis on the journey data provided. If the data is insufficient, acknowledge limitations.`

// Generator produces an analysis from a question and its retrieved context.
type Generator interface {
	Generate(ctx context.Context, query, retrievedContext string) (string, error)
	Enabled() bool
}

// Options configure the chat client.
type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

// Client calls an OpenAI-compatible chat completion API.
type Client struct {
	client *openai.Client
	model  string
	temp   float32
	tokens int
	log    logging.Logger
}

// NewClient builds a generator from options. Missing fields fall back to
// Groq defaults.
func NewClient(opts Options, log logging.Logger) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("llm: API key required")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.3
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 1024
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = opts.BaseURL

	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  opts.Model,
		temp:   opts.Temperature,
		tokens: opts.MaxTokens,
		log:    log,
	}, nil
}

// Enabled reports that this generator performs real calls.
func (c *Client) Enabled() bool { return true }

// Generate asks the model for an analysis grounded in the retrieved context.
func (c *Client) Generate(ctx context.Context, query, retrievedContext string) (string, error) {
	userMessage := fmt.Sprintf(`## Customer Journey Context:
%s

## Product Question:
%s

## Analysis & Insight:`, retrievedContext, query)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		Temperature: c.temp,
		MaxTokens:   c.tokens,
	})
	if err != nil {
		c.log.Error("chat completion failed", logging.Error(err))
		return "", fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// Disabled is the no-backend generator: it hands the retrieved context back
// so callers still get something useful.
type Disabled struct{}

func (Disabled) Enabled() bool { return false }

func (Disabled) Generate(_ context.Context, _ string, retrievedContext string) (string, error) {
	return retrievedContext, nil
}
