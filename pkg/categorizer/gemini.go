package categorizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ContentGenerator is the part of a Gemini model the completer uses.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiCompleter completes prompts with a Gemini generative model.
type GeminiCompleter struct {
	model  ContentGenerator
	client *genai.Client
}

func NewGeminiCompleter(model ContentGenerator) *GeminiCompleter {
	return &GeminiCompleter{model: model}
}

// NewGeminiCompleterFromKey creates a Gemini client for modelName that
// answers in JSON. Close releases the client.
func NewGeminiCompleterFromKey(ctx context.Context, apiKey, modelName string) (*GeminiCompleter, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	m := client.GenerativeModel(modelName)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.2)
	return &GeminiCompleter{model: m, client: client}, nil
}

func (c *GeminiCompleter) Name() string { return "gemini" }

func (c *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if c.model == nil {
		return "", fmt.Errorf("Gemini completer is not initialized with a model")
	}
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate content failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("Gemini returned no text content")
	}
	return strings.TrimSpace(sb.String()), nil
}

// Close releases the underlying client, if this completer owns one.
func (c *GeminiCompleter) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
