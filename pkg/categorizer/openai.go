package categorizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ChatCompletionCreator is the part of the OpenAI client the completer uses.
type ChatCompletionCreator interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAICompleter completes prompts with the chat completions API.
type OpenAICompleter struct {
	client ChatCompletionCreator
	model  string
}

func NewOpenAICompleter(client ChatCompletionCreator, model string) *OpenAICompleter {
	return &OpenAICompleter{client: client, model: model}
}

// NewOpenAICompleterFromKey builds a completer with a real OpenAI client.
func NewOpenAICompleterFromKey(apiKey, model string) *OpenAICompleter {
	return NewOpenAICompleter(openai.NewClient(apiKey), model)
}

func (c *OpenAICompleter) Name() string { return "openai" }

func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("OpenAI completer is not initialized with a client")
	}
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
		Temperature:    0.2,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
