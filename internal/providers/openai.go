package providers

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIBackend is an OpenAI-compatible chat backend (OpenAI, DeepSeek, or
// any endpoint that speaks the chat completions API).
type OpenAIBackend struct {
	client       *openai.Client
	model        string
	systemPrompt string
}

// NewOpenAIBackend creates a backend. An empty apiBase means the public
// OpenAI endpoint.
func NewOpenAIBackend(apiKey, apiBase, model, systemPrompt string) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: %w", ErrNoAPIKey)
	}
	cfg := openai.DefaultConfig(apiKey)
	if apiBase != "" {
		cfg.BaseURL = strings.TrimRight(apiBase, "/")
	}
	return &OpenAIBackend{
		client:       openai.NewClientWithConfig(cfg),
		model:        model,
		systemPrompt: systemPrompt,
	}, nil
}

func (o *OpenAIBackend) Model() string { return o.model }

func (o *OpenAIBackend) Reply(ctx context.Context, history []Turn, message string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: o.messages(history, message),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices in response")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

func (o *OpenAIBackend) messages(history []Turn, message string) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)*2+2)
	if o.systemPrompt != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: o.systemPrompt})
	}
	for _, t := range history {
		msgs = append(msgs,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: t.User},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: t.Reply},
		)
	}
	return append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})
}

// The HTTP client is closed with the process.
func (o *OpenAIBackend) Close() error { return nil }
