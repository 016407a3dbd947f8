package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	roleUser  = "user"
	roleModel = "model"
)

// GeminiBackend talks to Google's Gemini models through one client per process.
type GeminiBackend struct {
	client       *genai.Client
	model        string
	systemPrompt string
}

// NewGeminiBackend dials the Gemini API. extra is appended to the API key
// option, mainly for tests and custom endpoints.
func NewGeminiBackend(ctx context.Context, apiKey, model, systemPrompt string, extra ...option.ClientOption) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrNoAPIKey)
	}
	opts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, extra...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiBackend{client: client, model: model, systemPrompt: systemPrompt}, nil
}

func (g *GeminiBackend) Model() string { return g.model }

func (g *GeminiBackend) Reply(ctx context.Context, history []Turn, message string) (string, error) {
	m := g.client.GenerativeModel(g.model)
	if g.systemPrompt != "" {
		m.SystemInstruction = genai.NewUserContent(genai.Text(g.systemPrompt))
	}

	cs := m.StartChat()
	cs.History = geminiHistory(history)

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("gemini send: %w", err)
	}
	return geminiText(resp)
}

func (g *GeminiBackend) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// geminiHistory expands turns into alternating user/model contents.
func geminiHistory(turns []Turn) []*genai.Content {
	out := make([]*genai.Content, 0, len(turns)*2)
	for _, t := range turns {
		out = append(out,
			&genai.Content{Role: roleUser, Parts: []genai.Part{genai.Text(t.User)}},
			&genai.Content{Role: roleModel, Parts: []genai.Part{genai.Text(t.Reply)}},
		)
	}
	return out
}

// geminiText concatenates the text parts of the first candidate.
func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: no candidates in response")
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
