// Package stt turns captured speech into text through a remote recognizer.
package stt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNoSpeech is returned when the recognizer heard nothing intelligible.
var ErrNoSpeech = errors.New("speech not recognized")

// Transcriber converts a WAV recording into text.
type Transcriber interface {
	Transcribe(ctx context.Context, wav []byte) (string, error)
}

// WhisperConfig configures the Whisper transcriber.
type WhisperConfig struct {
	APIKey   string
	BaseURL  string // empty uses the OpenAI default
	Model    string // "whisper-1"
	Language string // optional hint, e.g. "en"
}

// Whisper transcribes audio with the OpenAI transcription endpoint.
type Whisper struct {
	client *openai.Client
	cfg    WhisperConfig
}

// NewWhisper creates a Whisper transcriber.
func NewWhisper(cfg WhisperConfig) *Whisper {
	if cfg.Model == "" {
		cfg.Model = openai.Whisper1
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Whisper{client: openai.NewClientWithConfig(clientCfg), cfg: cfg}
}

// Transcribe uploads wav and returns the recognized text.
func (w *Whisper) Transcribe(ctx context.Context, wav []byte) (string, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.cfg.Model,
		FilePath: "speech.wav",
		Reader:   bytes.NewReader(wav),
		Language: w.cfg.Language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}
