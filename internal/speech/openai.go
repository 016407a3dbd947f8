package speech

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dayuer/voxbot/internal/audio"
)

// pcmSampleRate is the fixed rate of the speech API's "pcm" response format.
const pcmSampleRate = 24000

// baseRate is the words-per-minute value that maps to speed 1.0.
const baseRate = 150

// Player plays mono 16-bit samples.
type Player interface {
	Play(ctx context.Context, samples []int16, sampleRate int) error
}

// OpenAIConfig configures the OpenAI speech engine.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string // tts-1, tts-1-hd
	Voice   string // alloy, echo, fable, onyx, nova, shimmer
	Rate    int    // words per minute, converted to a speed multiplier
}

// OpenAIEngine synthesizes with the OpenAI speech API and plays the raw PCM.
type OpenAIEngine struct {
	client *openai.Client
	cfg    OpenAIConfig
	player Player
}

// NewOpenAIEngine creates an engine that plays through player.
func NewOpenAIEngine(cfg OpenAIConfig, player Player) *OpenAIEngine {
	if cfg.Model == "" {
		cfg.Model = string(openai.TTSModel1)
	}
	if cfg.Voice == "" {
		cfg.Voice = string(openai.VoiceAlloy)
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIEngine{client: openai.NewClientWithConfig(clientCfg), cfg: cfg, player: player}
}

func (e *OpenAIEngine) Name() string { return "openai:" + e.cfg.Voice }

// Speed maps a words-per-minute rate onto the API's 0.25..4.0 multiplier.
func Speed(rate int) float64 {
	if rate <= 0 {
		return 1.0
	}
	s := float64(rate) / baseRate
	if s < 0.25 {
		return 0.25
	}
	if s > 4.0 {
		return 4.0
	}
	return s
}

func (e *OpenAIEngine) Say(ctx context.Context, text string) error {
	resp, err := e.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(e.cfg.Model),
		Input:          text,
		Voice:          openai.SpeechVoice(e.cfg.Voice),
		ResponseFormat: openai.SpeechResponseFormatPcm,
		Speed:          Speed(e.cfg.Rate),
	})
	if err != nil {
		return fmt.Errorf("create speech: %w", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return fmt.Errorf("read speech: %w", err)
	}
	return e.player.Play(ctx, audio.DecodePCM16(data), pcmSampleRate)
}

func (e *OpenAIEngine) Close() error { return nil }
