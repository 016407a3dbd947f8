package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dayuer/voxbot/internal/audio"
	"github.com/dayuer/voxbot/internal/audio/device"
	"github.com/dayuer/voxbot/internal/config"
	"github.com/dayuer/voxbot/internal/input"
	"github.com/dayuer/voxbot/internal/logging"
	"github.com/dayuer/voxbot/internal/providers"
	"github.com/dayuer/voxbot/internal/speech"
	"github.com/dayuer/voxbot/internal/stt"
)

// openAIKeyEnv supplies credentials for speech and transcription when the
// config leaves them empty.
const openAIKeyEnv = "OPENAI_API_KEY"

// makeBackend creates the chat backend for cfg.Chat.Model.
func makeBackend(ctx context.Context, cfg config.Config) (providers.ChatBackend, error) {
	b, err := providers.New(ctx, providers.Options{
		Model:        cfg.Chat.Model,
		APIKey:       cfg.Chat.APIKey,
		APIBase:      cfg.Chat.APIBase,
		SystemPrompt: cfg.Chat.SystemPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("chat backend: %w", err)
	}
	return b, nil
}

// makeEngine creates the configured TTS engine. The openai engine plays
// through dev.
func makeEngine(cfg config.Config, dev *device.Device) (speech.Engine, error) {
	switch cfg.Speech.Engine {
	case "openai":
		key := openAIKey(cfg.Voice.APIKey)
		if key == "" {
			return nil, fmt.Errorf("speech engine openai: %s is not set", openAIKeyEnv)
		}
		return speech.NewOpenAIEngine(speech.OpenAIConfig{
			APIKey: key,
			Model:  cfg.Speech.Model,
			Voice:  cfg.Speech.Voice,
			Rate:   cfg.Speech.Rate,
		}, dev), nil
	default:
		eng, err := speech.NewCommandEngine(cfg.Speech.Command, cfg.Speech.Rate, cfg.Speech.Voice)
		if err != nil {
			return nil, fmt.Errorf("speech engine system: %w", err)
		}
		return eng, nil
	}
}

// makeVoiceProvider wires microphone capture to Whisper transcription. It
// returns nil when no transcription key is available; the assistant then
// runs text-only.
func makeVoiceProvider(cfg config.Config, dev *device.Device) input.Provider {
	key := openAIKey(cfg.Voice.APIKey)
	if key == "" {
		logging.Warn(logging.Fields{"env": openAIKeyEnv}, "No transcription key; voice mode disabled")
		return nil
	}

	rec := audio.NewRecorder(dev.Microphone(cfg.Voice.SampleRate))
	transcriber := stt.NewWhisper(stt.WhisperConfig{
		APIKey:   key,
		Model:    cfg.Voice.STTModel,
		Language: cfg.Voice.Language,
	})
	return input.NewVoiceProvider(rec, transcriber, captureOptions(cfg.Voice), os.Stdout)
}

func captureOptions(v config.VoiceConfig) audio.CaptureOptions {
	return audio.CaptureOptions{
		Calibration: seconds(v.Calibration),
		Timeout:     seconds(v.ListenTimeout),
		PhraseLimit: seconds(v.PhraseLimit),
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func openAIKey(configured string) string {
	if configured != "" {
		return configured
	}
	return strings.TrimSpace(os.Getenv(openAIKeyEnv))
}
