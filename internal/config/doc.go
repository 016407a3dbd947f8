// Package config handles configuration loading, saving, and schema definition.
package config

// Config is the top-level voxbot configuration.
// Uses json tags in camelCase to match the JSON config file format.
type Config struct {
	Assistant AssistantConfig `json:"assistant"`
	Chat      ChatConfig      `json:"chat"`
	Speech    SpeechConfig    `json:"speech"`
	Voice     VoiceConfig     `json:"voice"`
	Log       LogConfig       `json:"log"`
}

// AssistantConfig holds the phrases the main loop speaks on its own.
type AssistantConfig struct {
	Name     string `json:"name" validate:"required"`
	Farewell string `json:"farewell" validate:"required"`
	Apology  string `json:"apology" validate:"required"`
}

// ChatConfig selects the conversational backend.
type ChatConfig struct {
	Model        string `json:"model" validate:"required"`
	APIKey       string `json:"apiKey,omitempty"`
	APIBase      string `json:"apiBase,omitempty" validate:"omitempty,url"`
	SystemPrompt string `json:"systemPrompt,omitempty"`
}

// SpeechConfig holds text-to-speech settings.
type SpeechConfig struct {
	Engine  string `json:"engine" validate:"oneof=system openai"`
	Rate    int    `json:"rate" validate:"min=50,max=400"` // words per minute
	Command string `json:"command,omitempty"`              // system engine binary override
	Voice   string `json:"voice,omitempty"`
	Model   string `json:"model,omitempty"` // openai engine model
}

// VoiceConfig holds microphone capture and transcription settings.
// Durations are in seconds.
type VoiceConfig struct {
	Calibration   float64 `json:"calibration" validate:"gt=0,lte=5"`
	ListenTimeout float64 `json:"listenTimeout" validate:"gt=0"`
	PhraseLimit   float64 `json:"phraseLimit" validate:"gt=0"`
	SampleRate    int     `json:"sampleRate" validate:"oneof=8000 16000 22050 44100 48000"`
	STTModel      string  `json:"sttModel" validate:"required"`
	Language      string  `json:"language,omitempty"`
	APIKey        string  `json:"apiKey,omitempty"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `json:"level" validate:"oneof=debug info warn error"`
	Dir   string `json:"dir,omitempty"`
	File  bool   `json:"file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Assistant: AssistantConfig{
			Name:     "Gemini",
			Farewell: "Goodbye!",
			Apology:  "Sorry, I encountered an error",
		},
		Chat: ChatConfig{
			Model: "gemini-1.5-flash",
		},
		Speech: SpeechConfig{
			Engine: "system",
			Rate:   150,
			Model:  "tts-1",
		},
		Voice: VoiceConfig{
			Calibration:   1,
			ListenTimeout: 8,
			PhraseLimit:   10,
			SampleRate:    16000,
			STTModel:      "whisper-1",
		},
		Log: LogConfig{
			Level: "info",
			File:  true,
		},
	}
}
