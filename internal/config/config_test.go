package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Schema Tests ---

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "gemini-1.5-flash", cfg.Chat.Model)
	assert.Equal(t, "Gemini", cfg.Assistant.Name)
	assert.Equal(t, "Goodbye!", cfg.Assistant.Farewell)
	assert.Equal(t, "system", cfg.Speech.Engine)
	assert.Equal(t, 150, cfg.Speech.Rate)
	assert.Equal(t, 1.0, cfg.Voice.Calibration)
	assert.Equal(t, 8.0, cfg.Voice.ListenTimeout)
	assert.Equal(t, 10.0, cfg.Voice.PhraseLimit)
	assert.Equal(t, 16000, cfg.Voice.SampleRate)
	assert.NoError(t, Validate(cfg))
}

func TestConfig_CamelCaseJSON(t *testing.T) {
	jsonStr := `{
		"chat": {"model": "gpt-4o-mini", "apiBase": "https://api.example.com/v1"},
		"speech": {"engine": "openai", "rate": 180},
		"voice": {"listenTimeout": 5, "phraseLimit": 12, "sttModel": "whisper-1"},
		"log": {"level": "debug", "file": false}
	}`

	var cfg Config
	err := json.Unmarshal([]byte(jsonStr), &cfg)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.Chat.Model)
	assert.Equal(t, "https://api.example.com/v1", cfg.Chat.APIBase)
	assert.Equal(t, "openai", cfg.Speech.Engine)
	assert.Equal(t, 180, cfg.Speech.Rate)
	assert.Equal(t, 5.0, cfg.Voice.ListenTimeout)
	assert.Equal(t, 12.0, cfg.Voice.PhraseLimit)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Log.File)
}

// --- Validation Tests ---

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown engine", func(c *Config) { c.Speech.Engine = "pyttsx3" }, "Engine"},
		{"rate too low", func(c *Config) { c.Speech.Rate = 10 }, "Rate"},
		{"empty model", func(c *Config) { c.Chat.Model = "" }, "Model"},
		{"bad api base", func(c *Config) { c.Chat.APIBase = "not a url" }, "APIBase"},
		{"zero timeout", func(c *Config) { c.Voice.ListenTimeout = 0 }, "ListenTimeout"},
		{"odd sample rate", func(c *Config) { c.Voice.SampleRate = 12345 }, "SampleRate"},
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }, "Level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

// --- Env Tests ---

func TestApplyEnv_Overrides(t *testing.T) {
	t.Setenv(EnvModel, "deepseek-chat")
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvSpeechEngine, "OpenAI")

	cfg := ApplyEnv(DefaultConfig())
	assert.Equal(t, "deepseek-chat", cfg.Chat.Model)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "openai", cfg.Speech.Engine)
}

func TestApplyEnv_EmptyKeepsFile(t *testing.T) {
	t.Setenv(EnvModel, "  ")
	cfg := ApplyEnv(DefaultConfig())
	assert.Equal(t, "gemini-1.5-flash", cfg.Chat.Model)
}

func TestLoadRuntime_ValidatesAfterEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"speech": {"engine": "system"}}`), 0644))

	t.Setenv(EnvSpeechEngine, "festival")
	_, err := LoadRuntime(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoadRuntime_OK(t *testing.T) {
	cfg, err := LoadRuntime(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Speech, cfg.Speech)
}

func TestLogDir(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "logs", filepath.Base(cfg.LogDir()))

	cfg.Log.Dir = "/tmp/voxbot-logs"
	assert.Equal(t, "/tmp/voxbot-logs", cfg.LogDir())
}

// --- Loader Tests ---

func TestLoad_FileNotExist(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"chat": {"model": "gpt-4o"}, "speech": {"rate": 170}}`
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.Chat.Model)
	assert.Equal(t, 170, cfg.Speech.Rate)
	// Defaults should be preserved for unset fields
	assert.Equal(t, "system", cfg.Speech.Engine)
	assert.Equal(t, "Gemini", cfg.Assistant.Name)
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	err := os.WriteFile(path, []byte("{invalid json}"), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	assert.Error(t, err)
	// Should return defaults on error
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSave_And_Load_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.json")

	cfg := DefaultConfig()
	cfg.Chat.APIKey = "test-key"
	cfg.Speech.Engine = "openai"

	err := Save(cfg, path)
	require.NoError(t, err)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test-key", loaded.Chat.APIKey)
	assert.Equal(t, "openai", loaded.Speech.Engine)
}

func TestSave_CreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "config.json")

	err := Save(DefaultConfig(), path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
