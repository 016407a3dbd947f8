package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/dayuer/voxbot/internal/utils"
)

// Environment variables that override file values.
const (
	EnvModel        = "VOXBOT_MODEL"
	EnvLogLevel     = "VOXBOT_LOG_LEVEL"
	EnvSpeechEngine = "VOXBOT_SPEECH_ENGINE"
)

var validate = validator.New()

// GetConfigPath returns the default config file path (~/.voxbot/config.json).
func GetConfigPath() string {
	return filepath.Join(utils.GetDataPath(), "config.json")
}

// Load reads configuration from a JSON file.
// If path is empty, uses the default config path.
// If the file doesn't exist, returns DefaultConfig().
func Load(path string) (Config, error) {
	if path == "" {
		path = GetConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, err
	}

	cfg := DefaultConfig() // start with defaults so zero-value fields get filled
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// LoadRuntime is what the CLI uses: it loads .env (when present), the config
// file, applies environment overrides and validates the result.
func LoadRuntime(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := Load(path)
	if err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}
	cfg = ApplyEnv(cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overlays VOXBOT_* environment variables onto cfg.
func ApplyEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv(EnvModel)); v != "" {
		cfg.Chat.Model = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvSpeechEngine)); v != "" {
		cfg.Speech.Engine = strings.ToLower(v)
	}
	return cfg
}

// Validate checks field constraints declared on the schema.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LogDir returns the configured log directory, defaulting to ~/.voxbot/logs.
func (c Config) LogDir() string {
	if c.Log.Dir != "" {
		return utils.ExpandHome(c.Log.Dir)
	}
	return utils.GetLogsPath()
}

// Save writes configuration to a JSON file.
// If path is empty, uses the default config path.
func Save(cfg Config, path string) error {
	if path == "" {
		path = GetConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
