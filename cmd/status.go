package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dayuer/voxbot/internal/config"
	"github.com/dayuer/voxbot/internal/providers"
	"github.com/dayuer/voxbot/internal/speech"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show voxbot configuration and backend status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func check(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func runStatus(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := config.LoadRuntime(configPath)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "🤖 voxbot Status")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Config: %s\n", path)
	fmt.Fprintf(w, "Logs: %s\n", cfg.LogDir())
	fmt.Fprintf(w, "Model: %s\n", cfg.Chat.Model)

	spec, err := providers.Resolve(providers.Options{Model: cfg.Chat.Model, APIBase: cfg.Chat.APIBase})
	if err != nil {
		fmt.Fprintf(w, "Provider: %v\n", err)
	} else {
		fmt.Fprintf(w, "Provider: %s (API key %s)\n", spec.Label(), check(spec.APIKey(cfg.Chat.APIKey) != ""))
	}

	fmt.Fprintln(w, "\nSpeech:")
	fmt.Fprintf(w, "  Engine: %s, rate %d\n", cfg.Speech.Engine, cfg.Speech.Rate)
	if cfg.Speech.Engine == "system" {
		fmt.Fprintf(w, "  Command: %s\n", systemEngineStatus(cfg.Speech))
	}

	fmt.Fprintln(w, "\nVoice input:")
	fmt.Fprintf(w, "  Transcription: %s (API key %s)\n", cfg.Voice.STTModel, check(openAIKey(cfg.Voice.APIKey) != ""))
	fmt.Fprintf(w, "  Listen: calibrate %.1fs, timeout %.1fs, phrase limit %.1fs\n",
		cfg.Voice.Calibration, cfg.Voice.ListenTimeout, cfg.Voice.PhraseLimit)
	return nil
}

// systemEngineStatus resolves the TTS binary exactly as the assistant does at
// startup.
func systemEngineStatus(sc config.SpeechConfig) string {
	eng, err := speech.NewCommandEngine(sc.Command, sc.Rate, sc.Voice)
	if err != nil {
		return fmt.Sprintf("%s %v", check(false), err)
	}
	return fmt.Sprintf("%s %s", eng.Name(), check(true))
}
