package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dayuer/voxbot/internal/config"
	"github.com/dayuer/voxbot/internal/utils"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Write a default voxbot configuration",
	RunE:  runOnboard,
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}

func runOnboard(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	w := cmd.OutOrStdout()

	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(w, "Config already exists at %s\n", path)
	} else {
		if err := config.Save(config.DefaultConfig(), path); err != nil {
			return fmt.Errorf("creating config: %w", err)
		}
		fmt.Fprintf(w, "✓ Created config at %s\n", path)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logs, err := utils.EnsureDir(cfg.LogDir())
	if err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}
	fmt.Fprintf(w, "✓ Logs at %s\n", logs)

	fmt.Fprintln(w, "\nNext steps:")
	fmt.Fprintln(w, "  1. Set GEMINI_API_KEY (or OPENAI_API_KEY / DEEPSEEK_API_KEY) in your shell or a .env file")
	fmt.Fprintln(w, "  2. Set OPENAI_API_KEY to enable voice input")
	fmt.Fprintln(w, "  3. Run: voxbot")
	return nil
}
