package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

// configPath is the --config flag shared by every command.
var configPath string

var rootCmd = &cobra.Command{
	Use:   "voxbot",
	Short: "voxbot: voice and text assistant for the terminal",
	Long: "voxbot listens (microphone or keyboard), handles a few local commands itself\n" +
		"and hands everything else to a conversational AI model, speaking every answer.",
	SilenceUsage: true,
	RunE:         runAssistant,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.voxbot/config.json)")
}
