package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dayuer/voxbot/internal/assistant"
	"github.com/dayuer/voxbot/internal/audio/device"
	"github.com/dayuer/voxbot/internal/commands"
	"github.com/dayuer/voxbot/internal/config"
	"github.com/dayuer/voxbot/internal/conversation"
	"github.com/dayuer/voxbot/internal/input"
	"github.com/dayuer/voxbot/internal/logging"
	"github.com/dayuer/voxbot/internal/speech"
)

func runAssistant(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadRuntime(configPath)
	if err != nil {
		return err
	}
	logging.Init(logging.Options{Level: cfg.Log.Level, Dir: cfg.LogDir(), File: cfg.Log.File})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dev := device.New()
	closers := []io.Closer{dev}
	release := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i].Close()
		}
	}

	backend, err := makeBackend(ctx, cfg)
	if err != nil {
		release()
		return err
	}
	closers = append(closers, backend)

	engine, err := makeEngine(cfg, dev)
	if err != nil {
		release()
		return err
	}
	out := speech.NewOutput(engine)
	closers = append(closers, out)

	lines := input.NewLineReader(os.Stdin)
	table := commands.DefaultTable(commands.TableOptions{Farewell: cfg.Assistant.Farewell})

	a, err := assistant.New(assistant.Options{
		Name:       cfg.Assistant.Name,
		Farewell:   cfg.Assistant.Farewell,
		Apology:    cfg.Assistant.Apology,
		Speaker:    out,
		Dispatcher: commands.NewDispatcher(out, table),
		Fallback:   conversation.NewSession(backend),
		Voice:      makeVoiceProvider(cfg, dev),
		Text:       input.NewTextProvider(lines, os.Stdout),
		Lines:      lines,
		Out:        os.Stdout,
		// speech stops before the audio device it may be playing through
		Closers: []io.Closer{out, backend, dev},
	})
	if err != nil {
		release()
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logging.Warn(logging.Fields{"error": err.Error()}, "Shutdown incomplete")
		}
	}()

	logging.Info(logging.Fields{
		"model":  backend.Model(),
		"speech": engine.Name(),
		"voice":  cfg.Voice.STTModel,
	}, "voxbot starting")
	return a.Run(ctx)
}
