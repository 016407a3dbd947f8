// Package speech renders assistant text as audio.
package speech

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// ErrNoEngine is returned when no local text-to-speech binary can be found.
var ErrNoEngine = errors.New("no text-to-speech command found")

// Engine synthesizes and plays text, blocking until playback finishes.
type Engine interface {
	Say(ctx context.Context, text string) error
	Name() string
	Close() error
}

// CommandEngine speaks through a local TTS binary (say, espeak-ng or espeak).
type CommandEngine struct {
	path  string
	rate  int
	voice string
}

// candidates in lookup order when no binary is configured
func defaultCommands() []string {
	if runtime.GOOS == "darwin" {
		return []string{"say"}
	}
	return []string{"espeak-ng", "espeak", "say"}
}

// NewCommandEngine resolves bin on PATH (or the platform default when bin is
// empty). rate is in words per minute.
func NewCommandEngine(bin string, rate int, voice string) (*CommandEngine, error) {
	candidates := defaultCommands()
	if bin != "" {
		candidates = []string{bin}
	}
	for _, c := range candidates {
		if path, err := exec.LookPath(c); err == nil {
			return &CommandEngine{path: path, rate: rate, voice: voice}, nil
		}
	}
	return nil, fmt.Errorf("%w (tried %s)", ErrNoEngine, strings.Join(candidates, ", "))
}

func (e *CommandEngine) Name() string { return "system:" + filepath.Base(e.path) }

// Args builds the command line for text.
func (e *CommandEngine) Args(text string) []string {
	var args []string
	base := filepath.Base(e.path)
	switch {
	case base == "say":
		if e.rate > 0 {
			args = append(args, "-r", strconv.Itoa(e.rate))
		}
		if e.voice != "" {
			args = append(args, "-v", e.voice)
		}
	case strings.HasPrefix(base, "espeak"):
		if e.rate > 0 {
			args = append(args, "-s", strconv.Itoa(e.rate))
		}
		if e.voice != "" {
			args = append(args, "-v", e.voice)
		}
	}
	// "--" keeps text that starts with a dash from being read as a flag
	return append(args, "--", text)
}

func (e *CommandEngine) Say(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, e.path, e.Args(text)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", filepath.Base(e.path), err, msg)
		}
		return fmt.Errorf("%s: %w", filepath.Base(e.path), err)
	}
	return nil
}

func (e *CommandEngine) Close() error { return nil }
