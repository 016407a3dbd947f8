package speech

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dayuer/voxbot/internal/logging"
)

// Output is the assistant's voice. Speak never fails: engine errors are
// logged and dropped, and playback is never retried.
type Output struct {
	engine Engine

	closeOnce sync.Once
	closeErr  error
}

// NewOutput wraps engine.
func NewOutput(engine Engine) *Output {
	return &Output{engine: engine}
}

// Speak renders text and returns once playback ends or fails.
func (o *Output) Speak(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logging.Error(logging.Fields{"engine": o.engine.Name(), "panic": fmt.Sprint(r)}, "TTS Error")
		}
	}()

	if err := o.engine.Say(ctx, text); err != nil {
		logging.Error(logging.Fields{"engine": o.engine.Name(), "error": err.Error()}, "TTS Error")
	}
}

// Close releases the engine. Later calls return the first result.
func (o *Output) Close() error {
	o.closeOnce.Do(func() {
		o.closeErr = o.engine.Close()
	})
	return o.closeErr
}
