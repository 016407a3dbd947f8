package input

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dayuer/voxbot/internal/audio"
	"github.com/dayuer/voxbot/internal/logging"
	"github.com/dayuer/voxbot/internal/stt"
	"github.com/dayuer/voxbot/internal/utils"
)

// Capturer records one spoken phrase.
type Capturer interface {
	Capture(ctx context.Context, opts audio.CaptureOptions) ([]int16, int, error)
}

// VoiceProvider listens on the microphone and transcribes remotely.
type VoiceProvider struct {
	rec  Capturer
	stt  stt.Transcriber
	opts audio.CaptureOptions
	out  io.Writer
}

// NewVoiceProvider creates a provider bounded by opts.
func NewVoiceProvider(rec Capturer, transcriber stt.Transcriber, opts audio.CaptureOptions, out io.Writer) *VoiceProvider {
	return &VoiceProvider{rec: rec, stt: transcriber, opts: opts, out: out}
}

func (p *VoiceProvider) Acquire(ctx context.Context) Result {
	fmt.Fprintln(p.out, "\n🎤 Listening... (Say 'text mode' to switch)")

	samples, rate, err := p.rec.Capture(ctx, p.opts)
	if err != nil {
		p.report(ctx, err)
		return Nothing()
	}

	text, err := p.stt.Transcribe(ctx, audio.EncodeWAV(samples, rate))
	if err != nil {
		p.report(ctx, err)
		return Nothing()
	}

	q := utils.NormalizeUtterance(text)
	if q == "" {
		return Nothing()
	}
	fmt.Fprintf(p.out, "👤 You (voice): %s\n", q)
	return Heard(q)
}

func (p *VoiceProvider) report(ctx context.Context, err error) {
	switch {
	case ctx.Err() != nil:
		// interrupted; the main loop notices the cancelled context
	case errors.Is(err, audio.ErrWaitTimeout):
		fmt.Fprintln(p.out, "No speech detected")
	case errors.Is(err, stt.ErrNoSpeech):
		logging.Debug(nil, "Voice input was not intelligible")
	default:
		logging.Warn(logging.Fields{"error": err.Error()}, "Voice Error")
	}
}
