package audio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrWaitTimeout is returned by Capture when no speech started within the
// listen timeout.
var ErrWaitTimeout = errors.New("listening timed out while waiting for phrase to start")

const (
	DefaultEnergyThreshold = 300.0
	DefaultMinThreshold    = 50.0
	DefaultPause           = 800 * time.Millisecond
	DefaultPreroll         = 500 * time.Millisecond

	// ambient energy is scaled by this factor to get the speech threshold
	ambientRatio = 1.5
	// fraction of the old threshold kept after one second of calibration
	calibrationDamping = 0.15
)

// FrameSource yields fixed-size frames of mono samples.
type FrameSource interface {
	ReadFrame() ([]int16, error)
	SampleRate() int
	FrameSize() int
	Close() error
}

// SourceOpener opens a fresh FrameSource for one capture.
type SourceOpener func() (FrameSource, error)

// CaptureOptions bounds one Capture call.
type CaptureOptions struct {
	Calibration time.Duration // ambient noise window
	Timeout     time.Duration // max wait for speech to start; 0 waits forever
	PhraseLimit time.Duration // max phrase length; 0 is unbounded
}

// Recorder captures a single spoken phrase using an energy threshold that it
// recalibrates against ambient noise before every capture.
type Recorder struct {
	open SourceOpener

	threshold float64

	MinThreshold float64
	Pause        time.Duration // trailing silence that ends a phrase
	Preroll      time.Duration // audio kept from before speech onset
}

// NewRecorder creates a Recorder that reads from sources produced by open.
func NewRecorder(open SourceOpener) *Recorder {
	return &Recorder{
		open:         open,
		threshold:    DefaultEnergyThreshold,
		MinThreshold: DefaultMinThreshold,
		Pause:        DefaultPause,
		Preroll:      DefaultPreroll,
	}
}

// Capture opens a source, calibrates, waits for speech and records until a
// pause or the phrase limit. It returns the samples and their sample rate.
func (r *Recorder) Capture(ctx context.Context, opts CaptureOptions) ([]int16, int, error) {
	src, err := r.open()
	if err != nil {
		return nil, 0, fmt.Errorf("open microphone: %w", err)
	}
	defer src.Close()

	if err := r.calibrate(ctx, src, opts.Calibration); err != nil {
		return nil, 0, err
	}
	samples, err := r.listen(ctx, src, opts.Timeout, opts.PhraseLimit)
	if err != nil {
		return nil, 0, err
	}
	return samples, src.SampleRate(), nil
}

func frameDuration(src FrameSource) time.Duration {
	return time.Duration(src.FrameSize()) * time.Second / time.Duration(src.SampleRate())
}

func (r *Recorder) calibrate(ctx context.Context, src FrameSource, window time.Duration) error {
	frameDur := frameDuration(src)
	damping := math.Pow(calibrationDamping, frameDur.Seconds())

	for elapsed := time.Duration(0); elapsed < window; elapsed += frameDur {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame, err := src.ReadFrame()
		if err != nil {
			return fmt.Errorf("calibrate: %w", err)
		}
		target := RMS(frame) * ambientRatio
		r.threshold = r.threshold*damping + target*(1-damping)
	}
	if r.threshold < r.MinThreshold {
		r.threshold = r.MinThreshold
	}
	return nil
}

func (r *Recorder) listen(ctx context.Context, src FrameSource, timeout, phraseLimit time.Duration) ([]int16, error) {
	frameDur := frameDuration(src)
	maxPreroll := int(r.Preroll / frameDur)
	if maxPreroll < 1 {
		maxPreroll = 1
	}

	var pending [][]int16
	for waited := time.Duration(0); ; waited += frameDur {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if timeout > 0 && waited >= timeout {
			return nil, ErrWaitTimeout
		}
		frame, err := src.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("listen: %w", err)
		}
		pending = append(pending, frame)
		if len(pending) > maxPreroll {
			pending = pending[1:]
		}
		if RMS(frame) > r.threshold {
			break
		}
	}

	var samples []int16
	for _, f := range pending {
		samples = append(samples, f...)
	}

	var silence time.Duration
	for elapsed := frameDur; phraseLimit <= 0 || elapsed < phraseLimit; elapsed += frameDur {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame, err := src.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("listen: %w", err)
		}
		samples = append(samples, frame...)

		if RMS(frame) > r.threshold {
			silence = 0
			continue
		}
		silence += frameDur
		if silence >= r.Pause {
			break
		}
	}
	return samples, nil
}
