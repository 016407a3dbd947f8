// Package device binds the audio package to the host sound hardware through
// PortAudio. Only the CLI imports it, so the rest of the tree builds without
// the PortAudio headers.
package device

import (
	"context"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/dayuer/voxbot/internal/audio"
)

// DefaultFrameSize is the number of samples per PortAudio buffer.
const DefaultFrameSize = 1024

// Device owns the PortAudio library lifetime. PortAudio is initialized on
// first use, so a session that never touches audio never loads the driver.
type Device struct {
	mu          sync.Mutex
	initialized bool
	FrameSize   int
}

// New returns an uninitialized Device.
func New() *Device {
	return &Device{FrameSize: DefaultFrameSize}
}

func (d *Device) ensure() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.initialized {
		return nil
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}
	d.initialized = true
	return nil
}

// Close terminates PortAudio if it was initialized.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return nil
	}
	d.initialized = false
	return portaudio.Terminate()
}

// Microphone returns a SourceOpener for the default input device.
func (d *Device) Microphone(sampleRate int) audio.SourceOpener {
	return func() (audio.FrameSource, error) {
		if err := d.ensure(); err != nil {
			return nil, err
		}
		m, err := openMicrophone(sampleRate, d.FrameSize)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}

type microphone struct {
	stream *portaudio.Stream
	buf    []int16
	rate   int
}

func openMicrophone(sampleRate, frameSize int) (*microphone, error) {
	m := &microphone{buf: make([]int16, frameSize), rate: sampleRate}
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(sampleRate), frameSize, m.buf)
	if err != nil {
		return nil, fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("start input stream: %w", err)
	}
	m.stream = stream
	return m, nil
}

func (m *microphone) ReadFrame() ([]int16, error) {
	if err := m.stream.Read(); err != nil && err != portaudio.InputOverflowed {
		return nil, err
	}
	frame := make([]int16, len(m.buf))
	copy(frame, m.buf)
	return frame, nil
}

func (m *microphone) SampleRate() int { return m.rate }
func (m *microphone) FrameSize() int  { return len(m.buf) }

func (m *microphone) Close() error {
	m.stream.Stop()
	return m.stream.Close()
}

// Play writes samples to the default output device and blocks until done.
func (d *Device) Play(ctx context.Context, samples []int16, sampleRate int) error {
	if err := d.ensure(); err != nil {
		return err
	}

	out := make([]int16, d.FrameSize)
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(sampleRate), len(out), out)
	if err != nil {
		return fmt.Errorf("open output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("start output stream: %w", err)
	}
	defer stream.Stop()

	for i := 0; i < len(samples); i += len(out) {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := copy(out, samples[i:])
		for j := n; j < len(out); j++ {
			out[j] = 0
		}
		if err := stream.Write(); err != nil && err != portaudio.OutputUnderflowed {
			return fmt.Errorf("write output stream: %w", err)
		}
	}
	return nil
}
