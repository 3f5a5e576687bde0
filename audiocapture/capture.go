// Package audiocapture records microphone input for one push-to-talk session.
package audiocapture

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrDeviceUnavailable is returned when no input device can be opened.
var ErrDeviceUnavailable = errors.New("audio input device unavailable")

// ErrSessionOpen is returned when opening a session while one is already open.
var ErrSessionOpen = errors.New("capture session already open")

const (
	// DefaultSampleRate is what Whisper expects.
	DefaultSampleRate = 16000
	// DefaultChannels is mono capture.
	DefaultChannels = 1

	defaultFramesPerBuffer = 1024
)

// Config holds configuration for audio capture.
type Config struct {
	SampleRate      int
	Channels        int
	FramesPerBuffer int
}

// DefaultConfig returns the default capture configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate:      DefaultSampleRate,
		Channels:        DefaultChannels,
		FramesPerBuffer: defaultFramesPerBuffer,
	}
}

// Buffer is the finalized PCM recording of one session.
type Buffer struct {
	SampleRate int
	Channels   int
	Samples    []int16
}

// Duration is derived from sample count and rate.
func (b *Buffer) Duration() time.Duration {
	if b == nil || b.SampleRate == 0 || b.Channels == 0 {
		return 0
	}
	frames := len(b.Samples) / b.Channels
	return time.Duration(frames) * time.Second / time.Duration(b.SampleRate)
}

// captureImpl is the platform capture implementation interface.
type captureImpl interface {
	start(cfg Config, callback func(samples []int16)) error
	stop() error
}

// Recorder opens capture sessions on the default input device. At most one
// session is open at a time.
type Recorder struct {
	mu      sync.Mutex
	cfg     Config
	newImpl func() captureImpl
	open    bool
}

// New creates a recorder.
func New(cfg Config) *Recorder {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.Channels == 0 {
		cfg.Channels = DefaultChannels
	}
	if cfg.FramesPerBuffer == 0 {
		cfg.FramesPerBuffer = defaultFramesPerBuffer
	}
	return &Recorder{cfg: cfg, newImpl: newPortAudioImpl}
}

// Open starts capturing into a new session. Device failures are reported as
// ErrDeviceUnavailable; the process must keep running.
func (r *Recorder) Open() (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.open {
		return nil, ErrSessionOpen
	}

	s := &Session{
		rec:     r,
		cfg:     r.cfg,
		impl:    r.newImpl(),
		started: time.Now(),
	}
	if err := s.impl.start(r.cfg, s.append); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	r.open = true
	return s, nil
}

func (r *Recorder) release() {
	r.mu.Lock()
	r.open = false
	r.mu.Unlock()
}

// Session owns one capture stream from open to close, accumulating samples.
// Growth is unbounded for the session's lifetime; no frame is dropped once
// capture has started.
type Session struct {
	rec  *Recorder
	cfg  Config
	impl captureImpl

	mu      sync.Mutex
	samples []int16
	started time.Time
	final   *Buffer
}

func (s *Session) append(chunk []int16) {
	s.mu.Lock()
	s.samples = append(s.samples, chunk...)
	s.mu.Unlock()
}

// Elapsed returns how long the session has been (or was) capturing.
func (s *Session) Elapsed() time.Duration {
	return time.Since(s.started)
}

// Close stops capture and returns the finalized buffer. It is idempotent:
// a second call returns the same buffer without error.
func (s *Session) Close() (*Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.final != nil {
		return s.final, nil
	}

	err := s.impl.stop()
	s.final = &Buffer{
		SampleRate: s.cfg.SampleRate,
		Channels:   s.cfg.Channels,
		Samples:    s.samples,
	}
	s.rec.release()
	if err != nil {
		return s.final, fmt.Errorf("stop capture: %w", err)
	}
	return s.final, nil
}
