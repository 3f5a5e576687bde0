package audiocapture

import (
	"errors"
	"testing"
	"time"
)

// fakeImpl feeds canned samples and records lifecycle calls.
type fakeImpl struct {
	startErr error
	stopErr  error
	started  bool
	stops    int
	callback func([]int16)
}

func (f *fakeImpl) start(_ Config, callback func(samples []int16)) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = true
	f.callback = callback
	return nil
}

func (f *fakeImpl) stop() error {
	f.stops++
	return f.stopErr
}

func newTestRecorder(impl *fakeImpl, cfg Config) *Recorder {
	r := New(cfg)
	r.newImpl = func() captureImpl { return impl }
	return r
}

func TestOpenDeviceUnavailable(t *testing.T) {
	impl := &fakeImpl{startErr: errors.New("no default input device")}
	r := newTestRecorder(impl, DefaultConfig())

	if _, err := r.Open(); !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("Open() error = %v, want ErrDeviceUnavailable", err)
	}

	// A failed open must not leave the recorder marked busy.
	impl.startErr = nil
	if _, err := r.Open(); err != nil {
		t.Fatalf("Open() after failure: %v", err)
	}
}

func TestSingleOpenSession(t *testing.T) {
	impl := &fakeImpl{}
	r := newTestRecorder(impl, DefaultConfig())

	s, err := r.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := r.Open(); !errors.Is(err, ErrSessionOpen) {
		t.Fatalf("second Open() error = %v, want ErrSessionOpen", err)
	}

	if _, err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := r.Open(); err != nil {
		t.Fatalf("Open() after Close: %v", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	impl := &fakeImpl{}
	r := newTestRecorder(impl, DefaultConfig())

	s, err := r.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	impl.callback(make([]int16, 16000))

	first, err := s.Close()
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	second, err := s.Close()
	if err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if first != second {
		t.Error("second Close returned a different buffer")
	}
	if impl.stops != 1 {
		t.Errorf("impl stopped %d times, want 1", impl.stops)
	}
}

func TestBufferAccumulation(t *testing.T) {
	impl := &fakeImpl{}
	r := newTestRecorder(impl, DefaultConfig())

	s, err := r.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	// Two chunks of one second each at 16 kHz mono.
	impl.callback(make([]int16, 16000))
	impl.callback(make([]int16, 16000))

	buf, err := s.Close()
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(buf.Samples) != 32000 {
		t.Errorf("got %d samples, want 32000", len(buf.Samples))
	}
	if got, want := buf.Duration(), 2*time.Second; got != want {
		t.Errorf("Duration() = %v, want %v", got, want)
	}
}

func TestBufferDuration(t *testing.T) {
	tests := []struct {
		name    string
		buf     *Buffer
		want    time.Duration
	}{
		{"nil buffer", nil, 0},
		{"empty", &Buffer{SampleRate: 16000, Channels: 1}, 0},
		{"half second", &Buffer{SampleRate: 16000, Channels: 1, Samples: make([]int16, 8000)}, 500 * time.Millisecond},
		{"zero rate", &Buffer{Channels: 1, Samples: make([]int16, 8000)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.buf.Duration(); got != tt.want {
				t.Errorf("Duration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCloseReportsStopError(t *testing.T) {
	impl := &fakeImpl{stopErr: errors.New("stream gone")}
	r := newTestRecorder(impl, DefaultConfig())

	s, err := r.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	impl.callback(make([]int16, 100))

	buf, err := s.Close()
	if err == nil {
		t.Fatal("Close() should report the stop error")
	}
	if buf == nil || len(buf.Samples) != 100 {
		t.Error("buffer must still be finalized when stop fails")
	}

	// Idempotent close after a failed stop returns the same buffer, no error.
	again, err := s.Close()
	if err != nil || again != buf {
		t.Errorf("second Close() = (%v, %v), want cached buffer", again, err)
	}
}
