// Package notify carries pipeline state changes and feedback signals to the
// user-facing collaborators (tray icon, beeps, desktop notifications).
package notify

// State is the externally visible mode of the dictation pipeline.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateProcessing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateProcessing:
		return "processing"
	default:
		return "unknown"
	}
}

// Signal is a short user feedback event emitted by the pipeline.
type Signal int

const (
	SignalStart Signal = iota // recording started
	SignalStop                // recording stopped
	SignalError               // a cycle failed
)

func (s Signal) String() string {
	switch s {
	case SignalStart:
		return "start"
	case SignalStop:
		return "stop"
	case SignalError:
		return "error"
	default:
		return "unknown"
	}
}

// Sink receives state changes and feedback signals.
// Implementations must not block; they are called from the pipeline's
// control goroutine.
type Sink interface {
	StateChanged(State)
	Feedback(Signal)
}

// Multi fans out to several sinks.
type Multi []Sink

func (m Multi) StateChanged(s State) {
	for _, sink := range m {
		sink.StateChanged(s)
	}
}

func (m Multi) Feedback(sig Signal) {
	for _, sink := range m {
		sink.Feedback(sig)
	}
}

// Discard is a Sink that ignores everything.
type Discard struct{}

func (Discard) StateChanged(State) {}
func (Discard) Feedback(Signal)    {}
