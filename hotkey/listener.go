package hotkey

import (
	"errors"
	"log/slog"
	"sync"
)

// ErrHookUnavailable is returned when the OS-level keyboard hook cannot be
// installed, typically because another application owns it or the platform
// denies the permission. It is reported once at startup; the pipeline never
// reaches Recording without a hook.
var ErrHookUnavailable = errors.New("keyboard hook unavailable")

// queueSize bounds the activation channel. The hook context only enqueues and
// never blocks; events beyond the bound are dropped and logged.
const queueSize = 16

// Listener installs the platform keyboard hook, runs edge detection, and
// delivers activation events on a bounded channel.
type Listener struct {
	spec   Spec
	det    *Detector
	events chan Event
	log    *slog.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

// NewListener creates a listener for the given spec. Call Start to install
// the hook and Stop to release it.
func NewListener(spec Spec, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		spec:   spec,
		det:    NewDetector(spec),
		events: make(chan Event, queueSize),
		log:    logger,
		stop:   make(chan struct{}),
	}
}

// Events returns the activation event channel. It is closed after Stop once
// the hook has been released.
func (l *Listener) Events() <-chan Event { return l.events }

// Stop uninstalls the hook and closes the event channel.
func (l *Listener) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// feed runs one raw key transition through the detector and enqueues any
// resulting activation event without blocking the hook context.
func (l *Listener) feed(ev KeyEvent) {
	out, ok := l.det.Feed(ev)
	if !ok {
		return
	}
	select {
	case l.events <- out:
	default:
		l.log.Warn("activation queue full, dropping event", "kind", out.Kind)
	}
}
