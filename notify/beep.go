package notify

import (
	"log/slog"

	"github.com/gen2brain/beeep"
)

// Beep frequencies per signal, matching the classic PC-speaker feedback:
// high for start, mid for stop, low for error.
var beepFrequency = map[Signal]float64{
	SignalStart: 800,
	SignalStop:  500,
	SignalError: 300,
}

const beepDurationMillis = 100

// Beeper plays a short tone for each feedback signal.
type Beeper struct {
	log *slog.Logger
}

// NewBeeper creates a beep sink.
func NewBeeper(logger *slog.Logger) *Beeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Beeper{log: logger}
}

func (b *Beeper) StateChanged(State) {}

func (b *Beeper) Feedback(sig Signal) {
	freq, ok := beepFrequency[sig]
	if !ok {
		freq = beeep.DefaultFreq
	}
	if err := beeep.Beep(freq, beepDurationMillis); err != nil {
		b.log.Warn("beep failed", "signal", sig, "error", err)
	}
}

// Desktop shows a desktop notification when a cycle fails. State changes and
// success are intentionally silent; the tray icon already reflects them.
type Desktop struct {
	appName string
	log     *slog.Logger
}

// NewDesktop creates a desktop notification sink.
func NewDesktop(appName string, logger *slog.Logger) *Desktop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Desktop{appName: appName, log: logger}
}

func (d *Desktop) StateChanged(State) {}

func (d *Desktop) Feedback(sig Signal) {
	if sig != SignalError {
		return
	}
	if err := beeep.Notify(d.appName, "Dictation failed", ""); err != nil {
		d.log.Warn("desktop notification failed", "error", err)
	}
}
