package hotkey

import "time"

// EventKind is the logical transition of one activation.
type EventKind int

const (
	// ActivationStart fires on the down-edge of a complete hotkey.
	ActivationStart EventKind = iota
	// ActivationEnd fires when the trigger key or any required modifier is
	// released while active, whichever happens first.
	ActivationEnd
)

func (k EventKind) String() string {
	if k == ActivationStart {
		return "start"
	}
	return "end"
}

// Event is one hotkey transition, consumed once by the pipeline.
type Event struct {
	Kind EventKind
	At   time.Time
}

// KeyEvent is a single physical key transition as reported by a listener,
// already translated to the canonical key name.
type KeyEvent struct {
	Key  string
	Down bool
	At   time.Time
}

// Detector de-duplicates raw key transitions into activation edges. It holds
// no state beyond "currently active" and the set of held modifiers, and is
// not safe for concurrent use; each listener owns one.
type Detector struct {
	spec        Spec
	held        map[string]bool
	triggerDown bool
	active      bool
}

// NewDetector creates a detector for the given spec.
func NewDetector(spec Spec) *Detector {
	return &Detector{
		spec: spec,
		held: make(map[string]bool, len(spec.Modifiers)),
	}
}

// Active reports whether the hotkey is currently held.
func (d *Detector) Active() bool { return d.active }

// Feed consumes one key transition and returns an activation event when the
// transition produces an edge. OS key-repeat events for an already-down key
// are filtered.
func (d *Detector) Feed(ev KeyEvent) (Event, bool) {
	switch {
	case ev.Key == d.spec.Trigger:
		if ev.Down {
			if d.triggerDown {
				// key repeat
				return Event{}, false
			}
			d.triggerDown = true
			if d.active {
				return Event{}, false
			}
			if d.spec.Mode == ModeModifierKey && !d.modifiersHeld() {
				return Event{}, false
			}
			d.active = true
			return Event{Kind: ActivationStart, At: ev.At}, true
		}
		d.triggerDown = false
		if !d.active {
			return Event{}, false
		}
		d.active = false
		return Event{Kind: ActivationEnd, At: ev.At}, true

	case d.spec.hasModifier(ev.Key):
		d.held[ev.Key] = ev.Down
		// Releasing a required modifier ends an active hold immediately,
		// before the trigger key comes up, so recording cannot get stuck.
		if !ev.Down && d.active {
			d.active = false
			return Event{Kind: ActivationEnd, At: ev.At}, true
		}
	}
	return Event{}, false
}

func (d *Detector) modifiersHeld() bool {
	for _, m := range d.spec.Modifiers {
		if !d.held[m] {
			return false
		}
	}
	return true
}
