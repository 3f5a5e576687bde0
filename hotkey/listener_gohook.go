//go:build !windows

package hotkey

import (
	hook "github.com/robotn/gohook"
)

// Start installs the gohook global keyboard hook and begins edge detection.
// gohook cannot suppress events, so on this platform the configured hotkey
// still reaches the foreground application; pick a key without side effects.
func (l *Listener) Start() error {
	raw := hook.Start()
	if raw == nil {
		return ErrHookUnavailable
	}
	go l.run(raw)
	l.log.Info("keyboard hook installed", "hotkey", l.spec.String())
	return nil
}

func (l *Listener) run(raw chan hook.Event) {
	defer close(l.events)
	codes := l.spec.keycodes()
	for {
		select {
		case <-l.stop:
			hook.End()
			return
		case ev, ok := <-raw:
			if !ok {
				return
			}
			name, watched := codes[ev.Keycode]
			if !watched {
				continue
			}
			switch ev.Kind {
			case hook.KeyDown, hook.KeyHold:
				l.feed(KeyEvent{Key: name, Down: true, At: ev.When})
			case hook.KeyUp:
				l.feed(KeyEvent{Key: name, Down: false, At: ev.When})
			}
		}
	}
}
