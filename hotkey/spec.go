// Package hotkey turns raw OS key events into push-to-talk activation events.
package hotkey

import (
	"fmt"
	"strings"

	hook "github.com/robotn/gohook"
)

// Mode selects how a Spec activates.
type Mode int

const (
	// ModeSingleKey activates while the trigger key alone is held.
	ModeSingleKey Mode = iota
	// ModeModifierKey activates while the trigger key is held together with
	// every listed modifier.
	ModeModifierKey
)

// Spec is a parsed hotkey combination such as "ctrl+insert" or "f8".
// It is parsed once at startup and immutable afterwards.
type Spec struct {
	Modifiers []string
	Trigger   string
	Mode      Mode

	raw string
}

// modifier synonyms normalized to the canonical names used throughout the
// package and understood by every listener implementation.
var modifierNames = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"shift":   "shift",
	"alt":     "alt",
	"option":  "alt",
	"cmd":     "cmd",
	"command": "cmd",
	"win":     "cmd",
	"super":   "cmd",
	"meta":    "cmd",
}

// left/right key variants reported by the OS for each canonical modifier.
var modifierVariants = map[string][]string{
	"ctrl":  {"ctrl", "lctrl", "rctrl"},
	"shift": {"shift", "lshift", "rshift"},
	"alt":   {"alt", "lalt", "ralt"},
	"cmd":   {"cmd", "lcmd", "rcmd"},
}

// ParseSpec parses a user-configured hotkey string. Tokens are separated by
// "+"; the last token is the trigger key, everything before it a modifier.
func ParseSpec(s string) (Spec, error) {
	raw := s
	parts := strings.Split(s, "+")
	for i := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(parts[i]))
	}
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return Spec{}, fmt.Errorf("empty hotkey %q", raw)
	}

	trigger := parts[len(parts)-1]
	if _, ok := hook.Keycode[trigger]; !ok {
		return Spec{}, fmt.Errorf("unknown key %q in hotkey %q", trigger, raw)
	}

	spec := Spec{Trigger: trigger, Mode: ModeSingleKey, raw: raw}
	seen := make(map[string]bool)
	for _, tok := range parts[:len(parts)-1] {
		name, ok := modifierNames[tok]
		if !ok {
			return Spec{}, fmt.Errorf("unknown modifier %q in hotkey %q", tok, raw)
		}
		if seen[name] {
			return Spec{}, fmt.Errorf("duplicate modifier %q in hotkey %q", tok, raw)
		}
		seen[name] = true
		spec.Modifiers = append(spec.Modifiers, name)
	}
	if len(spec.Modifiers) > 0 {
		spec.Mode = ModeModifierKey
	}
	return spec, nil
}

// String returns the hotkey as configured.
func (s Spec) String() string { return s.raw }

func (s Spec) hasModifier(name string) bool {
	for _, m := range s.Modifiers {
		if m == name {
			return true
		}
	}
	return false
}

// keycodes maps every OS keycode this spec cares about to its canonical key
// name, including left/right modifier variants.
func (s Spec) keycodes() map[uint16]string {
	codes := make(map[uint16]string)
	if c, ok := hook.Keycode[s.Trigger]; ok {
		codes[c] = s.Trigger
	}
	for _, m := range s.Modifiers {
		for _, variant := range modifierVariants[m] {
			if c, ok := hook.Keycode[variant]; ok {
				codes[c] = m
			}
		}
	}
	return codes
}
