package hotkey

import "testing"

func TestParseSpec(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantMods  []string
		wantKey   string
		wantMode  Mode
		wantError bool
	}{
		{"modifier combo", "ctrl+insert", []string{"ctrl"}, "insert", ModeModifierKey, false},
		{"single key", "f8", nil, "f8", ModeSingleKey, false},
		{"two modifiers", "ctrl+shift+space", []string{"ctrl", "shift"}, "space", ModeModifierKey, false},
		{"synonym and spaces", "Control + Insert", []string{"ctrl"}, "insert", ModeModifierKey, false},
		{"cmd synonym", "super+d", []string{"cmd"}, "d", ModeModifierKey, false},
		{"empty", "", nil, "", 0, true},
		{"trailing plus", "ctrl+", nil, "", 0, true},
		{"unknown modifier", "hyper+x", nil, "", 0, true},
		{"unknown key", "ctrl+notakey", nil, "", 0, true},
		{"duplicate modifier", "ctrl+control+x", nil, "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseSpec(tt.input)
			if tt.wantError {
				if err == nil {
					t.Fatalf("ParseSpec(%q) = %+v, want error", tt.input, spec)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSpec(%q): %v", tt.input, err)
			}
			if spec.Trigger != tt.wantKey {
				t.Errorf("Trigger = %q, want %q", spec.Trigger, tt.wantKey)
			}
			if spec.Mode != tt.wantMode {
				t.Errorf("Mode = %v, want %v", spec.Mode, tt.wantMode)
			}
			if len(spec.Modifiers) != len(tt.wantMods) {
				t.Fatalf("Modifiers = %v, want %v", spec.Modifiers, tt.wantMods)
			}
			for i := range tt.wantMods {
				if spec.Modifiers[i] != tt.wantMods[i] {
					t.Errorf("Modifiers[%d] = %q, want %q", i, spec.Modifiers[i], tt.wantMods[i])
				}
			}
		})
	}
}

func TestSpecStringRoundTrip(t *testing.T) {
	raw := "ctrl+insert"
	spec, err := ParseSpec(raw)
	if err != nil {
		t.Fatal(err)
	}
	if spec.String() != raw {
		t.Errorf("String() = %q, want %q", spec.String(), raw)
	}
}

func TestSpecKeycodes(t *testing.T) {
	spec, err := ParseSpec("ctrl+insert")
	if err != nil {
		t.Fatal(err)
	}
	codes := spec.keycodes()
	if len(codes) == 0 {
		t.Fatal("no keycodes resolved")
	}
	var haveTrigger, haveMod bool
	for _, name := range codes {
		switch name {
		case "insert":
			haveTrigger = true
		case "ctrl":
			haveMod = true
		}
	}
	if !haveTrigger || !haveMod {
		t.Errorf("keycodes missing entries: trigger=%v modifier=%v", haveTrigger, haveMod)
	}
}
