package clipboard

import (
	"fmt"
	"runtime"

	"github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
)

// Desktop is the real clipboard System: atotto/clipboard for content and a
// synthesized Ctrl+V (Cmd+V on macOS) for the paste keystroke.
type Desktop struct {
	kb keybd_event.KeyBonding
}

// NewDesktop initializes the keystroke synthesizer.
func NewDesktop() (*Desktop, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, fmt.Errorf("init keystroke synthesizer: %w", err)
	}
	return &Desktop{kb: kb}, nil
}

func (d *Desktop) ReadText() (string, error) {
	return clipboard.ReadAll()
}

func (d *Desktop) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

func (d *Desktop) SimulatePaste() error {
	kb := d.kb
	if runtime.GOOS == "darwin" {
		kb.HasSuper(true)
	} else {
		kb.HasCTRL(true)
	}
	kb.SetKeys(keybd_event.VK_V)
	return kb.Launching()
}
