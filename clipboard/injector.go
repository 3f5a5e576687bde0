package clipboard

import (
	"errors"
	"log/slog"
	"time"
)

const (
	// defaultSettleDelay gives the clipboard owner time to publish the new
	// content before the paste keystroke lands.
	defaultSettleDelay = 50 * time.Millisecond
	// defaultRestoreDelay keeps the injected text on the clipboard long
	// enough for the target application to consume the paste.
	defaultRestoreDelay = 100 * time.Millisecond
)

// Injector performs the save, set, paste, restore sequence. Restoration of a
// text snapshot is attempted on every exit path.
type Injector struct {
	sys          System
	settleDelay  time.Duration
	restoreDelay time.Duration
	log          *slog.Logger
}

// NewInjector creates an injector over the given clipboard system.
func NewInjector(sys System, logger *slog.Logger) *Injector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Injector{
		sys:          sys,
		settleDelay:  defaultSettleDelay,
		restoreDelay: defaultRestoreDelay,
		log:          logger,
	}
}

// Inject writes text to the clipboard, simulates the platform paste
// keystroke, and restores the previous clipboard content if it was text.
// An unreadable prior clipboard does not block injection; it only skips
// restoration. The first failing step is reported as an *InjectionError;
// later steps still run where they can.
func (inj *Injector) Inject(text string) (err error) {
	snap, readErr := inj.snapshot()
	if readErr != nil {
		inj.log.Warn("clipboard snapshot failed, restore will be skipped", "error", readErr)
		err = &InjectionError{Op: OpRead, Err: readErr}
	}

	defer func() {
		if snap.Kind != SnapshotText {
			return
		}
		if rerr := inj.sys.WriteText(snap.Text); rerr != nil {
			inj.log.Warn("clipboard restore failed", "error", rerr)
			if err == nil {
				err = &InjectionError{Op: OpRestore, Err: rerr}
			}
		}
	}()

	if werr := inj.sys.WriteText(text); werr != nil {
		if err == nil {
			err = &InjectionError{Op: OpWrite, Err: werr}
		}
		return err
	}

	time.Sleep(inj.settleDelay)
	perr := inj.sys.SimulatePaste()
	time.Sleep(inj.restoreDelay)

	if perr != nil && err == nil {
		err = &InjectionError{Op: OpPaste, Err: perr}
	}
	return err
}

func (inj *Injector) snapshot() (Snapshot, error) {
	text, err := inj.sys.ReadText()
	switch {
	case err == nil:
		return Snapshot{Kind: SnapshotText, Text: text}, nil
	case errors.Is(err, ErrNonText):
		return Snapshot{Kind: SnapshotNonText}, nil
	default:
		return Snapshot{Kind: SnapshotUnavailable}, err
	}
}
