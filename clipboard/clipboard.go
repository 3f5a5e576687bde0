// Package clipboard inserts text at the current cursor position via an atomic
// clipboard swap: snapshot, write, simulated paste keystroke, restore.
package clipboard

import (
	"errors"
	"fmt"
)

// ErrNonText is returned by a System whose clipboard currently holds a
// payload that cannot be represented as text (image, file list). Such content
// is never reconstructed; restoration is skipped instead.
var ErrNonText = errors.New("clipboard content is not text")

// System abstracts the platform clipboard and the paste keystroke.
type System interface {
	ReadText() (string, error)
	WriteText(text string) error
	SimulatePaste() error
}

// Op names the injection step that failed.
type Op string

const (
	OpRead    Op = "read"
	OpWrite   Op = "write"
	OpPaste   Op = "paste"
	OpRestore Op = "restore"
)

// InjectionError is a non-fatal failure of one injection step. The pipeline
// reports it and returns to idle; it never terminates the process.
type InjectionError struct {
	Op  Op
	Err error
}

func (e *InjectionError) Error() string {
	return fmt.Sprintf("clipboard %s: %v", e.Op, e.Err)
}

func (e *InjectionError) Unwrap() error { return e.Err }

// SnapshotKind tags what the clipboard held before injection.
type SnapshotKind int

const (
	// SnapshotText holds restorable text.
	SnapshotText SnapshotKind = iota
	// SnapshotNonText is a payload we refuse to reconstruct.
	SnapshotNonText
	// SnapshotUnavailable means the clipboard could not be read at all.
	SnapshotUnavailable
)

// Snapshot is the prior clipboard content, kept only for one injection cycle.
type Snapshot struct {
	Kind SnapshotKind
	Text string
}
