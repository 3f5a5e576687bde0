package clipboard

import (
	"errors"
	"log/slog"
	"testing"
)

// fakeSystem records every clipboard interaction in order.
type fakeSystem struct {
	content  string
	readErr  error
	writeErr error
	pasteErr error

	writes []string
	pasted []string // clipboard content at each paste
}

func (f *fakeSystem) ReadText() (string, error) {
	if f.readErr != nil {
		return "", f.readErr
	}
	return f.content, nil
}

func (f *fakeSystem) WriteText(text string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.content = text
	f.writes = append(f.writes, text)
	return nil
}

func (f *fakeSystem) SimulatePaste() error {
	if f.pasteErr != nil {
		return f.pasteErr
	}
	f.pasted = append(f.pasted, f.content)
	return nil
}

func newTestInjector(sys System) *Injector {
	inj := NewInjector(sys, slog.Default())
	inj.settleDelay = 0
	inj.restoreDelay = 0
	return inj
}

func TestInjectRoundTrip(t *testing.T) {
	sys := &fakeSystem{content: "previous clipboard"}
	inj := newTestInjector(sys)

	if err := inj.Inject("hello world"); err != nil {
		t.Fatalf("Inject: %v", err)
	}

	if sys.content != "previous clipboard" {
		t.Errorf("clipboard after cycle = %q, want original content", sys.content)
	}
	if len(sys.pasted) != 1 || sys.pasted[0] != "hello world" {
		t.Errorf("pasted %v, want exactly [\"hello world\"]", sys.pasted)
	}
}

func TestInjectRestoresOnPasteFailure(t *testing.T) {
	sys := &fakeSystem{content: "original", pasteErr: errors.New("no focus")}
	inj := newTestInjector(sys)

	err := inj.Inject("text")
	var injErr *InjectionError
	if !errors.As(err, &injErr) || injErr.Op != OpPaste {
		t.Fatalf("Inject() = %v, want InjectionError{Op: paste}", err)
	}
	if sys.content != "original" {
		t.Errorf("clipboard = %q, want original restored despite paste failure", sys.content)
	}
}

func TestInjectNonTextSkipsRestore(t *testing.T) {
	sys := &fakeSystem{readErr: ErrNonText}
	inj := newTestInjector(sys)

	err := inj.Inject("text")
	if err != nil {
		t.Fatalf("Inject: %v", err)
	}

	// Only the injected text is written; no restore write happens.
	if len(sys.writes) != 1 || sys.writes[0] != "text" {
		t.Errorf("writes = %v, want only the injected text", sys.writes)
	}
	if len(sys.pasted) != 1 {
		t.Errorf("pastes = %d, want 1", len(sys.pasted))
	}
}

func TestInjectUnreadableClipboardStillInjects(t *testing.T) {
	sys := &fakeSystem{readErr: errors.New("clipboard busy")}
	inj := newTestInjector(sys)

	err := inj.Inject("text")
	var injErr *InjectionError
	if !errors.As(err, &injErr) || injErr.Op != OpRead {
		t.Fatalf("Inject() = %v, want InjectionError{Op: read}", err)
	}

	// Steps 2-3 proceed, restoration is skipped.
	if len(sys.writes) != 1 || sys.writes[0] != "text" {
		t.Errorf("writes = %v, want only the injected text", sys.writes)
	}
	if len(sys.pasted) != 1 {
		t.Errorf("pastes = %d, want 1", len(sys.pasted))
	}
}

func TestInjectWriteFailureSkipsPasteRestoresOriginal(t *testing.T) {
	sys := &fakeSystem{content: "original"}
	inj := newTestInjector(sys)

	// Fail the first write (inject), allow the restore write.
	failOnce := &failFirstWrite{fakeSystem: sys}
	inj.sys = failOnce

	err := inj.Inject("text")
	var injErr *InjectionError
	if !errors.As(err, &injErr) || injErr.Op != OpWrite {
		t.Fatalf("Inject() = %v, want InjectionError{Op: write}", err)
	}
	if len(sys.pasted) != 0 {
		t.Errorf("paste must not run after a failed write, got %d", len(sys.pasted))
	}
	if sys.content != "original" {
		t.Errorf("clipboard = %q, want original", sys.content)
	}
}

func TestInjectRestoreFailureReported(t *testing.T) {
	sys := &fakeSystem{content: "original"}
	inj := newTestInjector(sys)
	inj.sys = &failSecondWrite{fakeSystem: sys}

	err := inj.Inject("text")
	var injErr *InjectionError
	if !errors.As(err, &injErr) || injErr.Op != OpRestore {
		t.Fatalf("Inject() = %v, want InjectionError{Op: restore}", err)
	}
}

type failFirstWrite struct {
	*fakeSystem
	calls int
}

func (f *failFirstWrite) WriteText(text string) error {
	f.calls++
	if f.calls == 1 {
		return errors.New("write denied")
	}
	return f.fakeSystem.WriteText(text)
}

type failSecondWrite struct {
	*fakeSystem
	calls int
}

func (f *failSecondWrite) WriteText(text string) error {
	f.calls++
	if f.calls == 2 {
		return errors.New("write denied")
	}
	return f.fakeSystem.WriteText(text)
}
