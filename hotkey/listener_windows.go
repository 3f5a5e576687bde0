//go:build windows

package hotkey

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"
	"unsafe"
)

// Start installs a WH_KEYBOARD_LL hook. Unlike the portable listener, the
// low-level hook can swallow the trigger key, so the configured hotkey does
// not leak keystrokes into the foreground application.
func (l *Listener) Start() error {
	errCh := make(chan error, 1)
	go l.hookLoop(errCh)

	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		return fmt.Errorf("%w: hook install timed out", ErrHookUnavailable)
	}
}

const (
	whKeyboardLL  = 13
	wmKeydown     = 0x0100
	wmKeyup       = 0x0101
	wmSyskeydown  = 0x0104
	wmSyskeyup    = 0x0105
	wmQuit        = 0x0012
	llkhfInjected = 0x10
)

type kbdllHookStruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

type msgStruct struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	PtX     int32
	PtY     int32
}

// hookLoop owns the hook for its entire lifetime; low-level hooks must be
// installed and pumped on the same OS thread.
func (l *Listener) hookLoop(errCh chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(l.events)

	vkNames, err := l.spec.vkCodes()
	if err != nil {
		errCh <- err
		return
	}

	user32 := syscall.NewLazyDLL("user32.dll")
	kernel32 := syscall.NewLazyDLL("kernel32.dll")
	procSetWindowsHookExW := user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx := user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx := user32.NewProc("CallNextHookEx")
	procGetMessageW := user32.NewProc("GetMessageW")
	procPostThreadMessageW := user32.NewProc("PostThreadMessageW")
	procGetCurrentThreadId := kernel32.NewProc("GetCurrentThreadId")

	// remembers trigger downs we swallowed so the matching up is swallowed too
	swallowed := make(map[uint32]bool)

	callback := syscall.NewCallback(func(nCode, wParam, lParam uintptr) uintptr {
		if int32(nCode) < 0 {
			ret, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
			return ret
		}

		k := (*kbdllHookStruct)(unsafe.Pointer(lParam))
		if k.flags&llkhfInjected != 0 {
			// ignore events we synthesize ourselves (paste keystroke)
			ret, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
			return ret
		}

		name, watched := vkNames[k.vkCode]
		if !watched {
			ret, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
			return ret
		}

		var down bool
		switch uint32(wParam) {
		case wmKeydown, wmSyskeydown:
			down = true
		case wmKeyup, wmSyskeyup:
			down = false
		default:
			ret, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
			return ret
		}

		l.feed(KeyEvent{Key: name, Down: down, At: time.Now()})

		// Swallow the trigger key while it belongs to an activation so it
		// never reaches the foreground application. Modifiers pass through;
		// they are shared with normal typing.
		if name == l.spec.Trigger {
			if down && l.det.Active() {
				swallowed[k.vkCode] = true
				return 1
			}
			if !down && swallowed[k.vkCode] {
				delete(swallowed, k.vkCode)
				return 1
			}
		}

		ret, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
		return ret
	})

	hookHandle, _, _ := procSetWindowsHookExW.Call(uintptr(whKeyboardLL), callback, 0, 0)
	if hookHandle == 0 {
		errCh <- fmt.Errorf("%w: SetWindowsHookExW failed", ErrHookUnavailable)
		return
	}

	threadID, _, _ := procGetCurrentThreadId.Call()
	go func() {
		<-l.stop
		procPostThreadMessageW.Call(threadID, uintptr(wmQuit), 0, 0)
	}()

	l.log.Info("keyboard hook installed", "hotkey", l.spec.String())
	errCh <- nil

	var msg msgStruct
	for {
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		if int32(ret) <= 0 {
			break
		}
	}

	procUnhookWindowsHookEx.Call(hookHandle)
	l.log.Info("keyboard hook released")
}

// vkCodes maps every Windows virtual-key code this spec cares about to its
// canonical key name, including left/right modifier variants.
func (s Spec) vkCodes() (map[uint32]string, error) {
	codes := make(map[uint32]string)

	trigger, err := vkFor(s.Trigger)
	if err != nil {
		return nil, fmt.Errorf("hotkey %q: %w", s.raw, err)
	}
	for _, vk := range trigger {
		codes[vk] = s.Trigger
	}

	modifierVKs := map[string][]uint32{
		"ctrl":  {0x11, 0xA2, 0xA3},
		"shift": {0x10, 0xA0, 0xA1},
		"alt":   {0x12, 0xA4, 0xA5},
		"cmd":   {0x5B, 0x5C},
	}
	for _, m := range s.Modifiers {
		for _, vk := range modifierVKs[m] {
			codes[vk] = m
		}
	}
	return codes, nil
}

var namedVK = map[string]uint32{
	"esc":       0x1B,
	"escape":    0x1B,
	"space":     0x20,
	"enter":     0x0D,
	"return":    0x0D,
	"tab":       0x09,
	"backspace": 0x08,
	"insert":    0x2D,
	"delete":    0x2E,
	"home":      0x24,
	"end":       0x23,
	"pageup":    0x21,
	"pagedown":  0x22,
	"left":      0x25,
	"up":        0x26,
	"right":     0x27,
	"down":      0x28,
	"capslock":  0x14,
}

// vkFor translates a canonical key name to its virtual-key code(s).
func vkFor(key string) ([]uint32, error) {
	if len(key) == 1 {
		ch := key[0]
		if ch >= 'a' && ch <= 'z' {
			return []uint32{uint32(ch - 'a' + 'A')}, nil
		}
		if ch >= '0' && ch <= '9' {
			return []uint32{uint32(ch)}, nil
		}
	}
	if vk, ok := namedVK[key]; ok {
		return []uint32{vk}, nil
	}
	if n, err := strconv.Atoi(strings.TrimPrefix(key, "f")); err == nil && strings.HasPrefix(key, "f") && n >= 1 && n <= 24 {
		return []uint32{0x70 + uint32(n-1)}, nil
	}
	return nil, fmt.Errorf("no virtual-key code for %q", key)
}
