package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/getlantern/systray"

	"github.com/semihsmg/local-dictator/config"
	"github.com/semihsmg/local-dictator/internal/app"
	"github.com/semihsmg/local-dictator/notify"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		cfg = config.Default()
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("starting local-dictator", "version", version, "commit", commit, "date", date)

	tray := &traySink{}
	service, err := app.New(cfg, logger, tray)
	if err != nil {
		logger.Error("init", "error", err)
		os.Exit(1)
	}

	quit := make(chan struct{})
	go systray.Run(func() {
		systray.SetTitle("Dictator")
		systray.SetTooltip("Push-to-talk dictation")
		status := systray.AddMenuItem("Idle", "Current pipeline state")
		status.Disable()
		systray.AddSeparator()
		mQuit := systray.AddMenuItem("Quit", "Stop dictation and exit")
		tray.bind(status)

		if err := service.Start(); err != nil {
			logger.Error("start", "error", err)
			close(quit)
			return
		}

		go func() {
			<-mQuit.ClickedCh
			close(quit)
		}()
	}, func() {})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		logger.Info("signal received", "signal", sig.String())
	case <-quit:
	}

	service.Shutdown()
	systray.Quit()
}

// newLogger builds the slog handler from the config's log switches. With
// both switches off, logging is silenced entirely.
func newLogger(cfg *config.Config) *slog.Logger {
	var writers []io.Writer
	if cfg.LogToConsole {
		writers = append(writers, os.Stderr)
	}
	if cfg.LogToFile {
		path, err := config.LogPath()
		if err == nil {
			var f *os.File
			f, err = os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err == nil {
				writers = append(writers, f)
			}
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "open log file:", err)
		}
	}
	if len(writers) == 0 {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(io.MultiWriter(writers...), nil))
}

// traySink mirrors the pipeline state into the tray menu. It is registered
// before the tray exists, so the menu item is bound late and state changes
// arriving earlier are dropped.
type traySink struct {
	mu     sync.Mutex
	status *systray.MenuItem
}

func (t *traySink) bind(item *systray.MenuItem) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = item
}

func (t *traySink) StateChanged(s notify.State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == nil {
		return
	}
	switch s {
	case notify.StateRecording:
		t.status.SetTitle("Recording...")
	case notify.StateProcessing:
		t.status.SetTitle("Transcribing...")
	default:
		t.status.SetTitle("Idle")
	}
}

func (t *traySink) Feedback(notify.Signal) {}
