package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/semihsmg/local-dictator/audiocapture"
	"github.com/semihsmg/local-dictator/clipboard"
	"github.com/semihsmg/local-dictator/config"
	"github.com/semihsmg/local-dictator/hotkey"
	"github.com/semihsmg/local-dictator/notify"
	"github.com/semihsmg/local-dictator/stt"
)

// App assembles the dictation service: hotkey listener, recorder,
// transcription gate, clipboard injector, and the pipeline that sequences
// them. Call Start once, Shutdown on exit.
type App struct {
	cfg      *config.Config
	log      *slog.Logger
	listener *hotkey.Listener
	registry *stt.Registry
	pipeline *Pipeline

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// New builds the service from configuration. extraSinks join the built-in
// beep sink (the tray, typically).
func New(cfg *config.Config, logger *slog.Logger, extraSinks ...notify.Sink) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	spec, err := hotkey.ParseSpec(cfg.Hotkey)
	if err != nil {
		return nil, fmt.Errorf("parse hotkey: %w", err)
	}

	provider, err := stt.NewWhisperLocal(stt.WhisperLocalConfig{ModelSize: cfg.Model})
	if err != nil {
		return nil, fmt.Errorf("init whisper: %w", err)
	}
	registry := stt.NewRegistry()
	registry.Register(provider)

	desktop, err := clipboard.NewDesktop()
	if err != nil {
		return nil, fmt.Errorf("init clipboard: %w", err)
	}

	var sinks notify.Multi
	if cfg.BeepEnabled {
		sinks = append(sinks, notify.NewBeeper(logger))
	}
	if cfg.ErrorNotifications {
		sinks = append(sinks, notify.NewDesktop("Local Dictator", logger))
	}
	sinks = append(sinks, extraSinks...)

	listener := hotkey.NewListener(spec, logger)
	recorder := audiocapture.New(audiocapture.DefaultConfig())
	gate := stt.NewGate(provider, cfg.MinDuration(), cfg.Language)
	injector := clipboard.NewInjector(desktop, logger)

	pipeline := NewPipeline(
		recorderOpener{recorder},
		gate,
		injector,
		sinks,
		listener.Events(),
		cfg.MinDuration(),
		logger,
	)

	return &App{
		cfg:      cfg,
		log:      logger,
		listener: listener,
		registry: registry,
		pipeline: pipeline,
		done:     make(chan struct{}),
	}, nil
}

// Start downloads the model if needed, installs the keyboard hook, and runs
// the pipeline. Hook registration failure is the one startup error that
// prevents the pipeline from ever recording.
func (a *App) Start() error {
	provider := a.registry.Get("whisper-local")
	if provider != nil && !provider.IsReady() {
		a.log.Info("downloading whisper model", "model", a.cfg.Model)
		lastLogged := -10
		err := provider.Setup(func(percent int) {
			if percent >= lastLogged+10 {
				lastLogged = percent
				a.log.Info("model download", "percent", percent)
			}
		})
		if err != nil {
			return fmt.Errorf("setup whisper model: %w", err)
		}
	}

	if err := a.listener.Start(); err != nil {
		return fmt.Errorf("register hotkey %q: %w", a.cfg.Hotkey, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go func() {
		defer close(a.done)
		if err := a.pipeline.Run(ctx); err != nil && err != context.Canceled {
			a.log.Error("pipeline stopped", "error", err)
		}
	}()

	a.log.Info("ready", "hotkey", a.cfg.Hotkey, "model", a.cfg.Model, "language", a.cfg.Language)
	return nil
}

// Shutdown releases the hook, drains the pipeline, and closes the providers.
// Safe to call more than once.
func (a *App) Shutdown() {
	a.once.Do(func() {
		a.log.Info("shutting down")
		// stop accepting new activations first, then drain in-flight work
		a.listener.Stop()
		if a.cancel != nil {
			a.cancel()
			<-a.done
		}
		if err := a.registry.Close(); err != nil {
			a.log.Error("close stt providers", "error", err)
		}
	})
}

// recorderOpener adapts the concrete recorder to the pipeline interface.
type recorderOpener struct {
	rec *audiocapture.Recorder
}

func (r recorderOpener) Open() (CaptureSession, error) {
	s, err := r.rec.Open()
	if err != nil {
		return nil, err
	}
	return s, nil
}
