// Package app wires the push-to-talk dictation pipeline.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/semihsmg/local-dictator/audiocapture"
	"github.com/semihsmg/local-dictator/hotkey"
	"github.com/semihsmg/local-dictator/notify"
	"github.com/semihsmg/local-dictator/stt"
)

// CaptureSession is one open recording, finalized by Close.
type CaptureSession interface {
	Close() (*audiocapture.Buffer, error)
}

// SessionOpener opens capture sessions on the input device.
type SessionOpener interface {
	Open() (CaptureSession, error)
}

// Transcriber turns one finalized buffer into an outcome.
type Transcriber interface {
	Process(ctx context.Context, buf *audiocapture.Buffer) stt.Outcome
}

// TextInjector places text at the current cursor position.
type TextInjector interface {
	Inject(text string) error
}

// Pipeline is the dictation state machine. A single control goroutine owns
// the state and the sole open session; every slow operation (transcription,
// injection) runs on a worker so the activation channel stays responsive.
type Pipeline struct {
	opener   SessionOpener
	gate     Transcriber
	injector TextInjector
	sink     notify.Sink
	log      *slog.Logger

	minDuration time.Duration
	events      <-chan hotkey.Event

	// control-goroutine state, never touched elsewhere
	state        notify.State
	session      CaptureSession
	workerDone   chan cycleResult
	cancelWorker context.CancelFunc
}

type cycleResult struct {
	outcome   stt.Outcome
	injectErr error
}

// NewPipeline assembles a pipeline. events is the activation channel from the
// hotkey listener.
func NewPipeline(
	opener SessionOpener,
	gate Transcriber,
	injector TextInjector,
	sink notify.Sink,
	events <-chan hotkey.Event,
	minDuration time.Duration,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if sink == nil {
		sink = notify.Discard{}
	}
	return &Pipeline{
		opener:      opener,
		gate:        gate,
		injector:    injector,
		sink:        sink,
		log:         logger,
		minDuration: minDuration,
		events:      events,
		state:       notify.StateIdle,
		// buffered so the worker never blocks handing back its result
		workerDone: make(chan cycleResult, 1),
	}
}

// Run drives the state machine until ctx is canceled or the activation
// channel closes. On exit, any open session is closed and an in-flight
// transcription is allowed to finish with its result discarded.
func (p *Pipeline) Run(ctx context.Context) error {
	p.sink.StateChanged(p.state)
	for {
		select {
		case <-ctx.Done():
			p.drain()
			return ctx.Err()
		case ev, ok := <-p.events:
			if !ok {
				p.drain()
				return nil
			}
			p.handleActivation(ev)
		case res := <-p.workerDone:
			p.finishCycle(res)
		}
	}
}

// State returns the current pipeline state. Only meaningful from the control
// goroutine; exposed for tests.
func (p *Pipeline) State() notify.State { return p.state }

func (p *Pipeline) handleActivation(ev hotkey.Event) {
	switch ev.Kind {
	case hotkey.ActivationStart:
		p.startRecording()
	case hotkey.ActivationEnd:
		p.stopRecording()
	}
}

func (p *Pipeline) startRecording() {
	if p.state != notify.StateIdle {
		// hotkey pressed again while a previous cycle is still running
		p.log.Debug("activation start dropped", "state", p.state)
		return
	}

	session, err := p.opener.Open()
	if err != nil {
		p.log.Error("open capture session", "error", err)
		p.sink.Feedback(notify.SignalError)
		return
	}
	p.session = session
	p.setState(notify.StateRecording)
	p.sink.Feedback(notify.SignalStart)
	p.log.Info("recording started")
}

func (p *Pipeline) stopRecording() {
	if p.state != notify.StateRecording {
		p.log.Debug("activation end dropped", "state", p.state)
		return
	}

	buf, err := p.session.Close()
	p.session = nil
	p.sink.Feedback(notify.SignalStop)
	if err != nil {
		// the finalized buffer may still be usable; log and keep going
		p.log.Warn("close capture session", "error", err)
	}

	duration := buf.Duration()
	p.log.Info("recording stopped", "duration", duration)

	if buf == nil || duration < p.minDuration {
		// accidental tap: silently dropped, no transcription, no error signal
		p.log.Info("recording below minimum duration, discarding",
			"duration", duration, "min", p.minDuration)
		p.setState(notify.StateIdle)
		return
	}

	p.setState(notify.StateProcessing)
	wctx, cancel := context.WithCancel(context.Background())
	p.cancelWorker = cancel
	go p.process(wctx, buf)
}

// process runs on the worker goroutine: transcription and injection are the
// only slow calls in the pipeline and must never block the control loop.
func (p *Pipeline) process(ctx context.Context, buf *audiocapture.Buffer) {
	res := cycleResult{outcome: p.gate.Process(ctx, buf)}
	if ctx.Err() == nil && res.outcome.Kind == stt.OutcomeText {
		res.injectErr = p.injector.Inject(res.outcome.Text)
	}
	p.workerDone <- res
}

func (p *Pipeline) finishCycle(res cycleResult) {
	if p.cancelWorker != nil {
		p.cancelWorker()
		p.cancelWorker = nil
	}

	switch res.outcome.Kind {
	case stt.OutcomeText:
		if res.injectErr != nil {
			p.log.Error("inject transcription", "error", res.injectErr)
			p.sink.Feedback(notify.SignalError)
		} else {
			p.log.Info("transcription inserted", "chars", len(res.outcome.Text))
		}
	case stt.OutcomeEmpty:
		p.log.Info("empty transcription")
		p.sink.Feedback(notify.SignalError)
	case stt.OutcomeFailed:
		p.log.Error("transcription failed", "error", res.outcome.Err)
		p.sink.Feedback(notify.SignalError)
	}
	p.setState(notify.StateIdle)
}

// drain closes an open session and waits out an in-flight worker. A
// transcription past its point of no return finishes; its result is
// discarded rather than injected mid-shutdown.
func (p *Pipeline) drain() {
	if p.session != nil {
		if _, err := p.session.Close(); err != nil {
			p.log.Warn("close session on shutdown", "error", err)
		}
		p.session = nil
	}
	if p.cancelWorker != nil {
		p.cancelWorker()
		p.cancelWorker = nil
		<-p.workerDone
		p.log.Info("in-flight transcription discarded")
	}
	p.setState(notify.StateIdle)
}

func (p *Pipeline) setState(s notify.State) {
	if p.state == s {
		return
	}
	p.state = s
	p.sink.StateChanged(s)
}
