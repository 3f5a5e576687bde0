package stt

import (
	"context"
	"strings"
	"time"

	"github.com/semihsmg/local-dictator/audiocapture"
)

// OutcomeKind tags the result of one transcription attempt.
type OutcomeKind int

const (
	// OutcomeText carries a non-empty transcription.
	OutcomeText OutcomeKind = iota
	// OutcomeEmpty means nothing usable was said (or the recording was too
	// short to bother the engine with).
	OutcomeEmpty
	// OutcomeFailed means the engine errored.
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeText:
		return "text"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is produced once per recorded buffer and consumed once.
type Outcome struct {
	Kind OutcomeKind
	Text string
	Err  error
}

// Gate applies the minimum-duration policy and translates provider results
// and failures into outcomes. The pipeline never sees a raw engine error.
type Gate struct {
	provider    Provider
	minDuration time.Duration
	language    string
}

// NewGate creates a gate in front of the given provider.
func NewGate(provider Provider, minDuration time.Duration, language string) *Gate {
	return &Gate{provider: provider, minDuration: minDuration, language: language}
}

// Process transcribes one buffer. Buffers below the minimum duration are
// discarded without invoking the provider. Whitespace-only results map to
// OutcomeEmpty; everything else is passed through byte-for-byte.
func (g *Gate) Process(ctx context.Context, buf *audiocapture.Buffer) Outcome {
	if buf == nil || buf.Duration() < g.minDuration {
		return Outcome{Kind: OutcomeEmpty}
	}

	text, err := g.provider.Transcribe(ctx, buf.Samples, g.language)
	if err != nil {
		return Outcome{Kind: OutcomeFailed, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return Outcome{Kind: OutcomeEmpty}
	}
	return Outcome{Kind: OutcomeText, Text: text}
}
