// Package stt provides the speech-to-text provider interface and the local
// whisper.cpp implementation.
package stt

import "context"

// Provider converts one recorded buffer to text.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// DisplayName returns the human-readable provider name.
	DisplayName() string

	// IsReady returns true if the provider can transcribe right now.
	IsReady() bool

	// Setup performs one-time initialization (e.g. model download).
	// The progress callback receives a percentage (0-100).
	Setup(progress func(percent int)) error

	// Transcribe converts audio samples to text.
	// samples: mono 16-bit PCM at 16000 Hz
	// language: source language code (empty for auto-detect)
	// The returned text is passed through from the engine untouched.
	Transcribe(ctx context.Context, samples []int16, language string) (string, error)

	// Close releases resources held by the provider.
	Close() error
}

// Registry holds registered STT providers.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider to the registry.
func (r *Registry) Register(p Provider) {
	r.providers[p.Name()] = p
}

// Get returns a provider by name, nil if absent.
func (r *Registry) Get(name string) Provider {
	return r.providers[name]
}

// List returns all registered providers.
func (r *Registry) List() []Provider {
	result := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		result = append(result, p)
	}
	return result
}

// Close releases all providers.
func (r *Registry) Close() error {
	for _, p := range r.providers {
		if err := p.Close(); err != nil {
			return err
		}
	}
	return nil
}
