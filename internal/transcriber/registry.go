// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package internal_transcriber

import (
	"fmt"
	"sync"

	internal_type "github.com/voicescribe/voicescribe/internal/type"
)

// Registry holds the configured transcription engines by name and selects
// the one the pipeline submits to.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]internal_type.Transcriber
	primary string
}

// NewRegistry creates an empty engine registry.
func NewRegistry() *Registry {
	return &Registry{
		engines: make(map[string]internal_type.Transcriber),
	}
}

// Register adds an engine. The first registered engine becomes the primary
// until SetPrimary overrides it.
func (r *Registry) Register(engine internal_type.Transcriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[engine.Name()] = engine
	if r.primary == "" {
		r.primary = engine.Name()
	}
}

// SetPrimary selects the engine the pipeline uses.
func (r *Registry) SetPrimary(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.engines[name]; !ok {
		return fmt.Errorf("unknown transcription engine %q", name)
	}
	r.primary = name
	return nil
}

// Primary returns the selected engine, or an error when none is registered.
func (r *Registry) Primary() (internal_type.Transcriber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.primary == "" {
		return nil, fmt.Errorf("no transcription engine registered")
	}
	return r.engines[r.primary], nil
}

// Names returns the registered engine names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	return names
}
