// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

// Package internal_capture_memory is an in-process capture subsystem:
// participant audio is pushed in with Feed and handed back at stop time.
// It backs tests and single-process deployments where the capture source
// lives in the same binary.
package internal_capture_memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	internal_type "github.com/voicescribe/voicescribe/internal/type"
)

// Capturer accumulates per-participant raw audio per session key.
type Capturer struct {
	mu       sync.Mutex
	present  map[string]map[string]bool
	feeds    map[string]map[string]*bytes.Buffer
	closeErr map[string]error
}

// NewCapturer creates an empty in-memory capture subsystem.
func NewCapturer() *Capturer {
	return &Capturer{
		present:  make(map[string]map[string]bool),
		feeds:    make(map[string]map[string]*bytes.Buffer),
		closeErr: make(map[string]error),
	}
}

// Join marks requester as present in the voice room key; only present
// requesters can start a capture there.
func (c *Capturer) Join(key, requester string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.present[key] == nil {
		c.present[key] = make(map[string]bool)
	}
	c.present[key][requester] = true
}

// Leave removes requester from the voice room key.
func (c *Capturer) Leave(key, requester string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.present[key], requester)
}

// Feed appends raw audio bytes for one participant in room key.
func (c *Capturer) Feed(key, participant string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.feeds[key] == nil {
		c.feeds[key] = make(map[string]*bytes.Buffer)
	}
	buf := c.feeds[key][participant]
	if buf == nil {
		buf = &bytes.Buffer{}
		c.feeds[key][participant] = buf
	}
	buf.Write(data)
}

// FailClose forces the next Close for key to return err, simulating a
// capture subsystem that cannot be released.
func (c *Capturer) FailClose(key string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeErr[key] = err
}

// Connect attaches to room key on behalf of requester.
func (c *Capturer) Connect(ctx context.Context, key, requester string) (internal_type.CaptureHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.present[key][requester] {
		return nil, fmt.Errorf("connect %s for %s: %w", key, requester, internal_type.ErrNotInVoice)
	}
	return &handle{capturer: c, key: key}, nil
}

type handle struct {
	capturer *Capturer
	key      string
	drained  bool
}

// Drain hands out each participant's accumulated bytes, read from offset
// zero, exactly once.
func (h *handle) Drain(ctx context.Context) (map[string]io.Reader, error) {
	h.capturer.mu.Lock()
	defer h.capturer.mu.Unlock()
	if h.drained {
		return nil, fmt.Errorf("capture for %s already drained", h.key)
	}
	h.drained = true

	readers := make(map[string]io.Reader, len(h.capturer.feeds[h.key]))
	for participant, buf := range h.capturer.feeds[h.key] {
		readers[participant] = bytes.NewReader(buf.Bytes())
	}
	return readers, nil
}

func (h *handle) Close(ctx context.Context) error {
	h.capturer.mu.Lock()
	defer h.capturer.mu.Unlock()
	if err := h.capturer.closeErr[h.key]; err != nil {
		delete(h.capturer.closeErr, h.key)
		return err
	}
	delete(h.capturer.feeds, h.key)
	return nil
}
