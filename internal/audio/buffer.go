// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package internal_audio

import (
	"math"
	"time"
)

// Buffer is a canonical audio segment: mono float64 PCM in [-1, 1] at a
// fixed sample rate. Treat it as immutable once constructed.
type Buffer struct {
	samples []float64
	rate    int
}

// NewBuffer copies samples into a canonical buffer at the given rate.
func NewBuffer(samples []float64, rate int) *Buffer {
	owned := make([]float64, len(samples))
	copy(owned, samples)
	return &Buffer{samples: owned, rate: rate}
}

// SampleRate returns the buffer's sample rate in Hz.
func (b *Buffer) SampleRate() int {
	return b.rate
}

// Samples returns the underlying mono sample data. Callers must not modify
// the returned slice.
func (b *Buffer) Samples() []float64 {
	return b.samples
}

// Duration returns the buffer's playback duration.
func (b *Buffer) Duration() time.Duration {
	if b.rate == 0 {
		return 0
	}
	return time.Duration(float64(len(b.samples)) / float64(b.rate) * float64(time.Second))
}

// WAV renders the buffer as a 16-bit PCM mono WAV container, the wire form
// engines take when they cannot consume float samples directly.
func (b *Buffer) WAV() []byte {
	pcm := make([]int16, len(b.samples))
	for i, s := range b.samples {
		v := math.Round(s * 32768)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		pcm[i] = int16(v)
	}
	return EncodeWAV16(pcm, b.rate, 1)
}
