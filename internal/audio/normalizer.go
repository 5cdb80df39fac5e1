// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package internal_audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/zaf/resample"
)

// AudioDecodeError reports a failed decode or resample. Raw carries the
// original bytes untouched so the caller can fall back to submitting them
// as-is instead of aborting the whole session.
type AudioDecodeError struct {
	Raw []byte
	Err error
}

func (e *AudioDecodeError) Error() string {
	return fmt.Sprintf("audio decode failed: %v", e.Err)
}

func (e *AudioDecodeError) Unwrap() error {
	return e.Err
}

// Normalize converts raw self-describing audio bytes into a canonical
// buffer: mono, targetRate, at least minDuration long (tail-padded with
// silence). When the native rate already matches targetRate the sample data
// passes through untouched; otherwise each channel is resampled at full
// quality before the channels are averaged down to mono. Resampling before
// the down-mix avoids aliasing the average at the wrong rate.
func Normalize(raw []byte, targetRate int, minDuration time.Duration) (*Buffer, error) {
	samples, channels, rate, err := decodeWAV(raw)
	if err != nil {
		return nil, &AudioDecodeError{Raw: raw, Err: err}
	}

	if rate != targetRate {
		samples, err = resampleInterleaved(samples, channels, rate, targetRate)
		if err != nil {
			return nil, &AudioDecodeError{Raw: raw, Err: fmt.Errorf("resample %d -> %d Hz: %w", rate, targetRate, err)}
		}
		// soxr can overshoot slightly on sharp transients.
		for i, s := range samples {
			if s > 1 {
				samples[i] = 1
			} else if s < -1 {
				samples[i] = -1
			}
		}
	}

	if channels > 1 {
		samples = downmix(samples, channels)
	}

	minSamples := int(math.Round(minDuration.Seconds() * float64(targetRate)))
	if len(samples) < minSamples {
		padded := make([]float64, minSamples)
		copy(padded, samples)
		samples = padded
	}

	return &Buffer{samples: samples, rate: targetRate}, nil
}

// resampleInterleaved converts interleaved multi-channel samples from
// fromRate to toRate through the soxr-backed resampler, which handles each
// interleaved channel independently.
func resampleInterleaved(samples []float64, channels, fromRate, toRate int) ([]float64, error) {
	var out bytes.Buffer
	r, err := resample.New(&out, float64(fromRate), float64(toRate), channels, resample.F64, resample.HighQ)
	if err != nil {
		return nil, err
	}

	in := make([]byte, len(samples)*8)
	for i, s := range samples {
		binary.LittleEndian.PutUint64(in[i*8:], math.Float64bits(s))
	}
	if _, err := r.Write(in); err != nil {
		r.Close()
		return nil, err
	}
	// Close flushes the resampler's tail.
	if err := r.Close(); err != nil {
		return nil, err
	}

	data := out.Bytes()
	resampled := make([]float64, len(data)/8)
	for i := range resampled {
		resampled[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
	}
	if rem := len(resampled) % channels; rem != 0 {
		resampled = resampled[:len(resampled)-rem]
	}
	return resampled, nil
}

// downmix averages interleaved channels into mono, frame by frame.
func downmix(samples []float64, channels int) []float64 {
	frames := len(samples) / channels
	mono := make([]float64, frames)
	for f := 0; f < frames; f++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += samples[f*channels+c]
		}
		mono[f] = sum / float64(channels)
	}
	return mono
}
