// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

// Package internal_audio converts raw captured audio into the one canonical
// form the transcription engines accept: mono floating-point PCM at a fixed
// target rate with a minimum duration floor. Decoding, resampling, channel
// down-mix and silence padding live here; nothing in this package blocks or
// holds state across calls.
package internal_audio
