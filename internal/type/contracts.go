// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package internal_type

import (
	"context"
	"errors"
	"io"
	"time"

	internal_audio "github.com/voicescribe/voicescribe/internal/audio"
)

// ErrNotInVoice is returned by a Capturer when the requester has no
// capturable audio source in the named room.
var ErrNotInVoice = errors.New("requester has no capturable audio source")

// ErrBufferUnsupported is returned by a Transcriber whose engine cannot
// accept an in-memory buffer; the adapter then stages a temporary file.
var ErrBufferUnsupported = errors.New("engine does not accept in-memory buffers")

// CaptureHandle is one live capture attachment for one session.
type CaptureHandle interface {
	// Drain returns the raw accumulated audio per participant, each stream
	// read from offset zero. Call exactly once, at stop time.
	Drain(ctx context.Context) (map[string]io.Reader, error)

	// Close detaches from the capture subsystem. A Close failure is
	// session-fatal.
	Close(ctx context.Context) error
}

// Capturer attaches to the external capture subsystem for one session key.
type Capturer interface {
	// Connect starts accumulating per-participant audio for key. Returns
	// ErrNotInVoice when the requester has nothing capturable.
	Connect(ctx context.Context, key string, requester string) (CaptureHandle, error)
}

// Transcriber is a speech-to-text engine. Engines that only take file input
// return ErrBufferUnsupported from TranscribeBuffer.
type Transcriber interface {
	Name() string
	TranscribeBuffer(ctx context.Context, buf *internal_audio.Buffer) ([]EngineWord, error)
	TranscribeFile(ctx context.Context, path string) ([]EngineWord, error)
}

// SpeakerResolver resolves a participant id to a display name. Best effort:
// on error the caller falls back to Mention(participantID).
type SpeakerResolver interface {
	Resolve(ctx context.Context, participantID string) (string, error)
}

// ParticipantFailure records one contained per-participant pipeline failure.
type ParticipantFailure struct {
	Participant string `json:"participant"`
	Stage       string `json:"stage"` // "decode" or "transcribe"
	Reason      string `json:"reason"`
}

// Report accompanies every transcript hand-off. It carries the recorded
// participants and every contained or fatal failure, so no error leaves the
// pipeline unobserved.
type Report struct {
	SessionKey   string               `json:"session_key"`
	StartedAt    time.Time            `json:"started_at"`
	StoppedAt    time.Time            `json:"stopped_at"`
	Participants []string             `json:"participants"`
	Failures     []ParticipantFailure `json:"failures,omitempty"`
	Fatal        string               `json:"fatal,omitempty"`
}

// TranscriptSink receives the final ordered transcript, or a failure notice
// when the session died before producing one (lines is then empty).
type TranscriptSink interface {
	Publish(ctx context.Context, lines []TranscriptLine, report Report) error
}
