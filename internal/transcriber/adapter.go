// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package internal_transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	internal_audio "github.com/voicescribe/voicescribe/internal/audio"
	internal_type "github.com/voicescribe/voicescribe/internal/type"
	"github.com/voicescribe/voicescribe/pkg/commons"
)

// TranscriptionError reports that every submission path for one
// participant's audio failed. The participant's contribution is dropped from
// the merge; the session itself continues.
type TranscriptionError struct {
	Participant string
	Err         error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed for participant %s: %v", e.Participant, e.Err)
}

func (e *TranscriptionError) Unwrap() error {
	return e.Err
}

// Adapter wraps a transcription engine behind the two-step submission
// strategy: in-memory buffer first, temp-file staging when the engine
// rejects buffers. It also normalizes the engine's words at the boundary and
// applies per-word diarization overrides.
type Adapter struct {
	logger commons.Logger
	engine internal_type.Transcriber
	tmpDir string
}

// NewAdapter wraps engine. Staged files go to tmpDir; empty means the
// system temp directory.
func NewAdapter(logger commons.Logger, engine internal_type.Transcriber, tmpDir string) *Adapter {
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	return &Adapter{
		logger: logger,
		engine: engine,
		tmpDir: tmpDir,
	}
}

// Engine returns the wrapped engine's name.
func (a *Adapter) Engine() string {
	return a.engine.Name()
}

// Transcribe submits a canonical buffer for one participant and returns its
// word segments in engine order. Zero segments is a valid outcome (silence),
// not an error.
func (a *Adapter) Transcribe(ctx context.Context, participantID string, buf *internal_audio.Buffer) ([]internal_type.WordSegment, error) {
	words, err := a.engine.TranscribeBuffer(ctx, buf)
	if errors.Is(err, internal_type.ErrBufferUnsupported) {
		a.logger.Debugf("engine %s rejects buffers, staging file for participant %s", a.engine.Name(), participantID)
		words, err = a.transcribeStaged(ctx, buf.WAV())
	}
	if err != nil {
		return nil, &TranscriptionError{Participant: participantID, Err: err}
	}
	return a.toSegments(participantID, words), nil
}

// TranscribeRaw submits undecodable audio bytes as-is through the staged
// file path. This is the degraded fallback after an AudioDecodeError: the
// engine may still understand a container the normalizer does not.
func (a *Adapter) TranscribeRaw(ctx context.Context, participantID string, raw []byte) ([]internal_type.WordSegment, error) {
	words, err := a.transcribeStaged(ctx, raw)
	if err != nil {
		return nil, &TranscriptionError{Participant: participantID, Err: err}
	}
	return a.toSegments(participantID, words), nil
}

// transcribeStaged writes data to a temporary file, submits it, and removes
// the file on every exit path.
func (a *Adapter) transcribeStaged(ctx context.Context, data []byte) ([]internal_type.EngineWord, error) {
	path := filepath.Join(a.tmpDir, fmt.Sprintf("voicescribe-%s.wav", uuid.New().String()))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("staging audio file: %w", err)
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			a.logger.Warnf("failed to remove staged audio file %s: %v", path, rmErr)
		}
	}()

	return a.engine.TranscribeFile(ctx, path)
}

// toSegments validates engine words at the boundary and applies the per-word
// speaker override: a word the engine diarized to another speaker belongs to
// that speaker, even though it arrived on this participant's capture
// channel. The override is per word, never for the whole stream.
func (a *Adapter) toSegments(participantID string, words []internal_type.EngineWord) []internal_type.WordSegment {
	segments := make([]internal_type.WordSegment, 0, len(words))
	for _, w := range words {
		if w.Text == "" {
			continue
		}
		start, end := w.Start, w.End
		if start < 0 {
			start = 0
		}
		if end < start {
			end = start
		}

		speaker := participantID
		if w.Speaker != nil && *w.Speaker != "" {
			speaker = *w.Speaker
		}

		segments = append(segments, internal_type.WordSegment{
			Text:       w.Text,
			Start:      start,
			End:        end,
			Speaker:    speaker,
			Confidence: w.Confidence,
		})
	}
	return segments
}
