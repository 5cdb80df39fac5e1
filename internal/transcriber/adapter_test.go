// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package internal_transcriber

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_audio "github.com/voicescribe/voicescribe/internal/audio"
	internal_type "github.com/voicescribe/voicescribe/internal/type"
	"github.com/voicescribe/voicescribe/pkg/utils"
)

type mockLogger struct{}

func (m *mockLogger) Debug(args ...interface{}) {}
func (m *mockLogger) Debugf(format string, args ...interface{}) {}
func (m *mockLogger) Info(args ...interface{}) {}
func (m *mockLogger) Infof(format string, args ...interface{}) {}
func (m *mockLogger) Warn(args ...interface{}) {}
func (m *mockLogger) Warnf(format string, args ...interface{}) {}
func (m *mockLogger) Error(args ...interface{}) {}
func (m *mockLogger) Errorf(format string, args ...interface{}) {}

// fakeEngine scripts both submission paths and records what was called.
type fakeEngine struct {
	bufferWords []internal_type.EngineWord
	bufferErr   error
	fileWords   []internal_type.EngineWord
	fileErr     error

	bufferCalls int
	fileCalls   int
	filePaths   []string
	fileExisted []bool
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) TranscribeBuffer(ctx context.Context, buf *internal_audio.Buffer) ([]internal_type.EngineWord, error) {
	f.bufferCalls++
	return f.bufferWords, f.bufferErr
}

func (f *fakeEngine) TranscribeFile(ctx context.Context, path string) ([]internal_type.EngineWord, error) {
	f.fileCalls++
	f.filePaths = append(f.filePaths, path)
	_, statErr := os.Stat(path)
	f.fileExisted = append(f.fileExisted, statErr == nil)
	return f.fileWords, f.fileErr
}

func testBuffer() *internal_audio.Buffer {
	samples := make([]float64, 1600)
	for i := range samples {
		samples[i] = 0.1
	}
	return internal_audio.NewBuffer(samples, 16000)
}

func TestAdapterPrefersBufferPath(t *testing.T) {
	engine := &fakeEngine{
		bufferWords: []internal_type.EngineWord{{Text: "hello", Start: 0.1, End: 0.5, Confidence: 0.9}},
	}
	adapter := NewAdapter(&mockLogger{}, engine, t.TempDir())

	segments, err := adapter.Transcribe(context.Background(), "alice", testBuffer())
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "hello", segments[0].Text)
	assert.Equal(t, "alice", segments[0].Speaker)
	assert.Equal(t, 1, engine.bufferCalls)
	assert.Equal(t, 0, engine.fileCalls, "file path must not be used when buffers work")
}

func TestAdapterFallsBackToStagedFile(t *testing.T) {
	tmpDir := t.TempDir()
	engine := &fakeEngine{
		bufferErr: internal_type.ErrBufferUnsupported,
		fileWords: []internal_type.EngineWord{{Text: "hi", Start: 0, End: 0.2}},
	}
	adapter := NewAdapter(&mockLogger{}, engine, tmpDir)

	segments, err := adapter.Transcribe(context.Background(), "bob", testBuffer())
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, 1, engine.fileCalls)

	// the staged file lived inside tmpDir during the call and is gone after
	require.Len(t, engine.filePaths, 1)
	assert.Equal(t, tmpDir, filepath.Dir(engine.filePaths[0]))
	assert.True(t, engine.fileExisted[0], "staged file missing at call time")
	_, statErr := os.Stat(engine.filePaths[0])
	assert.True(t, os.IsNotExist(statErr), "staged file not removed")
}

func TestAdapterStagedFileRemovedOnEngineError(t *testing.T) {
	engine := &fakeEngine{
		bufferErr: internal_type.ErrBufferUnsupported,
		fileErr:   errors.New("engine exploded"),
	}
	adapter := NewAdapter(&mockLogger{}, engine, t.TempDir())

	_, err := adapter.Transcribe(context.Background(), "bob", testBuffer())
	require.Error(t, err)

	var trErr *TranscriptionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, "bob", trErr.Participant)

	require.Len(t, engine.filePaths, 1)
	_, statErr := os.Stat(engine.filePaths[0])
	assert.True(t, os.IsNotExist(statErr), "staged file not removed after failure")
}

func TestAdapterBufferErrorIsNotRetriedOnFile(t *testing.T) {
	engine := &fakeEngine{bufferErr: errors.New("auth rejected")}
	adapter := NewAdapter(&mockLogger{}, engine, t.TempDir())

	_, err := adapter.Transcribe(context.Background(), "carol", testBuffer())
	var trErr *TranscriptionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, "carol", trErr.Participant)
	assert.Equal(t, 0, engine.fileCalls, "only ErrBufferUnsupported triggers staging")
}

func TestAdapterZeroWordsIsSilence(t *testing.T) {
	engine := &fakeEngine{}
	adapter := NewAdapter(&mockLogger{}, engine, t.TempDir())

	segments, err := adapter.Transcribe(context.Background(), "dave", testBuffer())
	require.NoError(t, err)
	assert.Empty(t, segments)
}

func TestAdapterPerWordSpeakerOverride(t *testing.T) {
	engine := &fakeEngine{
		bufferWords: []internal_type.EngineWord{
			{Text: "mine", Start: 0, End: 0.3},
			{Text: "theirs", Start: 0.3, End: 0.6, Speaker: utils.Ptr("dg:1")},
			{Text: "mine again", Start: 0.6, End: 0.9, Speaker: utils.Ptr("")},
		},
	}
	adapter := NewAdapter(&mockLogger{}, engine, t.TempDir())

	segments, err := adapter.Transcribe(context.Background(), "erin", testBuffer())
	require.NoError(t, err)
	require.Len(t, segments, 3)
	assert.Equal(t, "erin", segments[0].Speaker)
	assert.Equal(t, "dg:1", segments[1].Speaker, "diarized word keeps the engine's speaker")
	assert.Equal(t, "erin", segments[2].Speaker, "empty override falls back to the stream owner")
}

func TestAdapterValidatesWordBounds(t *testing.T) {
	engine := &fakeEngine{
		bufferWords: []internal_type.EngineWord{
			{Text: "", Start: 0, End: 1},
			{Text: "late", Start: -0.5, End: 0.2},
			{Text: "inverted", Start: 2.0, End: 1.0},
		},
	}
	adapter := NewAdapter(&mockLogger{}, engine, t.TempDir())

	segments, err := adapter.Transcribe(context.Background(), "frank", testBuffer())
	require.NoError(t, err)
	require.Len(t, segments, 2, "empty-text words are dropped")
	assert.Equal(t, 0.0, segments[0].Start, "negative start clamps to zero")
	assert.Equal(t, segments[1].Start, segments[1].End, "inverted interval collapses to start")
}

func TestTranscribeRawUsesStagedFile(t *testing.T) {
	engine := &fakeEngine{
		fileWords: []internal_type.EngineWord{{Text: "ok", Start: 0, End: 1}},
	}
	adapter := NewAdapter(&mockLogger{}, engine, t.TempDir())

	segments, err := adapter.TranscribeRaw(context.Background(), "gina", []byte{0xDE, 0xAD})
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, 0, engine.bufferCalls)
	assert.Equal(t, 1, engine.fileCalls)
}
