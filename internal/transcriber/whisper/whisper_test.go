// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package internal_transcriber_whisper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func stagedFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF fake"), 0o600))
	return path
}

func TestWhisperRejectsBuffers(t *testing.T) {
	engine, err := NewWhisperEngine(&mockLogger{}, "http://localhost:1", time.Second, utils.Option{})
	require.NoError(t, err)

	_, err = engine.TranscribeBuffer(context.Background(), nil)
	assert.ErrorIs(t, err, internal_type.ErrBufferUnsupported)
}

func TestWhisperRequiresEndpoint(t *testing.T) {
	_, err := NewWhisperEngine(&mockLogger{}, "", time.Second, utils.Option{})
	assert.Error(t, err)
}

func TestWhisperTranscribeFile(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotModel = r.FormValue("model")
		_, _, err := r.FormFile("file")
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"words":[
			{"word":"hi","start":0.0,"end":0.4,"probability":0.98},
			{"word":"there","start":0.5,"end":0.9,"probability":0.95,"speaker":"s1"}
		]}`))
	}))
	defer server.Close()

	engine, err := NewWhisperEngine(&mockLogger{}, server.URL, time.Second, utils.Option{"listen.model": "small.en"})
	require.NoError(t, err)

	words, err := engine.TranscribeFile(context.Background(), stagedFile(t))
	require.NoError(t, err)
	assert.Equal(t, "small.en", gotModel)

	require.Len(t, words, 2)
	assert.Equal(t, "hi", words[0].Text)
	assert.Nil(t, words[0].Speaker, "undiarized words carry no speaker")
	require.NotNil(t, words[1].Speaker)
	assert.Equal(t, "s1", *words[1].Speaker)
}

func TestWhisperServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	engine, err := NewWhisperEngine(&mockLogger{}, server.URL, time.Second, utils.Option{})
	require.NoError(t, err)

	_, err = engine.TranscribeFile(context.Background(), stagedFile(t))
	assert.Error(t, err)
}
