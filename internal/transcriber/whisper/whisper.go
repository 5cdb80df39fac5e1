// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package internal_transcriber_whisper

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	internal_audio "github.com/voicescribe/voicescribe/internal/audio"
	internal_type "github.com/voicescribe/voicescribe/internal/type"
	"github.com/voicescribe/voicescribe/pkg/commons"
	"github.com/voicescribe/voicescribe/pkg/utils"
)

const DefaultModel = "base.en"

// wordResult is one word in the whisper server's JSON response. Speaker is a
// pointer: the server omits the field entirely when it did not diarize the
// word, and the distinction matters.
type wordResult struct {
	Word        string  `json:"word"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Probability float64 `json:"probability"`
	Speaker     *string `json:"speaker,omitempty"`
}

type transcribeResult struct {
	Words []wordResult `json:"words"`
}

// whisperEngine talks to a local whisper.cpp-style transcription server.
// The server only accepts multipart file uploads, so TranscribeBuffer
// reports ErrBufferUnsupported and the adapter stages a file.
type whisperEngine struct {
	logger   commons.Logger
	client   *resty.Client
	endpoint string
	mdlOpts  utils.Option
}

// NewWhisperEngine builds an engine backed by the whisper server at
// endpoint (e.g. "http://localhost:8080/inference").
func NewWhisperEngine(logger commons.Logger, endpoint string, timeout time.Duration, mdlOpts utils.Option) (internal_type.Transcriber, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("whisper endpoint is required")
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &whisperEngine{
		logger:   logger,
		client:   client,
		endpoint: endpoint,
		mdlOpts:  mdlOpts,
	}, nil
}

func (we *whisperEngine) Name() string {
	return "whisper"
}

func (we *whisperEngine) TranscribeBuffer(ctx context.Context, buf *internal_audio.Buffer) ([]internal_type.EngineWord, error) {
	return nil, internal_type.ErrBufferUnsupported
}

func (we *whisperEngine) TranscribeFile(ctx context.Context, path string) ([]internal_type.EngineWord, error) {
	model := DefaultModel
	if m, err := we.mdlOpts.GetString("listen.model"); err == nil {
		model = m
	}

	var result transcribeResult
	resp, err := we.client.R().
		SetContext(ctx).
		SetFile("file", path).
		SetFormData(map[string]string{
			"model":           model,
			"word_timestamps": "true",
			"response_format": "json",
		}).
		SetResult(&result).
		Post(we.endpoint)
	if err != nil {
		return nil, fmt.Errorf("whisper server request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("whisper server returned %s: %s", resp.Status(), resp.String())
	}

	words := make([]internal_type.EngineWord, 0, len(result.Words))
	for _, w := range result.Words {
		words = append(words, internal_type.EngineWord{
			Text:       w.Word,
			Start:      w.Start,
			End:        w.End,
			Confidence: w.Probability,
			Speaker:    w.Speaker,
		})
	}
	return words, nil
}
