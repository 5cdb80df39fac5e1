// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package internal_transcriber_deepgram

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	listenapi "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	listen "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"

	internal_audio "github.com/voicescribe/voicescribe/internal/audio"
	internal_type "github.com/voicescribe/voicescribe/internal/type"
	"github.com/voicescribe/voicescribe/pkg/commons"
	"github.com/voicescribe/voicescribe/pkg/utils"
)

const (
	DefaultModel    = "nova-2"
	DefaultLanguage = "en-US"
)

// deepgramEngine submits prerecorded audio to Deepgram's listen API with
// diarization enabled, so every word comes back with its own speaker index.
type deepgramEngine struct {
	logger  commons.Logger
	api     *listenapi.Client
	mdlOpts utils.Option
}

// NewDeepgramEngine builds a Deepgram-backed transcription engine.
func NewDeepgramEngine(logger commons.Logger, apiKey string, mdlOpts utils.Option) (internal_type.Transcriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("deepgram api key is required")
	}
	client := listen.NewREST(apiKey, &interfaces.ClientOptions{})
	return &deepgramEngine{
		logger:  logger,
		api:     listenapi.New(client),
		mdlOpts: mdlOpts,
	}, nil
}

func (dg *deepgramEngine) Name() string {
	return "deepgram"
}

// SpeechToTextOptions builds the prerecorded transcription options. Model
// and language default to nova-2/en-US unless overridden via mdlOpts.
func (dg *deepgramEngine) SpeechToTextOptions() *interfaces.PreRecordedTranscriptionOptions {
	opts := &interfaces.PreRecordedTranscriptionOptions{
		Model:       DefaultModel,
		Language:    DefaultLanguage,
		Punctuate:   true,
		SmartFormat: true,
		Diarize:     true,
	}
	if model, err := dg.mdlOpts.GetString("listen.model"); err == nil {
		opts.Model = model
	}
	if language, err := dg.mdlOpts.GetString("listen.language"); err == nil {
		opts.Language = language
	}
	return opts
}

func (dg *deepgramEngine) TranscribeBuffer(ctx context.Context, buf *internal_audio.Buffer) ([]internal_type.EngineWord, error) {
	res, err := dg.api.FromStream(ctx, bytes.NewReader(buf.WAV()), dg.SpeechToTextOptions())
	if err != nil {
		return nil, fmt.Errorf("deepgram stream submission: %w", err)
	}
	return dg.toEngineWords(res), nil
}

func (dg *deepgramEngine) TranscribeFile(ctx context.Context, path string) ([]internal_type.EngineWord, error) {
	res, err := dg.api.FromFile(ctx, path, dg.SpeechToTextOptions())
	if err != nil {
		return nil, fmt.Errorf("deepgram file submission: %w", err)
	}
	return dg.toEngineWords(res), nil
}

// toEngineWords flattens the first channel's best alternative. Each stream
// is one participant's capture channel, so with diarization on, Deepgram
// assigns nearly every word the same index: that dominant index IS the
// submitting participant, and such words carry no override. Only words
// diarized away from the dominant index (cross-talk picked up on this
// channel) become explicit per-word overrides, labeled with the engine-
// scoped index so they cannot collide with a platform participant id.
func (dg *deepgramEngine) toEngineWords(res *listenapi.PreRecordedResponse) []internal_type.EngineWord {
	if res == nil || res.Results == nil || len(res.Results.Channels) == 0 {
		return nil
	}
	alternatives := res.Results.Channels[0].Alternatives
	if len(alternatives) == 0 {
		return nil
	}
	raw := alternatives[0].Words

	counts := make(map[int]int)
	for _, w := range raw {
		if w.Speaker != nil {
			counts[*w.Speaker]++
		}
	}
	dominant, best := 0, -1
	for idx, n := range counts {
		if n > best || (n == best && idx < dominant) {
			dominant, best = idx, n
		}
	}

	words := make([]internal_type.EngineWord, 0, len(raw))
	for _, w := range raw {
		text := w.PunctuatedWord
		if text == "" {
			text = w.Word
		}
		word := internal_type.EngineWord{
			Text:       text,
			Start:      w.Start,
			End:        w.End,
			Confidence: w.Confidence,
		}
		if w.Speaker != nil && *w.Speaker != dominant {
			word.Speaker = utils.Ptr("dg:" + strconv.Itoa(*w.Speaker))
		}
		words = append(words, word)
	}
	return words
}
