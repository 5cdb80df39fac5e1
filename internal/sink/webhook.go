// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package internal_sink

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	internal_transcript "github.com/voicescribe/voicescribe/internal/transcript"
	internal_type "github.com/voicescribe/voicescribe/internal/type"
	"github.com/voicescribe/voicescribe/pkg/commons"
)

// webhookPayload is the JSON body POSTed for every finished session.
type webhookPayload struct {
	Report   internal_type.Report           `json:"report"`
	Lines    []internal_type.TranscriptLine `json:"lines"`
	Rendered string                         `json:"rendered"`
}

// webhookSink POSTs the transcript and its report to a configured URL.
type webhookSink struct {
	logger commons.Logger
	client *resty.Client
	url    string
}

// NewWebhookSink builds a sink delivering to url.
func NewWebhookSink(logger commons.Logger, url string, timeout time.Duration) internal_type.TranscriptSink {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(time.Second)
	return &webhookSink{logger: logger, client: client, url: url}
}

func (s *webhookSink) Publish(ctx context.Context, lines []internal_type.TranscriptLine, report internal_type.Report) error {
	payload := webhookPayload{
		Report:   report,
		Lines:    lines,
		Rendered: internal_transcript.Render(lines),
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("webhook delivery: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned %s", resp.Status())
	}
	s.logger.Infof("transcript delivered to webhook for session %s", report.SessionKey)
	return nil
}

// multiSink fans a hand-off out to several sinks; every sink sees every
// hand-off even when an earlier one fails.
type multiSink struct {
	sinks []internal_type.TranscriptSink
}

// NewMultiSink combines sinks into one. With a single sink it is returned
// unwrapped.
func NewMultiSink(sinks ...internal_type.TranscriptSink) internal_type.TranscriptSink {
	if len(sinks) == 1 {
		return sinks[0]
	}
	return &multiSink{sinks: sinks}
}

func (s *multiSink) Publish(ctx context.Context, lines []internal_type.TranscriptLine, report internal_type.Report) error {
	var firstErr error
	for _, sink := range s.sinks {
		if err := sink.Publish(ctx, lines, report); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
