// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

// Package internal_sink delivers finished transcripts (or failure notices)
// to their destinations. Sinks receive a hand-off, not a protocol: each one
// decides its own representation.
package internal_sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	internal_transcript "github.com/voicescribe/voicescribe/internal/transcript"
	internal_type "github.com/voicescribe/voicescribe/internal/type"
	"github.com/voicescribe/voicescribe/pkg/commons"
)

// writerSink renders each transcript to a text file in dir, written
// atomically (temp file + rename) so readers never observe a partial
// transcript.
type writerSink struct {
	logger commons.Logger
	dir    string
}

// NewWriterSink builds a sink writing one file per session under dir.
func NewWriterSink(logger commons.Logger, dir string) internal_type.TranscriptSink {
	return &writerSink{logger: logger, dir: dir}
}

func (s *writerSink) Publish(ctx context.Context, lines []internal_type.TranscriptLine, report internal_type.Report) error {
	var b strings.Builder

	mentions := make([]string, 0, len(report.Participants))
	for _, p := range report.Participants {
		mentions = append(mentions, internal_type.Mention(p))
	}
	fmt.Fprintf(&b, "Recorded %d participant(s): %s\n", len(mentions), orNone(strings.Join(mentions, ", ")))

	for _, failure := range report.Failures {
		fmt.Fprintf(&b, "Dropped %s (%s): %s\n", internal_type.Mention(failure.Participant), failure.Stage, failure.Reason)
	}
	if report.Fatal != "" {
		fmt.Fprintf(&b, "Session failed: %s\n", report.Fatal)
	}

	if len(lines) > 0 {
		b.WriteString("\n")
		b.WriteString(internal_transcript.Render(lines))
		b.WriteString("\n")
	}

	name := fmt.Sprintf("%s-%s.txt", sanitizeKey(report.SessionKey), report.StoppedAt.UTC().Format("20060102-150405"))
	path := filepath.Join(s.dir, name)
	if err := atomicWrite(path, []byte(b.String())); err != nil {
		return fmt.Errorf("writing transcript %s: %w", path, err)
	}
	s.logger.Infof("transcript written: %s (%d lines, %d failures)", path, len(lines), len(report.Failures))
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// sanitizeKey keeps session keys filesystem-safe.
func sanitizeKey(key string) string {
	if key == "" {
		return "session"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
}

// atomicWrite writes data via a temp file + rename in the target directory.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "transcript-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
