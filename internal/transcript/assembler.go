// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

// Package internal_transcript merges independent per-participant word
// streams into one globally time-ordered, speaker-attributed transcript.
package internal_transcript

import (
	"context"
	"sort"
	"strings"

	internal_type "github.com/voicescribe/voicescribe/internal/type"
)

// Assemble flattens every participant's word segments, orders them globally
// by start time, and folds consecutive same-speaker words into transcript
// lines. The output is deterministic regardless of the map's iteration
// order: participants are flattened in sorted key order and the time sort is
// stable, so equal start times keep that flattening order. Overlapping
// segments from different speakers are ordered, never reconciled.
//
// The resolver supplies display names; a participant it cannot resolve falls
// back to the raw mention string. An empty input or a participant with no
// segments contributes nothing.
func Assemble(ctx context.Context, perParticipant map[string][]internal_type.WordSegment, resolver internal_type.SpeakerResolver) []internal_type.TranscriptLine {
	keys := make([]string, 0, len(perParticipant))
	for key := range perParticipant {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var flat []internal_type.WordSegment
	for _, key := range keys {
		flat = append(flat, perParticipant[key]...)
	}

	sort.SliceStable(flat, func(i, j int) bool {
		return flat[i].Start < flat[j].Start
	})

	var (
		lines          []internal_type.TranscriptLine
		currentSpeaker string
		currentWords   []string
		displayCache   = map[string]string{}
	)

	display := func(speaker string) string {
		if name, ok := displayCache[speaker]; ok {
			return name
		}
		name, err := resolver.Resolve(ctx, speaker)
		if err != nil || name == "" {
			name = internal_type.Mention(speaker)
		}
		displayCache[speaker] = name
		return name
	}

	flush := func() {
		if len(currentWords) == 0 {
			return
		}
		lines = append(lines, internal_type.TranscriptLine{
			Speaker: display(currentSpeaker),
			Text:    strings.Join(currentWords, " "),
		})
		currentWords = nil
	}

	for _, word := range flat {
		if word.Speaker != currentSpeaker {
			flush()
			currentSpeaker = word.Speaker
		}
		currentWords = append(currentWords, word.Text)
	}
	flush()

	return lines
}

// Render joins transcript lines into one human-readable transcript, the
// speaker label prefixed once per line change.
func Render(lines []internal_type.TranscriptLine) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("Speaker ")
		b.WriteString(line.Speaker)
		b.WriteString(": ")
		b.WriteString(line.Text)
	}
	return b.String()
}
