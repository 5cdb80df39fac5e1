// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package internal_transcript

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_type "github.com/voicescribe/voicescribe/internal/type"
)

type mentionResolver struct{}

func (mentionResolver) Resolve(ctx context.Context, id string) (string, error) {
	return "", errors.New("unknown participant")
}

type namedResolver map[string]string

func (r namedResolver) Resolve(ctx context.Context, id string) (string, error) {
	if name, ok := r[id]; ok {
		return name, nil
	}
	return "", errors.New("unknown participant")
}

func word(speaker, text string, start, end float64) internal_type.WordSegment {
	return internal_type.WordSegment{Text: text, Start: start, End: end, Speaker: speaker}
}

func TestAssembleInterleavesSpeakers(t *testing.T) {
	perParticipant := map[string][]internal_type.WordSegment{
		"a": {word("a", "hi", 0.0, 0.4), word("a", "there", 2.0, 2.5)},
		"b": {word("b", "hello", 1.0, 1.6)},
	}

	lines := Assemble(context.Background(), perParticipant, mentionResolver{})
	require.Len(t, lines, 3)
	assert.Equal(t, internal_type.TranscriptLine{Speaker: "<@a>", Text: "hi"}, lines[0])
	assert.Equal(t, internal_type.TranscriptLine{Speaker: "<@b>", Text: "hello"}, lines[1])
	assert.Equal(t, internal_type.TranscriptLine{Speaker: "<@a>", Text: "there"}, lines[2])
}

func TestAssembleFoldsConsecutiveWords(t *testing.T) {
	perParticipant := map[string][]internal_type.WordSegment{
		"a": {word("a", "one", 0, 0.2), word("a", "two", 0.3, 0.5), word("a", "three", 0.6, 0.8)},
	}

	lines := Assemble(context.Background(), perParticipant, mentionResolver{})
	require.Len(t, lines, 1)
	assert.Equal(t, "one two three", lines[0].Text)
}

func TestAssembleEmptyInput(t *testing.T) {
	assert.Empty(t, Assemble(context.Background(), nil, mentionResolver{}))
	assert.Empty(t, Assemble(context.Background(), map[string][]internal_type.WordSegment{
		"a": nil,
	}, mentionResolver{}))
}

func TestAssembleDeterministicOnEqualStarts(t *testing.T) {
	// equal start times resolve by sorted participant key, independent of
	// map iteration order
	build := func() map[string][]internal_type.WordSegment {
		return map[string][]internal_type.WordSegment{
			"zed":   {word("zed", "late", 1.0, 1.2)},
			"amy":   {word("amy", "early", 1.0, 1.1)},
			"brian": {word("brian", "middle", 1.0, 1.3)},
		}
	}

	first := Assemble(context.Background(), build(), mentionResolver{})
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Assemble(context.Background(), build(), mentionResolver{}))
	}
	require.Len(t, first, 3)
	assert.Equal(t, "<@amy>", first[0].Speaker)
	assert.Equal(t, "<@brian>", first[1].Speaker)
	assert.Equal(t, "<@zed>", first[2].Speaker)
}

func TestAssembleIdempotent(t *testing.T) {
	perParticipant := map[string][]internal_type.WordSegment{
		"a": {word("a", "x", 0, 1), word("a", "y", 3, 4)},
		"b": {word("b", "z", 2, 2.5)},
	}

	first := Assemble(context.Background(), perParticipant, mentionResolver{})
	second := Assemble(context.Background(), perParticipant, mentionResolver{})
	assert.Equal(t, first, second)
}

func TestAssembleDiarizedSpeakerSplitsLine(t *testing.T) {
	// a word attributed away from the stream owner breaks the run even
	// though all words arrived on one capture channel
	perParticipant := map[string][]internal_type.WordSegment{
		"a": {
			{Text: "mine", Start: 0, End: 0.2, Speaker: "a"},
			{Text: "borrowed", Start: 0.3, End: 0.5, Speaker: "dg:1"},
			{Text: "mine", Start: 0.6, End: 0.8, Speaker: "a"},
		},
	}

	lines := Assemble(context.Background(), perParticipant, mentionResolver{})
	require.Len(t, lines, 3)
	assert.Equal(t, "<@dg:1>", lines[1].Speaker)
}

func TestAssembleResolvesDisplayNames(t *testing.T) {
	perParticipant := map[string][]internal_type.WordSegment{
		"a": {{Text: "hey", Start: 0, End: 0.2, Speaker: "a"}},
		"b": {{Text: "yo", Start: 1, End: 1.2, Speaker: "b"}},
	}

	lines := Assemble(context.Background(), perParticipant, namedResolver{"a": "Alice"})
	require.Len(t, lines, 2)
	assert.Equal(t, "Alice", lines[0].Speaker)
	assert.Equal(t, "<@b>", lines[1].Speaker, "unresolved participant falls back to mention")
}

func TestRender(t *testing.T) {
	lines := []internal_type.TranscriptLine{
		{Speaker: "Alice", Text: "hi there"},
		{Speaker: "<@b>", Text: "hello"},
	}
	assert.Equal(t, "Speaker Alice: hi there\n\nSpeaker <@b>: hello", Render(lines))
	assert.Equal(t, "", Render(nil))
}
