// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package internal_type

import "fmt"

// WordSegment is one transcribed word on the session timeline. Speaker is the
// effective speaker after any per-word diarization override has been applied
// at the adapter boundary, so downstream code never re-derives it.
type WordSegment struct {
	Text       string
	Start      float64 // seconds from segment start
	End        float64 // seconds from segment start
	Speaker    string
	Confidence float64
}

// EngineWord is the raw word a transcription engine returns. Speaker is set
// only when the engine diarized the word itself; absence means the engine has
// no opinion and the capture channel's participant stands.
type EngineWord struct {
	Text       string
	Start      float64
	End        float64
	Confidence float64
	Speaker    *string
}

// TranscriptLine is one contiguous run of words attributed to a single
// speaker in the final ordered transcript.
type TranscriptLine struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Mention renders the raw fallback display string for a participant whose
// display name could not be resolved.
func Mention(participantID string) string {
	return fmt.Sprintf("<@%s>", participantID)
}
