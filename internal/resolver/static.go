// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package internal_resolver

import (
	"context"
	"fmt"
	"strings"

	internal_type "github.com/voicescribe/voicescribe/internal/type"
	"github.com/voicescribe/voicescribe/pkg/commons"
)

// staticResolver maps participant ids to display names from configuration.
// Unknown ids resolve with an error so the assembler falls back to the raw
// mention string.
type staticResolver struct {
	logger commons.Logger
	names  map[string]string
}

// NewStaticResolver builds a resolver over a fixed id -> display-name map.
func NewStaticResolver(logger commons.Logger, names map[string]string) internal_type.SpeakerResolver {
	if names == nil {
		names = map[string]string{}
	}
	return &staticResolver{logger: logger, names: names}
}

func (r *staticResolver) Resolve(ctx context.Context, participantID string) (string, error) {
	if name, ok := r.names[participantID]; ok && name != "" {
		return name, nil
	}
	return "", fmt.Errorf("no display name for participant %s", participantID)
}

// ParseNames parses the "id=Name,id2=Other Name" configuration form into the
// map NewStaticResolver takes. Malformed entries are skipped.
func ParseNames(raw string) map[string]string {
	names := map[string]string{}
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, name, ok := strings.Cut(entry, "=")
		if !ok || strings.TrimSpace(id) == "" || strings.TrimSpace(name) == "" {
			continue
		}
		names[strings.TrimSpace(id)] = strings.TrimSpace(name)
	}
	return names
}
