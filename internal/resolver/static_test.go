// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package internal_resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestStaticResolver(t *testing.T) {
	resolver := NewStaticResolver(&mockLogger{}, map[string]string{"42": "Alice"})

	name, err := resolver.Resolve(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)

	_, err = resolver.Resolve(context.Background(), "99")
	assert.Error(t, err, "unknown ids resolve with an error")
}

func TestStaticResolverNilMap(t *testing.T) {
	resolver := NewStaticResolver(&mockLogger{}, nil)
	_, err := resolver.Resolve(context.Background(), "42")
	assert.Error(t, err)
}

func TestParseNames(t *testing.T) {
	names := ParseNames(" 42=Alice , 77=Bob Carter ,,bad entry,=NoId,43= ")
	assert.Equal(t, map[string]string{
		"42": "Alice",
		"77": "Bob Carter",
	}, names)

	assert.Empty(t, ParseNames(""))
}
