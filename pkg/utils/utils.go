// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package utils

import (
	"context"
	"log"
	"runtime/debug"
)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Go runs fn on a new goroutine with panic containment. A panicking task is
// logged with its stack and never takes the process down.
func Go(ctx context.Context, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("recovered panic in goroutine: %v\n%s", r, debug.Stack())
			}
		}()
		if ctx.Err() != nil {
			return
		}
		fn()
	}()
}
