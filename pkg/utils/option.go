// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package utils

import (
	"fmt"
	"strconv"
)

// Option is a loosely typed bag of provider options keyed by dotted path
// (e.g. "listen.language"). Getters convert where the stored value allows it.
type Option map[string]interface{}

// GetString returns the value for key as a string.
func (o Option) GetString(key string) (string, error) {
	v, ok := o[key]
	if !ok {
		return "", fmt.Errorf("option %q not set", key)
	}
	switch val := v.(type) {
	case string:
		return val, nil
	case fmt.Stringer:
		return val.String(), nil
	default:
		return fmt.Sprintf("%v", val), nil
	}
}

// GetInt returns the value for key as an int.
func (o Option) GetInt(key string) (int, error) {
	v, ok := o[key]
	if !ok {
		return 0, fmt.Errorf("option %q not set", key)
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	case string:
		return strconv.Atoi(val)
	default:
		return 0, fmt.Errorf("option %q is not an int", key)
	}
}

// GetBool returns the value for key as a bool.
func (o Option) GetBool(key string) (bool, error) {
	v, ok := o[key]
	if !ok {
		return false, fmt.Errorf("option %q not set", key)
	}
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		return strconv.ParseBool(val)
	default:
		return false, fmt.Errorf("option %q is not a bool", key)
	}
}

// GetFloat returns the value for key as a float64.
func (o Option) GetFloat(key string) (float64, error) {
	v, ok := o[key]
	if !ok {
		return 0, fmt.Errorf("option %q not set", key)
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case string:
		return strconv.ParseFloat(val, 64)
	default:
		return 0, fmt.Errorf("option %q is not a float", key)
	}
}
