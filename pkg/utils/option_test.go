// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package utils

import "testing"

func TestOptionGetString(t *testing.T) {
	o := Option{"model": "nova-2", "rate": 16000}

	if v, err := o.GetString("model"); err != nil || v != "nova-2" {
		t.Fatalf("GetString(model) = %q, %v", v, err)
	}
	if v, err := o.GetString("rate"); err != nil || v != "16000" {
		t.Fatalf("GetString(rate) = %q, %v", v, err)
	}
	if _, err := o.GetString("missing"); err == nil {
		t.Fatal("GetString(missing) returned no error")
	}
}

func TestOptionGetInt(t *testing.T) {
	o := Option{"a": 1, "b": int64(2), "c": 3.0, "d": "4", "e": "nope"}

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3, "d": 4} {
		if v, err := o.GetInt(key); err != nil || v != want {
			t.Fatalf("GetInt(%s) = %d, %v; want %d", key, v, err, want)
		}
	}
	if _, err := o.GetInt("e"); err == nil {
		t.Fatal("GetInt(e) returned no error")
	}
	if _, err := o.GetInt("missing"); err == nil {
		t.Fatal("GetInt(missing) returned no error")
	}
}

func TestOptionGetBool(t *testing.T) {
	o := Option{"on": true, "str": "true", "num": 7}

	if v, err := o.GetBool("on"); err != nil || !v {
		t.Fatalf("GetBool(on) = %v, %v", v, err)
	}
	if v, err := o.GetBool("str"); err != nil || !v {
		t.Fatalf("GetBool(str) = %v, %v", v, err)
	}
	if _, err := o.GetBool("num"); err == nil {
		t.Fatal("GetBool(num) returned no error")
	}
}

func TestOptionGetFloat(t *testing.T) {
	o := Option{"f": 1.5, "i": 2, "s": "3.25"}

	for key, want := range map[string]float64{"f": 1.5, "i": 2, "s": 3.25} {
		if v, err := o.GetFloat(key); err != nil || v != want {
			t.Fatalf("GetFloat(%s) = %v, %v; want %v", key, v, err, want)
		}
	}
}

func TestPtr(t *testing.T) {
	v := Ptr("x")
	if v == nil || *v != "x" {
		t.Fatalf("Ptr = %v", v)
	}
}
