// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package database

import (
	"reflect"
	"testing"
)

func TestEncodeVector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []float32
		want any
	}{
		{"nil", nil, nil},
		{"empty", []float32{}, nil},
		{"single", []float32{1}, "[1]"},
		{"mixed", []float32{0.5, -2, 1e-7}, "[0.5,-2,1e-07]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := encodeVector(tt.in); got != tt.want {
				t.Errorf("encodeVector(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeVector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      any
		want    []float32
		wantErr bool
	}{
		{"nil", nil, nil, false},
		{"float32 slice", []float32{1, 2}, []float32{1, 2}, false},
		{"any of float32", []any{float32(1.5), float32(-1)}, []float32{1.5, -1}, false},
		{"any of float64", []any{0.25}, []float32{0.25}, false},
		{"bad element", []any{"x"}, nil, true},
		{"bad type", "[1,2]", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := decodeVector(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeVector() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("decodeVector() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlaceholders(t *testing.T) {
	t.Parallel()

	for n, want := range map[int]string{0: "", 1: "?", 3: "?, ?, ?"} {
		if got := placeholders(n); got != want {
			t.Errorf("placeholders(%d) = %q, want %q", n, got, want)
		}
	}
}
