package main

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestMicLevelBar(t *testing.T) {
	tests := []struct {
		name   string
		rms    float64
		filled int
	}{
		{"silence", 0, 0},
		{"quiet", 0.03, 0},
		{"speech", 0.125, 4},
		{"loud speech", 0.25, 8},
		{"saturates", 0.9, 8},
		{"negative clamps", -0.1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := micLevelBar(tt.rms, 8)
			if got := utf8.RuneCountInString(bar); got != 8 {
				t.Fatalf("bar width = %d, want 8", got)
			}
			if got := strings.Count(bar, "█"); got != tt.filled {
				t.Errorf("filled cells = %d, want %d (bar %q)", got, tt.filled, bar)
			}
		})
	}
}
