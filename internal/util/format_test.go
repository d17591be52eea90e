package util

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{59 * time.Second, "0:59"},
		{61*time.Second + 900*time.Millisecond, "1:01"},
		{12*time.Minute + 5*time.Second, "12:05"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDecibels(t *testing.T) {
	if got := FormatDecibels(-160, -160); got != "-inf dB" {
		t.Fatalf("FormatDecibels(floor) = %q", got)
	}
	if got := FormatDecibels(-31.44, -160); got != "-31.4 dB" {
		t.Fatalf("FormatDecibels(-31.44) = %q", got)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(0.8); got != "80%" {
		t.Fatalf("FormatPercent(0.8) = %q", got)
	}
	if got := FormatPercent(0); got != "0%" {
		t.Fatalf("FormatPercent(0) = %q", got)
	}
}
