package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestRenderCheckLineNoColor(t *testing.T) {
	got := renderCheckLine("FFmpeg", checkFail, "binary \"ffmpeg\" not found", false)
	want := fmt.Sprintf("  %-*s %s", checkLabelWidth, "FFmpeg:", `[FAIL] binary "ffmpeg" not found`)
	if got != want {
		t.Fatalf("renderCheckLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderCheckLineWithoutDetail(t *testing.T) {
	got := renderCheckLine("uvx", checkPass, "  ", false)
	if !strings.HasSuffix(got, "[PASS]") {
		t.Fatalf("expected bare status, got %q", got)
	}
}

func TestRenderCheckLineWithColor(t *testing.T) {
	tests := []struct {
		state checkState
		color string
	}{
		{checkPass, ansiGreen},
		{checkWarn, ansiYellow},
		{checkFail, ansiRed},
		{checkInfo, ansiCyan},
	}
	for _, tt := range tests {
		t.Run(tt.state.label(), func(t *testing.T) {
			got := renderCheckLine("Check", tt.state, "detail", true)
			if !strings.HasPrefix(got, tt.color) || !strings.HasSuffix(got, ansiReset) {
				t.Fatalf("unexpected coloring: %q", got)
			}
		})
	}
}

func TestRenderHeadingUnderlinesRunes(t *testing.T) {
	got := renderHeading("Checks", false)
	if got != "Checks\n======" {
		t.Fatalf("renderHeading = %q", got)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers must never be colorized")
	}
}
