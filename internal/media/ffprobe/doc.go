// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Inspect runs the binary and Parse decodes its output. Helper methods on
// Result and Stream expose audio stream counts, durations and tag lookups.
package ffprobe
