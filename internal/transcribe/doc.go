// Package transcribe turns a waveform into a transcript.
//
// The waveform is split into fixed windows (30 seconds by default) that are
// cut, recognized and deleted one at a time in order. Failed windows are
// logged and skipped; the surviving texts are joined with single spaces.
package transcribe
