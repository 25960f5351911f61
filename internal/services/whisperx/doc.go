// Package whisperx runs WhisperX speech recognition on WAV files.
//
// Service.Recognize launches WhisperX through uvx with JSON output, reads the
// segments back, and joins their text. Model, device, VAD method and the
// language hint come from Config.
package whisperx
