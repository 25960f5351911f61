// Package audio turns media files into waveforms for speech recognition.
//
// Select ranks the audio streams reported by ffprobe: streams tagged with the
// configured source language win, then channel count and lossless codecs
// decide, and commentary tracks are ranked last. Without a language match the
// first audio stream is used.
//
// Extractor runs ffmpeg to write the selected stream as mono 16 kHz PCM WAV
// into a job directory under a unique name, and cuts fixed-length segments
// from a waveform for chunked transcription.
package audio
