package testsupport

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const (
	wavSampleRate = 16000
	wavHeaderSize = 44
)

// WriteSilentWAV writes a mono 16 kHz s16le waveform of the given length,
// the format the audio extractor produces, and returns its size in bytes.
func WriteSilentWAV(t testing.TB, path string, length time.Duration) int64 {
	t.Helper()

	samples := int64(length.Seconds() * wavSampleRate)
	dataSize := samples * 2
	buf := make([]byte, wavHeaderSize+dataSize)
	copy(buf[0:], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:], uint32(36+dataSize))
	copy(buf[8:], "WAVEfmt ")
	binary.LittleEndian.PutUint32(buf[16:], 16)
	binary.LittleEndian.PutUint16(buf[20:], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:], 1) // mono
	binary.LittleEndian.PutUint32(buf[24:], wavSampleRate)
	binary.LittleEndian.PutUint32(buf[28:], wavSampleRate*2)
	binary.LittleEndian.PutUint16(buf[32:], 2)
	binary.LittleEndian.PutUint16(buf[34:], 16)
	copy(buf[36:], "data")
	binary.LittleEndian.PutUint32(buf[40:], uint32(dataSize))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return int64(len(buf))
}
