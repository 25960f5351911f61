package transcribe

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"polyglot/internal/services"
)

type fakeSegmenter struct {
	duration time.Duration
	durationErr error
	failAt   map[int]bool
	cuts     []time.Duration
}

func (f *fakeSegmenter) Duration(context.Context, string) (time.Duration, error) {
	return f.duration, f.durationErr
}

func (f *fakeSegmenter) ExtractSegment(_ context.Context, _ string, start, _ time.Duration, dest string) error {
	f.cuts = append(f.cuts, start)
	if f.failAt[chunkIndex(dest)] {
		return services.Wrap(services.ErrMedia, "audio", "extract segment", "cut failed", nil)
	}
	return os.WriteFile(dest, []byte("RIFF"), 0o644)
}

// chunkIndex parses the trailing index of chunk-<id>-<index>.wav.
func chunkIndex(path string) int {
	base := strings.TrimSuffix(filepath.Base(path), ".wav")
	idx, _ := strconv.Atoi(base[strings.LastIndex(base, "-")+1:])
	return idx
}

type fakeRecognizer struct {
	texts  map[int]string
	errs   map[int]error
	seen   []int
	onCall func(index int)
}

func (f *fakeRecognizer) Recognize(_ context.Context, wavPath string) (string, error) {
	if _, err := os.Stat(wavPath); err != nil {
		return "", err
	}
	idx := chunkIndex(wavPath)
	f.seen = append(f.seen, idx)
	if f.onCall != nil {
		f.onCall(idx)
	}
	if err := f.errs[idx]; err != nil {
		return "", err
	}
	return f.texts[idx], nil
}

func waveform(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "audio.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write waveform: %v", err)
	}
	return dir, path
}

func assertOnlyWaveform(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "audio.wav" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected chunk files removed, found %v", names)
	}
}

func TestPlanChunks(t *testing.T) {
	got := PlanChunks(61*time.Second, 30*time.Second)
	want := []Chunk{
		{Index: 0, Start: 0, Duration: 30 * time.Second},
		{Index: 1, Start: 30 * time.Second, Duration: 30 * time.Second},
		{Index: 2, Start: 60 * time.Second, Duration: time.Second},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("PlanChunks = %+v, want %+v", got, want)
	}
	if got := PlanChunks(60*time.Second, 30*time.Second); len(got) != 2 || got[1].End() != 60*time.Second {
		t.Fatalf("exact multiple = %+v", got)
	}
	if PlanChunks(0, 30*time.Second) != nil {
		t.Fatal("expected no chunks for empty waveform")
	}
	if got := PlanChunks(45*time.Second, 0); len(got) != 2 {
		t.Fatalf("expected default chunk length, got %+v", got)
	}
}

func TestTranscribeJoinsChunksInOrder(t *testing.T) {
	dir, wav := waveform(t)
	seg := &fakeSegmenter{duration: 75 * time.Second}
	rec := &fakeRecognizer{texts: map[int]string{0: " The sun ", 1: "rises in", 2: "the east. "}}

	got, err := New(seg, rec, 30*time.Second, nil).Transcribe(context.Background(), wav)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if got != "The sun rises in the east." {
		t.Fatalf("Transcribe = %q", got)
	}
	if !reflect.DeepEqual(rec.seen, []int{0, 1, 2}) {
		t.Fatalf("expected sequential chunk order, got %v", rec.seen)
	}
	assertOnlyWaveform(t, dir)
}

func TestTranscribeSkipsFailedMiddleChunk(t *testing.T) {
	dir, wav := waveform(t)
	seg := &fakeSegmenter{duration: 90 * time.Second}
	rec := &fakeRecognizer{
		texts: map[int]string{0: "first part", 2: "last part"},
		errs:  map[int]error{1: services.Wrap(services.ErrNoSpeech, "whisperx", "transcribe", "No speech recognized", nil)},
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	got, err := New(seg, rec, 30*time.Second, logger).Transcribe(context.Background(), wav)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if got != "first part last part" {
		t.Fatalf("Transcribe = %q", got)
	}
	assertOnlyWaveform(t, dir)
	for _, want := range []string{"event_type=chunk_recognition_failed", "chunk_index=1", "chunk_start=30s", "chunk_end=1m0s"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("warning missing %s:\n%s", want, logs.String())
		}
	}
}

func TestTranscribeSkipsChunkThatCannotBeCut(t *testing.T) {
	dir, wav := waveform(t)
	seg := &fakeSegmenter{duration: 60 * time.Second, failAt: map[int]bool{0: true}}
	rec := &fakeRecognizer{texts: map[int]string{0: "never", 1: "second"}}

	got, err := New(seg, rec, 30*time.Second, nil).Transcribe(context.Background(), wav)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if got != "second" || !reflect.DeepEqual(rec.seen, []int{1}) {
		t.Fatalf("Transcribe = %q, recognized %v", got, rec.seen)
	}
	assertOnlyWaveform(t, dir)
}

func TestTranscribeEmptyWaveform(t *testing.T) {
	_, wav := waveform(t)
	rec := &fakeRecognizer{}
	got, err := New(&fakeSegmenter{}, rec, 0, nil).Transcribe(context.Background(), wav)
	if err != nil || got != "" {
		t.Fatalf("Transcribe = %q, %v; want empty", got, err)
	}
	if len(rec.seen) != 0 {
		t.Fatalf("recognizer should not run, got %v", rec.seen)
	}
}

func TestTranscribeDurationFailureIsFatal(t *testing.T) {
	_, wav := waveform(t)
	seg := &fakeSegmenter{durationErr: services.Wrap(services.ErrMedia, "audio", "ffprobe", "bad", nil)}
	if _, err := New(seg, &fakeRecognizer{}, 0, nil).Transcribe(context.Background(), wav); !errors.Is(err, services.ErrMedia) {
		t.Fatalf("expected media error, got %v", err)
	}
}

func TestTranscribeAllChunksFail(t *testing.T) {
	_, wav := waveform(t)
	rec := &fakeRecognizer{errs: map[int]error{0: errors.New("x"), 1: errors.New("y")}}
	got, err := New(&fakeSegmenter{duration: 40 * time.Second}, rec, 30*time.Second, nil).Transcribe(context.Background(), wav)
	if err != nil || got != "" {
		t.Fatalf("Transcribe = %q, %v; want empty transcript without error", got, err)
	}
}

func TestTranscribeStopsOnCancel(t *testing.T) {
	dir, wav := waveform(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec := &fakeRecognizer{
		texts: map[int]string{0: "a", 1: "b", 2: "c"},
		onCall: func(index int) {
			if index == 0 {
				cancel()
			}
		},
	}

	_, err := New(&fakeSegmenter{duration: 90 * time.Second}, rec, 30*time.Second, nil).Transcribe(ctx, wav)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !reflect.DeepEqual(rec.seen, []int{0}) {
		t.Fatalf("expected no chunks after cancellation, got %v", rec.seen)
	}
	assertOnlyWaveform(t, dir)
}
