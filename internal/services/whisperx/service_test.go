package whisperx

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"polyglot/internal/services"
)

func argValue(args []string, flag string) string {
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// fakeWhisperX writes payload as the JSON output WhisperX would produce.
func fakeWhisperX(t *testing.T, payload string, seen *[]string) func(context.Context, string, ...string) error {
	t.Helper()
	return func(_ context.Context, name string, args ...string) error {
		if name != UVXCommand {
			t.Fatalf("unexpected command %q", name)
		}
		*seen = append([]string(nil), args...)
		source := args[slices.Index(args, "whisperx")+1]
		base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		return os.WriteFile(filepath.Join(argValue(args, "--output_dir"), base+".json"), []byte(payload), 0o644)
	}
}

func writeWAV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chunk-1.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	return path
}

func TestRecognizeJoinsSegments(t *testing.T) {
	var args []string
	svc := NewService(Config{Language: "English"})
	svc.WithCommandRunner(fakeWhisperX(t, `{"segments":[{"text":" The sun rises "},{"text":""},{"text":"in the east."}]}`, &args))

	wav := writeWAV(t)
	got, err := svc.Recognize(context.Background(), wav)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if got != "The sun rises in the east." {
		t.Fatalf("Recognize = %q", got)
	}
	if argValue(args, "--language") != "en" {
		t.Fatalf("expected ISO 639-1 language hint, args %v", args)
	}
	if argValue(args, "--device") != CPUDevice || argValue(args, "--vad_method") != VADMethodSilero {
		t.Fatalf("unexpected device/vad args %v", args)
	}
	if _, err := os.Stat(argValue(args, "--output_dir")); !os.IsNotExist(err) {
		t.Fatalf("expected scratch output dir removed, stat err %v", err)
	}
}

func TestRecognizeNoSpeech(t *testing.T) {
	var args []string
	svc := NewService(Config{})
	svc.WithCommandRunner(fakeWhisperX(t, `{"segments":[]}`, &args))
	if _, err := svc.Recognize(context.Background(), writeWAV(t)); !errors.Is(err, services.ErrNoSpeech) {
		t.Fatalf("expected no-speech error, got %v", err)
	}
}

func TestRecognizeCommandFailure(t *testing.T) {
	svc := NewService(Config{})
	svc.WithCommandRunner(func(context.Context, string, ...string) error {
		return errors.New("exit status 1")
	})
	_, err := svc.Recognize(context.Background(), writeWAV(t))
	if !errors.Is(err, services.ErrRecognition) || !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected recognition error from the speech tool, got %v", err)
	}
}

func TestBuildArgsCUDAAndPyannote(t *testing.T) {
	svc := NewService(Config{Model: "large-v3-turbo", CUDAEnabled: true, VADMethod: VADMethodPyannote, HFToken: "hf_abc"})
	args := svc.buildArgs("/tmp/a.wav", "/tmp/out")
	if argValue(args, "--extra-index-url") != PypiIndexURL || argValue(args, "--index-url") != CUDAIndexURL {
		t.Fatalf("unexpected index urls %v", args)
	}
	if argValue(args, "--model") != "large-v3-turbo" || argValue(args, "--hf_token") != "hf_abc" {
		t.Fatalf("unexpected model/token args %v", args)
	}
	if argValue(args, "--device") != CUDADevice || slices.Contains(args, "--compute_type") {
		t.Fatalf("unexpected device args %v", args)
	}
	if slices.Contains(args, "--language") {
		t.Fatalf("expected no language hint, got %v", args)
	}
}
