package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"polyglot/internal/config"
	"polyglot/internal/language"
	"polyglot/internal/logging"
	"polyglot/internal/media/ffprobe"
	"polyglot/internal/services"
)

type commandRunner func(ctx context.Context, name string, args ...string) error

type prober func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Extractor pulls a mono 16 kHz PCM waveform out of a media file and cuts
// time ranges from it.
type Extractor struct {
	ffmpeg  string
	ffprobe string
	source  language.Language
	logger  *slog.Logger
	run     commandRunner
	probe   prober
}

// ExtractorOption customizes an Extractor.
type ExtractorOption func(*Extractor)

// WithCommandRunner injects a custom command runner (primarily for tests).
func WithCommandRunner(r func(ctx context.Context, name string, args ...string) error) ExtractorOption {
	return func(e *Extractor) {
		if r != nil {
			e.run = r
		}
	}
}

// WithProber overrides the ffprobe invocation (primarily for tests).
func WithProber(p func(ctx context.Context, binary, path string) (ffprobe.Result, error)) ExtractorOption {
	return func(e *Extractor) {
		if p != nil {
			e.probe = p
		}
	}
}

// NewExtractor constructs an Extractor from the media and pipeline settings.
func NewExtractor(cfg *config.Config, logger *slog.Logger, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		ffmpeg:  "ffmpeg",
		ffprobe: "ffprobe",
		source:  language.English,
		logger:  logging.NewComponentLogger(logger, "audio"),
		run:     defaultCommandRunner,
		probe:   ffprobe.Inspect,
	}
	if cfg != nil {
		e.ffmpeg = cfg.FFmpegBinary()
		e.ffprobe = cfg.FFprobeBinary()
		e.source = cfg.SourceLanguage()
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract writes the best speech stream of videoPath to a new, uniquely named
// WAV file inside workDir and returns its path. The caller owns the file.
func (e *Extractor) Extract(ctx context.Context, videoPath, workDir string) (string, error) {
	info, err := os.Stat(videoPath)
	if err != nil {
		return "", services.Wrap(services.ErrMedia, "audio", "stat input", "Input file is not readable", err)
	}
	if info.IsDir() {
		return "", services.Wrap(services.ErrMedia, "audio", "stat input", "Input path is a directory", nil)
	}

	probe, err := e.probe(ctx, e.ffprobe, videoPath)
	if err != nil {
		return "", services.Wrap(services.ErrMedia, "audio", "ffprobe", "Failed to inspect input media", errors.Join(services.ErrExternalTool, err))
	}
	if probe.AudioStreamCount() == 0 {
		return "", services.Wrap(services.ErrMedia, "audio", "select stream", "Input has no audio stream", nil)
	}

	selection := Select(probe.Streams, e.source)
	logger := logging.WithContext(ctx, e.logger)
	if !selection.LanguageMatched && probe.AudioStreamCount() > 1 {
		logging.WarnWithContext(logger, "no audio stream tagged with source language; using first stream",
			"audio_language_fallback",
			logging.String("source_language", e.source.Name()),
			logging.String("selected", selection.PrimaryLabel()),
			logging.String(logging.FieldImpact, "transcript may be in another language"),
			logging.String(logging.FieldErrorHint, "check the stream language tags with ffprobe"),
		)
	}

	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrMedia, "audio", "prepare workdir", "Failed to create working directory", err)
	}
	dest := filepath.Join(workDir, "audio-"+uuid.NewString()+".wav")

	start := time.Now()
	logger.Debug("extracting audio",
		logging.String("source_file", videoPath),
		logging.Int("audio_index", selection.PrimaryIndex),
		logging.String("audio_stream", selection.PrimaryLabel()),
		logging.String("destination", dest),
	)
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", videoPath,
		"-map", fmt.Sprintf("0:%d", selection.PrimaryIndex),
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
	if err := e.run(ctx, e.ffmpeg, args...); err != nil {
		_ = os.Remove(dest)
		return "", services.Wrap(services.ErrMedia, "audio", "ffmpeg extract", "Failed to extract audio with ffmpeg", errors.Join(services.ErrExternalTool, err))
	}
	if _, err := os.Stat(dest); err != nil {
		return "", services.Wrap(services.ErrMedia, "audio", "ffmpeg extract", "ffmpeg produced no output", err)
	}
	logger.Debug("audio extracted",
		logging.String("destination", dest),
		logging.Duration("elapsed", time.Since(start)),
	)
	return dest, nil
}

// Duration probes the length of a waveform.
func (e *Extractor) Duration(ctx context.Context, wavPath string) (time.Duration, error) {
	probe, err := e.probe(ctx, e.ffprobe, wavPath)
	if err != nil {
		return 0, services.Wrap(services.ErrMedia, "audio", "ffprobe", "Failed to inspect waveform", errors.Join(services.ErrExternalTool, err))
	}
	seconds := probe.DurationSeconds()
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0, services.Wrap(services.ErrMedia, "audio", "ffprobe", "Waveform reports an invalid duration", nil)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// ExtractSegment cuts [start, start+length) of wavPath into dest.
func (e *Extractor) ExtractSegment(ctx context.Context, wavPath string, start, length time.Duration, dest string) error {
	if length <= 0 {
		return services.Wrap(services.ErrValidation, "audio", "extract segment", fmt.Sprintf("invalid segment length %s", length), nil)
	}
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", formatSeconds(start),
		"-t", formatSeconds(length),
		"-i", wavPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
	if err := e.run(ctx, e.ffmpeg, args...); err != nil {
		_ = os.Remove(dest)
		return services.Wrap(services.ErrMedia, "audio", "extract segment", "Failed to cut audio segment", errors.Join(services.ErrExternalTool, err))
	}
	return nil
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stderr strings.Builder
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
