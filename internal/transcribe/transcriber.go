package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"polyglot/internal/logging"
	"polyglot/internal/services"
)

// Recognizer converts one short waveform into text.
type Recognizer interface {
	Recognize(ctx context.Context, wavPath string) (string, error)
}

// Segmenter measures a waveform and cuts windows out of it.
// *audio.Extractor satisfies it.
type Segmenter interface {
	Duration(ctx context.Context, wavPath string) (time.Duration, error)
	ExtractSegment(ctx context.Context, wavPath string, start, length time.Duration, dest string) error
}

// Transcriber recognizes a waveform chunk by chunk.
type Transcriber struct {
	audio       Segmenter
	recognizer  Recognizer
	chunkLength time.Duration
	logger      *slog.Logger
}

// New constructs a Transcriber. A non-positive chunkLength uses DefaultChunkLength.
func New(audio Segmenter, recognizer Recognizer, chunkLength time.Duration, logger *slog.Logger) *Transcriber {
	if chunkLength <= 0 {
		chunkLength = DefaultChunkLength
	}
	return &Transcriber{
		audio:       audio,
		recognizer:  recognizer,
		chunkLength: chunkLength,
		logger:      logging.NewComponentLogger(logger, "transcribe"),
	}
}

// Transcribe returns the text of wavPath. Chunks are processed strictly in
// order, one at a time; a chunk that cannot be cut or recognized contributes
// nothing and the rest continue. Chunk files are written next to the waveform
// and always removed. Only a failed duration probe or context cancellation
// returns an error.
func (t *Transcriber) Transcribe(ctx context.Context, wavPath string) (string, error) {
	total, err := t.audio.Duration(ctx, wavPath)
	if err != nil {
		return "", err
	}
	chunks := PlanChunks(total, t.chunkLength)
	logger := logging.WithContext(ctx, t.logger)
	if len(chunks) == 0 {
		logger.Info("waveform is empty; nothing to transcribe", logging.String("audio_file", wavPath))
		return "", nil
	}

	logger.Info("transcribing audio",
		logging.String("audio_file", wavPath),
		logging.Duration("audio_duration", total),
		logging.Int("chunk_count", len(chunks)),
	)
	start := time.Now()
	runID := uuid.NewString()
	dir := filepath.Dir(wavPath)
	parts := make([]string, 0, len(chunks))
	failed := 0

	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		chunkPath := filepath.Join(dir, fmt.Sprintf("chunk-%s-%d.wav", runID, chunk.Index))
		text, err := t.recognizeChunk(ctx, wavPath, chunkPath, chunk)
		if err != nil {
			if !services.Recoverable(err) {
				return "", err
			}
			failed++
			logging.WarnWithContext(logger, "chunk recognition failed; continuing without it",
				"chunk_recognition_failed",
				logging.Int("chunk_index", chunk.Index),
				logging.Duration("chunk_start", chunk.Start),
				logging.Duration("chunk_end", chunk.End()),
				logging.Error(err),
				logging.String(logging.FieldImpact, "transcript omits this chunk"),
				logging.String(logging.FieldErrorHint, "check the speech backend logs; silent chunks are expected"),
			)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}

	transcript := strings.TrimSpace(strings.Join(parts, " "))
	logger.Info("transcription finished",
		logging.Int("chunk_count", len(chunks)),
		logging.Int("failed_chunks", failed),
		logging.Int("transcript_chars", len(transcript)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return transcript, nil
}

func (t *Transcriber) recognizeChunk(ctx context.Context, wavPath, chunkPath string, chunk Chunk) (string, error) {
	defer os.Remove(chunkPath)
	if err := t.audio.ExtractSegment(ctx, wavPath, chunk.Start, chunk.Duration, chunkPath); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", err
	}
	text, err := t.recognizer.Recognize(ctx, chunkPath)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", err
	}
	return text, nil
}
