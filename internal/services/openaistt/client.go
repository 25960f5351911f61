package openaistt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"polyglot/internal/language"
	"polyglot/internal/services"
)

// Config contains the speech endpoint settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// Language is the spoken language hint (any code or name ToISO2 accepts).
	Language string
}

// Client transcribes WAV files through an OpenAI-compatible
// /audio/transcriptions endpoint.
type Client struct {
	api      openai.Client
	model    string
	language string
}

// New constructs a Client. Extra request options are applied after the
// configured ones.
func New(cfg Config, extra ...option.RequestOption) *Client {
	opts := []option.RequestOption{option.WithAPIKey(strings.TrimSpace(cfg.APIKey))}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}
	opts = append(opts, extra...)
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = string(openai.AudioModelWhisper1)
	}
	return &Client{
		api:      openai.NewClient(opts...),
		model:    model,
		language: language.ToISO2(cfg.Language),
	}
}

// Recognize uploads the waveform and returns the recognized text. An empty
// transcription reports services.ErrNoSpeech.
func (c *Client) Recognize(ctx context.Context, wavPath string) (string, error) {
	file, err := os.Open(wavPath)
	if err != nil {
		return "", services.Wrap(services.ErrRecognition, "openai-stt", "open audio", "Audio file not readable", err)
	}
	defer file.Close()

	params := openai.AudioTranscriptionNewParams{
		File:  file,
		Model: openai.AudioModel(c.model),
	}
	if c.language != "" {
		params.Language = openai.String(c.language)
	}

	resp, err := c.api.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			marker := services.ErrRecognition
			if apiErr.StatusCode == 429 || apiErr.StatusCode >= 500 {
				marker = services.ErrTransient
			}
			return "", services.Wrap(marker, "openai-stt", "transcribe", fmt.Sprintf("Speech endpoint returned status %d", apiErr.StatusCode), err)
		}
		return "", services.Wrap(services.ErrRecognition, "openai-stt", "transcribe", "Speech request failed", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", services.Wrap(services.ErrNoSpeech, "openai-stt", "transcribe", "No speech recognized", nil)
	}
	return text, nil
}
