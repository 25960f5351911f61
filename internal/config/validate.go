package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"polyglot/internal/language"
)

// Validate ensures the configuration is structurally usable. Credentials are
// checked separately by RequireTranslationCredentials and
// RequireSpeechCredentials because commands such as `languages` and `config`
// run without them.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateEndpoints(); err != nil {
		return err
	}
	if err := c.validateSpeech(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		return errors.New("paths.work_dir must be set")
	}
	return nil
}

func (c *Config) validateEndpoints() error {
	for key, value := range map[string]string{
		"llm.base_url":       c.LLM.BaseURL,
		"reference.base_url": c.Reference.BaseURL,
	} {
		if err := validateURL(key, value); err != nil {
			return err
		}
	}
	if c.Speech.OpenAIBaseURL != "" {
		if err := validateURL("speech.openai_base_url", c.Speech.OpenAIBaseURL); err != nil {
			return err
		}
	}
	return ensurePositiveMap(map[string]int{
		"llm.timeout_seconds":       c.LLM.TimeoutSeconds,
		"reference.timeout_seconds": c.Reference.TimeoutSeconds,
	})
}

func (c *Config) validateSpeech() error {
	switch c.Speech.Backend {
	case SpeechBackendWhisperX, SpeechBackendOpenAI:
	default:
		return fmt.Errorf("speech.backend must be %q or %q (got %q)", SpeechBackendWhisperX, SpeechBackendOpenAI, c.Speech.Backend)
	}
	switch c.Speech.WhisperXVADMethod {
	case "silero", "pyannote":
	default:
		return fmt.Errorf("speech.whisperx_vad_method must be silero or pyannote (got %q)", c.Speech.WhisperXVADMethod)
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.ChunkSeconds <= 0 {
		return errors.New("pipeline.chunk_seconds must be positive")
	}
	if c.Pipeline.MaxParallelLanguages < 1 || c.Pipeline.MaxParallelLanguages > maxParallelLanguages {
		return fmt.Errorf("pipeline.max_parallel_languages must be between 1 and %d", maxParallelLanguages)
	}
	if _, err := language.Lookup(c.Pipeline.SourceLanguage); err != nil {
		return fmt.Errorf("pipeline.source_language: %w", err)
	}
	return nil
}

// RequireTranslationCredentials reports a configuration error when either
// translation service lacks an API key.
func (c *Config) RequireTranslationCredentials() error {
	path := configHint()
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return fmt.Errorf("llm.api_key is required. Set OPENROUTER_API_KEY env var or edit %s (create with 'polyglot config init')", path)
	}
	if strings.TrimSpace(c.Reference.APIKey) == "" {
		return fmt.Errorf("reference.api_key is required. Set GOOGLE_TRANSLATE_API_KEY env var or edit %s", path)
	}
	return nil
}

// RequireSpeechCredentials reports a configuration error when the selected
// speech backend needs a key that is not configured.
func (c *Config) RequireSpeechCredentials() error {
	if c.Speech.Backend == SpeechBackendOpenAI && strings.TrimSpace(c.Speech.OpenAIAPIKey) == "" {
		return fmt.Errorf("speech.openai_api_key is required when speech.backend is openai. Set OPENAI_API_KEY env var or edit %s", configHint())
	}
	return nil
}

func configHint() string {
	path, err := DefaultConfigPath()
	if err != nil {
		return defaultConfigPath
	}
	return path
}

func validateURL(key, value string) error {
	parsed, err := url.Parse(strings.TrimSpace(value))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%s must be an absolute URL (got %q)", key, value)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
