package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLLM()
	c.normalizeReference()
	c.normalizeSpeech()
	c.normalizePipeline()
	c.normalizeMedia()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeLLM() {
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	if c.LLM.Referer == "" {
		c.LLM.Referer = defaultLLMReferer
	}
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.Title == "" {
		c.LLM.Title = defaultLLMTitle
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = firstEnv("POLYGLOT_LLM_API_KEY", "OPENROUTER_API_KEY", "GOOGLE_API_KEY")
	}
}

func (c *Config) normalizeReference() {
	c.Reference.BaseURL = strings.TrimSpace(c.Reference.BaseURL)
	if c.Reference.BaseURL == "" {
		c.Reference.BaseURL = defaultReferenceBaseURL
	}
	if c.Reference.TimeoutSeconds <= 0 {
		c.Reference.TimeoutSeconds = defaultReferenceTimeout
	}
	c.Reference.APIKey = strings.TrimSpace(c.Reference.APIKey)
	if c.Reference.APIKey == "" {
		c.Reference.APIKey = firstEnv("GOOGLE_TRANSLATE_API_KEY", "GOOGLE_API_KEY")
	}
}

func (c *Config) normalizeSpeech() {
	c.Speech.Backend = strings.ToLower(strings.TrimSpace(c.Speech.Backend))
	if c.Speech.Backend == "" {
		c.Speech.Backend = defaultSpeechBackend
	}
	c.Speech.WhisperXModel = strings.TrimSpace(c.Speech.WhisperXModel)
	if c.Speech.WhisperXModel == "" {
		c.Speech.WhisperXModel = defaultWhisperXModel
	}
	c.Speech.WhisperXVADMethod = strings.ToLower(strings.TrimSpace(c.Speech.WhisperXVADMethod))
	if c.Speech.WhisperXVADMethod == "" {
		c.Speech.WhisperXVADMethod = defaultWhisperXVADMethod
	}
	c.Speech.WhisperXHuggingFace = strings.TrimSpace(c.Speech.WhisperXHuggingFace)
	if c.Speech.WhisperXHuggingFace == "" {
		c.Speech.WhisperXHuggingFace = firstEnv("HUGGING_FACE_HUB_TOKEN", "HF_TOKEN")
	}
	c.Speech.OpenAIAPIKey = strings.TrimSpace(c.Speech.OpenAIAPIKey)
	if c.Speech.OpenAIAPIKey == "" {
		c.Speech.OpenAIAPIKey = firstEnv("OPENAI_API_KEY")
	}
	c.Speech.OpenAIBaseURL = strings.TrimSpace(c.Speech.OpenAIBaseURL)
	c.Speech.OpenAIModel = strings.TrimSpace(c.Speech.OpenAIModel)
	if c.Speech.OpenAIModel == "" {
		c.Speech.OpenAIModel = defaultOpenAISpeechModel
	}
}

func (c *Config) normalizePipeline() {
	c.Pipeline.SourceLanguage = strings.TrimSpace(c.Pipeline.SourceLanguage)
	if c.Pipeline.SourceLanguage == "" {
		c.Pipeline.SourceLanguage = defaultSourceLanguage
	}
	if c.Pipeline.ChunkSeconds == 0 {
		c.Pipeline.ChunkSeconds = defaultChunkSeconds
	}
	if c.Pipeline.MaxParallelLanguages == 0 {
		c.Pipeline.MaxParallelLanguages = defaultMaxParallelLanguages
	}
}

func (c *Config) normalizeMedia() {
	c.Media.FFmpegBinary = strings.TrimSpace(c.Media.FFmpegBinary)
	if c.Media.FFmpegBinary == "" {
		c.Media.FFmpegBinary = defaultFFmpegBinary
	}
	c.Media.FFprobeBinary = strings.TrimSpace(c.Media.FFprobeBinary)
	if c.Media.FFprobeBinary == "" {
		c.Media.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
