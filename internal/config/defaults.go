package config

const (
	defaultConfigPath           = "~/.config/polyglot/config.toml"
	defaultWorkDir              = "~/.local/share/polyglot/work"
	defaultLogDir               = "~/.local/share/polyglot/logs"
	defaultHistoryDB            = "~/.local/share/polyglot/history.db"
	defaultLLMBaseURL           = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel             = "google/gemini-2.0-flash-001"
	defaultLLMReferer           = "https://github.com/polyglot-dev/polyglot"
	defaultLLMTitle             = "polyglot"
	defaultLLMTimeoutSeconds    = 60
	defaultReferenceBaseURL     = "https://translation.googleapis.com/language/translate/v2"
	defaultReferenceTimeout     = 30
	defaultSpeechBackend        = SpeechBackendWhisperX
	defaultWhisperXModel        = "large-v3"
	defaultWhisperXVADMethod    = "silero"
	defaultOpenAISpeechModel    = "whisper-1"
	defaultSourceLanguage       = "English"
	defaultChunkSeconds         = 30
	defaultMaxParallelLanguages = 1
	defaultFFmpegBinary         = "ffmpeg"
	defaultFFprobeBinary        = "ffprobe"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

const maxParallelLanguages = 16

// Speech recognition backends.
const (
	SpeechBackendWhisperX = "whisperx"
	SpeechBackendOpenAI   = "openai"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:   defaultWorkDir,
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Reference: Reference{
			BaseURL:        defaultReferenceBaseURL,
			TimeoutSeconds: defaultReferenceTimeout,
		},
		Speech: Speech{
			Backend:           defaultSpeechBackend,
			WhisperXModel:     defaultWhisperXModel,
			WhisperXVADMethod: defaultWhisperXVADMethod,
			OpenAIModel:       defaultOpenAISpeechModel,
		},
		Pipeline: Pipeline{
			SourceLanguage:       defaultSourceLanguage,
			ChunkSeconds:         defaultChunkSeconds,
			MaxParallelLanguages: defaultMaxParallelLanguages,
		},
		Media: Media{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
