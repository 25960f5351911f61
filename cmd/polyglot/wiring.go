package main

import (
	"fmt"
	"log/slog"
	"time"

	"polyglot/internal/config"
	"polyglot/internal/media/audio"
	"polyglot/internal/pipeline"
	"polyglot/internal/scoring"
	"polyglot/internal/services/googletranslate"
	"polyglot/internal/services/llm"
	"polyglot/internal/services/openaistt"
	"polyglot/internal/services/whisperx"
	"polyglot/internal/transcribe"
	"polyglot/internal/translate"
	"polyglot/internal/workspace"
)

// buildOrchestrator wires the configured services into a pipeline. Video
// collaborators are only constructed when withVideo is set so text jobs do
// not need speech credentials.
func buildOrchestrator(cfg *config.Config, logger *slog.Logger, withVideo bool, onState func(string, pipeline.State)) (*pipeline.Orchestrator, error) {
	if err := cfg.RequireTranslationCredentials(); err != nil {
		return nil, err
	}

	llmCfg := cfg.GetLLM()
	model := llm.NewClient(llm.Config{
		APIKey:         llmCfg.APIKey,
		BaseURL:        llmCfg.BaseURL,
		Model:          llmCfg.Model,
		Referer:        llmCfg.Referer,
		Title:          llmCfg.Title,
		TimeoutSeconds: llmCfg.TimeoutSeconds,
	})
	machine := googletranslate.NewClient(cfg.Reference.APIKey,
		googletranslate.WithBaseURL(cfg.Reference.BaseURL),
		googletranslate.WithTimeout(time.Duration(cfg.Reference.TimeoutSeconds)*time.Second),
	)

	deps := pipeline.Dependencies{
		Primary:   translate.NewPrimary(model, logger),
		Reference: translate.NewReference(machine, logger),
		Scorer:    scoring.NewScorer(logger),
	}

	if withVideo {
		if err := cfg.RequireSpeechCredentials(); err != nil {
			return nil, err
		}
		recognizer, err := newRecognizer(cfg)
		if err != nil {
			return nil, err
		}
		extractor := audio.NewExtractor(cfg, logger)
		deps.Extractor = extractor
		deps.Transcriber = transcribe.New(extractor, recognizer, time.Duration(cfg.Pipeline.ChunkSeconds)*time.Second, logger)
		deps.Workspace = workspace.NewManager(cfg.Paths.WorkDir, cfg.Pipeline.KeepWorkspace, logger)
	}

	return pipeline.New(deps, pipeline.Options{
		MaxParallel:    cfg.Pipeline.MaxParallelLanguages,
		SourceLanguage: cfg.SourceLanguage(),
		Logger:         logger,
		OnState:        onState,
		JobLogDir:      cfg.Paths.LogDir,
	})
}

func newRecognizer(cfg *config.Config) (transcribe.Recognizer, error) {
	source := cfg.SourceLanguage().Code()
	switch cfg.Speech.Backend {
	case config.SpeechBackendOpenAI:
		return openaistt.New(openaistt.Config{
			APIKey:   cfg.Speech.OpenAIAPIKey,
			BaseURL:  cfg.Speech.OpenAIBaseURL,
			Model:    cfg.Speech.OpenAIModel,
			Language: source,
		}), nil
	case config.SpeechBackendWhisperX:
		return whisperx.NewService(whisperx.Config{
			Model:       cfg.Speech.WhisperXModel,
			CUDAEnabled: cfg.Speech.WhisperXCUDAEnabled,
			VADMethod:   cfg.Speech.WhisperXVADMethod,
			HFToken:     cfg.Speech.WhisperXHuggingFace,
			Language:    source,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported speech backend %q", cfg.Speech.Backend)
	}
}
