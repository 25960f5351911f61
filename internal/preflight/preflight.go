package preflight

import (
	"context"
	"path/filepath"
	"strings"

	"polyglot/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Network checks are skipped when offline is true.
func RunAll(ctx context.Context, cfg *config.Config, offline bool) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir))
	if db := strings.TrimSpace(cfg.Paths.HistoryDB); db != "" {
		results = append(results, CheckDirectoryAccess("History directory", filepath.Dir(db)))
	}

	results = append(results, CheckSpeech(cfg))

	if offline {
		return results
	}
	results = append(results, CheckLLM(ctx, "Translation LLM", cfg.GetLLM()))
	results = append(results, CheckReference(ctx, cfg.Reference.APIKey, cfg.Reference.BaseURL))
	return results
}

// CheckSpeech reports whether the configured speech backend has what it
// needs to run. The OpenAI backend is not called; only its key is checked.
func CheckSpeech(cfg *config.Config) Result {
	name := "Speech backend"
	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	name += " (" + cfg.Speech.Backend + ")"
	switch cfg.Speech.Backend {
	case config.SpeechBackendOpenAI:
		if strings.TrimSpace(cfg.Speech.OpenAIAPIKey) == "" {
			return Result{Name: name, Detail: "Missing API key"}
		}
		return Result{Name: name, Passed: true, Detail: "API key configured (" + cfg.Speech.OpenAIModel + ")"}
	case config.SpeechBackendWhisperX:
		for _, status := range CheckSystemDeps(context.Background(), cfg) {
			if status.Name == "uvx" && !status.Available {
				return Result{Name: name, Detail: status.Detail}
			}
		}
		return Result{Name: name, Passed: true, Detail: "uvx available (" + cfg.Speech.WhisperXModel + ")"}
	default:
		return Result{Name: name, Detail: "Unsupported backend"}
	}
}
