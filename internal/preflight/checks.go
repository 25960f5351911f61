package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"polyglot/internal/config"
	"polyglot/internal/deps"
	"polyglot/internal/services/googletranslate"
	"polyglot/internal/services/llm"
)

// CheckLLM verifies that the LLM API is reachable and the key is valid.
// It uses a 30-second timeout and a single attempt (no retries).
func CheckLLM(ctx context.Context, name string, cfg config.LLMConfig, opts ...llm.Option) Result {
	if cfg.APIKey == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts = append([]llm.Option{llm.WithRetryMaxAttempts(1)}, opts...)
	client := llm.NewClient(llm.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Referer: cfg.Referer,
		Title:   cfg.Title,
	}, opts...)

	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable (" + client.Model() + ")"}
}

// CheckReference translates a single word to confirm the reference
// translation key and endpoint work.
func CheckReference(ctx context.Context, apiKey, baseURL string) Result {
	const name = "Reference translation"

	if strings.TrimSpace(apiKey) == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := googletranslate.NewClient(apiKey, googletranslate.WithBaseURL(baseURL))
	if _, err := client.Translate(checkCtx, "hello", "en", "hi"); err != nil {
		var statusErr *googletranslate.StatusError
		if errors.As(err, &statusErr) {
			switch statusErr.StatusCode {
			case 400, 401, 403:
				return Result{Name: name, Detail: fmt.Sprintf("auth failed (%d: %s)", statusErr.StatusCode, statusErr.Message)}
			}
		}
		return Result{Name: name, Detail: summarizeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "Reachable"}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external executables the configured pipeline
// needs. uvx is only required by the WhisperX speech backend.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	statuses := []deps.Status{
		deps.CheckMediaTool(ctx, "FFmpeg", cfg.FFmpegBinary(), "Required for audio extraction"),
		deps.CheckMediaTool(ctx, "FFprobe", cfg.FFprobeBinary(), "Required for media inspection"),
	}
	statuses = append(statuses, deps.CheckBinaries([]deps.Requirement{{
		Name:        "uvx",
		Command:     "uvx",
		Description: "Required for WhisperX-driven transcription",
		Optional:    cfg.Speech.Backend != config.SpeechBackendWhisperX,
	}})...)
	return statuses
}

// summarizeError produces a human-readable summary for health check failures.
func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (API unreachable)"
	}
	return err.Error()
}
