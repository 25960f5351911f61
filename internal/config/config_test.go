package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"polyglot/internal/config"
	"polyglot/internal/language"
)

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"POLYGLOT_LLM_API_KEY", "OPENROUTER_API_KEY", "GOOGLE_API_KEY",
		"GOOGLE_TRANSLATE_API_KEY", "OPENAI_API_KEY", "HF_TOKEN", "HUGGING_FACE_HUB_TOKEN",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	clearCredentialEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantWork := filepath.Join(tempHome, ".local", "share", "polyglot", "work")
	if cfg.Paths.WorkDir != wantWork {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.Paths.WorkDir, wantWork)
	}
	if cfg.Pipeline.ChunkSeconds != 30 {
		t.Fatalf("expected 30 second chunks, got %d", cfg.Pipeline.ChunkSeconds)
	}
	if cfg.Pipeline.MaxParallelLanguages != 1 {
		t.Fatalf("expected sequential fan-out by default, got %d", cfg.Pipeline.MaxParallelLanguages)
	}
	if cfg.Speech.Backend != config.SpeechBackendWhisperX {
		t.Fatalf("unexpected speech backend %q", cfg.Speech.Backend)
	}
	if cfg.FFmpegBinary() != "ffmpeg" || cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected media binaries %q %q", cfg.FFmpegBinary(), cfg.FFprobeBinary())
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.WorkDir, cfg.Paths.LogDir, filepath.Dir(cfg.Paths.HistoryDB)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
	if err := cfg.RequireTranslationCredentials(); err == nil {
		t.Fatal("expected missing credentials error")
	}
}

func TestLoadCustomPath(t *testing.T) {
	clearCredentialEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "polyglot.toml")

	type payload struct {
		LLM struct {
			APIKey string `toml:"api_key"`
			Model  string `toml:"model"`
		} `toml:"llm"`
		Reference struct {
			APIKey string `toml:"api_key"`
		} `toml:"reference"`
		Pipeline struct {
			ChunkSeconds         int `toml:"chunk_seconds"`
			MaxParallelLanguages int `toml:"max_parallel_languages"`
		} `toml:"pipeline"`
		Paths struct {
			WorkDir string `toml:"work_dir"`
		} `toml:"paths"`
	}
	custom := payload{}
	custom.LLM.APIKey = "llm-key"
	custom.LLM.Model = "custom/model"
	custom.Reference.APIKey = "ref-key"
	custom.Pipeline.ChunkSeconds = 15
	custom.Pipeline.MaxParallelLanguages = 4
	custom.Paths.WorkDir = filepath.Join(tempDir, "work")
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.LLM.Model != "custom/model" {
		t.Fatalf("expected model override, got %q", cfg.LLM.Model)
	}
	if cfg.LLM.BaseURL != config.Default().LLM.BaseURL {
		t.Fatalf("expected default base url, got %q", cfg.LLM.BaseURL)
	}
	if cfg.Pipeline.ChunkSeconds != 15 || cfg.Pipeline.MaxParallelLanguages != 4 {
		t.Fatalf("unexpected pipeline settings %+v", cfg.Pipeline)
	}
	if cfg.Paths.WorkDir != filepath.Join(tempDir, "work") {
		t.Fatalf("unexpected work dir %q", cfg.Paths.WorkDir)
	}
	if err := cfg.RequireTranslationCredentials(); err != nil {
		t.Fatalf("expected credentials to be present: %v", err)
	}
}

func TestEnvFallbackForAPIKeys(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENROUTER_API_KEY", "env-llm")
	t.Setenv("GOOGLE_TRANSLATE_API_KEY", "env-ref")
	t.Setenv("OPENAI_API_KEY", "env-openai")
	t.Setenv("HF_TOKEN", "env-hf")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "env-llm" {
		t.Errorf("expected LLM key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.Reference.APIKey != "env-ref" {
		t.Errorf("expected reference key from env, got %q", cfg.Reference.APIKey)
	}
	if cfg.Speech.OpenAIAPIKey != "env-openai" {
		t.Errorf("expected OpenAI key from env, got %q", cfg.Speech.OpenAIAPIKey)
	}
	if cfg.Speech.WhisperXHuggingFace != "env-hf" {
		t.Errorf("expected HuggingFace token from env, got %q", cfg.Speech.WhisperXHuggingFace)
	}
}

func TestFileValueWinsOverEnv(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "env-llm")
	path := filepath.Join(t.TempDir(), "polyglot.toml")
	if err := os.WriteFile(path, []byte("[llm]\napi_key = \"file-llm\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "file-llm" {
		t.Fatalf("expected file key, got %q", cfg.LLM.APIKey)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"chunk seconds", func(c *config.Config) { c.Pipeline.ChunkSeconds = -1 }, "pipeline.chunk_seconds"},
		{"parallel", func(c *config.Config) { c.Pipeline.MaxParallelLanguages = 100 }, "pipeline.max_parallel_languages"},
		{"backend", func(c *config.Config) { c.Speech.Backend = "vosk" }, "speech.backend"},
		{"vad", func(c *config.Config) { c.Speech.WhisperXVADMethod = "webrtc" }, "speech.whisperx_vad_method"},
		{"llm url", func(c *config.Config) { c.LLM.BaseURL = "not a url" }, "llm.base_url"},
		{"work dir", func(c *config.Config) { c.Paths.WorkDir = "" }, "paths.work_dir"},
		{"source language", func(c *config.Config) { c.Pipeline.SourceLanguage = "Klingon" }, "pipeline.source_language"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.WorkDir = t.TempDir()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

func TestSourceLanguageResolvesAliases(t *testing.T) {
	cfg := config.Default()
	cfg.Pipeline.SourceLanguage = "bangla"
	if got := cfg.SourceLanguage(); got != language.Bengali {
		t.Fatalf("SourceLanguage() = %v, want Bengali", got)
	}
	cfg.Pipeline.SourceLanguage = ""
	if got := cfg.SourceLanguage(); got != language.English {
		t.Fatalf("SourceLanguage() = %v, want English fallback", got)
	}
}

func TestRequireSpeechCredentials(t *testing.T) {
	cfg := config.Default()
	if err := cfg.RequireSpeechCredentials(); err != nil {
		t.Fatalf("whisperx needs no key: %v", err)
	}
	cfg.Speech.Backend = config.SpeechBackendOpenAI
	if err := cfg.RequireSpeechCredentials(); err == nil {
		t.Fatal("expected error for openai backend without key")
	}
	cfg.Speech.OpenAIAPIKey = "k"
	if err := cfg.RequireSpeechCredentials(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	for _, section := range []string{"[paths]", "[llm]", "[reference]", "[speech]", "[pipeline]", "[logging]"} {
		if !strings.Contains(string(contents), section) {
			t.Fatalf("sample config missing %s", section)
		}
	}

	clearCredentialEnv(t)
	t.Setenv("HOME", t.TempDir())
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
}
