package services_test

import (
	"context"
	"testing"

	"polyglot/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithJobID(ctx, "job-42")
	ctx = services.WithStage(ctx, "transcribing")
	ctx = services.WithLanguage(ctx, "Hindi")

	if id, ok := services.JobIDFromContext(ctx); !ok || id != "job-42" {
		t.Fatalf("unexpected job id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "transcribing" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if lang, ok := services.LanguageFromContext(ctx); !ok || lang != "Hindi" {
		t.Fatalf("unexpected language: %v %v", lang, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithJobID(ctx, "")
	ctx = services.WithLanguage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.JobIDFromContext(ctx); ok {
		t.Fatal("expected no job id")
	}
	if _, ok := services.LanguageFromContext(ctx); ok {
		t.Fatal("expected no language")
	}
}
