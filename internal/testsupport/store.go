package testsupport

import (
	"context"
	"testing"
	"time"

	"polyglot/internal/config"
	"polyglot/internal/history"
	"polyglot/internal/language"
	"polyglot/internal/pipeline"
	"polyglot/internal/scoring"
)

// MustOpenHistory opens a history.Store for tests and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.OpenFromConfig(cfg)
	if err != nil {
		t.Fatalf("history.OpenFromConfig: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewResult builds a finished pipeline result with one translation per
// language name. Names must be valid targets.
func NewResult(t testing.TB, jobID, transcript string, names ...string) *pipeline.Result {
	t.Helper()

	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	result := &pipeline.Result{
		JobID:              jobID,
		SourceLanguage:     language.English,
		OriginalTranscript: transcript,
		Languages:          names,
		Translations:       make(map[string]pipeline.Translation, len(names)),
		Failures:           map[string]string{},
		StartedAt:          started,
		FinishedAt:         started.Add(2 * time.Second),
	}
	for _, name := range names {
		lang, err := language.LookupTarget(name)
		if err != nil {
			t.Fatalf("NewResult: %v", err)
		}
		result.Translations[lang.Name()] = pipeline.Translation{
			Language:              lang,
			Candidate:             "candidate " + lang.Code(),
			Reference:             "reference " + lang.Code(),
			BackTranslation:       transcript,
			BackTranslationSource: pipeline.BackTranslationReference,
			Metrics:               scoring.MetricSet{BLEU: 1, ROUGE1: 1, ROUGE2: 1, ROUGEL: 1, CosineSimilarity: 0.42},
		}
	}
	return result
}

// RecordResult stores result as a successful text job.
func RecordResult(t testing.TB, store *history.Store, result *pipeline.Result) *history.Entry {
	t.Helper()

	entry, err := store.Record(context.Background(), history.KindText, "", result, nil)
	if err != nil {
		t.Fatalf("store.Record: %v", err)
	}
	return entry
}
