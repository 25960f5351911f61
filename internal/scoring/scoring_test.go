package scoring

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"testing"

	"polyglot/internal/services"
)

const tolerance = 1e-4

func TestBLEUIdentity(t *testing.T) {
	text := "The sun rises in the east every morning."
	got, err := BLEU(text, text)
	if err != nil {
		t.Fatalf("BLEU: %v", err)
	}
	if math.Abs(got-1) > 1e-9 {
		t.Fatalf("BLEU(t, t) = %v, want 1", got)
	}
}

func TestBLEUKnownValue(t *testing.T) {
	// p1=1, p2=3/4, p3=2/3, p4=1/2; brevity penalty exp(1-6/5).
	got, err := BLEU("the cat sat on the mat", "the cat sat on mat")
	if err != nil {
		t.Fatalf("BLEU: %v", err)
	}
	want := math.Pow(1*0.75*(2.0/3.0)*0.5, 0.25) * math.Exp(1-6.0/5.0)
	if math.Abs(got-want) > tolerance {
		t.Fatalf("BLEU = %v, want %v", got, want)
	}
}

func TestBLEUSmoothsMissingHigherOrders(t *testing.T) {
	// Three tokens: no 4-grams, so p4 is smoothed instead of zeroing the score.
	got, err := BLEU("the sun rises", "the sun rises")
	if err != nil {
		t.Fatalf("BLEU: %v", err)
	}
	want := math.Pow(1*1*1*bleuEpsilon, 0.25)
	if math.Abs(got-want) > tolerance {
		t.Fatalf("BLEU = %v, want %v", got, want)
	}
}

func TestBLEUShortIdenticalTextsStayBelowOne(t *testing.T) {
	// Orders longer than the text have no n-grams and are smoothed to
	// epsilon, so an exact match under four tokens scores epsilon^(missing/4).
	tests := []struct {
		text string
		want float64
	}{
		{"hello", math.Pow(bleuEpsilon, 0.75)},
		{"hello world", math.Sqrt(bleuEpsilon)},
		{"hello there world", math.Pow(bleuEpsilon, 0.25)},
		{"hello there big world", 1},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := BLEU(tt.text, tt.text)
			if err != nil {
				t.Fatalf("BLEU: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("BLEU(t, t) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBLEUIgnoresCase(t *testing.T) {
	got, err := BLEU("The Sun Rises In The East", "the sun rises in the east")
	if err != nil {
		t.Fatalf("BLEU: %v", err)
	}
	if math.Abs(got-1) > 1e-9 {
		t.Fatalf("BLEU = %v, want 1", got)
	}
}

func TestBLEUDisjointAndEmpty(t *testing.T) {
	got, err := BLEU("alpha beta gamma delta", "one two three four")
	if err != nil || got != 0 {
		t.Fatalf("disjoint BLEU = %v, %v; want 0, nil", got, err)
	}
	if _, err := BLEU("alpha beta", ""); !errors.Is(err, services.ErrScoring) {
		t.Fatalf("expected scoring error for empty candidate, got %v", err)
	}
	if _, err := BLEU("", "alpha"); !errors.Is(err, services.ErrScoring) {
		t.Fatalf("expected scoring error for empty reference, got %v", err)
	}
}

func TestROUGEKnownValues(t *testing.T) {
	got, err := ROUGEScores("the cat sat on the mat", "the cat sat on mat")
	if err != nil {
		t.Fatalf("ROUGEScores: %v", err)
	}
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"rouge1", got.ROUGE1, 10.0 / 11.0},
		{"rouge2", got.ROUGE2, 2.0 / 3.0},
		{"rougeL", got.ROUGEL, 10.0 / 11.0},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > tolerance {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestROUGEIdentityAndCase(t *testing.T) {
	text := "The sun rises in the east."
	got, err := ROUGEScores(text, text)
	if err != nil {
		t.Fatalf("ROUGEScores: %v", err)
	}
	if got.ROUGE1 != 1 || got.ROUGE2 != 1 || got.ROUGEL != 1 {
		t.Fatalf("identity = %+v, want all 1", got)
	}

	cased, err := ROUGEScores("Sun Moon", "sun moon")
	if err != nil {
		t.Fatalf("ROUGEScores: %v", err)
	}
	if cased.ROUGE1 != 0 {
		t.Fatalf("expected case-sensitive tokens, got rouge1 %v", cased.ROUGE1)
	}

	if _, err := ROUGEScores("words", "!!!"); !errors.Is(err, services.ErrScoring) {
		t.Fatalf("expected scoring error for punctuation-only prediction, got %v", err)
	}
}

func TestLCSLength(t *testing.T) {
	a := []string{"a", "b", "c", "d", "e"}
	b := []string{"a", "c", "e", "x"}
	if got := lcsLength(a, b); got != 3 {
		t.Fatalf("lcsLength = %d, want 3", got)
	}
}

func TestCosine(t *testing.T) {
	text := "सूर्य पूर्व में उगता है।"
	got, err := Cosine(text, text)
	if err != nil || math.Abs(got-1) > 1e-9 {
		t.Fatalf("Cosine(t, t) = %v, %v; want 1", got, err)
	}
	if _, err := Cosine("", text); !errors.Is(err, services.ErrScoring) {
		t.Fatalf("expected scoring error for empty candidate, got %v", err)
	}
}

type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *recordingHandler) WithGroup(string) slog.Handler { return h }

func (h *recordingHandler) metricFailures() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var metrics []string
	for _, r := range h.records {
		var event, metric string
		r.Attrs(func(a slog.Attr) bool {
			switch a.Key {
			case "event_type":
				event = a.Value.String()
			case "metric":
				metric = a.Value.String()
			}
			return true
		})
		if event == "metric_failed" {
			metrics = append(metrics, metric)
		}
	}
	return metrics
}

func TestScorerReportsZeroAndLogsFailures(t *testing.T) {
	handler := &recordingHandler{}
	scorer := NewScorer(slog.New(handler))

	set := scorer.Score(context.Background(), "", "", "", "")
	if set != (MetricSet{}) {
		t.Fatalf("expected zero metric set, got %+v", set)
	}
	failures := handler.metricFailures()
	if len(failures) != 3 {
		t.Fatalf("expected three metric_failed warnings, got %v", failures)
	}
}

func TestScorerRanges(t *testing.T) {
	scorer := NewScorer(nil)
	set := scorer.Score(context.Background(),
		"The sun rises in the east.",
		"The sun comes up in the east.",
		"सूर्य पूर्व में उगता है।",
		"सूरज पूर्व में उगता है।",
	)
	for name, v := range map[string]float64{
		"bleu":   set.BLEU,
		"rouge1": set.ROUGE1,
		"rouge2": set.ROUGE2,
		"rougeL": set.ROUGEL,
		"cosine": set.CosineSimilarity,
	} {
		if v <= 0 || v >= 1 {
			t.Errorf("%s = %v, want in (0,1)", name, v)
		}
	}
}

func TestScorerIdentity(t *testing.T) {
	scorer := NewScorer(nil)
	text := "The sun rises in the east."
	set := scorer.Score(context.Background(), text, text, text, text)
	want := MetricSet{BLEU: 1, ROUGE1: 1, ROUGE2: 1, ROUGEL: 1, CosineSimilarity: 1}
	for name, pair := range map[string][2]float64{
		"bleu":   {set.BLEU, want.BLEU},
		"rouge1": {set.ROUGE1, want.ROUGE1},
		"rouge2": {set.ROUGE2, want.ROUGE2},
		"rougeL": {set.ROUGEL, want.ROUGEL},
		"cosine": {set.CosineSimilarity, want.CosineSimilarity},
	} {
		if math.Abs(pair[0]-pair[1]) > 1e-9 {
			t.Errorf("%s = %v, want %v", name, pair[0], pair[1])
		}
	}
}
