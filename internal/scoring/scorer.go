package scoring

import (
	"context"
	"log/slog"

	"polyglot/internal/logging"
)

// MetricSet holds the quality scores for one target language. Every value is
// in [0, 1]; a metric that could not be computed is reported as 0.
type MetricSet struct {
	BLEU             float64 `json:"bleu"`
	ROUGE1           float64 `json:"rouge1"`
	ROUGE2           float64 `json:"rouge2"`
	ROUGEL           float64 `json:"rougeL"`
	CosineSimilarity float64 `json:"cosine_similarity"`
}

// Scorer computes a MetricSet and logs metrics that fail.
type Scorer struct {
	logger *slog.Logger
}

// NewScorer returns a Scorer logging through logger (nil discards).
func NewScorer(logger *slog.Logger) *Scorer {
	return &Scorer{logger: logging.NewComponentLogger(logger, "scoring")}
}

// Score compares the source transcript with its English back-translation
// (BLEU, ROUGE) and the primary candidate with the reference translation
// (character trigram cosine). Failures never propagate.
func (s *Scorer) Score(ctx context.Context, original, backTranslation, candidate, reference string) MetricSet {
	var set MetricSet

	if v, err := BLEU(original, backTranslation); err != nil {
		s.warn(ctx, "bleu", err)
	} else {
		set.BLEU = clamp(v)
	}

	if r, err := ROUGEScores(original, backTranslation); err != nil {
		s.warn(ctx, "rouge", err)
	} else {
		set.ROUGE1 = clamp(r.ROUGE1)
		set.ROUGE2 = clamp(r.ROUGE2)
		set.ROUGEL = clamp(r.ROUGEL)
	}

	if v, err := Cosine(candidate, reference); err != nil {
		s.warn(ctx, "cosine_similarity", err)
	} else {
		set.CosineSimilarity = clamp(v)
	}
	return set
}

func (s *Scorer) warn(ctx context.Context, metric string, err error) {
	logging.WarnWithContext(logging.WithContext(ctx, s.logger), "metric unavailable; reporting 0",
		"metric_failed",
		logging.String("metric", metric),
		logging.Error(err),
		logging.String(logging.FieldImpact, "metric reported as 0"),
		logging.String(logging.FieldErrorHint, "check that both texts contain words"),
	)
}

func clamp(v float64) float64 {
	switch {
	case v != v, v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
