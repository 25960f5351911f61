package pipeline

import (
	"time"

	"polyglot/internal/language"
	"polyglot/internal/scoring"
)

// State is a job's position in the pipeline.
type State string

const (
	StateReceived     State = "received"
	StateTranscribing State = "transcribing"
	StateFanningOut   State = "fanning_out"
	StateAggregating  State = "aggregating"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// Back-translation sources recorded on each Translation.
const (
	BackTranslationReference = "reference"
	BackTranslationPrimary   = "primary"
)

// Transcript is the source text of a job. It is not modified after creation.
type Transcript struct {
	Text           string
	SourceLanguage language.Language
}

// Translation is the finished output for one target language.
type Translation struct {
	Language              language.Language `json:"language"`
	Candidate             string            `json:"candidate"`
	Reference             string            `json:"reference"`
	BackTranslation       string            `json:"back_translation"`
	BackTranslationSource string            `json:"back_translation_source"`
	Metrics               scoring.MetricSet `json:"metrics"`
}

// Result is the document returned for one job. Translations is keyed by
// language display name and only holds languages that completed every step;
// the others are named in Failures.
type Result struct {
	JobID              string                 `json:"job_id"`
	SourceLanguage     language.Language      `json:"source_language"`
	OriginalTranscript string                 `json:"original_transcript"`
	Languages          []string               `json:"languages"`
	Translations       map[string]Translation `json:"translations"`
	Failures           map[string]string      `json:"failures,omitempty"`
	StartedAt          time.Time              `json:"started_at"`
	FinishedAt         time.Time              `json:"finished_at"`
}

// Ordered returns the translations in request order.
func (r *Result) Ordered() []Translation {
	if r == nil {
		return nil
	}
	out := make([]Translation, 0, len(r.Translations))
	for _, name := range r.Languages {
		if tr, ok := r.Translations[name]; ok {
			out = append(out, tr)
		}
	}
	return out
}
