package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"polyglot/internal/pipeline"
)

const previewRunes = 60

type resultView struct {
	showText bool
}

func (v resultView) write(w io.Writer, result *pipeline.Result) {
	if result == nil {
		return
	}
	fmt.Fprintf(w, "Job %s (%s)\n", result.JobID, result.SourceLanguage.Name())
	fmt.Fprintf(w, "Transcript: %s\n\n", v.text(result.OriginalTranscript))

	ordered := result.Ordered()
	if len(ordered) > 0 {
		rows := make([][]string, 0, len(ordered))
		for _, tr := range ordered {
			rows = append(rows, []string{
				tr.Language.Name(),
				formatScore(tr.Metrics.BLEU),
				formatScore(tr.Metrics.ROUGE1),
				formatScore(tr.Metrics.ROUGE2),
				formatScore(tr.Metrics.ROUGEL),
				formatScore(tr.Metrics.CosineSimilarity),
				tr.BackTranslationSource,
			})
		}
		fmt.Fprintln(w, renderTable([]column{
			left("Language"),
			right("BLEU"),
			right("ROUGE-1"),
			right("ROUGE-2"),
			right("ROUGE-L"),
			right("Cosine"),
			left("Back-translation"),
		}, rows))
	}

	if v.showText {
		for _, tr := range ordered {
			fmt.Fprintf(w, "\n%s\n", tr.Language.Name())
			fmt.Fprintf(w, "  candidate:        %s\n", tr.Candidate)
			fmt.Fprintf(w, "  reference:        %s\n", tr.Reference)
			fmt.Fprintf(w, "  back-translation: %s\n", tr.BackTranslation)
		}
	}

	if len(result.Failures) > 0 {
		fmt.Fprintln(w, "\nOmitted languages:")
		names := make([]string, 0, len(result.Failures))
		for name := range result.Failures {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			fmt.Fprintf(w, "  - %s: %s\n", name, result.Failures[name])
		}
	}
	if len(ordered) == 0 {
		fmt.Fprintln(w, "\nNo language produced a translation.")
	}
}

func (v resultView) text(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if v.showText {
		return s
	}
	return preview(s, previewRunes)
}

func preview(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
