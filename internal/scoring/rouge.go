package scoring

import (
	"polyglot/internal/services"
	"polyglot/internal/textutil"
)

// ROUGE holds the three overlap F-measures.
type ROUGE struct {
	ROUGE1 float64
	ROUGE2 float64
	ROUGEL float64
}

// ROUGEScores compares prediction against target with ROUGE-1, ROUGE-2 and
// ROUGE-L F-measures over case-sensitive alphanumeric tokens.
func ROUGEScores(target, prediction string) (ROUGE, error) {
	targetTokens := textutil.AlnumTokens(target)
	predTokens := textutil.AlnumTokens(prediction)
	if len(targetTokens) == 0 || len(predTokens) == 0 {
		return ROUGE{}, services.Wrap(services.ErrScoring, "rouge", "", "empty token sequence", nil)
	}
	return ROUGE{
		ROUGE1: rougeN(targetTokens, predTokens, 1),
		ROUGE2: rougeN(targetTokens, predTokens, 2),
		ROUGEL: rougeL(targetTokens, predTokens),
	}, nil
}

func rougeN(target, pred []string, n int) float64 {
	targetCounts := ngramCounts(target, n)
	predCounts := ngramCounts(pred, n)
	var targetTotal, predTotal, overlap int
	for _, c := range targetCounts {
		targetTotal += c
	}
	for gram, c := range predCounts {
		predTotal += c
		overlap += min(c, targetCounts[gram])
	}
	return fmeasure(
		float64(overlap)/float64(max(predTotal, 1)),
		float64(overlap)/float64(max(targetTotal, 1)),
	)
}

func rougeL(target, pred []string) float64 {
	lcs := lcsLength(target, pred)
	return fmeasure(
		float64(lcs)/float64(len(pred)),
		float64(lcs)/float64(len(target)),
	)
}

// lcsLength uses two rolling rows of the dynamic programming table.
func lcsLength(a, b []string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func fmeasure(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}
