package scoring

import (
	"math"
	"strings"

	"polyglot/internal/services"
	"polyglot/internal/textutil"
)

const (
	bleuMaxOrder = 4
	// bleuEpsilon replaces a zero n-gram match count before taking the log.
	bleuEpsilon = 0.1
)

// BLEU scores candidate against a single reference with uniform 1..4-gram
// weights, epsilon smoothing of zero-match orders, and the brevity penalty.
// Both texts are lowercased and word-tokenized first.
func BLEU(reference, candidate string) (float64, error) {
	refTokens := textutil.WordTokens(reference)
	candTokens := textutil.WordTokens(candidate)
	if len(refTokens) == 0 {
		return 0, services.Wrap(services.ErrScoring, "bleu", "", "reference has no tokens", nil)
	}
	if len(candTokens) == 0 {
		return 0, services.Wrap(services.ErrScoring, "bleu", "", "candidate has no tokens", nil)
	}
	return bleuTokens(refTokens, candTokens), nil
}

func bleuTokens(ref, cand []string) float64 {
	numerators := make([]int, bleuMaxOrder+1)
	denominators := make([]int, bleuMaxOrder+1)
	for n := 1; n <= bleuMaxOrder; n++ {
		numerators[n], denominators[n] = modifiedPrecision(ref, cand, n)
	}
	// No unigram overlap means no n-gram overlap at all.
	if numerators[1] == 0 {
		return 0
	}

	weight := 1.0 / bleuMaxOrder
	var logSum float64
	for n := 1; n <= bleuMaxOrder; n++ {
		num := float64(numerators[n])
		if numerators[n] == 0 {
			num = bleuEpsilon
		}
		logSum += weight * math.Log(num/float64(denominators[n]))
	}
	return brevityPenalty(len(ref), len(cand)) * math.Exp(logSum)
}

// modifiedPrecision returns the clipped n-gram match count and the candidate
// n-gram total (at least 1).
func modifiedPrecision(ref, cand []string, n int) (int, int) {
	candCounts := ngramCounts(cand, n)
	refCounts := ngramCounts(ref, n)
	matched, total := 0, 0
	for gram, count := range candCounts {
		total += count
		matched += min(count, refCounts[gram])
	}
	return matched, max(1, total)
}

func brevityPenalty(refLen, candLen int) float64 {
	switch {
	case candLen > refLen:
		return 1
	case candLen == 0:
		return 0
	default:
		return math.Exp(1 - float64(refLen)/float64(candLen))
	}
}

func ngramCounts(tokens []string, n int) map[string]int {
	counts := make(map[string]int)
	if n <= 0 || len(tokens) < n {
		return counts
	}
	for i := 0; i+n <= len(tokens); i++ {
		counts[strings.Join(tokens[i:i+n], "\x00")]++
	}
	return counts
}
