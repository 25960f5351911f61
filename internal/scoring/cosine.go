package scoring

import (
	"math"

	"polyglot/internal/services"
	"polyglot/internal/textutil"
)

// cosineGramSize is the character n-gram length used for cross-script comparison.
const cosineGramSize = 3

// Cosine returns the TF-IDF weighted character trigram cosine similarity
// between two texts. The vocabulary and IDF are fitted on the pair only.
func Cosine(candidate, reference string) (float64, error) {
	if len(textutil.CharNGrams(textutil.NormalizeText(candidate), cosineGramSize)) == 0 {
		return 0, services.Wrap(services.ErrScoring, "cosine", "", "candidate too short for character trigrams", nil)
	}
	if len(textutil.CharNGrams(textutil.NormalizeText(reference), cosineGramSize)) == 0 {
		return 0, services.Wrap(services.ErrScoring, "cosine", "", "reference too short for character trigrams", nil)
	}
	sim := textutil.CharTFIDFCosine(candidate, reference, cosineGramSize)
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0, services.Wrap(services.ErrScoring, "cosine", "", "similarity is not finite", nil)
	}
	return sim, nil
}
