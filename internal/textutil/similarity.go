package textutil

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	small, large := a, b
	if len(large.terms) < len(small.terms) {
		small, large = large, small
	}
	var dot float64
	for term, w := range small.terms {
		if other, ok := large.terms[term]; ok {
			dot += w * other
		}
	}
	if dot == 0 {
		return 0
	}
	sim := dot / (a.norm * b.norm)
	if sim > 1 {
		sim = 1
	}
	return sim
}

// CharTFIDFCosine vectorizes exactly two texts as TF-IDF weighted character
// n-grams (IDF fitted on the pair) and returns their cosine similarity.
func CharTFIDFCosine(a, b string, n int) float64 {
	fa := NewCharFingerprint(a, n)
	fb := NewCharFingerprint(b, n)
	if fa == nil || fb == nil {
		return 0
	}
	corpus := NewCorpus()
	corpus.Add(fa)
	corpus.Add(fb)
	idf := corpus.IDF()
	return CosineSimilarity(fa.WithIDF(idf), fb.WithIDF(idf))
}
