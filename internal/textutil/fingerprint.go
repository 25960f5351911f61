package textutil

import (
	"math"
)

// Fingerprint is a weighted term vector used for cosine comparison.
type Fingerprint struct {
	terms map[string]float64
	norm  float64
}

// NewFingerprint counts terms into a raw term-frequency fingerprint.
// Returns nil when terms is empty.
func NewFingerprint(terms []string) *Fingerprint {
	if len(terms) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(terms))
	for _, term := range terms {
		counts[term]++
	}
	return newWeighted(counts)
}

// NewCharFingerprint builds a term-frequency fingerprint over the character
// n-grams of NormalizeText(text). Returns nil when the text is shorter than n.
func NewCharFingerprint(text string, n int) *Fingerprint {
	return NewFingerprint(CharNGrams(NormalizeText(text), n))
}

func newWeighted(weights map[string]float64) *Fingerprint {
	var norm float64
	for term, w := range weights {
		if w == 0 {
			delete(weights, term)
			continue
		}
		norm += w * w
	}
	if len(weights) == 0 {
		return nil
	}
	return &Fingerprint{terms: weights, norm: math.Sqrt(norm)}
}

// WithIDF returns a new Fingerprint with each term's weight multiplied by its
// IDF. Terms absent from idf keep their weight.
func (f *Fingerprint) WithIDF(idf map[string]float64) *Fingerprint {
	if f == nil || len(idf) == 0 {
		return f
	}
	weighted := make(map[string]float64, len(f.terms))
	for term, count := range f.terms {
		w := count
		if v, ok := idf[term]; ok {
			w *= v
		}
		weighted[term] = w
	}
	return newWeighted(weighted)
}

// Corpus collects document frequency statistics for IDF computation.
type Corpus struct {
	docCount int
	docFreq  map[string]int
}

// NewCorpus creates an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{docFreq: make(map[string]int)}
}

// Add registers a fingerprint's distinct terms. A nil fingerprint still counts
// as a document.
func (c *Corpus) Add(fp *Fingerprint) {
	if c == nil {
		return
	}
	c.docCount++
	if fp == nil {
		return
	}
	for term := range fp.terms {
		c.docFreq[term]++
	}
}

// IDF computes smoothed inverse document frequency weights,
// ln((1+N)/(1+df)) + 1, so terms present in every document keep weight 1.
func (c *Corpus) IDF() map[string]float64 {
	if c == nil || c.docCount == 0 {
		return nil
	}
	idf := make(map[string]float64, len(c.docFreq))
	n := float64(c.docCount)
	for term, df := range c.docFreq {
		idf[term] = math.Log((1+n)/(1+float64(df))) + 1
	}
	return idf
}
