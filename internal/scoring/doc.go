// Package scoring computes translation quality metrics.
//
// BLEU and ROUGE compare the original transcript with its English
// back-translation. Cosine similarity compares the primary translation with
// the reference translation over character trigrams, so it works for any
// script.
package scoring
