// Package textutil provides the text processing shared by the quality metrics.
//
// It covers Unicode normalization, word and character n-gram tokenization, and
// TF-IDF weighted fingerprints compared by cosine similarity. Character
// n-grams are used for cross-script comparison because they do not depend on
// whitespace-delimited words.
package textutil
