package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)

	// Words keep their combining marks so Indic scripts stay whole. Clitics
	// such as 's split off, and every other non-space symbol is its own token.
	wordPattern = regexp.MustCompile(`\p{N}+(?:[.,]\p{N}+)*|[\p{L}\p{N}][\p{L}\p{M}\p{N}]*|'[\p{L}]+|[^\s\p{L}\p{M}\p{N}]`)

	alnumPattern = regexp.MustCompile(`[\p{L}\p{N}][\p{L}\p{M}\p{N}]*`)
)

// NormalizeText applies NFC composition, lowercases, and collapses whitespace
// runs to a single space. Leading and trailing whitespace is kept as one space.
func NormalizeText(text string) string {
	text = norm.NFC.String(text)
	text = strings.ToLower(text)
	return whitespaceRun.ReplaceAllString(text, " ")
}

// CharNGrams returns the overlapping n-rune windows of text in order.
func CharNGrams(text string, n int) []string {
	if n <= 0 {
		return nil
	}
	runes := []rune(text)
	if len(runes) < n {
		return nil
	}
	grams := make([]string, 0, len(runes)-n+1)
	for i := 0; i+n <= len(runes); i++ {
		grams = append(grams, string(runes[i:i+n]))
	}
	return grams
}

// WordTokens lowercases text and splits it into word and punctuation tokens,
// e.g. "The sun's up." -> [the sun 's up .].
func WordTokens(text string) []string {
	text = strings.ToLower(norm.NFC.String(text))
	return wordPattern.FindAllString(text, -1)
}

// AlnumTokens splits text into runs of letters and digits, preserving case.
// Punctuation and symbols are dropped.
func AlnumTokens(text string) []string {
	return alnumPattern.FindAllString(norm.NFC.String(text), -1)
}
