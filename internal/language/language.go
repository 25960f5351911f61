package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"polyglot/internal/services"
)

// Language is a member of the closed set of supported languages.
type Language int

const (
	// English is the source language of every transcript. It is never a
	// translation target.
	English Language = iota
	Hindi
	Marathi
	Gujarati
	Tamil
	Kannada
	Telugu
	Bengali
	Malayalam
	Punjabi
	Odia
)

type entry struct {
	lang    Language
	code2   string   // ISO 639-1
	code3   string   // ISO 639-2
	display string   // name used as the result key
	aliases []string // extra accepted spellings
}

var languages = []entry{
	{English, "en", "eng", "English", nil},
	{Hindi, "hi", "hin", "Hindi", nil},
	{Marathi, "mr", "mar", "Marathi", nil},
	{Gujarati, "gu", "guj", "Gujarati", nil},
	{Tamil, "ta", "tam", "Tamil", nil},
	{Kannada, "kn", "kan", "Kannada", nil},
	{Telugu, "te", "tel", "Telugu", nil},
	{Bengali, "bn", "ben", "Bengali", []string{"bangla"}},
	{Malayalam, "ml", "mal", "Malayalam", nil},
	{Punjabi, "pa", "pan", "Punjabi", []string{"panjabi"}},
	{Odia, "or", "ori", "Odia", []string{"oriya"}},
}

var byKey map[string]*entry

func init() {
	byKey = make(map[string]*entry, len(languages)*4)
	for i := range languages {
		e := &languages[i]
		byKey[foldKey(e.display)] = e
		byKey[e.code2] = e
		byKey[e.code3] = e
		for _, alias := range e.aliases {
			byKey[foldKey(alias)] = e
		}
	}
}

// foldKey builds a fresh Caser per call because Casers carry state and are
// not safe for concurrent use.
func foldKey(value string) string {
	return cases.Fold().String(strings.TrimSpace(value))
}

func (l Language) entry() *entry {
	if l < English || int(l) >= len(languages) {
		return nil
	}
	return &languages[l]
}

// Name returns the display name, e.g. "Hindi".
func (l Language) Name() string {
	if e := l.entry(); e != nil {
		return e.display
	}
	return fmt.Sprintf("Language(%d)", int(l))
}

// String implements fmt.Stringer.
func (l Language) String() string { return l.Name() }

// Code returns the ISO 639-1 code expected by the translation services.
func (l Language) Code() string {
	if e := l.entry(); e != nil {
		return e.code2
	}
	return ""
}

// ISO3 returns the ISO 639-2 code used in media stream tags.
func (l Language) ISO3() string {
	if e := l.entry(); e != nil {
		return e.code3
	}
	return "und"
}

// IsTarget reports whether the language may be requested as a translation target.
func (l Language) IsTarget() bool {
	return l != English && l.entry() != nil
}

// MarshalText encodes the language as its display name.
func (l Language) MarshalText() ([]byte, error) {
	if l.entry() == nil {
		return nil, fmt.Errorf("language: invalid value %d", int(l))
	}
	return []byte(l.Name()), nil
}

// UnmarshalText decodes a display name or ISO code.
func (l *Language) UnmarshalText(text []byte) error {
	parsed, err := Lookup(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// All returns every supported language in table order, English first.
func All() []Language {
	out := make([]Language, 0, len(languages))
	for _, e := range languages {
		out = append(out, e.lang)
	}
	return out
}

// Targets returns every language that can be requested as a translation target.
func Targets() []Language {
	out := make([]Language, 0, len(languages)-1)
	for _, e := range languages {
		if e.lang.IsTarget() {
			out = append(out, e.lang)
		}
	}
	return out
}

// LookupError reports one or more language names outside the supported table.
type LookupError struct {
	Names  []string
	Reason string
}

func (e *LookupError) Error() string {
	quoted := make([]string, 0, len(e.Names))
	for _, name := range e.Names {
		quoted = append(quoted, fmt.Sprintf("%q", name))
	}
	reason := e.Reason
	if reason == "" {
		reason = "unsupported language"
	}
	return fmt.Sprintf("%s: %s: %s", services.ErrLookup, reason, strings.Join(quoted, ", "))
}

// Is lets errors.Is match LookupError against services.ErrLookup.
func (e *LookupError) Is(target error) bool {
	return target == services.ErrLookup
}

// Lookup resolves a display name, alias, or ISO code. Matching is
// case-insensitive; anything outside the table returns a *LookupError.
func Lookup(name string) (Language, error) {
	if e, ok := byKey[foldKey(name)]; ok {
		return e.lang, nil
	}
	return 0, &LookupError{Names: []string{name}}
}

// LookupTarget is Lookup restricted to translation targets.
func LookupTarget(name string) (Language, error) {
	lang, err := Lookup(name)
	if err != nil {
		return 0, err
	}
	if !lang.IsTarget() {
		return 0, &LookupError{Names: []string{name}, Reason: "not a translation target"}
	}
	return lang, nil
}

// ResolveTargets resolves every requested target name, preserving request
// order and dropping duplicates. All unknown names are reported together so
// the caller can fail before doing any work.
func ResolveTargets(names []string) ([]Language, error) {
	resolved := make([]Language, 0, len(names))
	seen := make(map[Language]struct{}, len(names))
	var unknown, sourceOnly []string
	for _, name := range names {
		lang, err := Lookup(name)
		if err != nil {
			unknown = append(unknown, name)
			continue
		}
		if !lang.IsTarget() {
			sourceOnly = append(sourceOnly, name)
			continue
		}
		if _, dup := seen[lang]; dup {
			continue
		}
		seen[lang] = struct{}{}
		resolved = append(resolved, lang)
	}
	if len(unknown) > 0 {
		return nil, &LookupError{Names: unknown}
	}
	if len(sourceOnly) > 0 {
		return nil, &LookupError{Names: sourceOnly, Reason: "not a translation target"}
	}
	return resolved, nil
}

// ToISO2 converts any recognized language code or name to ISO 639-1.
// Unrecognized 2-letter input passes through; anything else returns "".
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if e, ok := byKey[foldKey(code)]; ok {
		return e.code2
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// ExtractFromTags extracts and normalizes the language from stream metadata tags.
func ExtractFromTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	for _, key := range []string{"language", "LANGUAGE", "Language", "language_ietf", "lang", "LANG"} {
		if value, ok := tags[key]; ok {
			value = strings.TrimSpace(strings.ReplaceAll(value, "\u0000", ""))
			if value != "" {
				return strings.ToLower(value)
			}
		}
	}
	return ""
}
