// Package language holds the closed table of supported languages.
//
// English is the transcript source; the ten Indian languages are the
// translation targets. Lookups accept display names, common aliases, and
// ISO 639-1/639-2 codes, compared with Unicode case folding. Unknown names
// produce a *LookupError that matches services.ErrLookup.
package language
