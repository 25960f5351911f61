// Package translate holds the two translation paths.
//
// Primary asks a generative model for the candidate translation and, as a
// fallback, for back-translations into English. Reference calls an
// independent machine translation service whose output serves as ground
// truth for the similarity metric and as the preferred back-translator.
// Both wrap failures in the services error markers so callers can drop a
// single language without failing the job.
package translate
