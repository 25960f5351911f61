// Package services defines shared utilities consumed by the pipeline stages and
// the external integrations they call.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, stage names, target languages, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper so callers can decide
//     whether a failure is fatal to the job, drops one language, or only zeroes
//     a metric.
//
// Subpackages hold the clients for the speech, translation, and reference
// services.
package services
