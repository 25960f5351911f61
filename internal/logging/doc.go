// Package logging assembles structured slog loggers and formatting helpers used
// across polyglot.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with job IDs, stages, and target languages. A per-job JSON log can be
// teed onto any logger, and a no-op logger is provided for tests.
package logging
