// Package history records finished translation jobs in SQLite.
//
// The pipeline itself keeps nothing between runs; the CLI hands each Result
// (and the error, if the job failed) to Store.Record. The full Result is kept
// as JSON next to a few summary columns used by `polyglot history list`.
//
// The schema is versioned. A database created by another schema version is
// rejected with ErrSchemaMismatch and has to be cleared.
package history
