// Package preflight provides readiness checks for the external services,
// executables and filesystem paths polyglot depends on.
//
// `polyglot doctor` prints every check. Video jobs call CheckSystemDeps
// before starting so a missing ffmpeg fails fast instead of mid-job.
package preflight
