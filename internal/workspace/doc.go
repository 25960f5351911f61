// Package workspace manages per-job scratch directories.
//
// Every job gets <work_dir>/job-<id> and holds a shared flock on
// <work_dir>/.workspace.lock while it runs. Prune takes the same lock
// exclusively and without waiting, so stale-directory cleanup never removes
// files from under a running job.
package workspace
