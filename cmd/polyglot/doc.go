// Package main hosts the polyglot CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into pipeline jobs
// (video, text), history queries, workspace cleanup, and environment checks.
// Configuration loading and logger setup happen once per invocation in
// commandContext; buildOrchestrator assembles the translation, scoring and
// speech services from the loaded config.
//
// Results go to stdout (a table by default, the result document with --json)
// while job state updates and logs go to stderr.
package main
