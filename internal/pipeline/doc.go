// Package pipeline is the entry point for translation jobs.
//
// An Orchestrator takes a video (ProcessVideo) or an existing transcript
// (TranslateTranscript) and a list of target language names. Names are
// resolved before any work starts. For every language it requests a
// candidate from the primary translator and a reference from the machine
// translation service, back-translates the candidate into English (falling
// back to the primary translator), and scores the result.
//
// A language that fails is omitted from Result.Translations and named in
// Result.Failures; it never fails the job. Extraction and transcription
// errors do. Languages run one at a time in request order unless
// Options.MaxParallel allows more.
package pipeline
