package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"polyglot/internal/config"
	"polyglot/internal/deps"
	"polyglot/internal/history"
	"polyglot/internal/logging"
	"polyglot/internal/pipeline"
	"polyglot/internal/preflight"
	"polyglot/internal/services"
)

type runFlags struct {
	languages []string
	json      bool
	noHistory bool
	showText  bool
	quiet     bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.languages, "language", "l", nil, "Target language (repeatable or comma separated)")
	cmd.Flags().BoolVar(&f.json, "json", false, "Print the result document as JSON")
	cmd.Flags().BoolVar(&f.noHistory, "no-history", false, "Do not record the job in history")
	cmd.Flags().BoolVar(&f.showText, "show-text", false, "Print full transcript and translations")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "Do not print job state changes")
	_ = cmd.MarkFlagRequired("language")
}

func newVideoCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "video <file>",
		Short: "Transcribe a video and translate the transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if unmet := deps.Unmet(preflight.CheckSystemDeps(cmd.Context(), cfg)); len(unmet) > 0 {
				return fmt.Errorf("%s not available: %s (run 'polyglot doctor')", unmet[0].Name, unmet[0].Detail)
			}
			videoPath, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			return runJob(cmd, ctx, &flags, history.KindVideo, videoPath,
				func(runCtx context.Context, orch *pipeline.Orchestrator) (*pipeline.Result, error) {
					return orch.ProcessVideo(runCtx, videoPath, flags.languages)
				})
		},
	}
	flags.register(cmd)
	return cmd
}

func newTextCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags
	var file string
	cmd := &cobra.Command{
		Use:   "text [text|-]",
		Short: "Translate and score a transcript",
		Long:  "Translate and score a transcript given as an argument, read from --file, or read from stdin when the argument is \"-\".",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transcript, source, err := readTranscript(cmd.InOrStdin(), args, file)
			if err != nil {
				return err
			}
			return runJob(cmd, ctx, &flags, history.KindText, source,
				func(runCtx context.Context, orch *pipeline.Orchestrator) (*pipeline.Result, error) {
					return orch.TranslateTranscript(runCtx, flags.languages, transcript)
				})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the transcript from a file")
	return cmd
}

// readTranscript returns the transcript text and a short description of
// where it came from for history.
func readTranscript(stdin io.Reader, args []string, file string) (string, string, error) {
	var text, source string
	switch {
	case file != "" && len(args) > 0:
		return "", "", errors.New("pass either a transcript argument or --file, not both")
	case file != "":
		path, err := config.ExpandPath(file)
		if err != nil {
			return "", "", err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", "", fmt.Errorf("read transcript: %w", err)
		}
		text, source = string(data), path
	case len(args) == 1 && args[0] == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		text, source = string(data), "stdin"
	case len(args) == 1:
		text, source = args[0], "argument"
	default:
		return "", "", errors.New("transcript text, --file, or - for stdin is required")
	}
	if strings.TrimSpace(text) == "" {
		return "", "", errors.New("transcript is empty")
	}
	return text, source, nil
}

type jobRunner func(ctx context.Context, orch *pipeline.Orchestrator) (*pipeline.Result, error)

func runJob(cmd *cobra.Command, ctx *commandContext, flags *runFlags, kind, source string, run jobRunner) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	onState := func(jobID string, state pipeline.State) {
		if !flags.quiet && !flags.json {
			fmt.Fprintf(stderr, "[%s] %s\n", shortID(jobID), state)
		}
	}
	orch, err := buildOrchestrator(cfg, logger, kind == history.KindVideo, onState)
	if err != nil {
		return err
	}

	result, jobErr := run(cmd.Context(), orch)
	if result == nil {
		return jobErr
	}

	if !flags.noHistory {
		recordHistory(cfg, logger, kind, source, result, jobErr)
	}

	if flags.json {
		if err := writeJSON(cmd, result); err != nil {
			return err
		}
	} else {
		resultView{showText: flags.showText}.write(cmd.OutOrStdout(), result)
	}

	if jobErr != nil {
		if services.FailureKind(jobErr) == services.FailureCanceled {
			return context.Canceled
		}
		return jobErr
	}
	return nil
}

// recordHistory stores the job outcome. History is best effort; a failure to
// record never changes the command result.
func recordHistory(cfg *config.Config, logger *slog.Logger, kind, source string, result *pipeline.Result, jobErr error) {
	store, err := history.OpenFromConfig(cfg)
	if err == nil {
		defer store.Close()
		// The job context may already be canceled; recording still needs to run.
		_, err = store.Record(context.Background(), kind, source, result, jobErr)
	}
	if err != nil {
		logging.WarnWithContext(logger, "history record failed", "history_record_failed",
			logging.String(logging.FieldJobID, result.JobID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "job is missing from polyglot history"),
		)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
