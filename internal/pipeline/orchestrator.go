package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"polyglot/internal/language"
	"polyglot/internal/logging"
	"polyglot/internal/scoring"
	"polyglot/internal/services"
	"polyglot/internal/workspace"
)

// Extractor pulls the audio track of a video into a waveform inside workDir.
type Extractor interface {
	Extract(ctx context.Context, videoPath, workDir string) (string, error)
}

// Transcriber turns a waveform into text.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath string) (string, error)
}

// PrimaryTranslator produces candidate translations with a generative model.
type PrimaryTranslator interface {
	Translate(ctx context.Context, text string, target language.Language) (string, error)
	TranslateToEnglish(ctx context.Context, text string, source language.Language) (string, error)
}

// ReferenceTranslator produces independent machine translations.
type ReferenceTranslator interface {
	Translate(ctx context.Context, text string, source, target language.Language) (string, error)
	TranslateBack(ctx context.Context, text string, from language.Language) (string, error)
}

// Scorer computes the quality metrics for one language.
type Scorer interface {
	Score(ctx context.Context, original, backTranslation, candidate, reference string) scoring.MetricSet
}

// WorkspaceProvider hands out job-unique scratch directories.
type WorkspaceProvider interface {
	Acquire(ctx context.Context, jobID string) (*workspace.Workspace, error)
}

// Dependencies are the collaborators an Orchestrator drives. Extractor,
// Transcriber and Workspace are only needed by ProcessVideo.
type Dependencies struct {
	Extractor   Extractor
	Transcriber Transcriber
	Primary     PrimaryTranslator
	Reference   ReferenceTranslator
	Scorer      Scorer
	Workspace   WorkspaceProvider
}

// Options tune an Orchestrator.
type Options struct {
	// MaxParallel bounds how many languages are processed at once. Values
	// below 1 mean one at a time, in request order.
	MaxParallel int

	// SourceLanguage is the language of transcripts. The zero value is English.
	SourceLanguage language.Language

	Logger *slog.Logger

	// OnState, when set, is called on every job state transition.
	OnState func(jobID string, state State)

	// JobLogDir, when set, receives a debug-level JSON log per job.
	JobLogDir string
}

// Orchestrator runs transcription, translation and scoring jobs.
type Orchestrator struct {
	deps        Dependencies
	maxParallel int
	source      language.Language
	logger      *slog.Logger
	onState     func(string, State)
	jobLogDir   string
}

// New validates deps and returns an Orchestrator.
func New(deps Dependencies, opts Options) (*Orchestrator, error) {
	var missing []string
	if deps.Primary == nil {
		missing = append(missing, "primary translator")
	}
	if deps.Reference == nil {
		missing = append(missing, "reference translator")
	}
	if deps.Scorer == nil {
		missing = append(missing, "scorer")
	}
	if len(missing) > 0 {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "init", "missing "+strings.Join(missing, ", "), nil)
	}
	return &Orchestrator{
		deps:        deps,
		maxParallel: max(1, opts.MaxParallel),
		source:      opts.SourceLanguage,
		logger:      logging.NewComponentLogger(opts.Logger, "pipeline"),
		onState:     opts.OnState,
		jobLogDir:   strings.TrimSpace(opts.JobLogDir),
	}, nil
}

type job struct {
	ctx    context.Context
	logger *slog.Logger
	result *Result
	logOut io.Closer
}

// TranslateTranscript translates an existing transcript into every requested
// language. Unknown language names fail before any work starts. On a
// canceled context the partially filled Result is returned with ctx.Err().
func (o *Orchestrator) TranslateTranscript(ctx context.Context, languages []string, transcript string) (*Result, error) {
	targets, err := resolve(languages)
	if err != nil {
		return nil, err
	}
	j := o.start(ctx, targets)
	j.result.OriginalTranscript = transcript
	return o.finish(j, o.fanOut(j, Transcript{Text: transcript, SourceLanguage: o.source}, targets))
}

// ProcessVideo extracts and transcribes the audio of videoPath, then
// translates the transcript like TranslateTranscript. Extraction and
// transcription failures are fatal; the returned Result still carries the
// job ID and timestamps so callers can record the failure.
func (o *Orchestrator) ProcessVideo(ctx context.Context, videoPath string, languages []string) (*Result, error) {
	targets, err := resolve(languages)
	if err != nil {
		return nil, err
	}
	videoPath = strings.TrimSpace(videoPath)
	if videoPath == "" {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "process video", "video path is required", nil)
	}
	if o.deps.Extractor == nil || o.deps.Transcriber == nil || o.deps.Workspace == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "process video", "video dependencies not configured", nil)
	}

	j := o.start(ctx, targets)
	o.transition(j, StateTranscribing)
	text, err := o.transcribeVideo(j, videoPath)
	if err != nil {
		return o.finish(j, err)
	}
	j.result.OriginalTranscript = text
	return o.finish(j, o.fanOut(j, Transcript{Text: text, SourceLanguage: o.source}, targets))
}

func resolve(names []string) ([]language.Language, error) {
	if len(names) == 0 {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "resolve languages", "at least one target language is required", nil)
	}
	return language.ResolveTargets(names)
}

func (o *Orchestrator) start(ctx context.Context, targets []language.Language) *job {
	jobID := uuid.NewString()
	ctx = services.WithJobID(ctx, jobID)
	names := make([]string, len(targets))
	for i, lang := range targets {
		names[i] = lang.Name()
	}
	var logOut io.Closer
	if o.jobLogDir != "" {
		handler, closer, err := logging.OpenJobLog(o.jobLogDir, jobID)
		if err != nil {
			logging.WarnWithContext(o.logger, "job log unavailable", "job_log_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "job runs without a dedicated log file"),
			)
		} else {
			ctx = logging.WithJobLog(ctx, handler)
			logOut = closer
		}
	}
	j := &job{
		ctx:    ctx,
		logger: logging.WithContext(ctx, o.logger),
		logOut: logOut,
		result: &Result{
			JobID:          jobID,
			SourceLanguage: o.source,
			Languages:      names,
			Translations:   make(map[string]Translation, len(targets)),
			Failures:       make(map[string]string),
			StartedAt:      time.Now().UTC(),
		},
	}
	o.transition(j, StateReceived)
	j.logger.Info("job received",
		logging.String("languages", strings.Join(names, ", ")),
		logging.Int("max_parallel", o.maxParallel),
	)
	return j
}

func (o *Orchestrator) transition(j *job, state State) {
	j.logger.Debug("job state changed", logging.String("state", string(state)))
	if o.onState != nil {
		o.onState(j.result.JobID, state)
	}
}

func (o *Orchestrator) finish(j *job, err error) (*Result, error) {
	if j.logOut != nil {
		defer j.logOut.Close()
	}
	j.result.FinishedAt = time.Now().UTC()
	elapsed := j.result.FinishedAt.Sub(j.result.StartedAt)
	if err != nil {
		o.transition(j, StateFailed)
		logging.ErrorWithContext(j.logger, "job failed", "job_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, failureHint(err)),
			logging.Duration("elapsed", elapsed),
		)
		return j.result, err
	}
	o.transition(j, StateDone)
	j.logger.Info("job completed",
		logging.Int("translated", len(j.result.Translations)),
		logging.Int("failed", len(j.result.Failures)),
		logging.Duration("elapsed", elapsed),
		logging.String(logging.FieldEventType, "job_completed"),
	)
	return j.result, nil
}

func failureHint(err error) string {
	switch services.FailureKind(err) {
	case services.FailureCanceled:
		return "job was canceled before all languages finished"
	case services.FailureMedia:
		if errors.Is(err, services.ErrExternalTool) {
			return "check that ffmpeg and ffprobe run and the input is a readable video"
		}
		return "check that the input is a readable video with an audio track"
	default:
		if errors.Is(err, services.ErrExternalTool) {
			return "check that the speech tool runs from the command line"
		}
		return "check the speech backend and logs for details"
	}
}

func languageHint(step string, err error) string {
	if errors.Is(err, services.ErrTimeout) {
		return step + " timed out; retry or raise timeout_seconds"
	}
	return "check " + step + " credentials and service status"
}

func (o *Orchestrator) transcribeVideo(j *job, videoPath string) (string, error) {
	ctx := services.WithStage(j.ctx, "transcribing")
	logger := logging.WithContext(ctx, o.logger)

	ws, err := o.deps.Workspace.Acquire(ctx, j.result.JobID)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "transcribing", "acquire workspace", "Unable to create job workspace", err)
	}
	defer func() {
		if err := ws.Release(); err != nil {
			logging.WarnWithContext(logger, "failed to release job workspace",
				"workspace_release_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "run polyglot cleanup"),
				logging.String(logging.FieldImpact, "temporary files left in work_dir"),
			)
		}
	}()

	wavPath, err := o.deps.Extractor.Extract(ctx, videoPath, ws.Dir)
	if err != nil {
		return "", fmt.Errorf("extract audio: %w", err)
	}
	defer func() {
		if err := os.Remove(wavPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Debug("failed to remove waveform", logging.Error(err))
		}
	}()

	started := time.Now()
	text, err := o.deps.Transcriber.Transcribe(ctx, wavPath)
	if err != nil {
		return "", fmt.Errorf("transcribe audio: %w", err)
	}
	logger.Info("transcription completed",
		logging.Int("characters", len(text)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return text, nil
}

func (o *Orchestrator) fanOut(j *job, transcript Transcript, targets []language.Language) error {
	o.transition(j, StateFanningOut)
	ctx := services.WithStage(j.ctx, "translating")

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(o.maxParallel)
	for _, lang := range targets {
		// Go blocks while the pool is full, so this is the boundary between languages.
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tr, reason, err := o.translateOne(ctx, transcript, lang)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			if reason != "" {
				j.result.Failures[lang.Name()] = reason
				return nil
			}
			j.result.Translations[lang.Name()] = tr
			return nil
		})
	}
	err := g.Wait()

	o.transition(j, StateAggregating)
	if err != nil {
		return err
	}
	return ctx.Err()
}

// translateOne returns the finished translation, or a failure reason when the
// language has to be omitted. The error is only set when ctx is done.
func (o *Orchestrator) translateOne(ctx context.Context, transcript Transcript, target language.Language) (Translation, string, error) {
	ctx = services.WithLanguage(ctx, target.Name())
	logger := logging.WithContext(ctx, o.logger)
	omit := func(step string, err error) (Translation, string, error) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Translation{}, "", ctxErr
		}
		logging.WarnWithContext(logger, "language omitted from result",
			"language_failed",
			logging.String("step", step),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, languageHint(step, err)),
			logging.String(logging.FieldImpact, target.Name()+" missing from result"),
		)
		return Translation{}, step + ": " + err.Error(), nil
	}

	candidate, err := o.deps.Primary.Translate(ctx, transcript.Text, target)
	if err != nil {
		return omit("primary translation", err)
	}
	reference, err := o.deps.Reference.Translate(ctx, transcript.Text, transcript.SourceLanguage, target)
	if err != nil {
		return omit("reference translation", err)
	}

	back, source, err := o.backTranslate(ctx, logger, candidate, target)
	if err != nil {
		return omit("back-translation", err)
	}

	metrics := o.deps.Scorer.Score(ctx, transcript.Text, back, candidate, reference)
	logger.Info("language completed",
		logging.String("back_translation_source", source),
		logging.Float64("bleu", metrics.BLEU),
		logging.Float64("rougeL", metrics.ROUGEL),
		logging.Float64("cosine_similarity", metrics.CosineSimilarity),
	)
	return Translation{
		Language:              target,
		Candidate:             candidate,
		Reference:             reference,
		BackTranslation:       back,
		BackTranslationSource: source,
		Metrics:               metrics,
	}, "", nil
}

func (o *Orchestrator) backTranslate(ctx context.Context, logger *slog.Logger, candidate string, target language.Language) (string, string, error) {
	back, refErr := o.deps.Reference.TranslateBack(ctx, candidate, target)
	if refErr == nil {
		return back, BackTranslationReference, nil
	}
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	logging.WarnWithContext(logger, "reference back-translation failed; using primary translator",
		"back_translation_fallback",
		logging.Error(refErr),
		logging.String(logging.FieldErrorHint, "check reference service status"),
		logging.String(logging.FieldImpact, "back-translation produced by the generative model"),
	)
	back, err := o.deps.Primary.TranslateToEnglish(ctx, candidate, target)
	if err != nil {
		return "", "", errors.Join(refErr, err)
	}
	return back, BackTranslationPrimary, nil
}
