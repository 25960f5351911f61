package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"polyglot/internal/config"
	"polyglot/internal/pipeline"
	"polyglot/internal/services"
)

// Job kinds.
const (
	KindVideo = "video"
	KindText  = "text"
)

// Job statuses.
const (
	StatusDone   = "done"
	StatusFailed = "failed"
)

// Entry is one recorded job.
type Entry struct {
	JobID       string           `json:"job_id"`
	Kind        string           `json:"kind"`
	Source      string           `json:"source"`
	Languages   []string         `json:"languages"`
	Status      string           `json:"status"`
	FailureKind string           `json:"failure_kind,omitempty"`
	Error       string           `json:"error,omitempty"`
	Translated  int              `json:"translated"`
	Result      *pipeline.Result `json:"result,omitempty"`
	StartedAt   time.Time        `json:"started_at"`
	FinishedAt  time.Time        `json:"finished_at"`
}

// Store persists finished jobs in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// timeLayout is fixed width so finished_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const entryColumns = "job_id, kind, source, languages, status, failure_kind, error_message, translated, result_json, started_at, finished_at"

// OpenFromConfig creates the configured directories and opens the history database.
func OpenFromConfig(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return Open(cfg.Paths.HistoryDB)
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "history", "open", "history database path not configured", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Record stores a finished job. jobErr is the error the pipeline returned,
// if any; it decides the status and failure kind.
func (s *Store) Record(ctx context.Context, kind, source string, result *pipeline.Result, jobErr error) (*Entry, error) {
	if result == nil || strings.TrimSpace(result.JobID) == "" {
		return nil, errors.New("record history: result without job id")
	}
	entry := &Entry{
		JobID:       result.JobID,
		Kind:        kind,
		Source:      source,
		Languages:   append([]string(nil), result.Languages...),
		Status:      StatusDone,
		FailureKind: services.FailureKind(jobErr),
		Translated:  len(result.Translations),
		Result:      result,
		StartedAt:   result.StartedAt.UTC(),
		FinishedAt:  result.FinishedAt.UTC(),
	}
	if jobErr != nil {
		entry.Status = StatusFailed
		entry.Error = jobErr.Error()
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	err = s.execWithRetry(ctx,
		`INSERT INTO jobs (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.JobID,
		entry.Kind,
		nullableString(entry.Source),
		strings.Join(entry.Languages, ","),
		entry.Status,
		nullableString(entry.FailureKind),
		nullableString(entry.Error),
		entry.Translated,
		string(payload),
		entry.StartedAt.Format(timeLayout),
		entry.FinishedAt.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return entry, nil
}

// List returns up to limit jobs, most recent first. A limit <= 0 returns all.
// Entries carry their summary columns only; use Get for the full result.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM jobs ORDER BY finished_at DESC, job_id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows, false)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// Get fetches a job with its full result. It returns nil when the job is unknown.
func (s *Store) Get(ctx context.Context, jobID string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM jobs WHERE job_id = ?`, strings.TrimSpace(jobID))
	entry, err := scanEntry(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return entry, nil
}

// Clear removes every recorded job and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM jobs`)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("clear jobs: %w", err)
	}
	return removed, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }, withResult bool) (*Entry, error) {
	var (
		entry       Entry
		source      sql.NullString
		languages   string
		failureKind sql.NullString
		errMessage  sql.NullString
		resultJSON  sql.NullString
		startedRaw  string
		finishedRaw string
	)
	if err := scanner.Scan(
		&entry.JobID,
		&entry.Kind,
		&source,
		&languages,
		&entry.Status,
		&failureKind,
		&errMessage,
		&entry.Translated,
		&resultJSON,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}
	entry.Source = source.String
	entry.FailureKind = failureKind.String
	entry.Error = errMessage.String
	if languages != "" {
		entry.Languages = strings.Split(languages, ",")
	}
	entry.StartedAt = parseTime(startedRaw)
	entry.FinishedAt = parseTime(finishedRaw)

	if withResult && resultJSON.Valid && resultJSON.String != "" {
		var result pipeline.Result
		if err := json.Unmarshal([]byte(resultJSON.String), &result); err != nil {
			return nil, fmt.Errorf("decode result for %s: %w", entry.JobID, err)
		}
		entry.Result = &result
	}
	return &entry, nil
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}
