package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"polyglot/internal/logging"
)

const (
	// LockFileName is the lock file shared by running jobs and held
	// exclusively by cleanup.
	LockFileName = ".workspace.lock"
	jobDirPrefix = "job-"
	lockRetry    = 100 * time.Millisecond
)

// ErrBusy reports that cleanup could not run because a job holds the workspace.
var ErrBusy = errors.New("workspace in use by a running job")

// Manager hands out job-unique directories under a root directory.
type Manager struct {
	root   string
	keep   bool
	logger *slog.Logger
}

// NewManager constructs a Manager rooted at root. When keep is true released
// workspaces stay on disk for inspection.
func NewManager(root string, keep bool, logger *slog.Logger) *Manager {
	return &Manager{
		root:   strings.TrimSpace(root),
		keep:   keep,
		logger: logging.NewComponentLogger(logger, "workspace"),
	}
}

// Root returns the directory holding job workspaces.
func (m *Manager) Root() string {
	return m.root
}

func (m *Manager) lockPath() string {
	return filepath.Join(m.root, LockFileName)
}

// Workspace is a job directory plus the shared lock that protects it from cleanup.
type Workspace struct {
	JobID string
	Dir   string

	lock   *flock.Flock
	keep   bool
	logger *slog.Logger
}

// Acquire takes the shared workspace lock and creates <root>/job-<jobID>.
// It waits while cleanup holds the exclusive lock.
func (m *Manager) Acquire(ctx context.Context, jobID string) (*Workspace, error) {
	jobID = strings.TrimSpace(jobID)
	if m.root == "" {
		return nil, errors.New("workspace: root directory not configured")
	}
	if jobID == "" || strings.ContainsAny(jobID, `/\`) {
		return nil, fmt.Errorf("workspace: invalid job id %q", jobID)
	}
	if err := os.MkdirAll(m.root, 0o755); err != nil {
		return nil, fmt.Errorf("workspace: create root: %w", err)
	}

	lock := flock.New(m.lockPath())
	ok, err := lock.TryRLockContext(ctx, lockRetry)
	if err != nil {
		return nil, fmt.Errorf("workspace: acquire shared lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("workspace: acquire shared lock: %w", ErrBusy)
	}

	dir := filepath.Join(m.root, jobDirPrefix+jobID)
	if err := os.Mkdir(dir, 0o755); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("workspace: create job directory: %w", err)
	}
	m.logger.Debug("workspace acquired", logging.String(logging.FieldJobID, jobID), logging.String("path", dir))
	return &Workspace{JobID: jobID, Dir: dir, lock: lock, keep: m.keep, logger: m.logger}, nil
}

// Release removes the job directory (unless the manager keeps workspaces)
// and drops the shared lock. It is safe to call more than once.
func (w *Workspace) Release() error {
	if w == nil || w.lock == nil {
		return nil
	}
	var errs []error
	if w.keep {
		w.logger.Info("keeping job workspace", logging.String(logging.FieldJobID, w.JobID), logging.String("path", w.Dir))
	} else if err := os.RemoveAll(w.Dir); err != nil {
		errs = append(errs, fmt.Errorf("workspace: remove %s: %w", w.Dir, err))
	}
	if err := w.lock.Unlock(); err != nil {
		errs = append(errs, fmt.Errorf("workspace: release lock: %w", err))
	}
	w.lock = nil
	return errors.Join(errs...)
}

// PruneResult contains the outcome of a stale workspace cleanup.
type PruneResult struct {
	Removed []string
	Errors  []PruneError
}

// PruneError pairs a directory path with its cleanup error.
type PruneError struct {
	Path  string
	Error error
}

// Prune removes job directories older than maxAge. It takes the exclusive
// workspace lock without waiting and returns ErrBusy when a job is running.
func (m *Manager) Prune(ctx context.Context, maxAge time.Duration) (PruneResult, error) {
	var result PruneResult
	if m.root == "" {
		return result, nil
	}
	if _, err := os.Stat(m.root); errors.Is(err, os.ErrNotExist) {
		return result, nil
	}

	lock := flock.New(m.lockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return result, fmt.Errorf("workspace: acquire exclusive lock: %w", err)
	}
	if !ok {
		return result, ErrBusy
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			m.logger.Warn("failed to release workspace lock",
				logging.Error(err),
				logging.String(logging.FieldEventType, "workspace_unlock_failed"),
				logging.String(logging.FieldErrorHint, "remove "+m.lockPath()+" if jobs cannot start"),
			)
		}
	}()

	dirs, err := m.List()
	if err != nil {
		return result, err
	}
	cutoff := time.Now().Add(-maxAge)
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !dir.ModTime.Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(dir.Path); err != nil {
			result.Errors = append(result.Errors, PruneError{Path: dir.Path, Error: err})
			logging.WarnWithContext(m.logger, "failed to remove stale workspace",
				"workspace_cleanup_failed",
				logging.String("path", dir.Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check work_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			continue
		}
		result.Removed = append(result.Removed, dir.Path)
		m.logger.Info("removed stale workspace",
			logging.String("path", dir.Path),
			logging.Duration("age", time.Since(dir.ModTime)),
			logging.String(logging.FieldEventType, "workspace_cleanup"),
		)
	}
	return result, nil
}

// DirInfo contains metadata about a job directory.
type DirInfo struct {
	Name    string
	Path    string
	ModTime time.Time
	Size    int64
}

// List returns the job directories under the root.
func (m *Manager) List() ([]DirInfo, error) {
	if m.root == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(m.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var dirs []DirInfo
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), jobDirPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(m.root, entry.Name())
		size, _ := dirSize(path)
		dirs = append(dirs, DirInfo{
			Name:    entry.Name(),
			Path:    path,
			ModTime: info.ModTime(),
			Size:    size,
		})
	}
	return dirs, nil
}

func dirSize(path string) (int64, error) {
	var size int64
	err := filepath.WalkDir(path, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			size += info.Size()
		}
		return nil
	})
	return size, err
}
