package workspace

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"sceneforge/internal/logging"
)

const sweepLockName = ".sweep.lock"

// SweepResult contains the outcome of a stale scope sweep.
type SweepResult struct {
	Removed []string
	Errors  []SweepError
	Skipped bool
}

// SweepError pairs a directory path with its removal error.
type SweepError struct {
	Path  string
	Error error
}

// Sweep removes scopes older than maxAge. The sweep is guarded by a file
// lock so concurrent processes never race over the same directories; when
// another sweep holds the lock the result is marked Skipped.
func (m *Manager) Sweep(ctx context.Context, maxAge time.Duration) SweepResult {
	result := SweepResult{}

	lock := flock.New(filepath.Join(m.root, sweepLockName))
	locked, err := lock.TryLock()
	if err != nil {
		result.Errors = append(result.Errors, SweepError{Path: lock.Path(), Error: err})
		return result
	}
	if !locked {
		result.Skipped = true
		m.logger.Debug("sweep already running elsewhere", logging.String("root", m.root))
		return result
	}
	defer func() {
		_ = lock.Unlock()
	}()

	entries, err := os.ReadDir(m.root)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, SweepError{Path: m.root, Error: err})
		}
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if ctx.Err() != nil {
			return result
		}
		if !entry.IsDir() {
			continue
		}

		dirPath := filepath.Join(m.root, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, SweepError{Path: dirPath, Error: err})
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		if err := os.RemoveAll(dirPath); err != nil {
			result.Errors = append(result.Errors, SweepError{Path: dirPath, Error: err})
			m.logger.Warn("failed to remove stale scope",
				logging.String("path", dirPath),
				logging.Error(err),
			)
			continue
		}
		result.Removed = append(result.Removed, dirPath)
		m.logger.Info("removed stale scope",
			logging.String("path", dirPath),
			logging.Duration("age", time.Since(info.ModTime())),
		)
	}

	return result
}

// ScopeInfo describes one scratch directory for reporting.
type ScopeInfo struct {
	Name    string
	Path    string
	ModTime time.Time
	Size    int64
}

// ListScopes returns every scratch directory under the root with its
// metadata, best effort.
func (m *Manager) ListScopes() ([]ScopeInfo, error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var scopes []ScopeInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		dirPath := filepath.Join(m.root, entry.Name())
		size, _ := dirSize(dirPath)
		scopes = append(scopes, ScopeInfo{
			Name:    entry.Name(),
			Path:    dirPath,
			ModTime: info.ModTime(),
			Size:    size,
		})
	}
	return scopes, nil
}

func dirSize(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}
