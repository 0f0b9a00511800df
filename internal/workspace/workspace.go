package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"sceneforge/internal/logging"
	"sceneforge/internal/services"
)

// Option configures the manager.
type Option func(*Manager)

// WithLogger attaches a logger for scope lifecycle diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logging.NewComponentLogger(logger, "workspace")
		}
	}
}

// Manager owns the workspace root and hands out scoped scratch directories.
type Manager struct {
	root   string
	logger *slog.Logger
}

// New constructs a manager rooted at root, creating the directory if needed.
func New(root string, opts ...Option) (*Manager, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, services.Wrap(services.ErrConfiguration, "workspace", "new", "workspace root required", nil)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workspace", "new", "create workspace root", err)
	}
	m := &Manager{root: root, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Root returns the workspace root directory.
func (m *Manager) Root() string {
	return m.root
}

// Scope is one run's private scratch directory.
type Scope struct {
	path    string
	manager *Manager
}

// NewScope creates a uniquely named scratch directory. Names combine the
// prefix with a timestamp and a random suffix so concurrent runs never
// collide and stale directories remain attributable.
func (m *Manager) NewScope(prefix string) (*Scope, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "run"
	}
	name := fmt.Sprintf("%s_%s_%s", prefix, time.Now().UTC().Format("20060102T150405"), uuid.NewString()[:8])
	path := filepath.Join(m.root, name)
	if err := os.Mkdir(path, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workspace", "new_scope", "create scratch directory", err)
	}
	m.logger.Debug("scope created", logging.String("path", path))
	return &Scope{path: path, manager: m}, nil
}

// Path returns the scope's directory.
func (s *Scope) Path() string {
	return s.path
}

// File returns the path for a named artifact inside the scope.
func (s *Scope) File(name string) string {
	return filepath.Join(s.path, name)
}

// Close removes the scope and everything in it. Safe to call more than once.
func (s *Scope) Close() error {
	if s == nil || s.path == "" {
		return nil
	}
	err := os.RemoveAll(s.path)
	if err == nil {
		s.manager.logger.Debug("scope removed", logging.String("path", s.path))
		s.path = ""
	}
	return err
}
