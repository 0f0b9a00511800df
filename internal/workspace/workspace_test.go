package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sceneforge/internal/testsupport"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := New(filepath.Join(t.TempDir(), "work"))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

func TestNewScopeCreatesUniqueDirectories(t *testing.T) {
	m := newManager(t)

	first, err := m.NewScope("compose")
	if err != nil {
		t.Fatalf("first scope: %v", err)
	}
	second, err := m.NewScope("compose")
	if err != nil {
		t.Fatalf("second scope: %v", err)
	}

	if first.Path() == second.Path() {
		t.Fatalf("scopes collided at %s", first.Path())
	}
	for _, scope := range []*Scope{first, second} {
		if !strings.HasPrefix(filepath.Base(scope.Path()), "compose_") {
			t.Fatalf("unexpected scope name %s", scope.Path())
		}
		if info, err := os.Stat(scope.Path()); err != nil || !info.IsDir() {
			t.Fatalf("scope missing: %v", err)
		}
	}
}

func TestScopeCloseRemovesEverything(t *testing.T) {
	m := newManager(t)

	scope, err := m.NewScope("compose")
	if err != nil {
		t.Fatalf("scope: %v", err)
	}
	testsupport.WriteFile(t, scope.File("clip_0.mp4"), 128)

	path := scope.Path()
	if err := scope.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("scope still present after close: %v", err)
	}
	// Second close is a no-op.
	if err := scope.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestSweepRemovesOnlyStaleScopes(t *testing.T) {
	m := newManager(t)

	stale, err := m.NewScope("compose")
	if err != nil {
		t.Fatalf("stale scope: %v", err)
	}
	fresh, err := m.NewScope("compose")
	if err != nil {
		t.Fatalf("fresh scope: %v", err)
	}

	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(stale.Path(), old, old); err != nil {
		t.Fatalf("age scope: %v", err)
	}

	result := m.Sweep(context.Background(), 24*time.Hour)
	if result.Skipped {
		t.Fatal("sweep unexpectedly skipped")
	}
	if len(result.Errors) != 0 {
		t.Fatalf("sweep errors: %v", result.Errors)
	}
	if len(result.Removed) != 1 || result.Removed[0] != stale.Path() {
		t.Fatalf("unexpected removals %v", result.Removed)
	}
	if _, err := os.Stat(fresh.Path()); err != nil {
		t.Fatalf("fresh scope removed: %v", err)
	}
}

func TestListScopesReportsMetadata(t *testing.T) {
	m := newManager(t)

	scope, err := m.NewScope("compose")
	if err != nil {
		t.Fatalf("scope: %v", err)
	}
	testsupport.WriteFile(t, scope.File("artifact.bin"), 2048)

	scopes, err := m.ListScopes()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(scopes) != 1 {
		t.Fatalf("unexpected scope count %d", len(scopes))
	}
	if scopes[0].Size != 2048 {
		t.Fatalf("unexpected size %d", scopes[0].Size)
	}
	if scopes[0].Path != scope.Path() {
		t.Fatalf("unexpected path %s", scopes[0].Path)
	}
}

func TestPreflightAcceptsWritableRoot(t *testing.T) {
	m := newManager(t)
	if err := m.Preflight(0); err != nil {
		t.Fatalf("preflight: %v", err)
	}
}

func TestNewRejectsEmptyRoot(t *testing.T) {
	if _, err := New("   "); err == nil {
		t.Fatal("expected error for empty root")
	}
}
