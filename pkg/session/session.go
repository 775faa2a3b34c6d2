// Package session manages the on-disk layout for scan runs: the session
// root, its subdirectories, per-run directories and the lock that keeps
// concurrent invocations from trampling each other's artifacts.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

var defaultSubdirs = []string{
	"scans",
	"reports",
	"logs",
}

// ErrLocked is returned when another process already holds the session
// lock.
var ErrLocked = errors.New("session directory is locked by another process")

// Prepare ensures the session root and required subdirectories exist.
// It returns the absolute path to the session root that was prepared.
func Prepare(root string) (string, error) {
	if root == "" {
		var err error
		root, err = defaultRoot()
		if err != nil {
			return "", err
		}
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve session path: %w", err)
	}

	if err := os.MkdirAll(absRoot, 0o750); err != nil {
		return "", fmt.Errorf("create session root: %w", err)
	}

	for _, sub := range defaultSubdirs {
		subPath := filepath.Join(absRoot, sub)
		if err := os.MkdirAll(subPath, 0o750); err != nil {
			return "", fmt.Errorf("create session subdir %q: %w", sub, err)
		}
	}

	return absRoot, nil
}

// Run is one scan invocation: a unique ID, its directory under scans/,
// and the held session lock. Callers must Close it when done.
type Run struct {
	ID        string
	Root      string
	Dir       string
	StartedAt time.Time

	lock *flock.Flock
}

// Begin prepares the session root, acquires the session lock and creates
// a fresh run directory. It fails with ErrLocked when another hostscout
// process owns the session.
func Begin(root string) (*Run, error) {
	absRoot, err := Prepare(root)
	if err != nil {
		return nil, err
	}

	lock := flock.New(filepath.Join(absRoot, ".lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire session lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}

	id := uuid.NewString()
	dir := filepath.Join(absRoot, "scans", id)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("create run directory: %w", err)
	}

	return &Run{
		ID:        id,
		Root:      absRoot,
		Dir:       dir,
		StartedAt: time.Now().UTC(),
		lock:      lock,
	}, nil
}

// Close releases the session lock.
func (r *Run) Close() error {
	if r.lock == nil {
		return nil
	}
	err := r.lock.Unlock()
	r.lock = nil
	return err
}

// ReportsDir returns the session-level reports directory.
func (r *Run) ReportsDir() string {
	return filepath.Join(r.Root, "reports")
}

func defaultRoot() (string, error) {
	if dir := os.Getenv("HOSTSCOUT_SESSION_DIR"); dir != "" {
		return dir, nil
	}

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support", "Hostscout"), nil
	case "windows":
		if appData := os.Getenv("AppData"); appData != "" {
			return filepath.Join(appData, "Hostscout"), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, "AppData", "Roaming", "Hostscout"), nil
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "hostscout"), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if home == "" {
			return "", errors.New("cannot determine session directory")
		}
		return filepath.Join(home, ".local", "share", "hostscout"), nil
	}
}

// Subdirectories returns the list of default session subdirectories.
func Subdirectories() []string {
	subs := make([]string, len(defaultSubdirs))
	copy(subs, defaultSubdirs)
	return subs
}
