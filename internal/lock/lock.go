// Package lock serialises simdeck processes that operate on the same target.
package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// ErrLocked is returned by TryAcquire when another process holds the lock.
var ErrLocked = errors.New("target is locked by another process")

const pollInterval = 100 * time.Millisecond

// TargetLock is an exclusive flock(2) on <dir>/<udid>.lock. The file holds the
// owner's PID. Keep the lock alive by keeping the file descriptor open.
type TargetLock struct {
	path string
	f    *os.File
}

// Path returns the lock file for udid under dir.
func Path(dir, udid string) string {
	return filepath.Join(dir, sanitize(udid)+".lock")
}

func sanitize(udid string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == filepath.Separator || r == 0 {
			return '_'
		}
		return r
	}, udid)
}

// TryAcquire takes the lock for udid without waiting.
func TryAcquire(dir, udid string) (*TargetLock, error) {
	if udid == "" {
		return nil, fmt.Errorf("udid is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	path := Path(dir, udid)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return nil, fmt.Errorf("%s: %w", udid, ErrLocked)
		}
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	l := &TargetLock{path: path, f: f}
	if err := l.writePID(); err != nil {
		_ = l.Release()
		return nil, err
	}
	return l, nil
}

// Acquire waits for the lock on udid until ctx is done.
func Acquire(ctx context.Context, dir, udid string) (*TargetLock, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		l, err := TryAcquire(dir, udid)
		if err == nil || !errors.Is(err, ErrLocked) {
			return l, err
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait for lock on %s: %w", udid, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *TargetLock) writePID() error {
	if err := l.f.Truncate(0); err != nil {
		return fmt.Errorf("truncate lock file: %w", err)
	}
	if _, err := l.f.Seek(0, 0); err != nil {
		return fmt.Errorf("seek lock file: %w", err)
	}
	if _, err := fmt.Fprintf(l.f, "%d\n", os.Getpid()); err != nil {
		return fmt.Errorf("write pid: %w", err)
	}
	if err := l.f.Sync(); err != nil {
		return fmt.Errorf("sync lock file: %w", err)
	}
	return nil
}

func (l *TargetLock) Path() string { return l.path }

// Release unlocks and closes the file. It is safe to call more than once.
func (l *TargetLock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	_ = syscall.Flock(int(l.f.Fd()), syscall.LOCK_UN)
	err := l.f.Close()
	l.f = nil
	return err
}
