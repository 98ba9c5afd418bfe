// Package flock guards an output directory against two forge runs writing
// into it at the same time.
//
// Usage:
//
//	lock, err := flock.Acquire(dir)
//	if err != nil {
//	    // another run holds dir
//	}
//	defer lock.Release()
package flock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// LockFileName is the lock file created inside a locked directory.
const LockFileName = ".forge.lock"

// ErrLocked indicates the directory is held by another run.
var ErrLocked = errors.New("output directory is locked by another forge run")

// Lock is an exclusive hold on a directory.
type Lock struct {
	file *os.File
	path string
}

// Acquire creates dir if needed and takes its lock without blocking.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	path := filepath.Join(dir, LockFileName)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) //nolint:gosec // fixed name under the output directory
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := exclusive(f.Fd()); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}
	return &Lock{file: f, path: path}, nil
}

// Release drops the lock and removes the lock file. It is safe to call more
// than once.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil

	unlockErr := unlock(f.Fd())
	// Removed while still held.
	removeErr := os.Remove(l.path)
	closeErr := f.Close()
	return errors.Join(unlockErr, removeErr, closeErr)
}
