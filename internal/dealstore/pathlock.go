package dealstore

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/domoslabs/underwriter/pkg/errors"
)

// PathLocker serializes writers per canonical deal path. It combines an
// in-process mutex with an advisory lock file so concurrent processes on the
// same filesystem also see the lock.
type PathLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
	wait  time.Duration
}

const lockPollInterval = 50 * time.Millisecond

func NewPathLocker(wait time.Duration) *PathLocker {
	if wait <= 0 {
		wait = 5 * time.Second
	}
	return &PathLocker{locks: map[string]*sync.Mutex{}, wait: wait}
}

func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return filepath.Clean(abs)
}

func (p *PathLocker) mutexFor(key string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.locks[key]; !ok {
		p.locks[key] = &sync.Mutex{}
	}
	return p.locks[key]
}

// Lock acquires the per-path mutex and the advisory lock file. The returned
// function releases both and must be called by the same goroutine.
func (p *PathLocker) Lock(dealPath string) (func(), error) {
	key := canonicalPath(dealPath)
	mu := p.mutexFor(key)
	mu.Lock()

	lockFile := filepath.Join(key, ".auditLog.lock")
	if err := acquireLockFile(lockFile, p.wait); err != nil {
		mu.Unlock()
		return nil, err
	}

	return func() {
		os.Remove(lockFile)
		mu.Unlock()
	}, nil
}

func acquireLockFile(path string, wait time.Duration) error {
	deadline := time.Now().Add(wait)
	for {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			file.Close()
			return nil
		}
		if !os.IsExist(err) {
			return errors.Wrap(errors.CodeIO, err, "creating audit lock file")
		}
		if time.Now().After(deadline) {
			return errors.New(errors.CodeConflict, "audit log locked by another writer")
		}
		time.Sleep(lockPollInterval)
	}
}
