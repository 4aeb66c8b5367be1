package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// pathLocks holds one mutex per backing path for the life of the process.
var pathLocks sync.Map // map[string]*sync.Mutex

func lockKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// withLock runs fn while holding the in-process mutex for the backend path and, if the
// backend names one, an exclusive flock on its lock file.
func withLock(b Backend, fn func() error) (err error) {
	v, _ := pathLocks.LoadOrStore(lockKey(b.Path()), &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	lockFile := b.LockFile()
	if lockFile == "" {
		return fn()
	}

	if err := os.MkdirAll(filepath.Dir(lockFile), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	fl := flock.New(lockFile)
	if err := fl.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock %s: %w", lockFile, err)
	}
	defer func() {
		if unlockErr := fl.Unlock(); unlockErr != nil && err == nil {
			err = fmt.Errorf("failed to release lock %s: %w", lockFile, unlockErr)
		}
	}()

	return fn()
}
