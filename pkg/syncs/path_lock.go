package syncs

import (
	"path/filepath"
	"slices"
	"sync"
)

// PathLock is a per-file mutex. Paths are cleaned and made absolute before
// use, so different spellings of one file share a lock. The zero value is
// ready to use.
type PathLock struct {
	locks map[string]*sync.Mutex
	mu    sync.Mutex
}

// NewPathLock creates a new [PathLock].
func NewPathLock() *PathLock {
	return &PathLock{
		locks: make(map[string]*sync.Mutex),
	}
}

func (pl *PathLock) getLock(key string) *sync.Mutex {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	if pl.locks == nil {
		pl.locks = make(map[string]*sync.Mutex)
	}

	l, ok := pl.locks[key]
	if !ok {
		l = &sync.Mutex{}
		pl.locks[key] = l
	}

	return l
}

// Lock acquires the mutex for every given path and returns a function that
// releases them. Paths are locked in sorted order, so two callers locking
// overlapping sets can't deadlock. Empty paths and duplicates are ignored.
func (pl *PathLock) Lock(paths ...string) func() {
	keys := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}

		keys = append(keys, Key(p))
	}

	slices.Sort(keys)
	keys = slices.Compact(keys)

	held := make([]*sync.Mutex, 0, len(keys))
	for _, k := range keys {
		l := pl.getLock(k)
		l.Lock()

		held = append(held, l)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

// Key returns the lock key for path.
func Key(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}

	return abs
}
