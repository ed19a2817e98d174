package latincount

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
)

// tables bundles the immutable per-n resources shared read-only by every
// search branch and worker.
type tables struct {
	set  *Set
	mask *MaskTable
}

// tableCache memoizes derangement sets and mask tables per n, optionally
// backed by set files in a directory. It is an explicit object owned by a
// Counter, not process-wide state.
type tableCache struct {
	dir    string // "" disables file persistence
	logger *slog.Logger

	mu  sync.Mutex
	byN map[int]*tables
}

func newTableCache(dir string, logger *slog.Logger) *tableCache {
	return &tableCache{
		dir:    dir,
		logger: logger,
		byN:    make(map[int]*tables),
	}
}

// get returns the tables for n, building them at most once per cache.
// A valid set file is preferred over re-enumeration; an invalid one is
// logged, rebuilt from scratch, and overwritten. File errors never surface
// to the caller as wrong data, only as a rebuild.
func (c *tableCache) get(n int) (*tables, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.byN[n]; ok {
		return t, nil
	}

	set, fromFile, err := c.loadOrBuild(n)
	if err != nil {
		return nil, err
	}
	if c.dir != "" && !fromFile {
		path := filepath.Join(c.dir, SetFileName(n))
		if werr := WriteSetFile(path, set); werr != nil {
			c.logger.Warn("failed to persist derangement set", "n", n, "path", path, "err", werr)
		}
	}

	t := &tables{set: set, mask: NewMaskTable(set)}
	c.byN[n] = t
	return t, nil
}

func (c *tableCache) loadOrBuild(n int) (set *Set, fromFile bool, err error) {
	if c.dir != "" {
		path := filepath.Join(c.dir, SetFileName(n))
		loaded, lerr := OpenSetFile(path)
		if lerr == nil {
			return loaded, true, nil
		}
		if !errors.Is(lerr, fs.ErrNotExist) {
			c.logger.Warn("rebuilding invalid derangement set file", "n", n, "path", path, "err", lerr)
		}
	}
	set, err = BuildSet(n)
	return set, false, err
}
