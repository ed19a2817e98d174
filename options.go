package latincount

import (
	"log/slog"

	"github.com/tamirms/latincount/store"
)

// Option is a functional option for configuring a Counter.
type Option func(*config)

type config struct {
	workers  int    // 0 = auto-select per n
	cacheDir string // "" = no set file persistence
	results  store.Store
	logger   *slog.Logger
}

func defaultConfig() config {
	return config{
		logger: slog.Default(),
	}
}

// WithWorkers sets the number of parallel search workers. Zero (the default)
// auto-selects per dimension: single-threaded below the parallel threshold,
// min(GOMAXPROCS, 8) above it. Any value produces identical counts.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithSetCacheDir enables derangement set persistence in dir: sets are loaded
// from set files when present and valid, and written back after a build.
// Corrupt or version-mismatched files are rebuilt from scratch, never trusted.
func WithSetCacheDir(dir string) Option {
	return func(c *config) {
		c.cacheDir = dir
	}
}

// WithResultStore sets the keyed (r, n) result store consulted before
// computing and updated after. Nil (the default) disables result caching.
func WithResultStore(s store.Store) Option {
	return func(c *config) {
		c.results = s
	}
}

// WithLogger sets the logger used for cache-recovery diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
