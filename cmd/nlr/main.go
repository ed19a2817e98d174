// Nlr computes exact sign-classified counts of normalized Latin rectangles.
//
// Usage:
//
//	go run ./cmd/nlr -r 4 -n 5
//
// Flags:
//
//	-r          Number of rows (default: 3)
//	-n          Number of columns (default: 4)
//	-workers    Parallel search workers, 0 = auto (default: 0)
//	-cache-dir  Directory for derangement set files, "" = disabled
//	-store      Directory for the persistent result store, "" = in-memory
//	-config     Optional YAML config file providing flag defaults
//	-v          Verbose logging
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tamirms/latincount"
	"github.com/tamirms/latincount/store"
)

// fileConfig holds flag defaults loadable from a YAML file. Explicit flags
// override file values.
type fileConfig struct {
	Workers  int    `yaml:"workers"`
	CacheDir string `yaml:"cacheDir"`
	StoreDir string `yaml:"storeDir"`
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

func main() {
	rFlag := flag.Int("r", 3, "number of rows")
	nFlag := flag.Int("n", 4, "number of columns")
	workersFlag := flag.Int("workers", 0, "parallel search workers (0 = auto)")
	cacheDirFlag := flag.String("cache-dir", "", "directory for derangement set files")
	storeFlag := flag.String("store", "", "directory for the persistent result store")
	configFlag := flag.String("config", "", "YAML config file with flag defaults")
	verboseFlag := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verboseFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	workers := *workersFlag
	cacheDir := *cacheDirFlag
	storeDir := *storeFlag
	if *configFlag != "" {
		cfg, err := loadConfig(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "nlr: %v\n", err)
			os.Exit(1)
		}
		if workers == 0 {
			workers = cfg.Workers
		}
		if cacheDir == "" {
			cacheDir = cfg.CacheDir
		}
		if storeDir == "" {
			storeDir = cfg.StoreDir
		}
	}

	var results store.Store = store.NewMemory()
	if storeDir != "" {
		st, err := store.OpenBadger(storeDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "nlr: %v\n", err)
			os.Exit(1)
		}
		results = st
	}
	defer results.Close()

	counter := latincount.New(
		latincount.WithWorkers(workers),
		latincount.WithSetCacheDir(cacheDir),
		latincount.WithResultStore(results),
		latincount.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	res, err := counter.Count(ctx, *rFlag, *nFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nlr: %v\n", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	fmt.Printf("NLR(%d,%d): total=%d positive=%d negative=%d difference=%d (%.3fs)\n",
		*rFlag, *nFlag, res.Total(), res.Positive, res.Negative, res.Difference(),
		elapsed.Seconds())
}
