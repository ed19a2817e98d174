package store

import (
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
)

// countRecord is the badgerhold document for one (r, n) result.
type countRecord struct {
	Key      string `badgerhold:"key"`
	Rows     int
	Columns  int
	Positive uint64
	Negative uint64
}

// Badger is a persistent Store backed by badgerhold over a badger database.
type Badger struct {
	hold *badgerhold.Store
}

// OpenBadger opens (creating if needed) a persistent result store in dir.
func OpenBadger(dir string) (*Badger, error) {
	opts := badgerhold.DefaultOptions
	opts.Options = badger.DefaultOptions(dir).WithLogger(nil)
	hold, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open result store: %w", err)
	}
	return &Badger{hold: hold}, nil
}

func recordKey(r, n int) string {
	return fmt.Sprintf("%d:%d", r, n)
}

// Get returns the stored result for (r, n), if any.
func (s *Badger) Get(r, n int) (Result, bool, error) {
	var rec countRecord
	err := s.hold.Get(recordKey(r, n), &rec)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, fmt.Errorf("result store get: %w", err)
	}
	return Result{Positive: rec.Positive, Negative: rec.Negative}, true, nil
}

// Put stores the result for (r, n), overwriting any previous value.
func (s *Badger) Put(r, n int, res Result) error {
	rec := countRecord{
		Key:      recordKey(r, n),
		Rows:     r,
		Columns:  n,
		Positive: res.Positive,
		Negative: res.Negative,
	}
	if err := s.hold.Upsert(rec.Key, rec); err != nil {
		return fmt.Errorf("result store put: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Badger) Close() error {
	return s.hold.Close()
}
