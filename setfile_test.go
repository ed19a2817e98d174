package latincount

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	latinerrors "github.com/tamirms/latincount/errors"
)

func writeTestSet(t *testing.T, n int) (string, *Set) {
	t.Helper()
	s, err := BuildSet(n)
	if err != nil {
		t.Fatalf("BuildSet(%d): %v", n, err)
	}
	path := filepath.Join(t.TempDir(), SetFileName(n))
	if err := WriteSetFile(path, s); err != nil {
		t.Fatalf("WriteSetFile: %v", err)
	}
	return path, s
}

func TestSetFileRoundTrip(t *testing.T) {
	for _, n := range []int{2, 3, 5, 6} {
		path, want := writeTestSet(t, n)
		got, err := OpenSetFile(path)
		if err != nil {
			t.Fatalf("n=%d OpenSetFile: %v", n, err)
		}

		if got.N() != want.N() || got.Count() != want.Count() {
			t.Fatalf("n=%d: dimensions (%d, %d), want (%d, %d)",
				n, got.N(), got.Count(), want.N(), want.Count())
		}
		if !bytes.Equal(got.values, want.values) {
			t.Fatalf("n=%d: values differ after round trip", n)
		}
		for w := range want.signs {
			if got.signs[w] != want.signs[w] {
				t.Fatalf("n=%d: signs differ after round trip", n)
			}
		}
		// Derived indices must be rebuilt identically.
		for pos := 0; pos < n; pos++ {
			for v := 1; v <= n; v++ {
				a := want.PositionValue(pos, uint8(v))
				b := got.PositionValue(pos, uint8(v))
				if len(a) != len(b) {
					t.Fatalf("n=%d: position-value index differs at (%d, %d)", n, pos, v)
				}
				for k := range a {
					if a[k] != b[k] {
						t.Fatalf("n=%d: position-value index differs at (%d, %d)", n, pos, v)
					}
				}
			}
		}
	}
}

func TestSetFileSizeExact(t *testing.T) {
	path, s := writeTestSet(t, 5)
	stat, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if stat.Size() != setFileSize(s.N()) {
		t.Errorf("file size %d, want %d", stat.Size(), setFileSize(s.N()))
	}
}

func corrupt(t *testing.T, path string, offset int64, b byte) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.WriteAt([]byte{b}, offset); err != nil {
		t.Fatal(err)
	}
}

func TestSetFileCorruption(t *testing.T) {
	t.Run("bad magic", func(t *testing.T) {
		path, _ := writeTestSet(t, 4)
		corrupt(t, path, 0, 0xFF)
		if _, err := OpenSetFile(path); !errors.Is(err, latinerrors.ErrInvalidMagic) {
			t.Errorf("error = %v, want ErrInvalidMagic", err)
		}
	})

	t.Run("bad version", func(t *testing.T) {
		path, _ := writeTestSet(t, 4)
		corrupt(t, path, 4, 0x7F)
		if _, err := OpenSetFile(path); !errors.Is(err, latinerrors.ErrInvalidVersion) {
			t.Errorf("error = %v, want ErrInvalidVersion", err)
		}
	})

	t.Run("count mismatch", func(t *testing.T) {
		path, _ := writeTestSet(t, 4)
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], Subfactorial(4)+1)
		f, err := os.OpenFile(path, os.O_RDWR, 0)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.WriteAt(buf[:], 8); err != nil {
			t.Fatal(err)
		}
		f.Close()
		if _, err := OpenSetFile(path); !errors.Is(err, latinerrors.ErrCorruptedSet) {
			t.Errorf("error = %v, want ErrCorruptedSet", err)
		}
	})

	t.Run("flipped value byte", func(t *testing.T) {
		path, s := writeTestSet(t, 4)
		orig := s.values[10]
		corrupt(t, path, int64(setHeaderSize+10), orig^1)
		if _, err := OpenSetFile(path); !errors.Is(err, latinerrors.ErrChecksumFailed) {
			t.Errorf("error = %v, want ErrChecksumFailed", err)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		path, _ := writeTestSet(t, 4)
		if err := os.Truncate(path, setFileSize(4)-5); err != nil {
			t.Fatal(err)
		}
		if _, err := OpenSetFile(path); !errors.Is(err, latinerrors.ErrTruncatedFile) {
			t.Errorf("error = %v, want ErrTruncatedFile", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, err := OpenSetFile(filepath.Join(t.TempDir(), "absent.dset"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want fs.ErrNotExist", err)
		}
	})
}

// TestCacheRecovery checks that an invalid set file is rebuilt from scratch:
// the count still comes out right and the file is replaced with a valid one.
func TestCacheRecovery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, SetFileName(4))
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	counter := New(WithSetCacheDir(dir))
	res, err := counter.Count(context.Background(), 3, 4)
	if err != nil {
		t.Fatalf("Count after corrupt cache: %v", err)
	}
	if res.Positive != 12 || res.Negative != 12 {
		t.Errorf("Count(3,4) = (%d, %d), want (12, 12)", res.Positive, res.Negative)
	}

	// The corrupt file must have been overwritten with a loadable one.
	if _, err := OpenSetFile(path); err != nil {
		t.Errorf("rewritten set file still invalid: %v", err)
	}
}

// TestCacheWarmStart checks that a second counter loads the persisted set and
// produces identical results.
func TestCacheWarmStart(t *testing.T) {
	dir := t.TempDir()

	first, err := New(WithSetCacheDir(dir)).Count(context.Background(), 3, 5)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, SetFileName(5))); err != nil {
		t.Fatalf("set file not persisted: %v", err)
	}

	second, err := New(WithSetCacheDir(dir)).Count(context.Background(), 3, 5)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("warm start result %+v != cold start %+v", second, first)
	}
}
