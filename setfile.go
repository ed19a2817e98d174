package latincount

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"
	"github.com/zeebo/xxh3"

	latinerrors "github.com/tamirms/latincount/errors"
	"github.com/tamirms/latincount/internal/bitset"
)

// SetFileName returns the canonical file name for the derangement set of n.
func SetFileName(n int) string {
	return fmt.Sprintf("derange_%d.dset", n)
}

// setFileSize returns the exact on-disk size for a set of n columns.
func setFileSize(n int) int64 {
	count := int(Subfactorial(n))
	return int64(setHeaderSize + count*n + bitset.WordsFor(count)*8 + setFooterSize)
}

// WriteSetFile persists a derangement set to path in the binary set file
// format (see setHeader). The file is written to a temp sibling, synced, and
// renamed into place so readers never observe a partial file. Disk blocks are
// preallocated up front to fail early on full disks.
func WriteSetFile(path string, s *Set) error {
	count, n := s.count, s.n
	signWords := bitset.WordsFor(count)

	signBuf := make([]byte, signWords*8)
	for w, word := range s.signs {
		binary.LittleEndian.PutUint64(signBuf[w*8:], word)
	}

	digest := xxh3.Hash128(s.values)
	hdr := setHeader{
		Magic:    setMagic,
		Version:  setVersion,
		N:        uint16(n),
		Count:    uint64(count),
		DigestHi: digest.Hi,
		DigestLo: digest.Lo,
	}
	ftr := setFooter{
		ValuesHash: xxhash.Sum64(s.values),
		SignHash:   xxhash.Sum64(signBuf),
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create set file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := fallocateFile(tmp, setFileSize(n)); err != nil {
		return fmt.Errorf("preallocate set file: %w", err)
	}

	var hdrBuf [setHeaderSize]byte
	hdr.encodeTo(hdrBuf[:])
	var ftrBuf [setFooterSize]byte
	ftr.encodeTo(ftrBuf[:])

	for _, chunk := range [][]byte{hdrBuf[:], s.values, signBuf, ftrBuf[:]} {
		if _, err := tmp.Write(chunk); err != nil {
			return fmt.Errorf("write set file: %w", err)
		}
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync set file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close set file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename set file: %w", err)
	}
	return nil
}

// OpenSetFile loads a persisted derangement set. The file is memory-mapped
// read-only for validation, then the values and signs are copied into the
// heap and the mapping released, so the returned Set has no file dependency.
//
// Every structural property is checked before the data is trusted: magic,
// version, dimension range, count against D(n), exact file size, both region
// checksums, the header content digest, and the derangement property of every
// row. Any failure returns a typed sentinel so callers can fall back to
// rebuilding instead of propagating silently wrong data.
func OpenSetFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open set file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat set file: %w", err)
	}
	if stat.Size() < int64(setHeaderSize+setFooterSize) {
		return nil, latinerrors.ErrTruncatedFile
	}

	fadviseSequential(int(f.Fd()), 0, stat.Size())
	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap set file: %w", err)
	}
	defer mm.Unmap()
	prefaultRegion(mm)

	s, err := decodeSet(mm)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// decodeSet parses and validates a complete set file image.
func decodeSet(data []byte) (*Set, error) {
	hdr, err := decodeSetHeader(data[:setHeaderSize])
	if err != nil {
		return nil, err
	}

	n := int(hdr.N)
	count := int(hdr.Count)
	signWords := bitset.WordsFor(count)
	valuesLen := count * n

	if int64(len(data)) != setFileSize(n) {
		return nil, latinerrors.ErrTruncatedFile
	}

	valuesStart := setHeaderSize
	signStart := valuesStart + valuesLen
	footerStart := signStart + signWords*8

	values := data[valuesStart:signStart]
	signBuf := data[signStart:footerStart]

	ftr, err := decodeSetFooter(data[footerStart:])
	if err != nil {
		return nil, err
	}
	if xxhash.Sum64(values) != ftr.ValuesHash || xxhash.Sum64(signBuf) != ftr.SignHash {
		return nil, latinerrors.ErrChecksumFailed
	}
	if digest := xxh3.Hash128(values); digest.Hi != hdr.DigestHi || digest.Lo != hdr.DigestLo {
		return nil, latinerrors.ErrChecksumFailed
	}

	s := &Set{
		n:      n,
		count:  count,
		values: append([]uint8(nil), values...),
		signs:  make(bitset.Bits, signWords),
	}
	for w := range s.signs {
		s.signs[w] = binary.LittleEndian.Uint64(signBuf[w*8:])
	}

	// Checksums guard against bit rot; this guards against a file that was
	// written by a broken builder. Every row must be a derangement.
	for i := 0; i < count; i++ {
		row := s.Row(i)
		var seen uint16
		for pos, v := range row {
			if v < 1 || int(v) > n || int(v) == pos+1 || seen&(1<<v) != 0 {
				return nil, latinerrors.ErrCorruptedSet
			}
			seen |= 1 << v
		}
	}
	if tail := count & 63; tail != 0 {
		if s.signs[signWords-1]>>tail != 0 {
			return nil, latinerrors.ErrCorruptedSet
		}
	}

	s.buildIndices()
	return s, nil
}
