package latincount

import (
	"encoding/binary"

	latinerrors "github.com/tamirms/latincount/errors"
)

const (
	// setMagic identifies derangement set files ("NLRD" in little-endian).
	setMagic = uint32(0x4E4C5244)

	// setVersion is the current set file format version.
	setVersion = uint16(0x0001)

	// setHeaderSize is the exact size of the serialized header (48 bytes).
	setHeaderSize = 48

	// setFooterSize is the exact size of the serialized footer (24 bytes).
	setFooterSize = 24
)

// setHeader is the 48-byte set file header.
//
// Layout:
//
//	Offset  Size  Field      Type
//	0       4     Magic      0x4E4C5244 ("NLRD")
//	4       2     Version    0x0001
//	6       2     N          uint16_le (column count)
//	8       8     Count      uint64_le (number of derangements, must equal D(n))
//	16      16    Digest     xxh3-128 of the values region (Hi, Lo as uint64_le)
//	32      16    Reserved   [16]byte (zero)
//
// The body follows the header: a values region of Count*N bytes (row-major,
// 1-based values), then a sign region of ceil(Count/64) little-endian words
// (bit i set = derangement i is even). The footer closes the file.
type setHeader struct {
	Magic    uint32
	Version  uint16
	N        uint16
	Count    uint64
	DigestHi uint64
	DigestLo uint64
	Reserved [16]byte
}

// encodeTo serializes the header into an existing buffer.
func (h *setHeader) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	binary.LittleEndian.PutUint16(buf[6:8], h.N)
	binary.LittleEndian.PutUint64(buf[8:16], h.Count)
	binary.LittleEndian.PutUint64(buf[16:24], h.DigestHi)
	binary.LittleEndian.PutUint64(buf[24:32], h.DigestLo)
	copy(buf[32:48], h.Reserved[:])
}

// decodeSetHeader parses and validates a 48-byte header. Count is checked
// against the subfactorial of N, which catches both truncation at write time
// and any mismatch between the file and the enumeration it claims to hold.
func decodeSetHeader(buf []byte) (*setHeader, error) {
	if len(buf) < setHeaderSize {
		return nil, latinerrors.ErrTruncatedFile
	}

	h := &setHeader{
		Magic:    binary.LittleEndian.Uint32(buf[0:4]),
		Version:  binary.LittleEndian.Uint16(buf[4:6]),
		N:        binary.LittleEndian.Uint16(buf[6:8]),
		Count:    binary.LittleEndian.Uint64(buf[8:16]),
		DigestHi: binary.LittleEndian.Uint64(buf[16:24]),
		DigestLo: binary.LittleEndian.Uint64(buf[24:32]),
	}
	copy(h.Reserved[:], buf[32:48])

	if h.Magic != setMagic {
		return nil, latinerrors.ErrInvalidMagic
	}
	if h.Version != setVersion {
		return nil, latinerrors.ErrInvalidVersion
	}
	if int(h.N) < minColumns || int(h.N) > maxColumns {
		return nil, latinerrors.ErrCorruptedSet
	}
	if h.Count != Subfactorial(int(h.N)) {
		return nil, latinerrors.ErrCorruptedSet
	}

	return h, nil
}

// setFooter is the 24-byte set file footer.
//
// Layout:
//
//	Offset  Size  Field           Type
//	0       8     ValuesHash      uint64_le (xxHash64 of values region)
//	8       8     SignHash        uint64_le (xxHash64 of sign region)
//	16      8     Reserved        [8]byte (zero)
type setFooter struct {
	ValuesHash uint64
	SignHash   uint64
	Reserved   [8]byte
}

// encodeTo serializes the footer into an existing buffer.
func (f *setFooter) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:8], f.ValuesHash)
	binary.LittleEndian.PutUint64(buf[8:16], f.SignHash)
	copy(buf[16:24], f.Reserved[:])
}

// decodeSetFooter parses a 24-byte footer.
func decodeSetFooter(buf []byte) (*setFooter, error) {
	if len(buf) < setFooterSize {
		return nil, latinerrors.ErrTruncatedFile
	}
	f := &setFooter{
		ValuesHash: binary.LittleEndian.Uint64(buf[0:8]),
		SignHash:   binary.LittleEndian.Uint64(buf[8:16]),
	}
	copy(f.Reserved[:], buf[16:24])
	return f, nil
}
