package geneng

import (
	"encoding/binary"
	"errors"
)

// ErrShortBuffer is returned by Reader's accessors when fewer bytes remain
// than the value being decoded requires.
var ErrShortBuffer = errors.New("geneng: short buffer")

// BiasInt32 XORs a signed 32-bit value with math.MaxInt32 so that its
// biased big-endian encoding sorts in the same order as the signed value
// itself. World implementations use this when encoding any signed field
// (e.g. a signed currency count) into a fixed-width State key.
func BiasInt32(v int32) uint32 {
	const bias = 0x7FFFFFFF
	return uint32(v) ^ bias
}

// UnbiasInt32 is the inverse of BiasInt32.
func UnbiasInt32(v uint32) int32 {
	const bias = 0x7FFFFFFF
	return int32(v ^ bias)
}

// PutUint32 is a small convenience so world packages building fixed-width
// Encode() implementations don't each need their own binary.BigEndian
// import ceremony; it appends the big-endian bytes of v to dst.
func PutUint32(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

// PutUint64 appends the big-endian bytes of v to dst.
func PutUint64(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// PutBytes appends a uint32-length-prefixed byte slice to dst, so a Reader
// can recover exactly v's bounds regardless of what follows it.
func PutBytes(dst []byte, v []byte) []byte {
	dst = PutUint32(dst, uint32(len(v)))
	return append(dst, v...)
}

// Reader is a forward-only cursor over a byte slice, used to decode the
// handful of shapes the engine round-trips through persistent storage
// (history steps, context wrappers). Each accessor advances past the value
// it reads.
type Reader struct {
	b []byte
}

// NewReader wraps b for sequential decoding.
func NewReader(b []byte) *Reader { return &Reader{b: b} }

// Byte reads a single byte.
func (r *Reader) Byte() (byte, error) {
	if len(r.b) < 1 {
		return 0, ErrShortBuffer
	}
	v := r.b[0]
	r.b = r.b[1:]
	return v, nil
}

// Uint32 reads a big-endian uint32.
func (r *Reader) Uint32() (uint32, error) {
	if len(r.b) < 4 {
		return 0, ErrShortBuffer
	}
	v := binary.BigEndian.Uint32(r.b[:4])
	r.b = r.b[4:]
	return v, nil
}

// Uint64 reads a big-endian uint64.
func (r *Reader) Uint64() (uint64, error) {
	if len(r.b) < 8 {
		return 0, ErrShortBuffer
	}
	v := binary.BigEndian.Uint64(r.b[:8])
	r.b = r.b[8:]
	return v, nil
}

// Bytes reads a uint32-length-prefixed byte slice written by PutBytes. The
// returned slice aliases r's backing array; callers that retain it past
// the next decode call must copy it.
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if uint32(len(r.b)) < n {
		return nil, ErrShortBuffer
	}
	v := r.b[:n]
	r.b = r.b[n:]
	return v, nil
}

// String is Bytes with a string conversion (which copies).
func (r *Reader) String() (string, error) {
	b, err := r.Bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Remaining reports how many undecoded bytes are left.
func (r *Reader) Remaining() int { return len(r.b) }
