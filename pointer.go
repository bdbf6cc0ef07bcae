package lexicon

import (
	"fmt"
	"io"
	"math"
	"math/big"
)

// Source is random access to the bytes of a lexicon. *mmap.ReaderAt from
// golang.org/x/exp/mmap implements it, so a mapped file is read in place.
type Source interface {
	io.ReaderAt
	At(i int) byte
	Len() int
}

// byteSlice is the Source of an in-memory buffer.
type byteSlice []byte

func (b byteSlice) At(i int) byte { return b[i] }
func (b byteSlice) Len() int      { return len(b) }

func (b byteSlice) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(b)) {
		return 0, fmt.Errorf("read at %d of %d: %w", off, len(b), ErrTruncated)
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// section is the window [off, off+n) of a Source.
type section struct {
	src Source
	off int
	n   int
}

func (s section) At(i int) byte { return s.src.At(s.off + i) }
func (s section) Len() int      { return s.n }

func (s section) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(s.n) {
		return 0, fmt.Errorf("read at %d of %d: %w", off, s.n, ErrTruncated)
	}
	want := len(p)
	if rest := s.n - int(off); want > rest {
		p = p[:rest]
	}
	n, err := s.src.ReadAt(p, int64(s.off)+off)
	if err == nil && n < want {
		err = io.EOF
	}
	return n, err
}

// slice returns the window [off, off+n) of src, sharing memory when src is
// a byte slice.
func slice(src Source, off, n int) Source {
	if b, ok := src.(byteSlice); ok {
		return b[off : off+n : off+n]
	}
	return section{src: src, off: off, n: n}
}

// Pointer is a cursor over a Source. Over a byte slice it never copies:
// views handed out by View alias the backing buffer.
type Pointer struct {
	src Source
	buf []byte // set when src is a byte slice
	off int

	scratch [16]byte
}

// NewPointer returns a cursor over buf starting at off.
func NewPointer(buf []byte, off int) *Pointer {
	return &Pointer{src: byteSlice(buf), buf: buf, off: off}
}

// NewSourcePointer returns a cursor over src starting at off.
func NewSourcePointer(src Source, off int) *Pointer {
	if b, ok := src.(byteSlice); ok {
		return NewPointer(b, off)
	}
	return &Pointer{src: src, off: off}
}

// AtEnd reports whether the cursor has consumed the whole buffer.
func (p *Pointer) AtEnd() bool {
	return p.off >= p.src.Len()
}

// Offset returns the current position.
func (p *Pointer) Offset() int {
	return p.off
}

// Len returns the size of the underlying buffer.
func (p *Pointer) Len() int {
	return p.src.Len()
}

// varintBytes returns the bytes from the cursor up to and including the end
// of the next varint, or to the end of the source if it never ends.
func (p *Pointer) varintBytes() []byte {
	if p.buf != nil {
		return p.buf[p.off:]
	}
	b := p.scratch[:0]
	for i := p.off; i < p.src.Len(); i++ {
		c := p.src.At(i)
		b = append(b, c)
		if c < 0x80 {
			break
		}
	}
	return b
}

// Uvarint reads one varint that is expected to fit 64 bits. Values that do
// not fit are returned as math.MaxUint64, which no table can index.
func (p *Pointer) Uvarint() (uint64, error) {
	if p.AtEnd() {
		return 0, fmt.Errorf("varint at %d: %w", p.off, ErrTruncated)
	}
	v, n, ok, err := DecodeUvarint(p.varintBytes())
	if err != nil {
		return 0, fmt.Errorf("varint at %d: %w", p.off, err)
	}
	p.off += n
	if !ok {
		return math.MaxUint64, nil
	}
	return v, nil
}

// Varint reads one varint of arbitrary size.
func (p *Pointer) Varint() (*big.Int, error) {
	if p.AtEnd() {
		return nil, fmt.Errorf("varint at %d: %w", p.off, ErrTruncated)
	}
	v, n, err := DecodeVarint(p.varintBytes())
	if err != nil {
		return nil, fmt.Errorf("varint at %d: %w", p.off, err)
	}
	p.off += n
	return v, nil
}

// Skip advances the cursor by n bytes.
func (p *Pointer) Skip(n int) error {
	if n < 0 || n > p.src.Len()-p.off {
		return fmt.Errorf("skip %d bytes at %d of %d: %w", n, p.off, p.src.Len(), ErrTruncated)
	}
	p.off += n
	return nil
}

// View returns the next n bytes and advances past them. Over a byte slice
// the bytes are not copied.
func (p *Pointer) View(n int) ([]byte, error) {
	start := p.off
	if err := p.Skip(n); err != nil {
		return nil, err
	}
	if p.buf != nil {
		return p.buf[start:p.off:p.off], nil
	}
	out := make([]byte, n)
	if _, err := p.src.ReadAt(out, int64(start)); err != nil {
		p.off = start
		return nil, fmt.Errorf("view %d bytes at %d: %w", n, start, err)
	}
	return out, nil
}

// SkipToVarint moves the cursor forward to the nearest varint boundary. Every
// varint ends in a byte without the continuation bit, so a position directly
// after such a byte always starts a new varint.
func (p *Pointer) SkipToVarint() {
	for p.off > 0 && p.off < p.src.Len() && p.src.At(p.off-1)&0x80 != 0 {
		p.off++
	}
}
