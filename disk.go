package lexicon

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/mmap"
)

// Save writes the lexicon to disk. Returns the number of bytes written.
func (l *Lexicon) Save(filename string) (int64, error) {
	f, err := os.Create(filename)
	if err != nil {
		return 0, err
	}

	n, err := l.WriteTo(f)
	if err != nil {
		f.Close()
		return n, err
	}
	return n, f.Close()
}

// Load maps a lexicon file and returns a reader over it. Instructions are
// read from the mapping in place; call Close on the WordList to unmap it.
func Load(filename string) (*WordList, error) {
	r, err := mmap.Open(filename)
	if err != nil {
		return nil, err
	}

	wl, err := NewFromSource(r)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	wl.closer = r
	return wl, nil
}

// Read reads a whole lexicon from r.
func Read(r io.Reader) (*WordList, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return New(buf)
}
