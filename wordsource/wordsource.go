// Package wordsource reads word lists for the compiler: one word per line,
// optionally gzip or zstd compressed.
package wordsource

import (
	"bufio"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/multierr"
)

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() (err error) {
	for _, c := range r.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}

// Open opens a word list. Files named *.gz or *.zst are decompressed.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, multierr.Append(err, f.Close())
		}
		return &readCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, multierr.Append(err, f.Close())
		}
		rc := zr.IOReadCloser()
		return &readCloser{Reader: rc, closers: []io.Closer{rc, f}}, nil
	}
	return f, nil
}

// Words iterates over the words of r. Lines are trimmed; blank lines and
// lines starting with '#' are skipped. A read error ends the sequence.
func Words(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if !yield(line, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield("", err)
		}
	}
}

// File iterates over the words of the file at path. The file is closed when
// iteration ends; a close error is yielded last.
func File(path string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		rc, err := Open(path)
		if err != nil {
			yield("", err)
			return
		}
		stopped := false
		for w, err := range Words(rc) {
			if !yield(w, err) {
				stopped = true
				break
			}
			if err != nil {
				stopped = true
				break
			}
		}
		if err := rc.Close(); err != nil && !stopped {
			yield("", err)
		}
	}
}

// Files chains the words of several files.
func Files(paths ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, p := range paths {
			for w, err := range File(p) {
				if !yield(w, err) || err != nil {
					return
				}
			}
		}
	}
}
