package lexicon

import (
	"fmt"
	"io"
	"iter"
	"math/big"
)

// WordList reads a compiled lexicon in place. It keeps a view of the
// instruction bytes of the buffer or Source it was created from and never
// modifies them, so one WordList may serve concurrent readers.
//
// Words returned by a WordList share their metadata values with the macro
// table and must not be modified.
type WordList struct {
	meta    Metadata
	data    Source
	coll    *Collator
	isClear []bool
	closer  io.Closer
}

// New parses buf and returns a reader over it. buf is borrowed, not copied,
// and must not change while the WordList is in use.
//
// The macro table is checked for recursive subroutines. Out of range macro
// references are reported when they are reached.
func New(buf []byte) (*WordList, error) {
	return NewFromSource(byteSlice(buf))
}

// NewFromSource is New for a lexicon behind random access, such as a mapped
// file. Only the metadata is copied into memory; instructions are read from
// src as they are needed.
func NewFromSource(src Source) (*WordList, error) {
	c, err := parseContainer(src)
	if err != nil {
		return nil, err
	}
	coll, err := NewCollator(c.meta.Alphabet, c.meta.Sortalikes)
	if err != nil {
		return nil, invalidf("collation: %v", err)
	}
	wl := &WordList{
		meta:    c.meta,
		data:    slice(src, c.dataOff, c.dataLen),
		coll:    coll,
		isClear: make([]bool, len(c.meta.Macros)),
	}
	for i, m := range c.meta.Macros {
		_, wl.isClear[i] = m.(ClearMacro)
	}
	if err := wl.checkSubroutines(); err != nil {
		return nil, err
	}
	return wl, nil
}

// Close releases the file behind a WordList returned by Load. The WordList
// must not be used afterwards. Close is a no-op for other word lists.
func (wl *WordList) Close() error {
	if wl.closer == nil {
		return nil
	}
	err := wl.closer.Close()
	wl.closer = nil
	return err
}

// Metadata returns the lexicon header.
func (wl *WordList) Metadata() Metadata {
	return wl.meta
}

// NumWords returns the word count recorded by the compiler.
func (wl *WordList) NumWords() int {
	return int(wl.meta.WordCount)
}

// Collator returns the collator the lexicon was sorted with.
func (wl *WordList) Collator() *Collator {
	return wl.coll
}

func (wl *WordList) macro(i uint64) (Macro, error) {
	if i >= uint64(len(wl.meta.Macros)) {
		return nil, outOfRange(i, len(wl.meta.Macros))
	}
	return wl.meta.Macros[i], nil
}

// checkSubroutines walks the subroutine call graph depth first and fails on
// the first cycle.
func (wl *WordList) checkSubroutines() error {
	const (
		unvisited = iota
		visiting
		done
	)
	type call struct {
		macro int
		refs  []int
		next  int
	}
	state := make([]uint8, len(wl.meta.Macros))
	for i, m := range wl.meta.Macros {
		if _, ok := m.(SubroutineMacro); !ok || state[i] != unvisited {
			continue
		}
		state[i] = visiting
		stack := []call{{macro: i, refs: wl.subroutineCalls(i)}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(top.refs) {
				state[top.macro] = done
				stack = stack[:len(stack)-1]
				continue
			}
			callee := top.refs[top.next]
			top.next++
			switch state[callee] {
			case visiting:
				return invalidf("recursive subroutine: macro %d calls macro %d", top.macro, callee)
			case unvisited:
				state[callee] = visiting
				stack = append(stack, call{macro: callee, refs: wl.subroutineCalls(callee)})
			}
		}
	}
	return nil
}

// subroutineCalls lists the subroutines referenced by subroutine i. Bad
// references are left for the scanner to report.
func (wl *WordList) subroutineCalls(i int) []int {
	sub := wl.meta.Macros[i].(SubroutineMacro)
	var calls []int
	p := NewPointer(sub.Data, 0)
	for !p.AtEnd() {
		idx, err := p.Uvarint()
		if err != nil {
			break
		}
		if idx >= uint64(len(wl.meta.Macros)) {
			continue
		}
		if _, ok := wl.meta.Macros[idx].(SubroutineMacro); ok {
			calls = append(calls, int(idx))
		}
	}
	return calls
}

// All iterates over every entry in order. Iteration stops at the first
// error, which is yielded with a zero Word.
func (wl *WordList) All() iter.Seq2[Word, error] {
	return wl.scanFrom(0, nil)
}

func (wl *WordList) scanFrom(off int, skip func(Word) bool) iter.Seq2[Word, error] {
	return func(yield func(Word, error) bool) {
		sc := newScanner(wl, off)
		for {
			w, ok, err := sc.next()
			if err != nil {
				yield(Word{}, err)
				return
			}
			if !ok {
				return
			}
			if skip != nil {
				if skip(w) {
					continue
				}
				skip = nil
			}
			if !yield(w, nil) {
				return
			}
		}
	}
}

// Words returns all entries as strings.
func (wl *WordList) Words() ([]string, error) {
	out := make([]string, 0, wl.meta.WordCount)
	for w, err := range wl.All() {
		if err != nil {
			return nil, err
		}
		out = append(out, w.String())
	}
	return out, nil
}

// Variants expands an entry to the spellings it stands for. Entries without
// packed variant choices stand for themselves.
func (wl *WordList) Variants(entry Word) []Word {
	if !wl.merged(entry) {
		return []Word{entry}
	}
	m := wl.coll.sortalikes
	out := make([]Word, len(entry.Metadata))
	for i, accent := range entry.Metadata {
		w := m.MakeSortalike(entry, accent)
		w.Metadata = nil
		out[i] = w
	}
	return out
}

// Dump prints the macro table and the instruction stream.
func (wl *WordList) Dump(w io.Writer) error {
	fmt.Fprintf(w, "name=%q words=%d macros=%d bytes=%d clearInterval=%d\n",
		wl.meta.Name, wl.meta.WordCount, len(wl.meta.Macros), wl.data.Len(), wl.meta.ClearInterval)
	for i, m := range wl.meta.Macros {
		fmt.Fprintf(w, "macro %4d %s\n", i, m)
	}
	p := NewSourcePointer(wl.data, 0)
	for !p.AtEnd() {
		at := p.Offset()
		idx, err := p.Uvarint()
		if err != nil {
			return err
		}
		m, err := wl.macro(idx)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "[%08x] %4d %s\n", at, idx, m); err != nil {
			return err
		}
	}
	return nil
}

// merged reports whether entry stands for a run of sortalike spellings.
func (wl *WordList) merged(entry Word) bool {
	return !wl.coll.sortalikes.Empty() && len(entry.Metadata) > 0
}

func containsInt(list []*big.Int, v *big.Int) bool {
	for _, x := range list {
		if x.Cmp(v) == 0 {
			return true
		}
	}
	return false
}
