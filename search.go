package lexicon

import (
	"iter"
)

// Lookups binary search over byte offsets of the instruction stream in
// steps of the clear interval. A probe realigns to a varint boundary, skips
// to the next clear and decodes the word after it; since nothing is shared
// across a clear that word is complete. Once the range is one block wide the
// block is scanned linearly.

// locate returns an offset at which a linear scan can start without missing
// target: every word before it sorts before target.
func (wl *WordList) locate(target Word) (int, error) {
	interval := int(wl.meta.ClearInterval)
	if interval <= 0 || wl.data.Len() <= interval {
		return 0, nil
	}
	start := 0
	low, high := 0, (wl.data.Len()+interval-1)/interval
	for high-low > 1 {
		probe := (high + low) >> 1
		at, w, ok, err := wl.probe(probe * interval)
		if err != nil {
			return 0, err
		}
		if ok && wl.coll.CompareBase(w, target) <= 0 {
			low, start = probe, at
		} else {
			high = probe
		}
	}
	return start, nil
}

// probe finds the first top-level clear at or after off and returns the
// offset behind it together with the word that follows.
func (wl *WordList) probe(off int) (int, Word, bool, error) {
	p := NewSourcePointer(wl.data, off)
	p.SkipToVarint()
	for !p.AtEnd() {
		idx, err := p.Uvarint()
		if err != nil {
			return 0, Word{}, false, err
		}
		if idx >= uint64(len(wl.isClear)) {
			return 0, Word{}, false, outOfRange(idx, len(wl.isClear))
		}
		if !wl.isClear[idx] {
			continue
		}
		at := p.Offset()
		w, ok, err := newScanner(wl, at).next()
		if err != nil || !ok {
			return 0, Word{}, false, err
		}
		return at, w, true, nil
	}
	return 0, Word{}, false, nil
}

// find returns the entry with the same base form as target, if any.
func (wl *WordList) find(target Word) (Word, bool, error) {
	start, err := wl.locate(target)
	if err != nil {
		return Word{}, false, err
	}
	sc := newScanner(wl, start)
	for {
		w, ok, err := sc.next()
		if err != nil || !ok {
			return Word{}, false, err
		}
		switch r := wl.coll.CompareBase(w, target); {
		case r < 0:
			continue
		case r > 0:
			return Word{}, false, nil
		}
		return w, true, nil
	}
}

// matches reports whether entry spells target. Entries of merged sortalike
// runs match every variant they recorded.
func (wl *WordList) matches(entry, target Word) bool {
	if !wl.merged(entry) {
		return entry.String() == target.String()
	}
	_, accent := wl.coll.sortalikes.ExtractBaseWord(target)
	return containsInt(entry.Metadata, accent)
}

// Has reports whether word is in the lexicon.
func (wl *WordList) Has(word string) (bool, error) {
	_, ok, err := wl.Get(word)
	return ok, err
}

// Get returns the entry for word, with its metadata. For a merged sortalike
// entry the base word is returned.
func (wl *WordList) Get(word string) (Word, bool, error) {
	target := wl.coll.Split(word)
	if len(target.Subwords) == 0 {
		return Word{}, false, nil
	}
	entry, ok, err := wl.find(target)
	if err != nil || !ok || !wl.matches(entry, target) {
		return Word{}, false, err
	}
	return entry, true, nil
}

// IterateFrom iterates over the entries that sort at or after word. Merged
// sortalike entries sort by their base form.
func (wl *WordList) IterateFrom(word string) iter.Seq2[Word, error] {
	target := wl.coll.Split(word)
	return func(yield func(Word, error) bool) {
		start, err := wl.locate(target)
		if err != nil {
			yield(Word{}, err)
			return
		}
		// A merged entry is never before a target with the same base form.
		before := func(w Word) bool {
			if r := wl.coll.CompareBase(w, target); r != 0 || wl.merged(w) {
				return r < 0
			}
			return wl.coll.Compare(w, target) < 0
		}
		for w, err := range wl.scanFrom(start, before) {
			if !yield(w, err) {
				return
			}
		}
	}
}
