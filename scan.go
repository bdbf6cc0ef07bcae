package lexicon

// scanner replays the instruction stream. Subroutines are expanded through
// an explicit stack of cursors rather than recursion.
//
// The word buffer is a list of elements. An element collects the macro
// indices of one subword: any metadata before it, then the subword itself.
// Metadata read after the last subword forms an open element holding the
// word-level metadata.
type scanner struct {
	wl    *WordList
	stack []frame
	elems [][]uint64
	open  bool
	done  bool
}

type frame struct {
	p   *Pointer
	sub int // macro index of the running subroutine, -1 at top level
}

func newScanner(wl *WordList, off int) *scanner {
	return &scanner{
		wl:    wl,
		stack: []frame{{p: NewSourcePointer(wl.data, off), sub: -1}},
	}
}

// next returns the next word. ok is false at the end of the stream.
func (sc *scanner) next() (w Word, ok bool, err error) {
	for !sc.done {
		top := &sc.stack[len(sc.stack)-1]
		if top.p.AtEnd() {
			sc.stack = sc.stack[:len(sc.stack)-1]
			if len(sc.stack) > 0 {
				continue
			}
			sc.done = true
			if len(sc.elems) > 0 {
				return sc.word(), true, nil
			}
			break
		}

		idx, err := top.p.Uvarint()
		if err != nil {
			return Word{}, false, err
		}
		m, err := sc.wl.macro(idx)
		if err != nil {
			return Word{}, false, err
		}

		switch m := m.(type) {
		case SubwordMacro:
			sc.push(idx)
			sc.open = false
		case InlineMetadataMacro:
			sc.push(idx)
			sc.open = true
		case SubroutineMacro:
			for _, f := range sc.stack {
				if f.sub == int(idx) {
					return Word{}, false, invalidf("recursive subroutine: macro %d", idx)
				}
			}
			sc.stack = append(sc.stack, frame{p: NewPointer(m.Data, 0), sub: int(idx)})
		case ClearMacro:
			if len(sc.elems) == 0 {
				continue
			}
			w = sc.word()
			sc.elems = sc.elems[:0]
			sc.open = false
			return w, true, nil
		case BackupMacro:
			if m.N >= uint64(len(sc.elems)) {
				return Word{}, false, invalidf("backup(%d) with %d elements buffered", m.N, len(sc.elems))
			}
			w = sc.word()
			sc.elems = sc.elems[:len(sc.elems)-int(m.N)-1]
			sc.open = false
			return w, true, nil
		}
	}
	return Word{}, false, nil
}

// push adds a macro index to the open element, starting one if needed.
func (sc *scanner) push(idx uint64) {
	if !sc.open {
		n := len(sc.elems)
		if n < cap(sc.elems) {
			// reuse the backing array of a dropped element
			sc.elems = sc.elems[:n+1]
			sc.elems[n] = sc.elems[n][:0]
		} else {
			sc.elems = append(sc.elems, nil)
		}
		sc.open = true
	}
	last := len(sc.elems) - 1
	sc.elems[last] = append(sc.elems[last], idx)
}

// word builds the buffered word. All indices were range checked on read.
func (sc *scanner) word() Word {
	macros := sc.wl.meta.Macros
	var w Word
	w.Subwords = make([]Subword, 0, len(sc.elems))
	for i, e := range sc.elems {
		if i == len(sc.elems)-1 && sc.open {
			for _, idx := range e {
				w.Metadata = append(w.Metadata, macros[idx].(InlineMetadataMacro).Value)
			}
			break
		}
		var s Subword
		for _, idx := range e[:len(e)-1] {
			s.Metadata = append(s.Metadata, macros[idx].(InlineMetadataMacro).Value)
		}
		s.Text = macros[e[len(e)-1]].(SubwordMacro).Text
		w.Subwords = append(w.Subwords, s)
	}
	return w
}
