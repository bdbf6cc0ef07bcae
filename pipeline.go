package lexicon

import (
	"iter"
	"math/big"
	"strings"

	"github.com/tidwall/btree"
)

type sortItem struct {
	base Word
	word Word
	text string
}

// SortAndDeduplicate returns words ordered by the collator with exact
// duplicates removed; the first occurrence wins. Sorting needs the whole
// input, so the returned sequence buffers every word in memory when
// iteration starts.
func SortAndDeduplicate(words iter.Seq[Word], c *Collator) iter.Seq[Word] {
	return func(yield func(Word) bool) {
		tr := btree.NewBTreeGOptions(func(a, b sortItem) bool {
			if r := c.compareSubwords(a.base, b.base); r != 0 {
				return r < 0
			}
			return strings.Compare(a.text, b.text) < 0
		}, btree.Options{NoLocks: true})

		var hint btree.PathHint
		for w := range words {
			if len(w.Subwords) == 0 {
				continue
			}
			item := sortItem{base: c.Base(w), word: w, text: w.String()}
			if _, found := tr.GetHint(item, &hint); found {
				continue
			}
			tr.SetHint(item, &hint)
		}

		tr.Scan(func(item sortItem) bool {
			return yield(item.word)
		})
	}
}

// MergeSortalikes collapses each run of words sharing a base form into one
// word. A run of two or more is emitted as the base word whose metadata lists
// the packed variant choice of every member, in input order. A run of one is
// emitted unchanged with no metadata, so "nothing recorded" stays distinct
// from "canonical spelling". Without sortalike groups words pass through.
func MergeSortalikes(sorted iter.Seq[Word], c *Collator) iter.Seq[Word] {
	m := c.sortalikes
	if m.Empty() {
		return sorted
	}
	return func(yield func(Word) bool) {
		var (
			run     []Word
			runBase Word
			accents []*big.Int
		)
		flush := func() bool {
			switch len(run) {
			case 0:
				return true
			case 1:
				w := run[0]
				w.Metadata = nil
				return yield(w)
			default:
				out := runBase
				out.Metadata = accents
				return yield(out)
			}
		}

		for w := range sorted {
			base, accent := m.ExtractBaseWord(w)
			if len(run) > 0 && c.compareSubwords(base, runBase) == 0 {
				run = append(run, w)
				accents = append(accents, accent)
				continue
			}
			if !flush() {
				return
			}
			run = append(run[:0], w)
			runBase = base
			accents = []*big.Int{accent}
		}
		flush()
	}
}
