package lexicon

import (
	"cmp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Collator orders words the way a lexicon stores them: by base form, with
// alphabet letters ranked by their position ahead of everything else, and
// ties broken by the original spelling.
type Collator struct {
	splitter   *Splitter
	sortalikes *SortalikeMap
	rank       map[string]int
	alphabet   []string
}

// NewCollator returns a collator for an optional alphabet and optional
// sortalike groups.
func NewCollator(alphabet []string, sortalikes [][]string) (*Collator, error) {
	m, err := NewSortalikeMap(sortalikes)
	if err != nil {
		return nil, err
	}
	c := &Collator{
		splitter:   NewSplitter(alphabet),
		sortalikes: m,
		alphabet:   alphabet,
	}
	if len(alphabet) > 0 {
		c.rank = make(map[string]int, len(alphabet))
		for i, letter := range alphabet {
			letter = norm.NFC.String(letter)
			if _, ok := c.rank[letter]; !ok {
				c.rank[letter] = i
			}
		}
	}
	return c, nil
}

// Split cuts s into subwords using the collator's alphabet.
func (c *Collator) Split(s string) Word {
	return c.splitter.Split(s)
}

// Sortalikes returns the sortalike map, which may be empty.
func (c *Collator) Sortalikes() *SortalikeMap {
	return c.sortalikes
}

// Base returns w with grouped letters replaced by their canonical form.
func (c *Collator) Base(w Word) Word {
	base, _ := c.sortalikes.ExtractBaseWord(w)
	return base
}

// Compare orders a and b by base form, then by spelling.
func (c *Collator) Compare(a, b Word) int {
	if r := c.CompareBase(a, b); r != 0 {
		return r
	}
	return strings.Compare(a.String(), b.String())
}

// CompareBase orders a and b by base form only.
func (c *Collator) CompareBase(a, b Word) int {
	return c.compareSubwords(c.Base(a), c.Base(b))
}

func (c *Collator) compareSubwords(a, b Word) int {
	for i := 0; i < len(a.Subwords) && i < len(b.Subwords); i++ {
		if r := c.compareLetter(a.Subwords[i].Text, b.Subwords[i].Text); r != 0 {
			return r
		}
	}
	return cmp.Compare(len(a.Subwords), len(b.Subwords))
}

func (c *Collator) compareLetter(a, b string) int {
	if a == b {
		return 0
	}
	ra, aok := c.rank[a]
	rb, bok := c.rank[b]
	switch {
	case aok && bok:
		return cmp.Compare(ra, rb)
	case aok:
		return -1
	case bok:
		return 1
	}
	return strings.Compare(a, b)
}
