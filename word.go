package lexicon

import (
	"math/big"
	"slices"
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// Subword is the atomic unit of a word: usually one grapheme cluster, or a
// configured letter group such as "ll". Metadata holds the inline values
// attached to it.
type Subword struct {
	Text     string
	Metadata []*big.Int
}

// Word is a non-empty sequence of subwords plus word-level metadata.
type Word struct {
	Subwords []Subword
	Metadata []*big.Int
}

// NewWord builds a word with one subword per argument and no metadata.
func NewWord(texts ...string) Word {
	w := Word{Subwords: make([]Subword, len(texts))}
	for i, t := range texts {
		w.Subwords[i].Text = t
	}
	return w
}

// String concatenates the subword texts.
func (w Word) String() string {
	if len(w.Subwords) == 1 {
		return w.Subwords[0].Text
	}
	var sb strings.Builder
	for _, s := range w.Subwords {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Texts returns the subword texts in order.
func (w Word) Texts() []string {
	out := make([]string, len(w.Subwords))
	for i, s := range w.Subwords {
		out[i] = s.Text
	}
	return out
}

// Equal reports whether both words have the same subwords and metadata.
func (w Word) Equal(o Word) bool {
	if len(w.Subwords) != len(o.Subwords) || !equalInts(w.Metadata, o.Metadata) {
		return false
	}
	for i := range w.Subwords {
		if w.Subwords[i].Text != o.Subwords[i].Text ||
			!equalInts(w.Subwords[i].Metadata, o.Subwords[i].Metadata) {
			return false
		}
	}
	return true
}

func equalInts(a, b []*big.Int) bool {
	return slices.EqualFunc(a, b, func(x, y *big.Int) bool { return x.Cmp(y) == 0 })
}

// Splitter cuts strings into subwords. Multi-character letters of the
// alphabet win over grapheme segmentation, longest first.
type Splitter struct {
	clusters []string
}

// NewSplitter returns a splitter for the given alphabet. A nil alphabet
// splits on grapheme clusters only.
func NewSplitter(alphabet []string) *Splitter {
	s := &Splitter{}
	for _, letter := range alphabet {
		letter = norm.NFC.String(letter)
		if uniseg.GraphemeClusterCount(letter) > 1 {
			s.clusters = append(s.clusters, letter)
		}
	}
	slices.SortStableFunc(s.clusters, func(a, b string) int {
		return len(b) - len(a)
	})
	return s
}

// Split normalizes text to NFC and returns it as a word without metadata.
func (s *Splitter) Split(text string) Word {
	text = norm.NFC.String(text)
	var bounds []int
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		from, _ := gr.Positions()
		bounds = append(bounds, from)
	}
	bounds = append(bounds, len(text))

	var w Word
	for i := 0; i+1 < len(bounds); {
		pos := bounds[i]
		next := i + 1
		for _, c := range s.clusters {
			if !strings.HasPrefix(text[pos:], c) {
				continue
			}
			if j, ok := slices.BinarySearch(bounds, pos+len(c)); ok {
				next = j
				break
			}
		}
		w.Subwords = append(w.Subwords, Subword{Text: text[pos:bounds[next]]})
		i = next
	}
	return w
}
