package lexicon

import (
	"fmt"
	"math/big"
	"slices"

	"golang.org/x/text/unicode/norm"
)

// SortalikeMap records groups of letters that sort as one, such as "e" and
// "é". The first letter of a group is its canonical form. A word's choice of
// variants is packed into one integer: one digit per occurrence of a grouped
// letter, with the group size as radix and the first occurrence as the least
// significant digit.
type SortalikeMap struct {
	groups [][]string
	info   map[string]sortInfo
}

type sortInfo struct {
	group   int
	variant int
}

// NewSortalikeMap builds the reverse lookup for groups. A letter may appear
// in one group only.
func NewSortalikeMap(groups [][]string) (*SortalikeMap, error) {
	m := &SortalikeMap{info: make(map[string]sortInfo)}
	for _, g := range groups {
		if len(g) == 0 {
			return nil, fmt.Errorf("sortalike group %d is empty", len(m.groups))
		}
		letters := make([]string, len(g))
		for i, letter := range g {
			letter = norm.NFC.String(letter)
			if _, dup := m.info[letter]; dup {
				return nil, fmt.Errorf("letter %q is in more than one sortalike group", letter)
			}
			m.info[letter] = sortInfo{group: len(m.groups), variant: i}
			letters[i] = letter
		}
		m.groups = append(m.groups, letters)
	}
	return m, nil
}

// Groups returns the configured groups.
func (m *SortalikeMap) Groups() [][]string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.groups)
}

// Empty reports whether no letters are grouped.
func (m *SortalikeMap) Empty() bool {
	return m == nil || len(m.info) == 0
}

// ExtractBaseWord replaces every grouped letter of w with its canonical form
// and returns the packed variant choices. Metadata is carried over.
func (m *SortalikeMap) ExtractBaseWord(w Word) (Word, *big.Int) {
	accent := new(big.Int)
	if m.Empty() {
		return w, accent
	}
	base := Word{
		Subwords: make([]Subword, len(w.Subwords)),
		Metadata: w.Metadata,
	}
	radix := big.NewInt(1)
	digit := new(big.Int)
	for i, s := range w.Subwords {
		base.Subwords[i] = s
		info, ok := m.info[s.Text]
		if !ok {
			continue
		}
		group := m.groups[info.group]
		base.Subwords[i].Text = group[0]
		if len(group) < 2 {
			continue
		}
		digit.SetInt64(int64(info.variant))
		accent.Add(accent, digit.Mul(digit, radix))
		radix.Mul(radix, big.NewInt(int64(len(group))))
	}
	return base, accent
}

// MakeSortalike is the inverse of ExtractBaseWord: it substitutes the
// variants encoded in accent back into base.
func (m *SortalikeMap) MakeSortalike(base Word, accent *big.Int) Word {
	if m.Empty() || accent == nil {
		return base
	}
	w := Word{
		Subwords: make([]Subword, len(base.Subwords)),
		Metadata: base.Metadata,
	}
	rest := new(big.Int).Set(accent)
	digit := new(big.Int)
	for i, s := range base.Subwords {
		w.Subwords[i] = s
		info, ok := m.info[s.Text]
		if !ok || info.variant != 0 {
			continue
		}
		group := m.groups[info.group]
		if len(group) < 2 {
			continue
		}
		rest.QuoRem(rest, big.NewInt(int64(len(group))), digit)
		w.Subwords[i].Text = group[digit.Int64()]
	}
	return w
}
