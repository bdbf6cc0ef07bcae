package lexicon

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func compileWords(t *testing.T, cfg Config, words ...Word) *Lexicon {
	t.Helper()
	c := NewCompiler(cfg)
	for _, w := range words {
		require.NoError(t, c.Add(w))
	}
	return c.Finish()
}

func decodeAll(t *testing.T, lex *Lexicon) []Word {
	t.Helper()
	wl, err := New(lex.Marshal())
	require.NoError(t, err)
	var out []Word
	for w, err := range wl.All() {
		require.NoError(t, err)
		out = append(out, w)
	}
	return out
}

func instructions(t *testing.T, lex *Lexicon) []uint64 {
	t.Helper()
	var out []uint64
	p := NewPointer(lex.Instructions, 0)
	for !p.AtEnd() {
		v, err := p.Uvarint()
		require.NoError(t, err)
		out = append(out, v)
	}
	return out
}

func TestCompilerInstructions(t *testing.T) {
	s := NewSplitter(nil)
	lex := compileWords(t, Config{}, s.Split("blue"), s.Split("bluer"), s.Split("bluest"), s.Split("green"))

	require.Equal(t, []Macro{
		SubwordMacro{Text: "b"},
		SubwordMacro{Text: "l"},
		SubwordMacro{Text: "u"},
		SubwordMacro{Text: "e"},
		BackupMacro{N: 0},
		SubwordMacro{Text: "r"},
		SubwordMacro{Text: "s"},
		SubwordMacro{Text: "t"},
		ClearMacro{},
		SubwordMacro{Text: "g"},
		SubwordMacro{Text: "n"},
	}, lex.Metadata.Macros)
	require.Equal(t, []uint64{
		0, 1, 2, 3, // blue
		4, 3, 5, // bluer: the shared "e" is re-emitted
		4, 6, 7, // bluest
		8, 9, 5, 3, 3, 10, // green, no trailing control macro
	}, instructions(t, lex))
	require.EqualValues(t, 4, lex.Metadata.WordCount)

	require.Equal(t, []string{"blue", "bluer", "bluest", "green"}, wordStrings(decodeAll(t, lex)))
}

func TestCompilerDeterministic(t *testing.T) {
	words := []string{"zebra", "apple", "apples", "banana", "band", "bandana", "apple"}
	cfg := DefaultConfig()
	cfg.ClearInterval = 4
	a, err := Compile(Strings(words), cfg)
	require.NoError(t, err)
	b, err := Compile(Strings(words), cfg)
	require.NoError(t, err)
	require.True(t, bytes.Equal(a.Marshal(), b.Marshal()))
}

func countClears(t *testing.T, lex *Lexicon) int {
	n := 0
	for _, i := range instructions(t, lex) {
		if _, ok := lex.Metadata.Macros[i].(ClearMacro); ok {
			n++
		}
	}
	return n
}

func TestCompilerClearInterval(t *testing.T) {
	s := NewSplitter(nil)
	var words []Word
	for c := 'a'; c <= 'z'; c++ {
		words = append(words, s.Split(fmt.Sprintf("a%c", c)))
	}
	want := wordStrings(words)

	tests := []struct {
		interval uint64
		check    func(clears int)
	}{
		{0, func(clears int) { require.Zero(t, clears) }},
		{1, func(clears int) { require.Equal(t, len(words)-1, clears) }},
		{8, func(clears int) {
			require.Positive(t, clears)
			require.Less(t, clears, len(words)-1)
		}},
	}
	for _, tt := range tests {
		lex := compileWords(t, Config{ClearInterval: tt.interval}, words...)
		tt.check(countClears(t, lex))
		if tt.interval == 1 {
			for _, m := range lex.Metadata.Macros {
				_, isBackup := m.(BackupMacro)
				require.False(t, isBackup, "unexpected %s", m)
			}
		}
		require.Equal(t, want, wordStrings(decodeAll(t, lex)), "interval %d", tt.interval)
	}
}

func TestCompilerMetadata(t *testing.T) {
	huge, ok := new(big.Int).SetString("99000000000000000000000", 10)
	require.True(t, ok)

	w1 := NewWord("a", "b")
	w1.Subwords[1].Metadata = []*big.Int{big.NewInt(5)}
	w1.Metadata = []*big.Int{huge}

	w2 := NewWord("a", "c")

	w3 := NewWord("a", "c", "d")
	w3.Subwords[0].Metadata = []*big.Int{big.NewInt(5), huge}
	w3.Metadata = []*big.Int{big.NewInt(0), big.NewInt(5)}

	words := []Word{w1, w2, w3}
	got := decodeAll(t, compileWords(t, Config{}, words...))
	require.Len(t, got, len(words))
	for i := range words {
		require.True(t, words[i].Equal(got[i]), "word %d: want %v, got %v", i, words[i], got[i])
	}
}

func TestCompilerErrors(t *testing.T) {
	c := NewCompiler(Config{})
	require.Error(t, c.Add(Word{}))
	require.NoError(t, c.Add(NewWord("x")))
	lex := c.Finish()
	require.Same(t, lex, c.Finish())
	require.Error(t, c.Add(NewWord("y")))
	require.Equal(t, 1, c.NumAdded())
}

func TestCompilerRejectsBadMetadata(t *testing.T) {
	negative := NewWord("a", "b")
	negative.Metadata = []*big.Int{big.NewInt(-1)}

	nilWord := NewWord("a")
	nilWord.Metadata = []*big.Int{nil}

	negativeSub := NewWord("a", "b")
	negativeSub.Subwords[1].Metadata = []*big.Int{big.NewInt(3), big.NewInt(-7)}

	nilSub := NewWord("a")
	nilSub.Subwords[0].Metadata = []*big.Int{nil}

	for name, w := range map[string]Word{
		"negative word metadata":    negative,
		"nil word metadata":         nilWord,
		"negative subword metadata": negativeSub,
		"nil subword metadata":      nilSub,
	} {
		t.Run(name, func(t *testing.T) {
			c := NewCompiler(Config{})
			require.Error(t, c.Add(w))
			require.Zero(t, c.NumAdded())
			require.Zero(t, c.Len())

			// a rejected word leaves the compiler usable
			require.NoError(t, c.Add(NewWord("z")))
			require.NotPanics(t, func() { c.Finish().Marshal() })
		})
	}
}

func TestCompileFrequencies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Frequencies = true
	lex, err := Compile(Strings([]string{"b", "aba"}), cfg)
	require.NoError(t, err)
	require.Equal(t, []Frequency{{Subword: "a", Count: 2}, {Subword: "b", Count: 2}}, lex.Metadata.Frequencies)
}

func TestCompileSourceError(t *testing.T) {
	boom := errors.New("boom")
	src := func(yield func(string, error) bool) {
		if !yield("a", nil) {
			return
		}
		yield("", boom)
	}
	_, err := Compile(src, DefaultConfig())
	require.ErrorIs(t, err, boom)
}

func TestCompileSortsInput(t *testing.T) {
	words := []string{"greenest", "blue", "green", "bluest", "greener", "bluer", "greenery", "blue"}
	lex, err := Compile(Strings(words), DefaultConfig())
	require.NoError(t, err)

	want := slices.Clone(words[:7])
	slices.Sort(want)
	require.Equal(t, want, wordStrings(decodeAll(t, lex)))
	require.EqualValues(t, 7, lex.Metadata.WordCount)
}
