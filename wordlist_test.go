package lexicon

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func stream(indices ...uint64) []byte {
	var b []byte
	for _, i := range indices {
		b = AppendUvarint(b, i)
	}
	return b
}

func handBuilt(macros []Macro, indices ...uint64) []byte {
	l := &Lexicon{Metadata: Metadata{Macros: macros}, Instructions: stream(indices...)}
	return l.Marshal()
}

func collectWords(wl *WordList) ([]string, error) {
	var out []string
	for w, err := range wl.All() {
		if err != nil {
			return out, err
		}
		out = append(out, w.String())
	}
	return out, nil
}

func requireInvalid(t *testing.T, err error) *InvalidLexiconError {
	t.Helper()
	var invalid *InvalidLexiconError
	require.ErrorAs(t, err, &invalid)
	return invalid
}

func TestSubroutines(t *testing.T) {
	macros := []Macro{
		SubwordMacro{Text: "a"},
		SubwordMacro{Text: "b"},
		ClearMacro{},
		SubroutineMacro{Data: stream(0, 1)},
		SubroutineMacro{Data: stream(3, 3, 2)},
		SubwordMacro{Text: "c"},
	}

	nested, err := New(handBuilt(macros, 4, 3, 5))
	require.NoError(t, err)
	inlined, err := New(handBuilt(macros, 0, 1, 0, 1, 2, 0, 1, 5))
	require.NoError(t, err)

	want := []string{"abab", "abc"}
	for _, wl := range []*WordList{nested, inlined} {
		got, err := collectWords(wl)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestRecursiveSubroutines(t *testing.T) {
	tests := map[string][]Macro{
		"direct": {
			SubroutineMacro{Data: stream(0)},
		},
		"indirect": {
			SubwordMacro{Text: "a"},
			SubroutineMacro{Data: stream(0, 2)},
			SubroutineMacro{Data: stream(3)},
			SubroutineMacro{Data: stream(0, 1)},
		},
	}
	for name, macros := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := New(handBuilt(macros, 0))
			requireInvalid(t, err)
		})
	}
}

func TestSharedSubroutineIsNotRecursive(t *testing.T) {
	macros := []Macro{
		SubwordMacro{Text: "x"},
		SubroutineMacro{Data: stream(0)},
		SubroutineMacro{Data: stream(1, 1)},
	}
	wl, err := New(handBuilt(macros, 2, 1))
	require.NoError(t, err)
	got, err := collectWords(wl)
	require.NoError(t, err)
	require.Equal(t, []string{"xxx"}, got)
}

func TestOutOfRangeMacro(t *testing.T) {
	wl, err := New(handBuilt([]Macro{SubwordMacro{Text: "a"}}, 0, 7))
	require.NoError(t, err, "bad references are reported when reached")

	_, err = collectWords(wl)
	invalid := requireInvalid(t, err)
	require.EqualValues(t, 7, invalid.Index)
	require.Equal(t, 1, invalid.Limit)

	_, err = wl.Has("a")
	requireInvalid(t, err)

	wl, err = New(handBuilt([]Macro{SubroutineMacro{Data: stream(9)}}, 0))
	require.NoError(t, err)
	_, err = collectWords(wl)
	invalid = requireInvalid(t, err)
	require.EqualValues(t, 9, invalid.Index)
}

func TestBadBackup(t *testing.T) {
	wl, err := New(handBuilt([]Macro{SubwordMacro{Text: "a"}, BackupMacro{N: 3}}, 0, 1))
	require.NoError(t, err)
	_, err = collectWords(wl)
	requireInvalid(t, err)
}

func TestTruncatedInstruction(t *testing.T) {
	l := &Lexicon{Metadata: Metadata{Macros: []Macro{SubwordMacro{Text: "a"}}}, Instructions: []byte{0, 0x80}}
	wl, err := New(l.Marshal())
	require.NoError(t, err)
	_, err = collectWords(wl)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestContainerErrors(t *testing.T) {
	meta := (&Metadata{Macros: []Macro{SubwordMacro{Text: "a"}}}).Marshal()
	withMeta := protowire.AppendBytes(protowire.AppendTag(nil, 1, protowire.BytesType), meta)
	withData := protowire.AppendBytes(protowire.AppendTag(nil, 2, protowire.BytesType), stream(0))

	tests := map[string][]byte{
		"missing data":     withMeta,
		"missing metadata": withData,
		"group wire type":  protowire.AppendTag(append(bytes.Clone(withMeta), withData...), 3, protowire.StartGroupType),
		"data as varint":   protowire.AppendVarint(protowire.AppendTag(bytes.Clone(withMeta), 2, protowire.VarintType), 5),
		"short data":       append(append(bytes.Clone(withMeta), 0x12, 0x05), 0),
	}
	for name, buf := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := New(buf)
			requireInvalid(t, err)
		})
	}
}

func TestUnknownFieldsSkipped(t *testing.T) {
	meta := (&Metadata{Name: "x", Macros: []Macro{SubwordMacro{Text: "a"}}}).Marshal()
	meta = protowire.AppendVarint(protowire.AppendTag(meta, 20, protowire.VarintType), 1)
	meta = protowire.AppendString(protowire.AppendTag(meta, 21, protowire.BytesType), "ignored")

	var buf []byte
	buf = protowire.AppendFixed32(protowire.AppendTag(buf, 15, protowire.Fixed32Type), 7)
	buf = protowire.AppendBytes(protowire.AppendTag(buf, 1, protowire.BytesType), meta)
	buf = protowire.AppendFixed64(protowire.AppendTag(buf, 16, protowire.Fixed64Type), 7)
	buf = protowire.AppendBytes(protowire.AppendTag(buf, 2, protowire.BytesType), stream(0, 0))
	buf = protowire.AppendString(protowire.AppendTag(buf, 17, protowire.BytesType), "trailer")

	wl, err := New(buf)
	require.NoError(t, err)
	require.Equal(t, "x", wl.Metadata().Name)
	got, err := collectWords(wl)
	require.NoError(t, err)
	require.Equal(t, []string{"aa"}, got)
}

func TestMetadataRoundTrip(t *testing.T) {
	huge, ok := new(big.Int).SetString("99000000000000000000000", 10)
	require.True(t, ok)

	in := Metadata{
		Name:          "test",
		Description:   "a test lexicon",
		LanguageCodes: []string{"es", "es-MX"},
		ClearInterval: 64,
		Macros: []Macro{
			SubwordMacro{Text: "ñ"},
			BackupMacro{N: 300},
			ClearMacro{},
			InlineMetadataMacro{Value: huge},
			SubroutineMacro{Data: stream(0, 1)},
		},
		WordCount:   12,
		Frequencies: []Frequency{{Subword: "ñ", Count: 3}, {Subword: "a", Count: 1}},
		Sortalikes:  testSortalikes,
		Alphabet:    []string{"a", "ch", "ll", "ñ"},
	}
	raw := in.Marshal()
	out, err := UnmarshalMetadata(raw)
	require.NoError(t, err)

	require.Equal(t, in.Name, out.Name)
	require.Equal(t, in.Description, out.Description)
	require.Equal(t, in.LanguageCodes, out.LanguageCodes)
	require.Equal(t, in.ClearInterval, out.ClearInterval)
	require.Equal(t, in.WordCount, out.WordCount)
	require.Equal(t, in.Frequencies, out.Frequencies)
	require.Equal(t, in.Sortalikes, out.Sortalikes)
	require.Equal(t, in.Alphabet, out.Alphabet)
	require.Len(t, out.Macros, len(in.Macros))
	for i := range in.Macros {
		require.Equal(t, in.Macros[i].String(), out.Macros[i].String())
	}
	require.Zero(t, huge.Cmp(out.Macros[3].(InlineMetadataMacro).Value))
	require.Equal(t, stream(0, 1), out.Macros[4].(SubroutineMacro).Data)

	// decoded values do not alias the input
	for i := range raw {
		raw[i] = 0
	}
	require.Equal(t, "test", out.Name)
	require.Equal(t, stream(0, 1), out.Macros[4].(SubroutineMacro).Data)
}

func TestEmptyMacro(t *testing.T) {
	meta := protowire.AppendBytes(protowire.AppendTag(nil, 5, protowire.BytesType), nil)
	_, err := UnmarshalMetadata(meta)
	requireInvalid(t, err)
}

func TestDump(t *testing.T) {
	s := NewSplitter(nil)
	lex := compileWords(t, Config{Name: "colors"}, s.Split("blue"), s.Split("bluer"))
	wl, err := New(lex.Marshal())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, wl.Dump(&buf))
	out := buf.String()
	require.Contains(t, out, `name="colors" words=2`)
	require.Contains(t, out, "macro    4 backup(0)")
	require.Contains(t, out, "[00000000]    0 subword(\"b\")")
	require.Contains(t, out, "[00000006]    5 subword(\"r\")")
}

func TestNewDoesNotCopy(t *testing.T) {
	s := NewSplitter(nil)
	buf := compileWords(t, Config{}, s.Split("ab")).Marshal()
	wl, err := New(buf)
	require.NoError(t, err)

	// the instruction stream ends the buffer; rewriting it changes the words
	buf[len(buf)-1] = 0
	got, err := collectWords(wl)
	require.NoError(t, err)
	require.Equal(t, []string{"aa"}, got)
}

func TestTruncatedContainer(t *testing.T) {
	_, err := New([]byte{0x0a})
	require.ErrorIs(t, err, ErrTruncated)
}
