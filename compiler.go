package lexicon

import (
	"errors"
	"fmt"
	"math/big"
	"slices"

	"go.uber.org/zap"
)

// Compiler turns a sorted, deduplicated sequence of words into a lexicon.
// Each word shares the longest possible prefix with the word before it: a
// control macro flushes the previous word and rewinds the buffer to the
// shared prefix, then only the remainder is emitted.
//
// Macros enter the table the first time the instruction stream refers to
// them, so compiling the same input twice gives identical bytes.
type Compiler struct {
	cfg Config
	log *zap.Logger

	macros []Macro
	index  map[string]int
	out    []byte

	prev      [][]string // macro keys of the previous word, per element
	numAdded  int
	lastClear int

	freq      map[string]uint64
	freqOrder []string

	lexicon *Lexicon
}

// element is one subword preceded by its metadata, or the trailing
// word-level metadata.
type element []Macro

// NewCompiler creates a compiler. Words must be added in collation order.
func NewCompiler(cfg Config) *Compiler {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Compiler{
		cfg:   cfg,
		log:   log,
		index: make(map[string]int),
		freq:  make(map[string]uint64),
	}
}

// NumAdded returns the number of words added so far.
func (c *Compiler) NumAdded() int {
	return c.numAdded
}

// Len returns the number of instruction bytes written so far.
func (c *Compiler) Len() int {
	return len(c.out)
}

// Add appends a word. Sortedness is not checked.
func (c *Compiler) Add(w Word) error {
	if c.lexicon != nil {
		return errors.New("lexicon: add to a finished compiler")
	}
	if len(w.Subwords) == 0 {
		return errors.New("lexicon: cannot add an empty word")
	}
	if err := checkMetadata(w); err != nil {
		return err
	}

	elems := wordElements(w)
	keys := make([][]string, len(elems))
	for i, e := range elems {
		keys[i] = make([]string, len(e))
		for j, m := range e {
			keys[i][j] = macroKey(m)
		}
	}

	shared := 0
	if c.numAdded > 0 {
		for shared < len(keys) && shared < len(c.prev) && slices.Equal(keys[shared], c.prev[shared]) {
			shared++
		}
		// A backup always drops at least one element.
		if shared >= len(c.prev) {
			shared = len(c.prev) - 1
		}
		forced := c.cfg.ClearInterval > 0 && uint64(len(c.out)-c.lastClear) >= c.cfg.ClearInterval
		if shared == 0 || forced {
			if forced && shared > 0 {
				c.log.Debug("forced clear", zap.Int("offset", len(c.out)), zap.Int("shared", shared))
			}
			c.lastClear = len(c.out)
			c.emit(ClearMacro{})
			shared = 0
		} else {
			c.emit(BackupMacro{N: uint64(len(c.prev) - shared - 1)})
		}
	}

	for _, e := range elems[shared:] {
		for _, m := range e {
			c.emit(m)
		}
	}

	if c.cfg.Frequencies {
		for _, s := range w.Subwords {
			if _, ok := c.freq[s.Text]; !ok {
				c.freqOrder = append(c.freqOrder, s.Text)
			}
			c.freq[s.Text]++
		}
	}

	c.prev = keys
	c.numAdded++
	return nil
}

// checkMetadata rejects values that have no varint encoding.
func checkMetadata(w Word) error {
	check := func(values []*big.Int) error {
		for _, v := range values {
			switch {
			case v == nil:
				return fmt.Errorf("lexicon: word %q: nil metadata value", w)
			case v.Sign() < 0:
				return fmt.Errorf("lexicon: word %q: negative metadata value %s", w, v)
			}
		}
		return nil
	}
	for _, s := range w.Subwords {
		if err := check(s.Metadata); err != nil {
			return err
		}
	}
	return check(w.Metadata)
}

func wordElements(w Word) []element {
	elems := make([]element, 0, len(w.Subwords)+1)
	for _, s := range w.Subwords {
		e := make(element, 0, len(s.Metadata)+1)
		for _, v := range s.Metadata {
			e = append(e, InlineMetadataMacro{Value: v})
		}
		elems = append(elems, append(e, SubwordMacro{Text: s.Text}))
	}
	if len(w.Metadata) > 0 {
		e := make(element, len(w.Metadata))
		for i, v := range w.Metadata {
			e[i] = InlineMetadataMacro{Value: v}
		}
		elems = append(elems, e)
	}
	return elems
}

// emit writes a reference to m, adding m to the table on first use.
func (c *Compiler) emit(m Macro) {
	key := macroKey(m)
	i, ok := c.index[key]
	if !ok {
		i = len(c.macros)
		c.index[key] = i
		c.macros = append(c.macros, m)
	}
	c.out = AppendUvarint(c.out, uint64(i))
}

// Finish completes the lexicon. The last word needs no control macro: the
// reader flushes whatever is buffered at the end of the stream. Finish may be
// called more than once and returns the same lexicon.
func (c *Compiler) Finish() *Lexicon {
	if c.lexicon != nil {
		return c.lexicon
	}
	meta := Metadata{
		Name:          c.cfg.Name,
		Description:   c.cfg.Description,
		LanguageCodes: c.cfg.LanguageCodes,
		ClearInterval: c.cfg.ClearInterval,
		Macros:        c.macros,
		WordCount:     uint64(c.numAdded),
		Sortalikes:    c.cfg.Sortalikes,
		Alphabet:      c.cfg.Alphabet,
	}
	if c.cfg.Frequencies {
		meta.Frequencies = make([]Frequency, len(c.freqOrder))
		for i, s := range c.freqOrder {
			meta.Frequencies[i] = Frequency{Subword: s, Count: c.freq[s]}
		}
	}
	c.lexicon = &Lexicon{Metadata: meta, Instructions: c.out}

	c.log.Info("lexicon compiled",
		zap.String("name", c.cfg.Name),
		zap.Int("words", c.numAdded),
		zap.Int("macros", len(c.macros)),
		zap.Int("bytes", len(c.out)),
	)

	c.index = nil
	c.prev = nil
	c.freq = nil
	return c.lexicon
}
