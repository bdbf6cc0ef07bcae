package lexicon

import (
	"iter"
)

// Strings adapts a slice of words to the input of Compile.
func Strings(words []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, w := range words {
			if !yield(w, nil) {
				return
			}
		}
	}
}

// Compile runs the whole pipeline: words are split into subwords, sorted and
// deduplicated, sortalike variants merged, and the result compiled. The
// first error of the source aborts compilation.
func Compile(words iter.Seq2[string, error], cfg Config) (*Lexicon, error) {
	coll, err := NewCollator(cfg.Alphabet, cfg.Sortalikes)
	if err != nil {
		return nil, err
	}

	var srcErr error
	split := func(yield func(Word) bool) {
		for s, err := range words {
			if err != nil {
				srcErr = err
				return
			}
			if s == "" {
				continue
			}
			if !yield(coll.Split(s)) {
				return
			}
		}
	}

	comp := NewCompiler(cfg)
	for w := range MergeSortalikes(SortAndDeduplicate(split, coll), coll) {
		if srcErr != nil {
			break
		}
		if err := comp.Add(w); err != nil {
			return nil, err
		}
	}
	if srcErr != nil {
		return nil, srcErr
	}
	return comp.Finish(), nil
}
