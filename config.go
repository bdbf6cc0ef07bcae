package lexicon

import "go.uber.org/zap"

// DefaultClearInterval is the default spacing in bytes between forced clears.
const DefaultClearInterval = 512

// Config controls compilation.
type Config struct {
	Name          string
	Description   string
	LanguageCodes []string

	// Alphabet lists letters in sort order. Entries longer than one grapheme
	// ("ll", "ch") become single subwords. Letters not listed sort after
	// listed ones, by text.
	Alphabet []string

	// Sortalikes groups letters that sort as one, canonical letter first.
	Sortalikes [][]string

	// ClearInterval forces a clear once this many instruction bytes were
	// written since the previous clear. 0 disables forcing, which makes
	// lookups scan linearly.
	ClearInterval uint64

	// Frequencies records how often each subword occurs.
	Frequencies bool

	Logger *zap.Logger
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		ClearInterval: DefaultClearInterval,
		Logger:        zap.NewNop(),
	}
}
