package lexicon

import (
	"errors"
	"fmt"
	"math"
)

// ErrTruncated is returned when a varint or a byte view runs past the end
// of its buffer.
var ErrTruncated = errors.New("lexicon: truncated input")

// InvalidLexiconError reports a structural problem with a lexicon: a missing
// top-level field, an unsupported wire type, a macro index out of range or
// a recursive subroutine.
type InvalidLexiconError struct {
	Reason string

	// Index and Limit describe out-of-range macro references.
	// Index is -1 for all other errors.
	Index int64
	Limit int
}

func (e *InvalidLexiconError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid lexicon: %s: macro index %d not in [0, %d)", e.Reason, e.Index, e.Limit)
	}
	return "invalid lexicon: " + e.Reason
}

func invalidf(format string, args ...any) *InvalidLexiconError {
	return &InvalidLexiconError{Reason: fmt.Sprintf(format, args...), Index: -1}
}

func outOfRange(index uint64, limit int) *InvalidLexiconError {
	i := int64(math.MaxInt64)
	if index < math.MaxInt64 {
		i = int64(index)
	}
	return &InvalidLexiconError{Reason: "bad reference", Index: i, Limit: limit}
}
