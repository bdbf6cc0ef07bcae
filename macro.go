package lexicon

import (
	"fmt"
	"math/big"
	"strconv"
)

// Macro is one entry of a lexicon's vocabulary table. The instruction stream
// refers to macros by their index in the table.
//
// The set of implementations is closed: SubwordMacro, InlineMetadataMacro,
// ClearMacro, BackupMacro and SubroutineMacro.
type Macro interface {
	fmt.Stringer
	isMacro()
}

// SubwordMacro emits one literal subword.
type SubwordMacro struct {
	Text string
}

// InlineMetadataMacro attaches a value to the subword that follows it, or to
// the word when no subword follows before the word ends.
type InlineMetadataMacro struct {
	Value *big.Int
}

// ClearMacro flushes the current word and empties the buffer.
type ClearMacro struct{}

// BackupMacro flushes the current word and drops its last N+1 elements,
// keeping the rest as the prefix of the next word.
type BackupMacro struct {
	N uint64
}

// SubroutineMacro inlines an embedded instruction stream.
type SubroutineMacro struct {
	Data []byte
}

func (SubwordMacro) isMacro()        {}
func (InlineMetadataMacro) isMacro() {}
func (ClearMacro) isMacro()          {}
func (BackupMacro) isMacro()         {}
func (SubroutineMacro) isMacro()     {}

func (m SubwordMacro) String() string        { return "subword(" + strconv.Quote(m.Text) + ")" }
func (m InlineMetadataMacro) String() string { return "meta(" + m.Value.String() + ")" }
func (ClearMacro) String() string            { return "clear" }
func (m BackupMacro) String() string         { return "backup(" + strconv.FormatUint(m.N, 10) + ")" }
func (m SubroutineMacro) String() string     { return fmt.Sprintf("subroutine(%d bytes)", len(m.Data)) }

// macroKey identifies macros the compiler may share between uses.
func macroKey(m Macro) string {
	switch m := m.(type) {
	case SubwordMacro:
		return "s" + m.Text
	case InlineMetadataMacro:
		return "m" + m.Value.Text(36)
	case ClearMacro:
		return "c"
	case BackupMacro:
		return "b" + strconv.FormatUint(m.N, 36)
	case SubroutineMacro:
		return "r" + string(m.Data)
	}
	panic(fmt.Sprintf("lexicon: unknown macro %T", m))
}
