package lexicon

import (
	"bytes"
	"fmt"
	"math/big"

	"google.golang.org/protobuf/encoding/protowire"
)

/* METADATA FORMAT (protobuf wire format)

Metadata
	1  name            string
	2  description     string
	3  language_codes  repeated string
	4  clear_interval  varint, 0 = no forced clears
	5  macros          repeated Macro
	6  word_count      varint
	7  frequencies     repeated Frequency
	8  sortalikes      repeated SortalikeGroup
	9  alphabet        repeated string

Macro (exactly one field)
	1  subword          string
	2  backup           varint
	3  clear            empty message
	4  inline_metadata  { 1 bigint: varint bytes }
	5  subroutine       { 1 data: bytes }

Frequency       { 1 subword: string, 2 count: varint }
SortalikeGroup  { 1 letters: repeated string }
*/

// Metadata is the header of a lexicon.
type Metadata struct {
	Name          string
	Description   string
	LanguageCodes []string
	ClearInterval uint64
	Macros        []Macro
	WordCount     uint64
	Frequencies   []Frequency
	Sortalikes    [][]string
	Alphabet      []string
}

// Frequency counts the occurrences of one subword over the compiled words.
type Frequency struct {
	Subword string
	Count   uint64
}

// Marshal encodes the metadata message.
func (m *Metadata) Marshal() []byte {
	return m.append(nil)
}

func (m *Metadata) append(b []byte) []byte {
	if m.Name != "" {
		b = appendString(b, 1, m.Name)
	}
	if m.Description != "" {
		b = appendString(b, 2, m.Description)
	}
	for _, code := range m.LanguageCodes {
		b = appendString(b, 3, code)
	}
	if m.ClearInterval != 0 {
		b = protowire.AppendTag(b, 4, protowire.VarintType)
		b = protowire.AppendVarint(b, m.ClearInterval)
	}
	var sub []byte
	for _, macro := range m.Macros {
		sub = appendMacro(sub[:0], macro)
		b = protowire.AppendTag(b, 5, protowire.BytesType)
		b = protowire.AppendBytes(b, sub)
	}
	if m.WordCount != 0 {
		b = protowire.AppendTag(b, 6, protowire.VarintType)
		b = protowire.AppendVarint(b, m.WordCount)
	}
	for _, f := range m.Frequencies {
		sub = appendString(sub[:0], 1, f.Subword)
		sub = protowire.AppendTag(sub, 2, protowire.VarintType)
		sub = protowire.AppendVarint(sub, f.Count)
		b = protowire.AppendTag(b, 7, protowire.BytesType)
		b = protowire.AppendBytes(b, sub)
	}
	for _, group := range m.Sortalikes {
		sub = sub[:0]
		for _, letter := range group {
			sub = appendString(sub, 1, letter)
		}
		b = protowire.AppendTag(b, 8, protowire.BytesType)
		b = protowire.AppendBytes(b, sub)
	}
	for _, letter := range m.Alphabet {
		b = appendString(b, 9, letter)
	}
	return b
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendMacro(b []byte, m Macro) []byte {
	switch m := m.(type) {
	case SubwordMacro:
		b = appendString(b, 1, m.Text)
	case BackupMacro:
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, m.N)
	case ClearMacro:
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, nil)
	case InlineMetadataMacro:
		inner := protowire.AppendTag(nil, 1, protowire.BytesType)
		inner = protowire.AppendBytes(inner, AppendVarint(nil, m.Value))
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendBytes(b, inner)
	case SubroutineMacro:
		inner := protowire.AppendTag(nil, 1, protowire.BytesType)
		inner = protowire.AppendBytes(inner, m.Data)
		b = protowire.AppendTag(b, 5, protowire.BytesType)
		b = protowire.AppendBytes(b, inner)
	default:
		panic(fmt.Sprintf("lexicon: unknown macro %T", m))
	}
	return b
}

// UnmarshalMetadata decodes a metadata message. The result shares no memory
// with b.
func UnmarshalMetadata(b []byte) (Metadata, error) {
	var m Metadata
	err := fields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return 0, wireError("metadata", num, n)
			}
			switch num {
			case 4:
				m.ClearInterval = v
			case 6:
				m.WordCount = v
			}
			return n, nil
		}
		if typ != protowire.BytesType {
			return 0, nil
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, wireError("metadata", num, n)
		}
		switch num {
		case 1:
			m.Name = string(v)
		case 2:
			m.Description = string(v)
		case 3:
			m.LanguageCodes = append(m.LanguageCodes, string(v))
		case 5:
			macro, err := unmarshalMacro(v)
			if err != nil {
				return 0, fmt.Errorf("macro %d: %w", len(m.Macros), err)
			}
			m.Macros = append(m.Macros, macro)
		case 7:
			f, err := unmarshalFrequency(v)
			if err != nil {
				return 0, err
			}
			m.Frequencies = append(m.Frequencies, f)
		case 8:
			group, err := unmarshalStrings(v)
			if err != nil {
				return 0, err
			}
			m.Sortalikes = append(m.Sortalikes, group)
		case 9:
			m.Alphabet = append(m.Alphabet, string(v))
		}
		return n, nil
	})
	return m, err
}

func unmarshalMacro(b []byte) (Macro, error) {
	var macro Macro
	err := fields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return 0, wireError("backup", num, n)
			}
			macro = BackupMacro{N: v}
			return n, nil
		case typ != protowire.BytesType:
			return 0, nil
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, wireError("macro", num, n)
		}
		switch num {
		case 1:
			macro = SubwordMacro{Text: string(v)}
		case 3:
			macro = ClearMacro{}
		case 4:
			value, err := unmarshalBigint(v)
			if err != nil {
				return 0, err
			}
			macro = InlineMetadataMacro{Value: value}
		case 5:
			data, err := unmarshalSubroutine(v)
			if err != nil {
				return 0, err
			}
			macro = SubroutineMacro{Data: data}
		}
		return n, nil
	})
	if err != nil {
		return nil, err
	}
	if macro == nil {
		return nil, invalidf("macro of unknown kind")
	}
	return macro, nil
}

func unmarshalBigint(b []byte) (*big.Int, error) {
	value := new(big.Int)
	err := fields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 || typ != protowire.BytesType {
			return 0, nil
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, wireError("bigint", num, n)
		}
		x, _, err := DecodeVarint(v)
		if err != nil {
			return 0, fmt.Errorf("inline metadata: %w", err)
		}
		value = x
		return n, nil
	})
	return value, err
}

func unmarshalSubroutine(b []byte) ([]byte, error) {
	var data []byte
	err := fields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 || typ != protowire.BytesType {
			return 0, nil
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, wireError("subroutine", num, n)
		}
		data = bytes.Clone(v)
		return n, nil
	})
	if data == nil {
		data = []byte{}
	}
	return data, err
}

func unmarshalFrequency(b []byte) (Frequency, error) {
	var f Frequency
	err := fields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return 0, wireError("frequency", num, n)
			}
			f.Subword = string(v)
			return n, nil
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return 0, wireError("frequency", num, n)
			}
			f.Count = v
			return n, nil
		}
		return 0, nil
	})
	return f, err
}

func unmarshalStrings(b []byte) ([]string, error) {
	var out []string
	err := fields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 || typ != protowire.BytesType {
			return 0, nil
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, wireError("string list", num, n)
		}
		out = append(out, string(v))
		return n, nil
	})
	return out, err
}

// fields calls fn for every field of msg. fn returns the number of value
// bytes it consumed, or 0 to have the field skipped.
func fields(msg []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(msg) > 0 {
		num, typ, n := protowire.ConsumeTag(msg)
		if n < 0 {
			return wireError("tag", 0, n)
		}
		msg = msg[n:]
		n, err := fn(num, typ, msg)
		if err != nil {
			return err
		}
		if n == 0 {
			if n, err = skipField(num, typ, msg); err != nil {
				return err
			}
		}
		msg = msg[n:]
	}
	return nil
}

func skipField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch typ {
	case protowire.VarintType, protowire.Fixed32Type, protowire.Fixed64Type, protowire.BytesType:
		n := protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return 0, wireError("unknown field", num, n)
		}
		return n, nil
	}
	return 0, invalidf("field %d has unsupported wire type %d", num, typ)
}

func wireError(what string, num protowire.Number, n int) error {
	return invalidf("%s field %d: %v", what, num, protowire.ParseError(n))
}
