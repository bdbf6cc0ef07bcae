package lexicon

import (
	"io"

	"google.golang.org/protobuf/encoding/protowire"
)

// Container field numbers.
const (
	fieldMetadata     = 1
	fieldInstructions = 2
)

// Lexicon is a compiled word list: the metadata header plus the instruction
// stream, a flat sequence of varint macro indices.
type Lexicon struct {
	Metadata     Metadata
	Instructions []byte
}

// Marshal returns the serialized container.
func (l *Lexicon) Marshal() []byte {
	meta := l.Metadata.Marshal()
	b := make([]byte, 0, len(meta)+len(l.Instructions)+2*protowire.SizeVarint(uint64(len(l.Instructions)))+2)
	b = protowire.AppendTag(b, fieldMetadata, protowire.BytesType)
	b = protowire.AppendBytes(b, meta)
	b = protowire.AppendTag(b, fieldInstructions, protowire.BytesType)
	b = protowire.AppendBytes(b, l.Instructions)
	return b
}

// WriteTo writes the serialized container to w.
func (l *Lexicon) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(l.Marshal())
	return int64(n), err
}

// container is the parsed top level of a lexicon. The instruction bytes are
// remembered by position only.
type container struct {
	meta    Metadata
	dataOff int
	dataLen int
}

func parseContainer(src Source) (container, error) {
	var (
		c       container
		hasMeta bool
		hasData bool
	)
	p := NewSourcePointer(src, 0)
	for !p.AtEnd() {
		tag, err := p.Uvarint()
		if err != nil {
			return c, err
		}
		num, typ := tag>>3, protowire.Type(tag&7)
		switch typ {
		case protowire.VarintType:
			_, err = p.Uvarint()
		case protowire.Fixed64Type:
			err = p.Skip(8)
		case protowire.Fixed32Type:
			err = p.Skip(4)
		case protowire.BytesType:
			var n uint64
			if n, err = p.Uvarint(); err != nil {
				return c, err
			}
			if n > uint64(p.Len()-p.Offset()) {
				return c, invalidf("field %d claims %d bytes, %d left", num, n, p.Len()-p.Offset())
			}
			start := p.Offset()
			if num != fieldMetadata {
				if err = p.Skip(int(n)); err != nil {
					return c, err
				}
				if num == fieldInstructions {
					c.dataOff, c.dataLen = start, int(n)
					hasData = true
				}
				continue
			}
			var view []byte
			if view, err = p.View(int(n)); err != nil {
				return c, err
			}
			if c.meta, err = UnmarshalMetadata(view); err != nil {
				return c, err
			}
			hasMeta = true
			continue
		default:
			return c, invalidf("field %d has unsupported wire type %d", num, typ)
		}
		if err != nil {
			return c, err
		}
		if num == fieldMetadata || num == fieldInstructions {
			return c, invalidf("field %d has wire type %d, want %d", num, typ, protowire.BytesType)
		}
	}
	switch {
	case !hasMeta:
		return c, invalidf("missing metadata")
	case !hasData:
		return c, invalidf("missing instructions")
	}
	return c, nil
}
