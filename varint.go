package lexicon

import (
	"math/big"
	"math/bits"
)

// Varints are unsigned little-endian base-128 numbers. The low seven bits of
// each byte carry data, the high bit says another byte follows. Values are not
// limited to 64 bits: inline metadata routinely exceeds that.

var big0x7f = big.NewInt(0x7f)

// AppendUvarint appends the varint encoding of v to dst.
func AppendUvarint(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// AppendVarint appends the varint encoding of v to dst. v must not be negative.
func AppendVarint(dst []byte, v *big.Int) []byte {
	if v.Sign() < 0 {
		panic("lexicon: negative varint")
	}
	if v.IsUint64() {
		return AppendUvarint(dst, v.Uint64())
	}
	x := new(big.Int).Set(v)
	low := new(big.Int)
	for x.BitLen() > 7 {
		low.And(x, big0x7f)
		dst = append(dst, byte(low.Uint64())|0x80)
		x.Rsh(x, 7)
	}
	return append(dst, byte(x.Uint64()))
}

// UvarintLen returns the number of bytes AppendUvarint writes for v.
func UvarintLen(v uint64) int {
	return (bits.Len64(v|1) + 6) / 7
}

// DecodeUvarint decodes a varint that must fit 64 bits. It returns the value
// and the number of bytes consumed. ok is false when the value overflows.
func DecodeUvarint(buf []byte) (v uint64, n int, ok bool, err error) {
	var shift uint
	ok = true
	for i, b := range buf {
		if shift < 64 {
			part := uint64(b & 0x7f)
			if shift > 0 && part>>(64-shift) != 0 {
				ok = false
			}
			v |= part << shift
		} else if b&0x7f != 0 {
			ok = false
		}
		if b < 0x80 {
			return v, i + 1, ok, nil
		}
		shift += 7
	}
	return 0, 0, false, ErrTruncated
}

// DecodeVarint decodes an arbitrary precision varint from the start of buf.
func DecodeVarint(buf []byte) (*big.Int, int, error) {
	v, n, ok, err := DecodeUvarint(buf)
	if err != nil {
		return nil, 0, err
	}
	if ok {
		return new(big.Int).SetUint64(v), n, nil
	}
	x := new(big.Int)
	part := new(big.Int)
	for i := n - 1; i >= 0; i-- {
		x.Lsh(x, 7)
		part.SetUint64(uint64(buf[i] & 0x7f))
		x.Or(x, part)
	}
	return x, n, nil
}
