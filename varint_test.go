package lexicon

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendUvarint(t *testing.T) {
	tests := []struct {
		in   uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xac, 0x02}},
	}
	for _, tt := range tests {
		got := AppendUvarint(nil, tt.in)
		require.Equal(t, tt.want, got, "encoding %d", tt.in)
		require.Equal(t, len(tt.want), UvarintLen(tt.in))
		require.Equal(t, tt.want, AppendVarint(nil, new(big.Int).SetUint64(tt.in)))
	}
}

func TestVarintBeyond64Bits(t *testing.T) {
	values := []string{
		"18446744073709551615",    // 2^64-1
		"18446744073709551616",    // 2^64
		"147573952589676412928",   // 2^67
		"99000000000000000000000", // 9.9e22
	}
	for _, s := range values {
		v, ok := new(big.Int).SetString(s, 10)
		require.True(t, ok)

		buf := AppendVarint([]byte{0xff}, v)
		got, n, err := DecodeVarint(buf[1:])
		require.NoError(t, err)
		require.Equal(t, len(buf)-1, n)
		require.Zero(t, v.Cmp(got), "want %s, got %s", v, got)
	}
}

func TestDecodeUvarintOverflow(t *testing.T) {
	buf := AppendVarint(nil, new(big.Int).Lsh(big.NewInt(1), 64))
	_, n, ok, err := DecodeUvarint(buf)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, len(buf), n)

	_, _, ok, err = DecodeUvarint(AppendUvarint(nil, 1<<63))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDecodeVarintTruncated(t *testing.T) {
	for _, buf := range [][]byte{nil, {0x80}, {0xff, 0xff, 0x80}} {
		_, _, err := DecodeVarint(buf)
		require.ErrorIs(t, err, ErrTruncated)
	}
}
