package uleb128

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bcserrors "github.com/zefchain/bcs/internal/errors"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		value uint64
		want  []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xac, 0x02}},
		{16384, []byte{0x80, 0x80, 0x01}},
		{math.MaxUint32, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
		{math.MaxUint64, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}},
	}
	for _, tt := range tests {
		got := Encode(tt.value)
		assert.Equal(t, tt.want, got, "Encode(%d)", tt.value)
		assert.Equal(t, len(tt.want), Size(tt.value), "Size(%d)", tt.value)

		v, n, err := DecodeBytes(got, 64)
		require.NoError(t, err)
		assert.Equal(t, tt.value, v)
		assert.Equal(t, len(got), n)
	}
}

func TestDecode32(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want uint64
		err  error
	}{
		{"zero", []byte{0x00}, 0, nil},
		{"300", []byte{0xac, 0x02}, 300, nil},
		{"max u32", []byte{0xff, 0xff, 0xff, 0xff, 0x0f}, math.MaxUint32, nil},
		{"trailing zero group", []byte{0x80, 0x00}, 0, bcserrors.ErrNonCanonicalULEB128},
		{"padded one", []byte{0x81, 0x80, 0x00}, 0, bcserrors.ErrNonCanonicalULEB128},
		{"2^32", []byte{0x80, 0x80, 0x80, 0x80, 0x10}, 0, bcserrors.ErrULEB128Overflow},
		{"six bytes", []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}, 0, bcserrors.ErrULEB128Overflow},
		{"empty", nil, 0, bcserrors.ErrEOF},
		{"truncated", []byte{0x80}, 0, bcserrors.ErrEOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _, err := DecodeBytes(tt.in, 32)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestDecode64Overflow(t *testing.T) {
	// Ten bytes whose last group carries more than the one remaining bit.
	in := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x02}
	_, _, err := DecodeBytes(in, 64)
	require.ErrorIs(t, err, bcserrors.ErrULEB128Overflow)

	// Eleven groups never terminate within 64 bits.
	in = []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	_, _, err = DecodeBytes(in, 64)
	require.ErrorIs(t, err, bcserrors.ErrULEB128Overflow)
}

func TestDecodeStopsAtTerminator(t *testing.T) {
	v, n, err := DecodeBytes([]byte{0xac, 0x02, 0xff}, 32)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), v)
	assert.Equal(t, 2, n)
}
