package bcs_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zefchain/bcs"
)

func TestUint128Conversions(t *testing.T) {
	maxU128 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	u, err := bcs.Uint128FromBig(maxU128)
	require.NoError(t, err)
	assert.Equal(t, bcs.Uint128{Lo: ^uint64(0), Hi: ^uint64(0)}, u)
	assert.Equal(t, maxU128.String(), u.String())

	_, err = bcs.Uint128FromBig(new(big.Int).Add(maxU128, big.NewInt(1)))
	require.ErrorIs(t, err, bcs.ErrCustom)
	_, err = bcs.Uint128FromBig(big.NewInt(-1))
	require.ErrorIs(t, err, bcs.ErrCustom)

	wide := u.Uint256()
	back, err := bcs.Uint128FromUint256(wide)
	require.NoError(t, err)
	assert.Equal(t, u, back)

	_, err = bcs.Uint128FromUint256(new(uint256.Int).Lsh(uint256.NewInt(1), 128))
	require.ErrorIs(t, err, bcs.ErrCustom)
}

func TestInt128Conversions(t *testing.T) {
	tests := []string{"0", "-1", "170141183460469231731687303715884105727", "-170141183460469231731687303715884105728"}
	for _, s := range tests {
		b, _ := new(big.Int).SetString(s, 10)
		i, err := bcs.Int128FromBig(b)
		require.NoError(t, err, s)
		assert.Equal(t, s, i.String())
	}
	assert.Equal(t, bcs.Int128{Lo: ^uint64(0), Hi: -1}, bcs.NewInt128(-1))

	tooBig, _ := new(big.Int).SetString("170141183460469231731687303715884105728", 10)
	_, err := bcs.Int128FromBig(tooBig)
	require.ErrorIs(t, err, bcs.ErrCustom)
}

func TestU256(t *testing.T) {
	v := uint256.NewInt(0x0102)
	_, err := bcs.ToBytes(u256Value{v})
	require.ErrorIs(t, err, bcs.ErrNotSupported, "u256 is off by default")

	c := newCodec(t, func(cfg *bcs.Config) { cfg.Integers = bcs.AllIntegers })
	encoded, err := c.Marshal(u256Value{v})
	require.NoError(t, err)
	want := make([]byte, 32)
	want[0], want[1] = 0x02, 0x01
	assert.Equal(t, want, encoded)

	d := c.NewDeserializer(bytes.NewReader(encoded))
	got, err := d.DeserializeU256()
	require.NoError(t, err)
	assert.True(t, v.Eq(got))
}

type u256Value struct{ v *uint256.Int }

func (u u256Value) SerializeBCS(s *bcs.Serializer) error { return s.SerializeU256(u.v) }
