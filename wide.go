package bcs

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// Uint128 is an unsigned 128-bit integer, encoded as 16 little-endian bytes.
type Uint128 struct {
	Lo, Hi uint64
}

// Int128 is a two's-complement signed 128-bit integer, encoded as 16
// little-endian bytes.
type Int128 struct {
	Lo uint64
	Hi int64
}

var (
	two64  = new(big.Int).Lsh(big.NewInt(1), 64)
	two127 = new(big.Int).Lsh(big.NewInt(1), 127)
	two128 = new(big.Int).Lsh(big.NewInt(1), 128)
	mask64 = new(big.Int).Sub(two64, big.NewInt(1))
)

// NewUint128 returns v widened to 128 bits.
func NewUint128(v uint64) Uint128 {
	return Uint128{Lo: v}
}

// Big returns u as a big.Int.
func (u Uint128) Big() *big.Int {
	b := new(big.Int).SetUint64(u.Hi)
	b.Lsh(b, 64)
	return b.Or(b, new(big.Int).SetUint64(u.Lo))
}

func (u Uint128) String() string {
	return u.Big().String()
}

// Uint256 widens u.
func (u Uint128) Uint256() *uint256.Int {
	return &uint256.Int{u.Lo, u.Hi, 0, 0}
}

// Uint128FromBig narrows b, failing when it is negative or wider than 128 bits.
func Uint128FromBig(b *big.Int) (Uint128, error) {
	if b.Sign() < 0 || b.BitLen() > 128 {
		return Uint128{}, Errorf("value %s does not fit in u128", b)
	}
	lo := new(big.Int).And(b, mask64).Uint64()
	hi := new(big.Int).Rsh(b, 64).Uint64()
	return Uint128{Lo: lo, Hi: hi}, nil
}

// Uint128FromUint256 narrows x, failing when its upper 128 bits are set.
func Uint128FromUint256(x *uint256.Int) (Uint128, error) {
	if x[2] != 0 || x[3] != 0 {
		return Uint128{}, Errorf("value %s does not fit in u128", x.Dec())
	}
	return Uint128{Lo: x[0], Hi: x[1]}, nil
}

// NewInt128 returns v sign-extended to 128 bits.
func NewInt128(v int64) Int128 {
	hi := int64(0)
	if v < 0 {
		hi = -1
	}
	return Int128{Lo: uint64(v), Hi: hi}
}

// Big returns i as a big.Int.
func (i Int128) Big() *big.Int {
	b := Uint128{Lo: i.Lo, Hi: uint64(i.Hi)}.Big()
	if i.Hi < 0 {
		b.Sub(b, two128)
	}
	return b
}

func (i Int128) String() string {
	return i.Big().String()
}

// Int128FromBig narrows b, failing outside [-2^127, 2^127).
func Int128FromBig(b *big.Int) (Int128, error) {
	if b.Cmp(two127) >= 0 || b.Cmp(new(big.Int).Neg(two127)) < 0 {
		return Int128{}, Errorf("value %s does not fit in i128", b)
	}
	v := new(big.Int).Set(b)
	if v.Sign() < 0 {
		v.Add(v, two128)
	}
	u, err := Uint128FromBig(v)
	if err != nil {
		return Int128{}, fmt.Errorf("narrowing %s: %w", b, err)
	}
	return Int128{Lo: u.Lo, Hi: int64(u.Hi)}, nil
}
