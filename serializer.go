package bcs

import (
	"encoding/binary"
	"io"
	"unicode/utf8"

	"github.com/holiman/uint256"

	"github.com/zefchain/bcs/internal/bcsio"
	"github.com/zefchain/bcs/internal/depth"
	bcserrors "github.com/zefchain/bcs/internal/errors"
	"github.com/zefchain/bcs/internal/uleb128"
)

// Serializer writes canonical bytes for one encode call. Values drive it
// through SerializeBCS, one primitive or container at a time. A Serializer
// must not be shared between goroutines.
type Serializer struct {
	out   *bcsio.Writer
	cfg   Config
	depth *depth.Guard

	scratch [32]byte
}

func newSerializer(w io.Writer, cfg Config, guard *depth.Guard) *Serializer {
	return &Serializer{out: bcsio.NewWriter(w), cfg: cfg, depth: guard}
}

// sub returns a Serializer writing to w that shares this one's limits and
// depth counter. Map entries are encoded through it.
func (s *Serializer) sub(w io.Writer) *Serializer {
	return newSerializer(w, s.cfg, s.depth)
}

func (s *Serializer) write(p []byte) error {
	return bcserrors.FromIO(s.out.WriteAll(p))
}

func (s *Serializer) checkInt(k IntegerSet) error {
	if !s.cfg.Integers.Has(k) {
		return bcserrors.NotSupported(integerName(k))
	}
	return nil
}

// BytesWritten returns the number of bytes accepted by the sink so far.
func (s *Serializer) BytesWritten() int {
	return s.out.BytesWritten()
}

// Depth returns the number of containers currently open.
func (s *Serializer) Depth() int {
	return s.depth.Depth()
}

// SerializeBool writes 0x00 or 0x01.
func (s *Serializer) SerializeBool(v bool) error {
	s.scratch[0] = 0
	if v {
		s.scratch[0] = 1
	}
	return s.write(s.scratch[:1])
}

// SerializeU8 writes one byte.
func (s *Serializer) SerializeU8(v uint8) error {
	if err := s.checkInt(U8); err != nil {
		return err
	}
	s.scratch[0] = v
	return s.write(s.scratch[:1])
}

// SerializeU16 writes 2 little-endian bytes.
func (s *Serializer) SerializeU16(v uint16) error {
	if err := s.checkInt(U16); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(s.scratch[:2], v)
	return s.write(s.scratch[:2])
}

// SerializeU32 writes 4 little-endian bytes.
func (s *Serializer) SerializeU32(v uint32) error {
	if err := s.checkInt(U32); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(s.scratch[:4], v)
	return s.write(s.scratch[:4])
}

// SerializeU64 writes 8 little-endian bytes.
func (s *Serializer) SerializeU64(v uint64) error {
	if err := s.checkInt(U64); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(s.scratch[:8], v)
	return s.write(s.scratch[:8])
}

// SerializeU128 writes 16 little-endian bytes, low limb first.
func (s *Serializer) SerializeU128(v Uint128) error {
	if err := s.checkInt(U128); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(s.scratch[:8], v.Lo)
	binary.LittleEndian.PutUint64(s.scratch[8:16], v.Hi)
	return s.write(s.scratch[:16])
}

// SerializeU256 writes 32 little-endian bytes. u256 is disabled in
// DefaultConfig.
func (s *Serializer) SerializeU256(v *uint256.Int) error {
	if err := s.checkInt(U256); err != nil {
		return err
	}
	if v == nil {
		return bcserrors.Custom("nil u256")
	}
	for i, limb := range v {
		binary.LittleEndian.PutUint64(s.scratch[i*8:i*8+8], limb)
	}
	return s.write(s.scratch[:32])
}

// SerializeI8 writes one two's-complement byte.
func (s *Serializer) SerializeI8(v int8) error {
	if err := s.checkInt(I8); err != nil {
		return err
	}
	s.scratch[0] = byte(v)
	return s.write(s.scratch[:1])
}

// SerializeI16 writes 2 little-endian two's-complement bytes.
func (s *Serializer) SerializeI16(v int16) error {
	if err := s.checkInt(I16); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(s.scratch[:2], uint16(v))
	return s.write(s.scratch[:2])
}

// SerializeI32 writes 4 little-endian two's-complement bytes.
func (s *Serializer) SerializeI32(v int32) error {
	if err := s.checkInt(I32); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(s.scratch[:4], uint32(v))
	return s.write(s.scratch[:4])
}

// SerializeI64 writes 8 little-endian two's-complement bytes.
func (s *Serializer) SerializeI64(v int64) error {
	if err := s.checkInt(I64); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(s.scratch[:8], uint64(v))
	return s.write(s.scratch[:8])
}

// SerializeI128 writes 16 little-endian two's-complement bytes.
func (s *Serializer) SerializeI128(v Int128) error {
	if err := s.checkInt(I128); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(s.scratch[:8], v.Lo)
	binary.LittleEndian.PutUint64(s.scratch[8:16], uint64(v.Hi))
	return s.write(s.scratch[:16])
}

// Floating point and char have no canonical form here and are rejected.
func (s *Serializer) SerializeF32(float32) error { return bcserrors.NotSupported("f32") }
func (s *Serializer) SerializeF64(float64) error { return bcserrors.NotSupported("f64") }
func (s *Serializer) SerializeChar(rune) error   { return bcserrors.NotSupported("char") }

// SerializeUnit writes nothing.
func (s *Serializer) SerializeUnit() error { return nil }

// SerializeLen writes a length prefix. Negative lengths mean the caller
// does not know the length, which the format cannot express.
func (s *Serializer) SerializeLen(n int) error {
	if n < 0 {
		return bcserrors.ErrMissingLen
	}
	if n > s.cfg.MaxSequenceLength {
		return bcserrors.ExceededMaxLen(int64(n), s.cfg.MaxSequenceLength)
	}
	return s.write(uleb128.Append(s.scratch[:0], uint64(n)))
}

// SerializeVariantIndex writes an enum discriminant.
func (s *Serializer) SerializeVariantIndex(index uint32) error {
	return s.write(uleb128.Append(s.scratch[:0], uint64(index)))
}

// SerializeOptionTag writes the presence byte of an option.
func (s *Serializer) SerializeOptionTag(present bool) error {
	return s.SerializeBool(present)
}

// SerializeStr writes a length-prefixed UTF-8 string.
func (s *Serializer) SerializeStr(v string) error {
	if !utf8.ValidString(v) {
		return bcserrors.ErrUTF8
	}
	if err := s.SerializeLen(len(v)); err != nil {
		return err
	}
	return s.write([]byte(v))
}

// SerializeBytes writes a length-prefixed byte sequence.
func (s *Serializer) SerializeBytes(v []byte) error {
	if err := s.SerializeLen(len(v)); err != nil {
		return err
	}
	return s.write(v)
}

// SerializeFixedBytes writes v with no length prefix, for fixed-size arrays
// such as digests and addresses.
func (s *Serializer) SerializeFixedBytes(v []byte) error {
	return s.write(v)
}

// SerializeSeq writes the count n and then runs body, which must write
// exactly n elements.
func (s *Serializer) SerializeSeq(n int, body func() error) error {
	return s.depth.Scope("sequence", func() error {
		if err := s.SerializeLen(n); err != nil {
			return err
		}
		return body()
	})
}

// SerializeOption writes the presence byte and, when present, runs body.
func (s *Serializer) SerializeOption(present bool, body func() error) error {
	if err := s.SerializeOptionTag(present); err != nil {
		return err
	}
	if !present {
		return nil
	}
	return s.depth.Scope("option", body)
}

// SerializeStruct runs body, which writes the fields in declaration order.
func (s *Serializer) SerializeStruct(name string, body func() error) error {
	if name == "" {
		name = "struct"
	}
	return s.depth.Scope(name, body)
}

// SerializeVariant writes the variant index and then its payload. A nil
// body is a unit variant.
func (s *Serializer) SerializeVariant(enum string, index uint32, body func() error) error {
	if enum == "" {
		enum = "enum"
	}
	return s.depth.Scope(enum, func() error {
		if err := s.SerializeVariantIndex(index); err != nil {
			return err
		}
		if body == nil {
			return nil
		}
		return body()
	})
}

// SerializeMap collects the entries body adds, sorts them by encoded key
// and writes count plus entries. Insertion order never affects the output.
func (s *Serializer) SerializeMap(body func(m *MapSerializer) error) error {
	return s.depth.Scope("map", func() error {
		m := &MapSerializer{s: s}
		if err := body(m); err != nil {
			return err
		}
		return m.end()
	})
}
