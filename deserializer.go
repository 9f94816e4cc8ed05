package bcs

import (
	"encoding/binary"
	"fmt"
	"io"
	"slices"
	"unicode/utf8"

	"github.com/holiman/uint256"

	"github.com/zefchain/bcs/internal/bcsio"
	"github.com/zefchain/bcs/internal/depth"
	bcserrors "github.com/zefchain/bcs/internal/errors"
	"github.com/zefchain/bcs/internal/uleb128"
)

// payloadChunk bounds how much is allocated ahead of the bytes actually
// arriving, so a forged length prefix cannot force a large allocation.
const payloadChunk = 64 << 10

// Deserializer reads and validates canonical bytes for one decode call.
// Values pull from it through DeserializeBCS. A Deserializer must not be
// shared between goroutines.
type Deserializer struct {
	in    *bcsio.Reader
	cfg   Config
	depth *depth.Guard

	scratch [32]byte
}

func newDeserializer(r io.Reader, cfg Config, guard *depth.Guard) *Deserializer {
	return &Deserializer{in: bcsio.NewReader(r), cfg: cfg, depth: guard}
}

func (d *Deserializer) read(p []byte) error {
	return bcserrors.FromIO(d.in.ReadExact(p))
}

func (d *Deserializer) readByte() (byte, error) {
	b, err := d.in.ReadByte()
	return b, bcserrors.FromIO(err)
}

func (d *Deserializer) checkInt(k IntegerSet) error {
	if !d.cfg.Integers.Has(k) {
		return bcserrors.NotSupported(integerName(k))
	}
	return nil
}

func (d *Deserializer) fixed(k IntegerSet, n int) ([]byte, error) {
	if err := d.checkInt(k); err != nil {
		return nil, err
	}
	if err := d.read(d.scratch[:n]); err != nil {
		return nil, err
	}
	return d.scratch[:n], nil
}

// BytesRead returns the number of bytes consumed so far.
func (d *Deserializer) BytesRead() int {
	return d.in.BytesRead()
}

// Remaining returns the number of unread bytes for in-memory input, or -1
// for streams.
func (d *Deserializer) Remaining() int {
	return d.in.Remaining()
}

// Depth returns the number of containers currently open.
func (d *Deserializer) Depth() int {
	return d.depth.Depth()
}

// End fails with RemainingInput if in-memory input has unread bytes.
// Streams are never checked; trailing bytes stay in the source.
func (d *Deserializer) End() error {
	if d.in.Remaining() > 0 {
		return bcserrors.ErrRemainingInput
	}
	return nil
}

// DeserializeBool accepts only 0x00 and 0x01.
func (d *Deserializer) DeserializeBool() (bool, error) {
	b, err := d.readByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, bcserrors.ErrExpectedBoolean
	}
}

// DeserializeU8 reads one byte.
func (d *Deserializer) DeserializeU8() (uint8, error) {
	b, err := d.fixed(U8, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// DeserializeU16 reads 2 little-endian bytes.
func (d *Deserializer) DeserializeU16() (uint16, error) {
	b, err := d.fixed(U16, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// DeserializeU32 reads 4 little-endian bytes.
func (d *Deserializer) DeserializeU32() (uint32, error) {
	b, err := d.fixed(U32, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// DeserializeU64 reads 8 little-endian bytes.
func (d *Deserializer) DeserializeU64() (uint64, error) {
	b, err := d.fixed(U64, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// DeserializeU128 reads 16 little-endian bytes, low limb first.
func (d *Deserializer) DeserializeU128() (Uint128, error) {
	b, err := d.fixed(U128, 16)
	if err != nil {
		return Uint128{}, err
	}
	return Uint128{Lo: binary.LittleEndian.Uint64(b[:8]), Hi: binary.LittleEndian.Uint64(b[8:])}, nil
}

// DeserializeU256 reads 32 little-endian bytes. u256 is disabled in
// DefaultConfig.
func (d *Deserializer) DeserializeU256() (*uint256.Int, error) {
	b, err := d.fixed(U256, 32)
	if err != nil {
		return nil, err
	}
	var v uint256.Int
	for i := range v {
		v[i] = binary.LittleEndian.Uint64(b[i*8 : i*8+8])
	}
	return &v, nil
}

// DeserializeI8 reads one two's-complement byte.
func (d *Deserializer) DeserializeI8() (int8, error) {
	b, err := d.fixed(I8, 1)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

// DeserializeI16 reads 2 little-endian two's-complement bytes.
func (d *Deserializer) DeserializeI16() (int16, error) {
	b, err := d.fixed(I16, 2)
	if err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(b)), nil
}

// DeserializeI32 reads 4 little-endian two's-complement bytes.
func (d *Deserializer) DeserializeI32() (int32, error) {
	b, err := d.fixed(I32, 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// DeserializeI64 reads 8 little-endian two's-complement bytes.
func (d *Deserializer) DeserializeI64() (int64, error) {
	b, err := d.fixed(I64, 8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

// DeserializeI128 reads 16 little-endian two's-complement bytes.
func (d *Deserializer) DeserializeI128() (Int128, error) {
	b, err := d.fixed(I128, 16)
	if err != nil {
		return Int128{}, err
	}
	return Int128{Lo: binary.LittleEndian.Uint64(b[:8]), Hi: int64(binary.LittleEndian.Uint64(b[8:]))}, nil
}

// Floating point and char are always rejected.
func (d *Deserializer) DeserializeF32() (float32, error) { return 0, bcserrors.NotSupported("f32") }
func (d *Deserializer) DeserializeF64() (float64, error) { return 0, bcserrors.NotSupported("f64") }
func (d *Deserializer) DeserializeChar() (rune, error)   { return 0, bcserrors.NotSupported("char") }

// DeserializeUnit reads nothing.
func (d *Deserializer) DeserializeUnit() error { return nil }

func (d *Deserializer) uleb32() (uint32, error) {
	v, err := uleb128.Decode(d.readByte, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// DeserializeLen reads a length prefix and checks it against the
// configured maximum before anything is allocated for the payload.
func (d *Deserializer) DeserializeLen() (int, error) {
	v, err := d.uleb32()
	if err != nil {
		return 0, err
	}
	// Compare before converting: on 32-bit targets int(v) can go negative.
	if uint64(v) > uint64(d.cfg.MaxSequenceLength) {
		return 0, bcserrors.ExceededMaxLen(int64(v), d.cfg.MaxSequenceLength)
	}
	return int(v), nil
}

// DeserializeVariantIndex reads an enum discriminant.
func (d *Deserializer) DeserializeVariantIndex() (uint32, error) {
	return d.uleb32()
}

// DeserializeOptionTag accepts only 0x00 and 0x01.
func (d *Deserializer) DeserializeOptionTag() (bool, error) {
	b, err := d.readByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, bcserrors.ErrExpectedOption
	}
}

func (d *Deserializer) payload(n int) ([]byte, error) {
	if rem := d.in.Remaining(); rem >= 0 && n > rem {
		return nil, bcserrors.ErrEOF
	}
	if n <= payloadChunk {
		buf := make([]byte, n)
		if err := d.read(buf); err != nil {
			return nil, err
		}
		return buf, nil
	}
	buf := make([]byte, 0, payloadChunk)
	for len(buf) < n {
		step := min(payloadChunk, n-len(buf))
		buf = slices.Grow(buf, step)
		start := len(buf)
		buf = buf[:start+step]
		if err := d.read(buf[start:]); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// DeserializeStr reads a length-prefixed string and rejects malformed UTF-8.
func (d *Deserializer) DeserializeStr() (string, error) {
	n, err := d.DeserializeLen()
	if err != nil {
		return "", err
	}
	buf, err := d.payload(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", bcserrors.ErrUTF8
	}
	return string(buf), nil
}

// DeserializeBytes reads a length-prefixed byte sequence.
func (d *Deserializer) DeserializeBytes() ([]byte, error) {
	n, err := d.DeserializeLen()
	if err != nil {
		return nil, err
	}
	return d.payload(n)
}

// DeserializeFixedBytes fills p with no length prefix.
func (d *Deserializer) DeserializeFixedBytes(p []byte) error {
	return d.read(p)
}

// DeserializeSeq reads the element count and hands it to body, which must
// read exactly that many elements.
func (d *Deserializer) DeserializeSeq(body func(n int) error) error {
	return d.depth.Scope("sequence", func() error {
		n, err := d.DeserializeLen()
		if err != nil {
			return err
		}
		return body(n)
	})
}

// DeserializeOption reads the presence byte and, when present, runs body.
func (d *Deserializer) DeserializeOption(body func() error) (bool, error) {
	present, err := d.DeserializeOptionTag()
	if err != nil || !present {
		return false, err
	}
	if err := d.depth.Scope("option", body); err != nil {
		return false, err
	}
	return true, nil
}

// DeserializeStruct runs body, which reads the fields in declaration order.
func (d *Deserializer) DeserializeStruct(name string, body func() error) error {
	if name == "" {
		name = "struct"
	}
	return d.depth.Scope(name, body)
}

// DeserializeVariant reads the variant index of an enum with count variants
// and hands it to body. Indices outside the schema are NotSupported.
func (d *Deserializer) DeserializeVariant(enum string, count uint32, body func(index uint32) error) error {
	if enum == "" {
		enum = "enum"
	}
	return d.depth.Scope(enum, func() error {
		index, err := d.DeserializeVariantIndex()
		if err != nil {
			return err
		}
		if index >= count {
			return bcserrors.NotSupported(fmt.Sprintf("unknown variant index %d for %s", index, enum))
		}
		return body(index)
	})
}

// DeserializeMap reads the entry count and hands a MapDeserializer to body,
// which must read every entry through it.
func (d *Deserializer) DeserializeMap(body func(m *MapDeserializer) error) error {
	return d.depth.Scope("map", func() error {
		n, err := d.DeserializeLen()
		if err != nil {
			return err
		}
		m := &MapDeserializer{d: d, n: n}
		if err := body(m); err != nil {
			return err
		}
		return m.finish()
	})
}
