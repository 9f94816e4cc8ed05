package bcs_test

import (
	"github.com/zefchain/bcs"
)

// Value types shared by the package tests.

type boolValue bool

func (v *boolValue) SerializeBCS(s *bcs.Serializer) error { return s.SerializeBool(bool(*v)) }

func (v *boolValue) DeserializeBCS(d *bcs.Deserializer) error {
	b, err := d.DeserializeBool()
	*v = boolValue(b)
	return err
}

type byteSeq []uint8

func (v *byteSeq) SerializeBCS(s *bcs.Serializer) error {
	return bcs.SerializeSlice(s, *v, (*bcs.Serializer).SerializeU8)
}

func (v *byteSeq) DeserializeBCS(d *bcs.Deserializer) error {
	out, err := bcs.DeserializeSlice(d, (*bcs.Deserializer).DeserializeU8)
	*v = out
	return err
}

type blob []byte

func (v *blob) SerializeBCS(s *bcs.Serializer) error { return s.SerializeBytes(*v) }

func (v *blob) DeserializeBCS(d *bcs.Deserializer) error {
	out, err := d.DeserializeBytes()
	*v = out
	return err
}

type text string

func (v *text) SerializeBCS(s *bcs.Serializer) error { return s.SerializeStr(string(*v)) }

func (v *text) DeserializeBCS(d *bcs.Deserializer) error {
	out, err := d.DeserializeStr()
	*v = text(out)
	return err
}

type u64Value uint64

func (v *u64Value) SerializeBCS(s *bcs.Serializer) error { return s.SerializeU64(uint64(*v)) }

func (v *u64Value) DeserializeBCS(d *bcs.Deserializer) error {
	out, err := d.DeserializeU64()
	*v = u64Value(out)
	return err
}

type counts map[string]uint32

func (v *counts) SerializeBCS(s *bcs.Serializer) error {
	return bcs.SerializeMapOf(s, *v, (*bcs.Serializer).SerializeStr, (*bcs.Serializer).SerializeU32)
}

func (v *counts) DeserializeBCS(d *bcs.Deserializer) error {
	out, err := bcs.DeserializeMapOf(d, (*bcs.Deserializer).DeserializeStr, (*bcs.Deserializer).DeserializeU32)
	*v = out
	return err
}

type Point struct {
	X, Y int32
}

func (p *Point) SerializeBCS(s *bcs.Serializer) error {
	return s.SerializeStruct("Point", func() error {
		if err := s.SerializeI32(p.X); err != nil {
			return err
		}
		return s.SerializeI32(p.Y)
	})
}

func (p *Point) DeserializeBCS(d *bcs.Deserializer) error {
	return d.DeserializeStruct("Point", func() (err error) {
		if p.X, err = d.DeserializeI32(); err != nil {
			return err
		}
		p.Y, err = d.DeserializeI32()
		return err
	})
}

// Shape is an enum: Empty, Circle(radius) or Rect{W, H}.
type Shape struct {
	Kind   uint32
	Radius uint32
	W, H   uint16
}

const (
	ShapeEmpty uint32 = iota
	ShapeCircle
	ShapeRect
	shapeCount
)

func (v *Shape) SerializeBCS(s *bcs.Serializer) error {
	switch v.Kind {
	case ShapeEmpty:
		return s.SerializeVariant("Shape", v.Kind, nil)
	case ShapeCircle:
		return s.SerializeVariant("Shape", v.Kind, func() error { return s.SerializeU32(v.Radius) })
	case ShapeRect:
		return s.SerializeVariant("Shape", v.Kind, func() error {
			if err := s.SerializeU16(v.W); err != nil {
				return err
			}
			return s.SerializeU16(v.H)
		})
	default:
		return bcs.Errorf("unknown shape %d", v.Kind)
	}
}

func (v *Shape) DeserializeBCS(d *bcs.Deserializer) error {
	return d.DeserializeVariant("Shape", shapeCount, func(index uint32) (err error) {
		*v = Shape{Kind: index}
		switch index {
		case ShapeCircle:
			v.Radius, err = d.DeserializeU32()
		case ShapeRect:
			if v.W, err = d.DeserializeU16(); err != nil {
				return err
			}
			v.H, err = d.DeserializeU16()
		}
		return err
	})
}

// Account exercises every container kind at once.
type Account struct {
	Name     string
	Nonce    *uint64
	Balances map[string]uint32
	Path     []Point
	Shape    Shape
	Key      [4]byte
	Active   bool
	Delta    bcs.Int128
}

func (a *Account) SerializeBCS(s *bcs.Serializer) error {
	return s.SerializeStruct("Account", func() error {
		if err := s.SerializeStr(a.Name); err != nil {
			return err
		}
		if err := bcs.SerializeOptional(s, a.Nonce, (*bcs.Serializer).SerializeU64); err != nil {
			return err
		}
		if err := bcs.SerializeMapOf(s, a.Balances, (*bcs.Serializer).SerializeStr, (*bcs.Serializer).SerializeU32); err != nil {
			return err
		}
		if err := bcs.SerializeSlice(s, a.Path, func(s *bcs.Serializer, p Point) error { return p.SerializeBCS(s) }); err != nil {
			return err
		}
		if err := a.Shape.SerializeBCS(s); err != nil {
			return err
		}
		if err := s.SerializeFixedBytes(a.Key[:]); err != nil {
			return err
		}
		if err := s.SerializeBool(a.Active); err != nil {
			return err
		}
		return s.SerializeI128(a.Delta)
	})
}

func (a *Account) DeserializeBCS(d *bcs.Deserializer) error {
	return d.DeserializeStruct("Account", func() (err error) {
		if a.Name, err = d.DeserializeStr(); err != nil {
			return err
		}
		if a.Nonce, err = bcs.DeserializeOptional(d, (*bcs.Deserializer).DeserializeU64); err != nil {
			return err
		}
		if a.Balances, err = bcs.DeserializeMapOf(d, (*bcs.Deserializer).DeserializeStr, (*bcs.Deserializer).DeserializeU32); err != nil {
			return err
		}
		if a.Path, err = bcs.DeserializeValues[Point](d); err != nil {
			return err
		}
		if err = a.Shape.DeserializeBCS(d); err != nil {
			return err
		}
		if err = d.DeserializeFixedBytes(a.Key[:]); err != nil {
			return err
		}
		if a.Active, err = d.DeserializeBool(); err != nil {
			return err
		}
		a.Delta, err = d.DeserializeI128()
		return err
	})
}

// nested is a chain of sequences, levels deep. Every level but the
// innermost holds exactly one element, so it encodes as levels-1 bytes of
// 0x01 followed by 0x00.
type nested struct {
	levels int
}

func (v *nested) SerializeBCS(s *bcs.Serializer) error {
	var walk func(k int) error
	walk = func(k int) error {
		if k == 1 {
			return s.SerializeSeq(0, func() error { return nil })
		}
		return s.SerializeSeq(1, func() error { return walk(k - 1) })
	}
	if v.levels == 0 {
		return nil
	}
	return walk(v.levels)
}

func (v *nested) DeserializeBCS(d *bcs.Deserializer) error {
	levels := 0
	var walk func() error
	walk = func() error {
		return d.DeserializeSeq(func(n int) error {
			levels++
			switch n {
			case 0:
				return nil
			case 1:
				return walk()
			default:
				return bcs.Errorf("nested level holds %d elements", n)
			}
		})
	}
	err := walk()
	v.levels = levels
	return err
}

func nestedBytes(levels int) []byte {
	out := make([]byte, 0, levels)
	for range levels - 1 {
		out = append(out, 0x01)
	}
	return append(out, 0x00)
}
