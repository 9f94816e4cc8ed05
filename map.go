package bcs

import (
	"bytes"
	"slices"

	"github.com/zefchain/bcs/internal/bcsio"
	bcserrors "github.com/zefchain/bcs/internal/errors"
)

type mapEntry struct {
	key, value []byte
}

// MapSerializer buffers the entries of one map. Keys and values are each
// encoded into their own buffer so the entries can be ordered by key bytes
// before anything reaches the sink.
type MapSerializer struct {
	s       *Serializer
	entries []mapEntry
	key     []byte
	hasKey  bool
}

// Key encodes the next key. It must be followed by Value.
func (m *MapSerializer) Key(fn func(ks *Serializer) error) error {
	if m.hasKey {
		return bcserrors.ErrExpectedMapValue
	}
	buf := bcsio.NewBuffer(16)
	if err := fn(m.s.sub(buf)); err != nil {
		return err
	}
	m.key = buf.Bytes()
	m.hasKey = true
	return nil
}

// Value encodes the value for the preceding Key.
func (m *MapSerializer) Value(fn func(vs *Serializer) error) error {
	if !m.hasKey {
		return bcserrors.ErrExpectedMapKey
	}
	buf := bcsio.NewBuffer(16)
	if err := fn(m.s.sub(buf)); err != nil {
		return err
	}
	m.entries = append(m.entries, mapEntry{key: m.key, value: buf.Bytes()})
	m.key = nil
	m.hasKey = false
	return nil
}

// Entry encodes one key and its value.
func (m *MapSerializer) Entry(key, value func(*Serializer) error) error {
	if err := m.Key(key); err != nil {
		return err
	}
	return m.Value(value)
}

// Len returns the number of complete entries added so far.
func (m *MapSerializer) Len() int {
	return len(m.entries)
}

func (m *MapSerializer) end() error {
	if m.hasKey {
		return bcserrors.ErrExpectedMapValue
	}

	// Stable, so among equal keys the first one added survives.
	slices.SortStableFunc(m.entries, func(a, b mapEntry) int {
		return bytes.Compare(a.key, b.key)
	})
	entries := m.entries[:0]
	for _, e := range m.entries {
		if len(entries) > 0 && bytes.Equal(entries[len(entries)-1].key, e.key) {
			continue
		}
		entries = append(entries, e)
	}

	if err := m.s.SerializeLen(len(entries)); err != nil {
		return err
	}
	for _, e := range entries {
		if err := m.s.write(e.key); err != nil {
			return err
		}
		if err := m.s.write(e.value); err != nil {
			return err
		}
	}
	return nil
}

// MapDeserializer reads the entries of one map, checking that each key's
// bytes are strictly greater than the previous key's.
type MapDeserializer struct {
	d        *Deserializer
	n        int
	consumed int
	prevKey  []byte
	hasPrev  bool
	pending  bool
}

// Len returns the entry count read from the prefix.
func (m *MapDeserializer) Len() int {
	return m.n
}

// Key decodes the next key through fn.
func (m *MapDeserializer) Key(fn func() error) error {
	if m.pending {
		return bcserrors.ErrExpectedMapValue
	}
	if m.consumed >= m.n {
		return bcserrors.Custom("map has only %d entries", m.n)
	}

	mark := m.d.in.StartCapture()
	err := fn()
	key := m.d.in.EndCapture(mark)
	if err != nil {
		return err
	}
	if m.hasPrev && bytes.Compare(key, m.prevKey) <= 0 {
		return bcserrors.ErrNonCanonicalMap
	}

	m.prevKey = key
	m.hasPrev = true
	m.pending = true
	m.consumed++
	return nil
}

// Value decodes the value for the preceding Key.
func (m *MapDeserializer) Value(fn func() error) error {
	if !m.pending {
		return bcserrors.ErrExpectedMapKey
	}
	m.pending = false
	return fn()
}

// Entry decodes one key and its value.
func (m *MapDeserializer) Entry(key, value func() error) error {
	if err := m.Key(key); err != nil {
		return err
	}
	return m.Value(value)
}

func (m *MapDeserializer) finish() error {
	if m.pending {
		return bcserrors.ErrExpectedMapValue
	}
	if m.consumed != m.n {
		return bcserrors.Custom("map visitor read %d of %d entries", m.consumed, m.n)
	}
	return nil
}
