// Package bcs implements Binary Canonical Serialization: a compact,
// non-self-describing binary format in which every value has exactly one
// valid encoding. Integers are fixed-width little-endian, lengths and enum
// discriminants are minimal ULEB128, and map entries are ordered by the
// bytes of their encoded keys. Decoding rejects anything that is not the
// canonical form.
//
// Values describe themselves through SerializeBCS and DeserializeBCS; the
// Codec drives them against a sink or source under the limits of its
// Config.
package bcs

import (
	"io"
	"log/slog"

	"github.com/zefchain/bcs/internal/bcsio"
	"github.com/zefchain/bcs/internal/depth"
	bcserrors "github.com/zefchain/bcs/internal/errors"
)

// Codec encodes and decodes values under one Config. It holds no mutable
// state and may be used from several goroutines at once.
type Codec struct {
	cfg Config
	log *slog.Logger
}

// New returns a Codec for cfg.
func New(cfg Config) (*Codec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Codec{cfg: cfg, log: cfg.logger()}, nil
}

// Config returns the Codec's limits.
func (c *Codec) Config() Config {
	return c.cfg
}

// NewSerializer returns a Serializer writing to w, for callers that drive
// the primitives directly. w may be nil to only count bytes.
func (c *Codec) NewSerializer(w io.Writer) *Serializer {
	return newSerializer(w, c.cfg, depth.New(c.cfg.MaxContainerDepth))
}

// NewDeserializer returns a Deserializer reading from r. Callers that need
// the strict check call End when they are done.
func (c *Codec) NewDeserializer(r io.Reader) *Deserializer {
	return newDeserializer(r, c.cfg, depth.New(c.cfg.MaxContainerDepth))
}

// Marshal returns the canonical encoding of v.
func (c *Codec) Marshal(v Serializable) ([]byte, error) {
	buf := bcsio.NewBuffer(64)
	s := c.NewSerializer(buf)
	if err := v.SerializeBCS(s); err != nil {
		return nil, c.reject("encode", s.BytesWritten(), err)
	}
	return buf.Bytes(), nil
}

// Encode writes the canonical encoding of v to w and then flushes w if it
// has a Flush() error method. On failure w may hold a partial encoding.
func (c *Codec) Encode(w io.Writer, v Serializable) error {
	s := c.NewSerializer(w)
	if err := v.SerializeBCS(s); err != nil {
		return c.reject("encode", s.BytesWritten(), err)
	}
	if err := s.out.Flush(); err != nil {
		return c.reject("flush", s.BytesWritten(), bcserrors.FromIO(err))
	}
	return nil
}

// Size returns the length of v's encoding without storing it.
func (c *Codec) Size(v Serializable) (int, error) {
	s := c.NewSerializer(nil)
	if err := v.SerializeBCS(s); err != nil {
		return 0, c.reject("size", s.BytesWritten(), err)
	}
	return s.BytesWritten(), nil
}

// Unmarshal decodes v from data, which must hold exactly one canonical
// encoding. Trailing bytes fail with RemainingInput.
func (c *Codec) Unmarshal(data []byte, v Deserializable) error {
	d := c.NewDeserializer(bcsio.NewCursor(data))
	if err := v.DeserializeBCS(d); err != nil {
		return c.reject("decode", d.BytesRead(), err)
	}
	if err := d.End(); err != nil {
		return c.reject("decode", d.BytesRead(), err)
	}
	return nil
}

// Decode reads one value from r. Bytes after the value are left unread, so
// consecutive values can be decoded from the same stream.
func (c *Codec) Decode(r io.Reader, v Deserializable) error {
	d := c.NewDeserializer(r)
	if err := v.DeserializeBCS(d); err != nil {
		return c.reject("decode", d.BytesRead(), err)
	}
	return nil
}

// DecodeAll is Decode followed by the RemainingInput check, for sources that
// report how many bytes they have left (a Remaining() int method). On plain
// streams it behaves like Decode.
func (c *Codec) DecodeAll(r io.Reader, v Deserializable) error {
	d := c.NewDeserializer(r)
	if err := v.DeserializeBCS(d); err != nil {
		return c.reject("decode", d.BytesRead(), err)
	}
	if err := d.End(); err != nil {
		return c.reject("decode", d.BytesRead(), err)
	}
	return nil
}

func (c *Codec) reject(op string, offset int, err error) error {
	err = bcserrors.Normalize(err)
	c.log.Debug("bcs: rejected",
		"op", op,
		"kind", bcserrors.KindOf(err).String(),
		"offset", offset,
		"err", err)
	return err
}

func defaultCodec() *Codec {
	cfg := DefaultConfig()
	return &Codec{cfg: cfg, log: cfg.logger()}
}

func limitedCodec(limit int) (*Codec, error) {
	if limit > MaxContainerDepth {
		return nil, bcserrors.NotSupported("limit exceeds the max allowed depth 500")
	}
	cfg := DefaultConfig()
	cfg.MaxContainerDepth = limit
	return New(cfg)
}

// ToBytes encodes v with the default limits.
func ToBytes(v Serializable) ([]byte, error) {
	return defaultCodec().Marshal(v)
}

// ToWriter encodes v to w with the default limits.
func ToWriter(w io.Writer, v Serializable) error {
	return defaultCodec().Encode(w, v)
}

// SerializedSize returns the encoded length of v with the default limits.
func SerializedSize(v Serializable) (int, error) {
	return defaultCodec().Size(v)
}

// FromBytes decodes v from exactly data with the default limits.
func FromBytes(data []byte, v Deserializable) error {
	return defaultCodec().Unmarshal(data, v)
}

// FromReader decodes one value from r with the default limits.
func FromReader(r io.Reader, v Deserializable) error {
	return defaultCodec().Decode(r, v)
}

// ToBytesWithLimit is ToBytes with a container depth limit of at most
// MaxContainerDepth.
func ToBytesWithLimit(v Serializable, limit int) ([]byte, error) {
	c, err := limitedCodec(limit)
	if err != nil {
		return nil, err
	}
	return c.Marshal(v)
}

// FromBytesWithLimit is FromBytes with a container depth limit of at most
// MaxContainerDepth.
func FromBytesWithLimit(data []byte, v Deserializable, limit int) error {
	c, err := limitedCodec(limit)
	if err != nil {
		return err
	}
	return c.Unmarshal(data, v)
}

// FromReaderWithLimit is FromReader with a container depth limit of at most
// MaxContainerDepth.
func FromReaderWithLimit(r io.Reader, v Deserializable, limit int) error {
	c, err := limitedCodec(limit)
	if err != nil {
		return err
	}
	return c.Decode(r, v)
}
