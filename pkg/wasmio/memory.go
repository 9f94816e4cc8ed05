// Package wasmio moves canonical bytes in and out of WebAssembly linear
// memory. A guest hands the host a window (offset and length) and the host
// encodes into it or decodes from it without an intermediate copy on the Go
// heap.
package wasmio

import (
	"fmt"
	"io"

	"github.com/tetratelabs/wazero/api"

	"github.com/zefchain/bcs"
)

// Window is a region of linear memory.
type Window struct {
	Offset uint32
	Length uint32
}

func (w Window) end() uint64 {
	return uint64(w.Offset) + uint64(w.Length)
}

func (w Window) check(mem api.Memory) error {
	if mem == nil {
		return fmt.Errorf("wasmio: nil memory")
	}
	if w.end() > uint64(mem.Size()) {
		return fmt.Errorf("wasmio: window [%d, %d) outside memory of %d bytes", w.Offset, w.end(), mem.Size())
	}
	return nil
}

// MemorySink writes into a fixed window. Once the window is full it accepts
// nothing more, which the codec reports as a write-zero I/O error.
type MemorySink struct {
	mem api.Memory
	win Window
	pos uint32
}

// NewMemorySink returns a sink over win.
func NewMemorySink(mem api.Memory, win Window) (*MemorySink, error) {
	if err := win.check(mem); err != nil {
		return nil, err
	}
	return &MemorySink{mem: mem, win: win}, nil
}

func (s *MemorySink) Write(p []byte) (int, error) {
	n := s.win.Length - s.pos
	if uint64(len(p)) < uint64(n) {
		n = uint32(len(p))
	}
	if n == 0 {
		return 0, nil
	}
	if !s.mem.Write(s.win.Offset+s.pos, p[:n]) {
		return 0, fmt.Errorf("wasmio: write of %d bytes at %d out of range", n, s.win.Offset+s.pos)
	}
	s.pos += n
	return int(n), nil
}

// Flush is a no-op; writes land in guest memory immediately.
func (s *MemorySink) Flush() error { return nil }

// Written returns the number of bytes written so far.
func (s *MemorySink) Written() uint32 { return s.pos }

// MemorySource reads from a fixed window.
type MemorySource struct {
	mem api.Memory
	win Window
	pos uint32
}

// NewMemorySource returns a source over win.
func NewMemorySource(mem api.Memory, win Window) (*MemorySource, error) {
	if err := win.check(mem); err != nil {
		return nil, err
	}
	return &MemorySource{mem: mem, win: win}, nil
}

func (s *MemorySource) Read(p []byte) (int, error) {
	n := s.win.Length - s.pos
	if uint64(len(p)) < uint64(n) {
		n = uint32(len(p))
	}
	if n == 0 {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	view, ok := s.mem.Read(s.win.Offset+s.pos, n)
	if !ok {
		return 0, fmt.Errorf("wasmio: read of %d bytes at %d out of range", n, s.win.Offset+s.pos)
	}
	copy(p, view)
	s.pos += n
	return int(n), nil
}

// Remaining returns the number of unread bytes in the window.
func (s *MemorySource) Remaining() int {
	return int(s.win.Length - s.pos)
}

// Encode writes v into win and returns the number of bytes used.
func Encode(codec *bcs.Codec, mem api.Memory, win Window, v bcs.Serializable) (uint32, error) {
	sink, err := NewMemorySink(mem, win)
	if err != nil {
		return 0, err
	}
	if err := codec.Encode(sink, v); err != nil {
		return sink.Written(), err
	}
	return sink.Written(), nil
}

// Decode reads v from win, which must hold exactly one encoding.
func Decode(codec *bcs.Codec, mem api.Memory, win Window, v bcs.Deserializable) error {
	src, err := NewMemorySource(mem, win)
	if err != nil {
		return err
	}
	return codec.DecodeAll(src, v)
}
