// Package bcsio implements the byte-movement contract between the codec and
// its sinks and sources: full-transfer writes that detect a stalled sink,
// exact reads that detect exhaustion, and an in-memory cursor.
package bcsio

import (
	"io"
)

// Sink is a byte destination with an explicit flush step.
type Sink interface {
	io.Writer
	Flush() error
}

// WriteAll writes p in full, calling w.Write until every byte is accepted.
// A Write that accepts nothing without reporting an error fails with
// WriteZero instead of looping forever.
func WriteAll(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if n < 0 || n > len(p) {
			return other("write", io.ErrShortWrite)
		}
		p = p[n:]
		if err != nil {
			return other("write", err)
		}
		if n == 0 {
			return errWriteZero
		}
	}
	return nil
}

// Flush flushes w if it has a flush step.
func Flush(w io.Writer) error {
	f, ok := w.(interface{ Flush() error })
	if !ok {
		return nil
	}
	if err := f.Flush(); err != nil {
		return other("flush", err)
	}
	return nil
}

// Buffer is an append-only in-memory Sink.
type Buffer struct {
	data []byte
}

// NewBuffer returns an empty Buffer with capacity for size bytes.
func NewBuffer(size int) *Buffer {
	return &Buffer{data: make([]byte, 0, size)}
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *Buffer) Flush() error { return nil }

// Bytes returns the accumulated bytes. The slice aliases the buffer.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the number of bytes written.
func (b *Buffer) Len() int { return len(b.data) }

// Reset discards the contents, keeping the allocation.
func (b *Buffer) Reset() { b.data = b.data[:0] }

// Writer wraps a sink, tracking how many bytes it accepted. Every write goes
// through WriteAll.
type Writer struct {
	w            io.Writer
	bytesWritten int
}

// NewWriter wraps w. A nil w counts bytes without storing them.
func NewWriter(w io.Writer) *Writer {
	if w == nil {
		w = io.Discard
	}
	return &Writer{w: w}
}

// WriteAll writes p in full.
func (w *Writer) WriteAll(p []byte) error {
	if err := WriteAll(w.w, p); err != nil {
		return err
	}
	w.bytesWritten += len(p)
	return nil
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) error {
	var one [1]byte
	one[0] = b
	return w.WriteAll(one[:])
}

// Flush flushes the underlying sink if it supports it.
func (w *Writer) Flush() error {
	return Flush(w.w)
}

// BytesWritten returns the number of bytes accepted so far.
func (w *Writer) BytesWritten() int {
	return w.bytesWritten
}

// Underlying returns the wrapped sink.
func (w *Writer) Underlying() io.Writer {
	return w.w
}
