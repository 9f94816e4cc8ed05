package bcsio

import (
	"errors"
	"io"
)

// ReadExact fills p from r. A read that produces no bytes ends the attempt;
// if p is not yet full the result is UnexpectedEOF.
func ReadExact(r io.Reader, p []byte) error {
	for len(p) > 0 {
		n, err := r.Read(p)
		if n < 0 || n > len(p) {
			return other("read", errors.New("invalid read count"))
		}
		p = p[n:]
		if err == io.EOF {
			break
		}
		if err != nil {
			return other("read", err)
		}
		if n == 0 {
			break
		}
	}
	if len(p) > 0 {
		return errUnexpectedEOF
	}
	return nil
}

// Cursor is an in-memory source over a byte slice. It never reads past the
// end and never fails on a short read; exhaustion is reported as io.EOF
// once no bytes remain.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor returns a Cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

func (c *Cursor) Read(p []byte) (int, error) {
	n := min(len(p), len(c.data)-c.pos)
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	copy(p, c.data[c.pos:c.pos+n])
	c.pos += n
	return n, nil
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Position returns the read offset.
func (c *Cursor) Position() int {
	return c.pos
}

// remainder is implemented by sources that know how much input is left.
type remainder interface {
	Remaining() int
}

// Reader wraps a source, counting consumed bytes and optionally recording
// them. Recording is nestable: bytes read while any capture is open are
// appended to one shared buffer, and each capture is a suffix of it.
type Reader struct {
	r         io.Reader
	bytesRead int

	captured []byte
	open     int
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadExact fills p.
func (r *Reader) ReadExact(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	err := ReadExact(r.r, p)
	if err != nil {
		return err
	}
	r.bytesRead += len(p)
	if r.open > 0 {
		r.captured = append(r.captured, p...)
	}
	return nil
}

// ReadByte reads one byte.
func (r *Reader) ReadByte() (byte, error) {
	var one [1]byte
	if err := r.ReadExact(one[:]); err != nil {
		return 0, err
	}
	return one[0], nil
}

// BytesRead returns the number of bytes consumed so far.
func (r *Reader) BytesRead() int {
	return r.bytesRead
}

// Remaining returns the unread byte count when the source knows it, or -1.
func (r *Reader) Remaining() int {
	if rem, ok := r.r.(remainder); ok {
		return rem.Remaining()
	}
	return -1
}

// StartCapture begins recording and returns a mark for EndCapture.
func (r *Reader) StartCapture() int {
	r.open++
	return len(r.captured)
}

// EndCapture stops the capture opened at mark and returns a copy of the
// bytes read since.
func (r *Reader) EndCapture(mark int) []byte {
	out := append([]byte(nil), r.captured[mark:]...)
	if r.open > 0 {
		r.open--
	}
	if r.open == 0 {
		r.captured = r.captured[:0]
	}
	return out
}
