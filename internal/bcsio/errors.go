package bcsio

import (
	"fmt"
	"io"
)

// ErrorKind classifies transfer failures at the sink/source layer.
type ErrorKind uint8

const (
	UnexpectedEOF ErrorKind = iota + 1
	WriteZero
	Other
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedEOF:
		return "UnexpectedEof"
	case WriteZero:
		return "WriteZero"
	default:
		return "Other"
	}
}

// Error is a transfer failure. UnexpectedEOF unwraps to io.ErrUnexpectedEOF
// and WriteZero to io.ErrShortWrite so callers can match the stdlib values.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == Other {
		return fmt.Sprintf("IO Error %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("IO Error %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	switch e.Kind {
	case UnexpectedEOF:
		return io.ErrUnexpectedEOF
	case WriteZero:
		return io.ErrShortWrite
	default:
		return e.Err
	}
}

var (
	errUnexpectedEOF = &Error{Kind: UnexpectedEOF, Message: "failed to fill whole buffer"}
	errWriteZero     = &Error{Kind: WriteZero, Message: "failed to write whole buffer"}
)

func other(op string, err error) *Error {
	return &Error{Kind: Other, Message: op, Err: err}
}
