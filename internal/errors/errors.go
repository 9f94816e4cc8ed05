// Package errors holds the failure taxonomy shared by every layer of the
// codec. The root package re-exports these names.
package errors

import (
	stderrors "errors"
	"fmt"
	"io"
)

// Kind identifies one member of the taxonomy.
type Kind uint8

const (
	KindEOF Kind = iota + 1
	KindIO
	KindExceededMaxLen
	KindExceededContainerDepthLimit
	KindExpectedBoolean
	KindExpectedMapKey
	KindExpectedMapValue
	KindNonCanonicalMap
	KindExpectedOption
	KindCustom
	KindMissingLen
	KindNotSupported
	KindRemainingInput
	KindUTF8
	KindNonCanonicalULEB128
	KindULEB128Overflow
)

var kindNames = map[Kind]string{
	KindEOF:                         "Eof",
	KindIO:                          "Io",
	KindExceededMaxLen:              "ExceededMaxLen",
	KindExceededContainerDepthLimit: "ExceededContainerDepthLimit",
	KindExpectedBoolean:             "ExpectedBoolean",
	KindExpectedMapKey:              "ExpectedMapKey",
	KindExpectedMapValue:            "ExpectedMapValue",
	KindNonCanonicalMap:             "NonCanonicalMap",
	KindExpectedOption:              "ExpectedOption",
	KindCustom:                      "Custom",
	KindMissingLen:                  "MissingLen",
	KindNotSupported:                "NotSupported",
	KindRemainingInput:              "RemainingInput",
	KindUTF8:                        "Utf8",
	KindNonCanonicalULEB128:         "NonCanonicalUleb128Encoding",
	KindULEB128Overflow:             "IntegerOverflowDuringUleb128Decoding",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Error is an immutable failure value. Only the payload fields relevant to
// Kind are set.
type Error struct {
	Kind Kind

	// Len is the offending length for KindExceededMaxLen, Limit the
	// configured maximum it was checked against.
	Len   int64
	Limit int

	// Container names the scope being entered for
	// KindExceededContainerDepthLimit.
	Container string

	// Msg carries the text of KindIO, KindCustom and KindNotSupported.
	Msg string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindEOF:
		return "unexpected end of input"
	case KindIO:
		return "I/O error: " + e.Msg
	case KindExceededMaxLen:
		if e.Limit > 0 {
			return fmt.Sprintf("exceeded max sequence length: %d (limit %d)", e.Len, e.Limit)
		}
		return fmt.Sprintf("exceeded max sequence length: %d", e.Len)
	case KindExceededContainerDepthLimit:
		return "exceeded max container depth while entering: " + e.Container
	case KindExpectedBoolean:
		return "expected boolean"
	case KindExpectedMapKey:
		return "expected map key"
	case KindExpectedMapValue:
		return "expected map value"
	case KindNonCanonicalMap:
		return "keys of serialized maps must be unique and in increasing order"
	case KindExpectedOption:
		return "expected option type"
	case KindCustom:
		return e.Msg
	case KindMissingLen:
		return "sequence missing length"
	case KindNotSupported:
		return "not supported: " + e.Msg
	case KindRemainingInput:
		return "remaining input"
	case KindUTF8:
		return "malformed utf8"
	case KindNonCanonicalULEB128:
		return "ULEB128 encoding was not minimal in size"
	case KindULEB128Overflow:
		return "ULEB128-encoded integer did not fit in the target size"
	default:
		return "bcs: " + e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind. Payloads are
// ignored so the sentinels below match any instance of their kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels, one per kind.
var (
	ErrEOF                         = &Error{Kind: KindEOF}
	ErrIO                          = &Error{Kind: KindIO}
	ErrExceededMaxLen              = &Error{Kind: KindExceededMaxLen}
	ErrExceededContainerDepthLimit = &Error{Kind: KindExceededContainerDepthLimit}
	ErrExpectedBoolean             = &Error{Kind: KindExpectedBoolean}
	ErrExpectedMapKey              = &Error{Kind: KindExpectedMapKey}
	ErrExpectedMapValue            = &Error{Kind: KindExpectedMapValue}
	ErrNonCanonicalMap             = &Error{Kind: KindNonCanonicalMap}
	ErrExpectedOption              = &Error{Kind: KindExpectedOption}
	ErrCustom                      = &Error{Kind: KindCustom}
	ErrMissingLen                  = &Error{Kind: KindMissingLen}
	ErrNotSupported                = &Error{Kind: KindNotSupported}
	ErrRemainingInput              = &Error{Kind: KindRemainingInput}
	ErrUTF8                        = &Error{Kind: KindUTF8}
	ErrNonCanonicalULEB128         = &Error{Kind: KindNonCanonicalULEB128}
	ErrULEB128Overflow             = &Error{Kind: KindULEB128Overflow}
)

// ExceededMaxLen reports a length n over limit.
func ExceededMaxLen(n int64, limit int) *Error {
	return &Error{Kind: KindExceededMaxLen, Len: n, Limit: limit}
}

// ExceededDepth reports the container that could not be entered.
func ExceededDepth(container string) *Error {
	return &Error{Kind: KindExceededContainerDepthLimit, Container: container}
}

// NotSupported reports an intentionally rejected shape.
func NotSupported(reason string) *Error {
	return &Error{Kind: KindNotSupported, Msg: reason}
}

// Custom builds a value-model failure.
func Custom(format string, args ...any) *Error {
	return &Error{Kind: KindCustom, Msg: fmt.Sprintf(format, args...)}
}

// FromIO translates a sink or source failure. Exhaustion becomes Eof so
// callers can tell running out of input from a failing transport.
func FromIO(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) || stderrors.Is(err, io.EOF) {
		return &Error{Kind: KindEOF, Err: err}
	}
	return &Error{Kind: KindIO, Msg: err.Error(), Err: err}
}

// Normalize returns err as an *Error, wrapping foreign errors raised by
// value-model callbacks as Custom.
func Normalize(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindCustom, Msg: err.Error(), Err: err}
}

// KindOf returns the kind of err, or 0 when err carries no *Error.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return 0
}
