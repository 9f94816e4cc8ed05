package bcs

import (
	bcserrors "github.com/zefchain/bcs/internal/errors"
)

// Error is the single failure type returned by the codec. Use errors.Is with
// the sentinels below to test the kind, or errors.As to read the payload.
type Error = bcserrors.Error

// ErrorKind identifies one failure kind.
type ErrorKind = bcserrors.Kind

const (
	KindEOF                         = bcserrors.KindEOF
	KindIO                          = bcserrors.KindIO
	KindExceededMaxLen              = bcserrors.KindExceededMaxLen
	KindExceededContainerDepthLimit = bcserrors.KindExceededContainerDepthLimit
	KindExpectedBoolean             = bcserrors.KindExpectedBoolean
	KindExpectedMapKey              = bcserrors.KindExpectedMapKey
	KindExpectedMapValue            = bcserrors.KindExpectedMapValue
	KindNonCanonicalMap             = bcserrors.KindNonCanonicalMap
	KindExpectedOption              = bcserrors.KindExpectedOption
	KindCustom                      = bcserrors.KindCustom
	KindMissingLen                  = bcserrors.KindMissingLen
	KindNotSupported                = bcserrors.KindNotSupported
	KindRemainingInput              = bcserrors.KindRemainingInput
	KindUTF8                        = bcserrors.KindUTF8
	KindNonCanonicalULEB128         = bcserrors.KindNonCanonicalULEB128
	KindULEB128Overflow             = bcserrors.KindULEB128Overflow
)

var (
	ErrEOF                         = bcserrors.ErrEOF
	ErrIO                          = bcserrors.ErrIO
	ErrExceededMaxLen              = bcserrors.ErrExceededMaxLen
	ErrExceededContainerDepthLimit = bcserrors.ErrExceededContainerDepthLimit
	ErrExpectedBoolean             = bcserrors.ErrExpectedBoolean
	ErrExpectedMapKey              = bcserrors.ErrExpectedMapKey
	ErrExpectedMapValue            = bcserrors.ErrExpectedMapValue
	ErrNonCanonicalMap             = bcserrors.ErrNonCanonicalMap
	ErrExpectedOption              = bcserrors.ErrExpectedOption
	ErrCustom                      = bcserrors.ErrCustom
	ErrMissingLen                  = bcserrors.ErrMissingLen
	ErrNotSupported                = bcserrors.ErrNotSupported
	ErrRemainingInput              = bcserrors.ErrRemainingInput
	ErrUTF8                        = bcserrors.ErrUTF8
	ErrNonCanonicalULEB128         = bcserrors.ErrNonCanonicalULEB128
	ErrULEB128Overflow             = bcserrors.ErrULEB128Overflow
)

// Errorf builds a Custom error. Value-model code uses it to report its own
// failures (field validation, unknown variants) through the codec.
func Errorf(format string, args ...any) error {
	return bcserrors.Custom(format, args...)
}

// KindOf returns the kind carried by err, or 0 if err is not a codec error.
func KindOf(err error) ErrorKind {
	return bcserrors.KindOf(err)
}
