package utils

import (
	"errors"
	"fmt"
)

// Kind identifies one of the error categories a codec operation can fail with.
type Kind uint8

const (
	// KindTruncatedInput means fewer bytes remained than a token required.
	KindTruncatedInput Kind = iota
	// KindBadHeader means the first two stream bytes were not 0x04 0x08.
	KindBadHeader
	// KindUnknownTag means a tag byte matched no known variant.
	KindUnknownTag
	// KindIndexOutOfRange means a symlink or object link referenced an
	// unestablished slot.
	KindIndexOutOfRange
	// KindSymbolExpected means a class-name position held a non-symbol value.
	KindSymbolExpected
	// KindRegistryMismatch means a class registry returned a constructor
	// incompatible with the demanded variant.
	KindRegistryMismatch
	// KindEncodingFailure means attributes requested a text encoding the
	// host could not perform.
	KindEncodingFailure
	// KindUnrepresentable means the writer was asked to encode a value with
	// no defined wire mapping.
	KindUnrepresentable
)

func (k Kind) String() string {
	switch k {
	case KindTruncatedInput:
		return "truncated input"
	case KindBadHeader:
		return "bad header"
	case KindUnknownTag:
		return "unknown tag"
	case KindIndexOutOfRange:
		return "index out of range"
	case KindSymbolExpected:
		return "symbol expected"
	case KindRegistryMismatch:
		return "registry mismatch"
	case KindEncodingFailure:
		return "encoding failure"
	case KindUnrepresentable:
		return "unrepresentable"
	default:
		return "unknown error kind"
	}
}

// CodecError is the structured error type raised by the reader, the
// writer, and the reference tables. It carries the failing Kind plus a
// human-readable context and, when present, a wrapped cause.
type CodecError struct {
	Kind    Kind
	Context string
	Cause   error
}

// Error implements the error interface.
func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Context)
}

// Unwrap provides compatibility with errors.Unwrap() and errors.Is().
func (e *CodecError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for e's Kind, so callers can
// write errors.Is(err, utils.ErrUnknownTag) without reaching into Kind.
func (e *CodecError) Is(target error) bool {
	sentinel, ok := target.(*CodecError)
	return ok && sentinel.Cause == nil && sentinel.Context == "" && sentinel.Kind == e.Kind
}

// NewError builds a CodecError of the given kind with a context message.
func NewError(kind Kind, context string) error {
	return &CodecError{Kind: kind, Context: context}
}

// WrapError builds a CodecError of the given kind, wrapping cause. Returns
// nil if cause is nil, so a caller can write `return WrapError(...)` inline
// without an extra nil check.
func WrapError(kind Kind, context string, cause error) error {
	if cause == nil {
		return nil
	}
	return &CodecError{Kind: kind, Context: context, Cause: cause}
}

// Sentinels usable with errors.Is, one per Kind.
var (
	ErrTruncatedInput   = &CodecError{Kind: KindTruncatedInput}
	ErrBadHeader        = &CodecError{Kind: KindBadHeader}
	ErrUnknownTag       = &CodecError{Kind: KindUnknownTag}
	ErrIndexOutOfRange  = &CodecError{Kind: KindIndexOutOfRange}
	ErrSymbolExpected   = &CodecError{Kind: KindSymbolExpected}
	ErrRegistryMismatch = &CodecError{Kind: KindRegistryMismatch}
	ErrEncodingFailure  = &CodecError{Kind: KindEncodingFailure}
	ErrUnrepresentable  = &CodecError{Kind: KindUnrepresentable}
)

// KindOf extracts the Kind from err, if err is (or wraps) a *CodecError.
func KindOf(err error) (Kind, bool) {
	var ce *CodecError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return 0, false
}
