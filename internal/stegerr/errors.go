// Package stegerr defines the typed failures of the container codec.
//
// Every stage of the encode and decode pipelines fails with a *Error whose Kind
// names the stage. Callers branch on Kind (IsKind, KindOf) rather than matching
// error strings; Error() text is for humans and may change.
package stegerr

import "errors"

// Kind is a stable failure category.
type Kind string

const (
	KindRandomSource   Kind = "RandomSource"
	KindKeyDerivation  Kind = "KeyDerivation"
	KindCipher         Kind = "Cipher"
	KindCompression    Kind = "Compression"
	KindDecompression  Kind = "Decompression"
	KindFormat         Kind = "Format"
	KindMagicMismatch  Kind = "MagicMismatch"
	KindAuthentication Kind = "Authentication"
	KindCapacity       Kind = "Capacity"
)

// Error is the codec's structured error type.
//
// Op names the operation that failed (e.g. "embed.Write", "decoder.Decode").
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// New returns a *Error without an underlying cause.
func New(kind Kind, op, msg string) error {
	return &Error{Kind: kind, Op: op, Message: msg}
}

// Wrap returns a *Error carrying cause. A nil cause yields the same as New.
func Wrap(kind Kind, op, msg string, cause error) error {
	return &Error{Kind: kind, Op: op, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf returns the Kind of the outermost *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}
