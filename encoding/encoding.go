// Package encoding provides the generic error values shared by the value
// encodings implemented in its sub-packages.
package encoding

import (
	"errors"
	"fmt"

	"github.com/colpack/colpack/format"
)

var (
	// ErrNotSupported is returned when an encoding is asked to handle a
	// physical type it cannot represent.
	//
	// The error may be wrapped with type information, applications must use
	// errors.Is rather than equality comparisons to test for it.
	ErrNotSupported = errors.New("encoding not supported")

	// ErrInvalidArgument is returned when an encoding function is called
	// with arguments that do not satisfy its preconditions.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error wraps err with the name of the encoding that produced it.
func Error(e format.Encoding, err error) error {
	return fmt.Errorf("%s: %w", e, err)
}

// Errorf is like Error but constructs the error from a printf-style format.
func Errorf(e format.Encoding, msg string, args ...any) error {
	return Error(e, fmt.Errorf(msg, args...))
}

// CanEncode reports whether the given encoding is capable of serializing
// values of the given physical type.
func CanEncode(e format.Encoding, t format.Type) bool {
	switch e {
	case format.Plain:
		return true
	case format.DeltaByteArray:
		return t == format.ByteArray
	case format.RLE, format.BitPacked:
		// Level encodings, not value encodings.
		return false
	default:
		return false
	}
}
