/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package vxerr defines the recoverable error kinds shared by every layer of
// the array/encoding model, the sampling compressor and the serde layer.
package vxerr

import "fmt"

// Kind identifies a class of recoverable failure. Panics are reserved for
// true invariant violations (corrupt internal state); everything a caller
// can reasonably expect to happen is a Kind here.
type Kind uint8

const (
	InvalidDType Kind = iota
	InvalidPType
	InvalidEncoding
	InvalidArgument
	OutOfBounds
	MismatchedTypes
	MismatchedLengths
	ComputeError
	SerdeError
	NotImplemented
)

func (k Kind) String() string {
	switch k {
	case InvalidDType:
		return "InvalidDType"
	case InvalidPType:
		return "InvalidPType"
	case InvalidEncoding:
		return "InvalidEncoding"
	case InvalidArgument:
		return "InvalidArgument"
	case OutOfBounds:
		return "OutOfBounds"
	case MismatchedTypes:
		return "MismatchedTypes"
	case MismatchedLengths:
		return "MismatchedLengths"
	case ComputeError:
		return "ComputeError"
	case SerdeError:
		return "SerdeError"
	case NotImplemented:
		return "NotImplemented"
	default:
		return "Unknown"
	}
}

// Error is the single error type returned from this module's public API.
// It carries a Kind plus whatever offending values are relevant so callers
// can build a precise message without re-deriving context.
type Error struct {
	Kind    Kind
	Op      string // operation that failed, e.g. "scalar_at", "take"
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Op != "" {
		if e.Wrapped != nil {
			return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Kind, e.Message, e.Wrapped)
		}
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
	}
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// New builds an Error for op with a formatted message.
func New(op string, kind Kind, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches context to an existing error without discarding it, the way
// a deeper SerdeError or ComputeError gets wrapped with the operation that
// surfaced it.
func Wrap(op string, kind Kind, err error, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Message: fmt.Sprintf(format, args...), Wrapped: err}
}

// OutOfBoundsErr builds the canonical "index out of [0, len)" error.
func OutOfBoundsErr(op string, index int, length int) *Error {
	return &Error{
		Op:      op,
		Kind:    OutOfBounds,
		Message: fmt.Sprintf("index %d out of bounds [0, %d)", index, length),
	}
}

// MismatchedTypesErr builds the canonical dtype-mismatch error.
func MismatchedTypesErr(op string, expected, found fmt.Stringer) *Error {
	return &Error{
		Op:      op,
		Kind:    MismatchedTypes,
		Message: fmt.Sprintf("expected dtype %s, found %s", expected, found),
	}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
