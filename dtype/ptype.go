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

// Package dtype holds the logical (DType) and physical (PType) type systems
// that every Array, Scalar and encoding is built on.
package dtype

// PType is the physical, fixed-width numeric representation backing a
// Primitive DType. It never carries nullability -- that lives one level up
// on the DType.
type PType uint8

const (
	U8 PType = iota
	U16
	U32
	U64
	I8
	I16
	I32
	I64
	F16
	F32
	F64
)

var ptypeNames = [...]string{"u8", "u16", "u32", "u64", "i8", "i16", "i32", "i64", "f16", "f32", "f64"}

func (p PType) String() string {
	if int(p) < len(ptypeNames) {
		return ptypeNames[p]
	}
	return "invalid-ptype"
}

// ByteWidth returns the physical storage width of one value, in bytes.
func (p PType) ByteWidth() int {
	switch p {
	case U8, I8:
		return 1
	case U16, I16, F16:
		return 2
	case U32, I32, F32:
		return 4
	case U64, I64, F64:
		return 8
	default:
		return 0
	}
}

// BitWidth is ByteWidth in bits, the unit FastLanes-style bit-packing works in.
func (p PType) BitWidth() int { return p.ByteWidth() * 8 }

func (p PType) IsSigned() bool {
	switch p {
	case I8, I16, I32, I64:
		return true
	default:
		return false
	}
}

func (p PType) IsUnsigned() bool {
	switch p {
	case U8, U16, U32, U64:
		return true
	default:
		return false
	}
}

func (p PType) IsFloat() bool {
	switch p {
	case F16, F32, F64:
		return true
	default:
		return false
	}
}

func (p PType) IsInteger() bool { return p.IsSigned() || p.IsUnsigned() }

// Unsigned returns the unsigned counterpart of an integer PType (used by
// ZigZag and bit-packing, which always operate on unsigned codes).
func (p PType) Unsigned() PType {
	switch p {
	case I8:
		return U8
	case I16:
		return U16
	case I32:
		return U32
	case I64:
		return U64
	default:
		return p
	}
}

// Signed returns the signed counterpart of an unsigned integer PType.
func (p PType) Signed() PType {
	switch p {
	case U8:
		return I8
	case U16:
		return I16
	case U32:
		return I32
	case U64:
		return I64
	default:
		return p
	}
}

// MaxUnsignedValue returns the maximum representable value of an unsigned
// PType as a uint64 (undefined for signed/float types).
func (p PType) MaxUnsignedValue() uint64 {
	switch p.ByteWidth() {
	case 1:
		return 1<<8 - 1
	case 2:
		return 1<<16 - 1
	case 4:
		return 1<<32 - 1
	case 8:
		return ^uint64(0)
	default:
		return 0
	}
}

// UnsignedFromBitWidth picks the narrowest unsigned PType that can hold an
// unsigned value needing the given number of bits. Used by the dictionary
// encoder to pick the width of its codes.
func UnsignedFromBitWidth(bits int) PType {
	switch {
	case bits <= 8:
		return U8
	case bits <= 16:
		return U16
	case bits <= 32:
		return U32
	default:
		return U64
	}
}
