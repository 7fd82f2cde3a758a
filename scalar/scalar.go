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

// Package scalar implements the (DType, value) pair described in spec §3,
// the single-value counterpart to an Array.
package scalar

import (
	"fmt"
	"math"

	"github.com/cph-data/vortex/dtype"
	"github.com/cph-data/vortex/vxerr"
)

// Scalar is a (DType, value) pair. The zero value is not meaningful; use
// one of the constructors.
type Scalar struct {
	dt   dtype.DType
	null bool

	b      bool
	u      uint64 // unsigned/bit-pattern storage for all Primitive ptypes
	bytes  []byte // Utf8/Binary payload
	fields []Scalar
	list   []Scalar
	inner  *Scalar // Extension storage scalar
}

func Null(dt dtype.DType) Scalar { return Scalar{dt: dt.WithNullable(true), null: true} }

func NewBool(v bool) Scalar { return Scalar{dt: dtype.Bool(false), b: v} }

func NewPrimitive(p dtype.PType, bits uint64) Scalar {
	return Scalar{dt: dtype.Primitive(p, false), u: bits}
}

func NewInt(p dtype.PType, v int64) Scalar {
	return NewPrimitive(p, uint64(v))
}

func NewUint(p dtype.PType, v uint64) Scalar {
	return NewPrimitive(p, v)
}

func NewFloat32(v float32) Scalar {
	return NewPrimitive(dtype.F32, uint64(math.Float32bits(v)))
}

func NewFloat64(v float64) Scalar {
	return NewPrimitive(dtype.F64, math.Float64bits(v))
}

func NewUtf8(s string) Scalar {
	return Scalar{dt: dtype.Utf8(false), bytes: []byte(s)}
}

func NewBinary(b []byte) Scalar {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Scalar{dt: dtype.Binary(false), bytes: cp}
}

func NewStruct(dt dtype.DType, fields []Scalar) Scalar {
	cp := make([]Scalar, len(fields))
	copy(cp, fields)
	return Scalar{dt: dt, fields: cp}
}

func NewList(dt dtype.DType, items []Scalar) Scalar {
	cp := make([]Scalar, len(items))
	copy(cp, items)
	return Scalar{dt: dt, list: cp}
}

func NewExtension(dt dtype.DType, storage Scalar) Scalar {
	s := storage
	return Scalar{dt: dt, inner: &s}
}

func (s Scalar) DType() dtype.DType { return s.dt }
func (s Scalar) IsNull() bool       { return s.null }

func (s Scalar) Bool() bool { return s.b }

// Bits returns the raw bit pattern of a primitive scalar (as stored by
// NewPrimitive/NewInt/NewUint/NewFloat64).
func (s Scalar) Bits() uint64 { return s.u }

func (s Scalar) Int() int64 {
	p := s.dt.PType()
	switch p.ByteWidth() {
	case 1:
		return int64(int8(s.u))
	case 2:
		return int64(int16(s.u))
	case 4:
		return int64(int32(s.u))
	default:
		return int64(s.u)
	}
}

func (s Scalar) Uint() uint64 { return s.u }

func (s Scalar) Float() float64 {
	switch s.dt.PType() {
	case dtype.F32:
		return float64(math.Float32frombits(uint32(s.u)))
	default:
		return math.Float64frombits(s.u)
	}
}

func (s Scalar) Bytes() []byte      { return s.bytes }
func (s Scalar) String() string     { return string(s.bytes) }
func (s Scalar) Fields() []Scalar   { return s.fields }
func (s Scalar) ListItems() []Scalar { return s.list }
func (s Scalar) Inner() Scalar      { return *s.inner }

// Cast converts s to target, the way spec §3 requires ("Scalars must
// support casting to compatible DTypes"). Only numeric widening/narrowing
// and nullability relaxation are supported; cross-kind casts fail.
func (s Scalar) Cast(target dtype.DType) (Scalar, error) {
	if s.null {
		if !target.Nullable() {
			return Scalar{}, vxerr.New("cast", vxerr.InvalidArgument, "cannot cast null to non-nullable %s", target)
		}
		return Null(target), nil
	}
	if s.dt.Kind() != target.Kind() {
		return Scalar{}, vxerr.MismatchedTypesErr("cast", target, s.dt)
	}
	switch target.Kind() {
	case dtype.KindPrimitive:
		r, err := castPrimitive(s, target.PType())
		return r.withNullable(target.Nullable()), err
	case dtype.KindBool, dtype.KindUtf8, dtype.KindBinary, dtype.KindNull:
		r := s
		r.dt = target
		return r, nil
	case dtype.KindExtension:
		if s.dt.ExtensionID() == DecimalExtensionID && target.ExtensionID() == DecimalExtensionID {
			return castDecimal(s, target)
		}
		r := s
		r.dt = target
		return r, nil
	default:
		r := s
		r.dt = target
		return r, nil
	}
}

// castDecimal rescales a vortex.decimal scalar to target's scale,
// going through decimal.Decimal rather than shifting the raw int64
// child directly so rounding on a scale decrease matches
// shopspring/decimal's own half-away-from-zero rule.
func castDecimal(s Scalar, target dtype.DType) (Scalar, error) {
	d, err := s.Decimal()
	if err != nil {
		return Scalar{}, err
	}
	return NewDecimal(target, d)
}

func castPrimitive(s Scalar, target dtype.PType) (Scalar, error) {
	src := s.dt.PType()
	if src == target {
		r := s
		r.dt = dtype.Primitive(target, s.dt.Nullable())
		return r, nil
	}
	switch {
	case src.IsFloat() || target.IsFloat():
		f := s.Float()
		if target.IsFloat() {
			if target == dtype.F32 {
				return NewPrimitive(target, uint64(math.Float32bits(float32(f)))).withNullable(s.dt.Nullable()), nil
			}
			return NewPrimitive(target, math.Float64bits(f)).withNullable(s.dt.Nullable()), nil
		}
		return NewPrimitive(target, uint64(int64(f))).withNullable(s.dt.Nullable()), nil
	default:
		v := s.Int()
		return NewPrimitive(target, maskToWidth(uint64(v), target)).withNullable(s.dt.Nullable()), nil
	}
}

func (s Scalar) withNullable(n bool) Scalar {
	s.dt = s.dt.WithNullable(n)
	return s
}

func maskToWidth(v uint64, p dtype.PType) uint64 {
	switch p.ByteWidth() {
	case 1:
		return v & 0xFF
	case 2:
		return v & 0xFFFF
	case 4:
		return v & 0xFFFFFFFF
	default:
		return v
	}
}

// Equal performs value equality (not identity), ignoring nullability flags
// on the DType but not the null-ness of the value itself.
func Equal(a, b Scalar) bool {
	if a.null != b.null {
		return false
	}
	if a.null {
		return true
	}
	if a.dt.Kind() != b.dt.Kind() {
		return false
	}
	switch a.dt.Kind() {
	case dtype.KindNull:
		return true
	case dtype.KindBool:
		return a.b == b.b
	case dtype.KindPrimitive:
		if a.dt.PType().IsFloat() {
			return a.Float() == b.Float()
		}
		if a.dt.PType().IsSigned() {
			return a.Int() == b.Int()
		}
		return a.u == b.u
	case dtype.KindUtf8, dtype.KindBinary:
		return string(a.bytes) == string(b.bytes)
	case dtype.KindStruct:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for i := range a.fields {
			if !Equal(a.fields[i], b.fields[i]) {
				return false
			}
		}
		return true
	case dtype.KindList:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	case dtype.KindExtension:
		return Equal(*a.inner, *b.inner)
	}
	return false
}

// Less implements a total order sufficient for search_sorted/IsSorted
// statistics: numeric by value, strings lexicographically, null sorts
// last (nulls-last, per spec §4.3 search_sorted precondition).
func Less(a, b Scalar) bool {
	if a.null != b.null {
		return b.null // a < b iff b is the null one
	}
	if a.null {
		return false
	}
	switch a.dt.Kind() {
	case dtype.KindPrimitive:
		if a.dt.PType().IsFloat() {
			return a.Float() < b.Float()
		}
		if a.dt.PType().IsSigned() {
			return a.Int() < b.Int()
		}
		return a.u < b.u
	case dtype.KindUtf8, dtype.KindBinary:
		return string(a.bytes) < string(b.bytes)
	case dtype.KindBool:
		return !a.b && b.b
	default:
		return false
	}
}

func (s Scalar) GoString() string {
	if s.null {
		return fmt.Sprintf("null(%s)", s.dt)
	}
	switch s.dt.Kind() {
	case dtype.KindBool:
		return fmt.Sprintf("%v", s.b)
	case dtype.KindPrimitive:
		if s.dt.PType().IsFloat() {
			return fmt.Sprintf("%v", s.Float())
		}
		if s.dt.PType().IsSigned() {
			return fmt.Sprintf("%v", s.Int())
		}
		return fmt.Sprintf("%v", s.u)
	case dtype.KindUtf8:
		return fmt.Sprintf("%q", string(s.bytes))
	default:
		return fmt.Sprintf("scalar(%s)", s.dt)
	}
}
