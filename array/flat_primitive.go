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

package array

import (
	"math"

	"github.com/cph-data/vortex/dtype"
	"github.com/cph-data/vortex/scalar"
	"github.com/cph-data/vortex/stats"
	"github.com/cph-data/vortex/vxbuf"
)

type primitiveEncoding struct{}

func (primitiveEncoding) ID() EncodingID               { return IDPrimitive }
func (primitiveEncoding) Name() string                 { return "primitive" }
func (primitiveEncoding) Canonicalize(a Array) (Array, error) { return a, nil }

var thePrimitiveEncoding Encoding = primitiveEncoding{}

// PrimitiveArray is a flat, fixed-width run of numeric values -- the
// direct generalization of the teacher's StorageFloat/StorageInt, minus
// their NaN-as-null sentinel (nullability here always goes through
// Validity, never a reserved bit pattern).
type PrimitiveArray struct {
	ptype    dtype.PType
	buf      vxbuf.Buffer
	length   int
	validity Validity
	st       *stats.Set
}

// readRaw/writeRaw reinterpret a PType-width little-endian cell without
// requiring a separate typed buffer per PType, the general-purpose
// counterpart to vxbuf.TypedView for call sites that don't know the Go
// type at compile time.
func readRaw(b []byte, i, width int) uint64 {
	off := i * width
	var v uint64
	for k := 0; k < width; k++ {
		v |= uint64(b[off+k]) << (8 * k)
	}
	return v
}

func writeRaw(b []byte, i, width int, v uint64) {
	off := i * width
	for k := 0; k < width; k++ {
		b[off+k] = byte(v >> (8 * k))
	}
}

// NewPrimitive builds a PrimitiveArray from raw bit patterns, one uint64
// per logical element (the low ptype.ByteWidth() bytes are used).
func NewPrimitive(p dtype.PType, raw []uint64, validity Validity) *PrimitiveArray {
	width := p.ByteWidth()
	buf := vxbuf.New(len(raw)*width, nil)
	bytes := buf.Bytes()
	for i, v := range raw {
		writeRaw(bytes, i, width, v)
	}
	a := &PrimitiveArray{ptype: p, buf: buf, length: len(raw), validity: validity}
	a.st = stats.NewSet(nil)
	return a
}

// NewI64 is a convenience constructor for non-nullable signed 64-bit data.
func NewI64(values []int64) *PrimitiveArray {
	raw := make([]uint64, len(values))
	for i, v := range values {
		raw[i] = uint64(v)
	}
	return NewPrimitive(dtype.I64, raw, NewNonNullable())
}

// NewF64 is a convenience constructor for non-nullable float64 data.
func NewF64(values []float64) *PrimitiveArray {
	raw := make([]uint64, len(values))
	for i, v := range values {
		raw[i] = math.Float64bits(v)
	}
	return NewPrimitive(dtype.F64, raw, NewNonNullable())
}

func (a *PrimitiveArray) PType() dtype.PType { return a.ptype }
func (a *PrimitiveArray) Buffer() vxbuf.Buffer { return a.buf }

func (a *PrimitiveArray) DType() dtype.DType {
	return dtype.Primitive(a.ptype, a.validity.Kind() != NonNullable)
}
func (a *PrimitiveArray) Len() int           { return a.length }
func (a *PrimitiveArray) Encoding() Encoding  { return thePrimitiveEncoding }
func (a *PrimitiveArray) Nbytes() int64      { return int64(a.buf.Len()) }
func (a *PrimitiveArray) Validity() Validity { return a.validity }
func (a *PrimitiveArray) Stats() *stats.Set  { return a.st }
func (a *PrimitiveArray) Children() []Array  { return nil }
func (a *PrimitiveArray) IsView() bool       { return false }

// RawAt returns the raw bit pattern at i, masked to the PType's width.
func (a *PrimitiveArray) RawAt(i int) uint64 {
	return readRaw(a.buf.Bytes(), i, a.ptype.ByteWidth()) & a.ptype.MaxUnsignedValue()
}

func init() {
	RegisterScalarAt(IDPrimitive, func(arr Array, i int) (scalar.Scalar, error) {
		a := arr.(*PrimitiveArray)
		return scalar.NewPrimitive(a.ptype, a.RawAt(i)), nil
	})
	RegisterSlice(IDPrimitive, func(arr Array, start, stop int) (Array, error) {
		a := arr.(*PrimitiveArray)
		width := a.ptype.ByteWidth()
		sub := a.buf.Slice(start*width, stop*width)
		return &PrimitiveArray{
			ptype:    a.ptype,
			buf:      sub,
			length:   stop - start,
			validity: a.validity.Slice(start, stop-start),
			st:       stats.NewSet(nil),
		}, nil
	})
}
