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

package encodings

import (
	"github.com/cph-data/vortex/array"
	"github.com/cph-data/vortex/dtype"
	"github.com/cph-data/vortex/scalar"
	"github.com/cph-data/vortex/stats"
)

const forID array.EncodingID = array.IDFrameOfReference

type forEncoding struct{}

func (forEncoding) ID() array.EncodingID { return forID }
func (forEncoding) Name() string         { return "frame_of_reference" }

func (forEncoding) Canonicalize(a array.Array) (array.Array, error) {
	f := a.(*FrameOfReferenceArray)
	raw := make([]uint64, f.length)
	ref := f.reference.Int()
	for i := 0; i < f.length; i++ {
		d, err := array.ScalarAt(f.child, i)
		if err != nil {
			return nil, err
		}
		raw[i] = uint64(ref + int64(d.Uint()))
	}
	return array.NewPrimitive(f.ptype, raw, f.validity), nil
}

var theForEncoding array.Encoding = forEncoding{}

// FrameOfReferenceArray stores signed values as (reference + unsigned
// delta), with the deltas held in a BitPackedArray child -- storage-int.go
// does exactly this combination (an int64 offset plus bit-packed chunk)
// under a single storage type; here the two are split into independently
// addressable encodings so FoR can also wrap a ZigZag or plain Primitive
// child when that fits the data better.
type FrameOfReferenceArray struct {
	ptype     dtype.PType
	reference scalar.Scalar
	child     array.Array
	length    int
	validity  array.Validity
	st        *stats.Set
}

// NewFrameOfReference builds a FoR array from signed values by
// subtracting their minimum and bit-packing the (non-negative) deltas.
func NewFrameOfReference(ptype dtype.PType, values []int64, validity array.Validity) *FrameOfReferenceArray {
	min := values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
	}
	deltas := make([]uint64, len(values))
	for i, v := range values {
		deltas[i] = uint64(v - min)
	}
	child := NewBitPacked(ptype.Unsigned(), deltas, array.NewNonNullable())
	a := &FrameOfReferenceArray{
		ptype:     ptype,
		reference: scalar.NewInt(ptype, min),
		child:     child,
		length:    len(values),
		validity:  validity,
	}
	a.st = stats.NewSet(nil)
	a.st.Set(stats.Min, a.reference)
	return a
}

func (a *FrameOfReferenceArray) DType() dtype.DType {
	return dtype.Primitive(a.ptype, a.validity.Kind() != array.NonNullable)
}
func (a *FrameOfReferenceArray) Len() int            { return a.length }
func (a *FrameOfReferenceArray) Encoding() array.Encoding { return theForEncoding }
func (a *FrameOfReferenceArray) Nbytes() int64       { return a.child.Nbytes() }
func (a *FrameOfReferenceArray) Validity() array.Validity { return a.validity }
func (a *FrameOfReferenceArray) Stats() *stats.Set   { return a.st }
func (a *FrameOfReferenceArray) Children() []array.Array { return []array.Array{a.child} }
func (a *FrameOfReferenceArray) IsView() bool        { return false }

// WithChildren rebuilds this node with a recompressed delta child,
// e.g. after the sampling compressor finds a better encoding than plain
// BitPacked for the deltas.
func (a *FrameOfReferenceArray) WithChildren(children []array.Array) array.Array {
	b := *a
	b.child = children[0]
	b.st = stats.NewSet(nil)
	b.st.Set(stats.Min, b.reference)
	return &b
}

func init() {
	array.Register(theForEncoding)
	array.RegisterScalarAt(forID, func(arr array.Array, i int) (scalar.Scalar, error) {
		a := arr.(*FrameOfReferenceArray)
		d, err := array.ScalarAt(a.child, i)
		if err != nil {
			return scalar.Scalar{}, err
		}
		return scalar.NewInt(a.ptype, a.reference.Int()+int64(d.Uint())), nil
	})
}
