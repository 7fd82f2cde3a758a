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

const zigZagID array.EncodingID = array.IDZigZag

type zigZagEncoding struct{}

func (zigZagEncoding) ID() array.EncodingID { return zigZagID }
func (zigZagEncoding) Name() string         { return "zigzag" }

func (zigZagEncoding) Canonicalize(a array.Array) (array.Array, error) {
	z := a.(*ZigZagArray)
	raw := make([]uint64, z.length)
	for i := 0; i < z.length; i++ {
		u, err := array.ScalarAt(z.child, i)
		if err != nil {
			return nil, err
		}
		raw[i] = uint64(zigZagDecode(u.Uint()))
	}
	return array.NewPrimitive(z.ptype, raw, z.validity), nil
}

var theZigZagEncoding array.Encoding = zigZagEncoding{}

// zigZagEncode maps a signed value onto the unsigned range so that small
// magnitudes (positive or negative) land at small unsigned codes, letting
// a downstream BitPacked/FoR child pack them tightly -- the standard
// protobuf/Parquet zigzag mapping.
func zigZagEncode(v int64) uint64 { return uint64((v << 1) ^ (v >> 63)) }

func zigZagDecode(u uint64) int64 { return int64(u>>1) ^ -int64(u&1) }

// ZigZagArray stores signed values as their zigzag-mapped unsigned
// counterparts in child, which is free to be a plain Primitive, a
// BitPacked, or a FrameOfReference array depending on what the
// distribution favors.
type ZigZagArray struct {
	ptype    dtype.PType
	child    array.Array
	length   int
	validity array.Validity
	st       *stats.Set
}

func NewZigZag(ptype dtype.PType, values []int64, validity array.Validity) *ZigZagArray {
	raw := make([]uint64, len(values))
	for i, v := range values {
		raw[i] = zigZagEncode(v)
	}
	child := NewBitPacked(ptype.Unsigned(), raw, array.NewNonNullable())
	a := &ZigZagArray{ptype: ptype, child: child, length: len(values), validity: validity}
	a.st = stats.NewSet(nil)
	return a
}

func (a *ZigZagArray) DType() dtype.DType {
	return dtype.Primitive(a.ptype, a.validity.Kind() != array.NonNullable)
}
func (a *ZigZagArray) Len() int            { return a.length }
func (a *ZigZagArray) Encoding() array.Encoding { return theZigZagEncoding }
func (a *ZigZagArray) Nbytes() int64       { return a.child.Nbytes() }
func (a *ZigZagArray) Validity() array.Validity { return a.validity }
func (a *ZigZagArray) Stats() *stats.Set   { return a.st }
func (a *ZigZagArray) Children() []array.Array { return []array.Array{a.child} }
func (a *ZigZagArray) IsView() bool        { return false }

func (a *ZigZagArray) WithChildren(children []array.Array) array.Array {
	b := *a
	b.child = children[0]
	return &b
}

func init() {
	array.Register(theZigZagEncoding)
	array.RegisterScalarAt(zigZagID, func(arr array.Array, i int) (scalar.Scalar, error) {
		a := arr.(*ZigZagArray)
		u, err := array.ScalarAt(a.child, i)
		if err != nil {
			return scalar.Scalar{}, err
		}
		return scalar.NewInt(a.ptype, zigZagDecode(u.Uint())), nil
	})
}
