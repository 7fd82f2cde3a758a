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
	"github.com/cph-data/vortex/vxbuf"
)

const bitPackedID array.EncodingID = array.IDBitPacked

type bitPackedEncoding struct{}

func (bitPackedEncoding) ID() array.EncodingID { return bitPackedID }
func (bitPackedEncoding) Name() string         { return "bitpacked" }

func (bitPackedEncoding) Canonicalize(a array.Array) (array.Array, error) {
	b := a.(*BitPackedArray)
	raw := make([]uint64, b.length)
	for i := 0; i < b.length; i++ {
		raw[i] = unpackBitsAt(b.buf.Bytes(), int(b.bitWidth), i)
	}
	return array.NewPrimitive(b.ptype, raw, b.validity), nil
}

var theBitPackedEncoding array.Encoding = bitPackedEncoding{}

// BitPackedArray packs length unsigned values into bitWidth bits each,
// grounded on storage-int.go's manual cross-word bit extraction --
// generalized here to any unsigned PType rather than one hardcoded int
// storage.
type BitPackedArray struct {
	ptype    dtype.PType
	bitWidth uint8
	buf      vxbuf.Buffer
	length   int
	validity array.Validity
	st       *stats.Set
}

// NewBitPacked packs raw (already-unsigned) values at the minimum bit
// width needed to hold their max.
func NewBitPacked(ptype dtype.PType, raw []uint64, validity array.Validity) *BitPackedArray {
	var max uint64
	for _, v := range raw {
		if v > max {
			max = v
		}
	}
	width := bitWidthFor(max)
	buf := vxbuf.FromBytes(packBits(raw, width), nil)
	a := &BitPackedArray{ptype: ptype, bitWidth: uint8(width), buf: buf, length: len(raw), validity: validity}
	a.st = stats.NewSet(nil)
	return a
}

func (a *BitPackedArray) BitWidth() int { return int(a.bitWidth) }

func (a *BitPackedArray) DType() dtype.DType {
	return dtype.Primitive(a.ptype, a.validity.Kind() != array.NonNullable)
}
func (a *BitPackedArray) Len() int            { return a.length }
func (a *BitPackedArray) Encoding() array.Encoding { return theBitPackedEncoding }
func (a *BitPackedArray) Nbytes() int64       { return int64(a.buf.Len()) }
func (a *BitPackedArray) Validity() array.Validity { return a.validity }
func (a *BitPackedArray) Stats() *stats.Set   { return a.st }
func (a *BitPackedArray) Children() []array.Array { return nil }
func (a *BitPackedArray) IsView() bool        { return false }

func init() {
	array.Register(theBitPackedEncoding)
	array.RegisterScalarAt(bitPackedID, func(arr array.Array, i int) (scalar.Scalar, error) {
		a := arr.(*BitPackedArray)
		raw := unpackBitsAt(a.buf.Bytes(), int(a.bitWidth), i)
		return scalar.NewPrimitive(a.ptype, raw), nil
	})
}
