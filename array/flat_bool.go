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
	"github.com/cph-data/vortex/dtype"
	"github.com/cph-data/vortex/scalar"
	"github.com/cph-data/vortex/stats"
	"github.com/cph-data/vortex/vxbuf"
)

type boolEncoding struct{}

func (boolEncoding) ID() EncodingID               { return IDBool }
func (boolEncoding) Name() string                 { return "bool" }
func (boolEncoding) Canonicalize(a Array) (Array, error) { return a, nil }

var theBoolEncoding Encoding = boolEncoding{}

// BoolArray is a bitmap, one bit per logical value, LSB-first within each
// byte -- the same compact representation ByteBool (spec §4 encodings)
// trades away for O(1) unaligned access at the cost of 8x the bytes.
type BoolArray struct {
	buf      vxbuf.Buffer
	length   int
	validity Validity
	st       *stats.Set
}

// NewBool packs values into a bitmap. validity.Kind() governs nullability:
// NewNonNullable() yields a dtype that forbids nulls, while every other
// kind (NewAllValid() included) yields a nullable dtype.
func NewBool(values []bool, validity Validity) *BoolArray {
	buf := vxbuf.New((len(values)+7)/8, nil)
	bytes := buf.Bytes()
	for i, v := range values {
		if v {
			bytes[i/8] |= 1 << uint(i%8)
		}
	}
	a := &BoolArray{buf: buf, length: len(values), validity: validity}
	a.st = stats.NewSet(nil)
	return a
}

func getBit(buf vxbuf.Buffer, i int) bool {
	return buf.Bytes()[i/8]&(1<<uint(i%8)) != 0
}

func (a *BoolArray) DType() dtype.DType {
	return dtype.Bool(a.validity.Kind() != NonNullable)
}
func (a *BoolArray) Len() int           { return a.length }
func (a *BoolArray) Encoding() Encoding  { return theBoolEncoding }
func (a *BoolArray) Nbytes() int64      { return int64(a.buf.Len()) }
func (a *BoolArray) Validity() Validity { return a.validity }
func (a *BoolArray) Stats() *stats.Set  { return a.st }
func (a *BoolArray) Children() []Array  { return nil }
func (a *BoolArray) IsView() bool       { return false }

// TrueIndices returns every logical index holding a true, non-null value
// -- the bool-array-trait iterator spec §4.2 names, backing
// BoolArrayView.TrueIndices via with_dyn.
func (a *BoolArray) TrueIndices() []int {
	var out []int
	for i := 0; i < a.length; i++ {
		if a.validity.IsValid(i) && getBit(a.buf, i) {
			out = append(out, i)
		}
	}
	return out
}

// TrueSlices returns the maximal [start, stop) runs of consecutive true,
// non-null values -- the same grouping a run-length compressor candidate
// would want from a boolean column.
func (a *BoolArray) TrueSlices() [][2]int {
	idx := a.TrueIndices()
	var out [][2]int
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && idx[j+1] == idx[j]+1 {
			j++
		}
		out = append(out, [2]int{idx[i], idx[j] + 1})
		i = j + 1
	}
	return out
}

func init() {
	RegisterScalarAt(IDBool, func(arr Array, i int) (scalar.Scalar, error) {
		a := arr.(*BoolArray)
		return scalar.NewBool(getBit(a.buf, i)), nil
	})
}
