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
	"github.com/cph-data/vortex/vxerr"
)

type constantEncoding struct{}

func (constantEncoding) ID() EncodingID { return IDConstant }
func (constantEncoding) Name() string   { return "constant" }

// Canonicalize materializes length copies of the constant value into the
// matching flat encoding -- the one place Constant pays a real cost, and
// only when something downstream genuinely needs the flat form.
func (constantEncoding) Canonicalize(a Array) (Array, error) {
	c := a.(*ConstantArray)
	if c.value.IsNull() {
		return NewNull(c.length), nil
	}
	dt := c.value.DType()
	switch {
	case dt.IsBool():
		values := make([]bool, c.length)
		for i := range values {
			values[i] = c.value.Bool()
		}
		return NewBool(values, NewAllValid()), nil
	case dt.IsPrimitive():
		raw := make([]uint64, c.length)
		bits := c.value.Bits()
		for i := range raw {
			raw[i] = bits
		}
		return NewPrimitive(dt.PType(), raw, NewAllValid()), nil
	case dt.IsUtf8(), dt.IsBinary():
		b := c.value.Bytes()
		values := make([][]byte, c.length)
		for i := range values {
			values[i] = b
		}
		return NewVarBin(dt, values, NewAllValid()), nil
	default:
		return nil, vxerr.New("Constant.Canonicalize", vxerr.NotImplemented,
			"no canonical form for dtype kind in constant array")
	}
}

var theConstantEncoding Encoding = constantEncoding{}

// ConstantArray is length repetitions of a single scalar, stored in O(1)
// space regardless of length -- the simplest possible compressed
// encoding, and the one every sampling compressor candidate is measured
// against first (spec §4 Compressor: a column that samples as constant
// needs no further search).
type ConstantArray struct {
	value  scalar.Scalar
	length int
	st     *stats.Set
}

func NewConstant(value scalar.Scalar, length int) *ConstantArray {
	a := &ConstantArray{value: value, length: length}
	a.st = stats.NewSet(nil)
	a.st.Set(stats.IsConstant, scalar.NewBool(true))
	if value.IsNull() {
		a.st.Set(stats.NullCount, scalar.NewInt(dtype.I64, int64(length)))
	} else {
		a.st.Set(stats.NullCount, scalar.NewInt(dtype.I64, 0))
		a.st.Set(stats.Min, value)
		a.st.Set(stats.Max, value)
		a.st.Set(stats.IsSorted, scalar.NewBool(true))
		if length <= 1 {
			a.st.Set(stats.IsStrictSorted, scalar.NewBool(true))
		} else {
			a.st.Set(stats.IsStrictSorted, scalar.NewBool(false))
		}
	}
	return a
}

func (a *ConstantArray) Value() scalar.Scalar { return a.value }
func (a *ConstantArray) DType() dtype.DType   { return a.value.DType() }
func (a *ConstantArray) Len() int             { return a.length }
func (a *ConstantArray) Encoding() Encoding    { return theConstantEncoding }
func (a *ConstantArray) Nbytes() int64 {
	if a.value.IsNull() {
		return 0
	}
	return int64(math.Ceil(float64(len(a.value.Bytes())+8) / 8))
}
func (a *ConstantArray) Validity() Validity {
	if a.value.IsNull() {
		return NewAllInvalid()
	}
	return NewAllValid()
}
func (a *ConstantArray) Stats() *stats.Set { return a.st }
func (a *ConstantArray) Children() []Array { return nil }
func (a *ConstantArray) IsView() bool      { return false }

func init() {
	RegisterScalarAt(IDConstant, func(arr Array, i int) (scalar.Scalar, error) {
		return arr.(*ConstantArray).value, nil
	})
	RegisterSlice(IDConstant, func(arr Array, start, stop int) (Array, error) {
		a := arr.(*ConstantArray)
		return NewConstant(a.value, stop-start), nil
	})
}
