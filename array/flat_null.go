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
)

type nullEncoding struct{}

func (nullEncoding) ID() EncodingID               { return IDNull }
func (nullEncoding) Name() string                 { return "null" }
func (nullEncoding) Canonicalize(a Array) (Array, error) { return a, nil }

var theNullEncoding Encoding = nullEncoding{}

// NullArray represents a run of length nulls of the null dtype -- the
// degenerate flat encoding nothing else needs to special-case: every
// kernel that falls through to Canonicalize on a Null array gets it back
// unchanged.
type NullArray struct {
	length int
	st     *stats.Set
}

func NewNull(length int) *NullArray {
	a := &NullArray{length: length}
	a.st = stats.NewSet(nil)
	a.st.Set(stats.NullCount, scalar.NewInt(dtype.I64, int64(length)))
	a.st.Set(stats.IsConstant, scalar.NewBool(true))
	return a
}

func (a *NullArray) DType() dtype.DType { return dtype.Null() }
func (a *NullArray) Len() int           { return a.length }
func (a *NullArray) Encoding() Encoding  { return theNullEncoding }
func (a *NullArray) Nbytes() int64      { return 0 }
func (a *NullArray) Validity() Validity { return NewAllInvalid() }
func (a *NullArray) Stats() *stats.Set  { return a.st }
func (a *NullArray) Children() []Array  { return nil }
func (a *NullArray) IsView() bool       { return false }

func init() {
	RegisterScalarAt(IDNull, func(a Array, i int) (scalar.Scalar, error) {
		return scalar.Null(dtype.Null()), nil
	})
	RegisterSlice(IDNull, func(a Array, start, stop int) (Array, error) {
		return NewNull(stop - start), nil
	})
}
