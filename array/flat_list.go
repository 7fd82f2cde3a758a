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

type listEncoding struct{}

func (listEncoding) ID() EncodingID { return IDList }
func (listEncoding) Name() string   { return "list" }

// Canonicalize recurses into the flattened values child, the same
// reasoning as structEncoding.Canonicalize: a list over a compressed
// values array isn't flat until that child is too.
func (listEncoding) Canonicalize(a Array) (Array, error) {
	l := a.(*ListArray)
	canonValues, err := Canonicalize(l.values)
	if err != nil {
		return nil, err
	}
	if canonValues == l.values {
		return a, nil
	}
	return &ListArray{dt: l.dt, offsets: l.offsets, values: canonValues, length: l.length, validity: l.validity, st: stats.NewSet(nil)}, nil
}

var theListEncoding Encoding = listEncoding{}

// ListArray is offsets over one flattened child array of the element
// dtype -- the same shape as VarBinArray, generalized from bytes to an
// arbitrary element Array.
type ListArray struct {
	dt       dtype.DType
	offsets  vxbuf.Buffer // (length+1) * 4 bytes, uint32 LE
	values   Array
	length   int
	validity Validity
	st       *stats.Set
}

func NewList(dt dtype.DType, offsets []int, values Array, validity Validity) *ListArray {
	length := len(offsets) - 1
	offBuf := vxbuf.New(len(offsets)*4, nil)
	bs := offBuf.Bytes()
	for i, o := range offsets {
		writeRaw(bs, i, 4, uint64(o))
	}
	a := &ListArray{dt: dt, offsets: offBuf, values: values, length: length, validity: validity}
	a.st = stats.NewSet(nil)
	return a
}

func (a *ListArray) offsetAt(i int) int {
	return int(readRaw(a.offsets.Bytes(), i, 4))
}

func (a *ListArray) DType() dtype.DType { return a.dt }
func (a *ListArray) Len() int           { return a.length }
func (a *ListArray) Encoding() Encoding  { return theListEncoding }
func (a *ListArray) Nbytes() int64      { return int64(a.offsets.Len()) + a.values.Nbytes() }
func (a *ListArray) Validity() Validity { return a.validity }
func (a *ListArray) Stats() *stats.Set  { return a.st }
func (a *ListArray) Children() []Array  { return []Array{a.values} }
func (a *ListArray) IsView() bool       { return false }

func init() {
	RegisterScalarAt(IDList, func(arr Array, i int) (scalar.Scalar, error) {
		a := arr.(*ListArray)
		start, stop := a.offsetAt(i), a.offsetAt(i+1)
		items := make([]scalar.Scalar, 0, stop-start)
		for k := start; k < stop; k++ {
			s, err := ScalarAt(a.values, k)
			if err != nil {
				return scalar.Scalar{}, err
			}
			items = append(items, s)
		}
		return scalar.NewList(a.dt, items), nil
	})
}
