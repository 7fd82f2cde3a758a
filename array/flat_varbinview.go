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

type varBinViewEncoding struct{}

func (varBinViewEncoding) ID() EncodingID               { return IDVarBinView }
func (varBinViewEncoding) Name() string                 { return "varbinview" }
func (varBinViewEncoding) Canonicalize(a Array) (Array, error) { return a, nil }

var theVarBinViewEncoding Encoding = varBinViewEncoding{}

// viewInlineSize is the number of payload bytes a view record carries
// inline before it needs to point into a backing buffer (matches the
// Arrow "German style" string view layout: 4-byte length, then either 12
// inline bytes or a 4-byte prefix + 4-byte buffer index + 4-byte offset).
const viewInlineSize = 12

// VarBinViewArray stores short values (<= 12 bytes) entirely inline in
// the view record, and longer values as a prefix plus a pointer into one
// of several backing buffers. No kernel in this package reads the inline
// prefix on its own: comparisons go through ScalarAt, which returns the
// whole value.
type VarBinViewArray struct {
	dt       dtype.DType
	views    vxbuf.Buffer // length * 16 bytes
	buffers  []vxbuf.Buffer
	length   int
	validity Validity
	st       *stats.Set
}

func NewVarBinView(dt dtype.DType, values [][]byte, validity Validity) *VarBinViewArray {
	var data []byte
	views := vxbuf.New(len(values)*16, nil)
	vb := views.Bytes()
	for i, v := range values {
		rec := vb[i*16 : i*16+16]
		writeRaw(rec, 0, 4, uint64(len(v)))
		if len(v) <= viewInlineSize {
			copy(rec[4:], v)
		} else {
			copy(rec[4:8], v[:4])
			writeRaw(rec, 2, 4, 0) // buffer index 0, at byte offset 8
			writeRaw(rec, 3, 4, uint64(len(data)))
			data = append(data, v...)
		}
	}
	a := &VarBinViewArray{dt: dt, views: views, buffers: []vxbuf.Buffer{vxbuf.FromBytes(data, nil)}, length: len(values), validity: validity}
	a.st = stats.NewSet(nil)
	return a
}

func (a *VarBinViewArray) recordAt(i int) []byte {
	return a.views.Bytes()[i*16 : i*16+16]
}

func (a *VarBinViewArray) bytesAt(i int) []byte {
	rec := a.recordAt(i)
	length := int(readRaw(rec, 0, 4))
	if length <= viewInlineSize {
		return rec[4 : 4+length]
	}
	bufIdx := int(readRaw(rec, 2, 4))
	offset := int(readRaw(rec, 3, 4))
	return a.buffers[bufIdx].Bytes()[offset : offset+length]
}

func (a *VarBinViewArray) DType() dtype.DType { return a.dt }
func (a *VarBinViewArray) Len() int           { return a.length }
func (a *VarBinViewArray) Encoding() Encoding  { return theVarBinViewEncoding }
func (a *VarBinViewArray) Nbytes() int64 {
	n := int64(a.views.Len())
	for _, b := range a.buffers {
		n += int64(b.Len())
	}
	return n
}
func (a *VarBinViewArray) Validity() Validity { return a.validity }
func (a *VarBinViewArray) Stats() *stats.Set  { return a.st }
func (a *VarBinViewArray) Children() []Array  { return nil }
func (a *VarBinViewArray) IsView() bool       { return false }

func init() {
	RegisterScalarAt(IDVarBinView, func(arr Array, i int) (scalar.Scalar, error) {
		a := arr.(*VarBinViewArray)
		b := a.bytesAt(i)
		if a.dt.IsBinary() {
			return scalar.NewBinary(b), nil
		}
		return scalar.NewUtf8(string(b)), nil
	})
}
