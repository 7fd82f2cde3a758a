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
	"github.com/axiomhq/fsst"

	"github.com/cph-data/vortex/array"
	"github.com/cph-data/vortex/dtype"
	"github.com/cph-data/vortex/scalar"
	"github.com/cph-data/vortex/stats"
	"github.com/cph-data/vortex/vxbuf"
)

const fsstID array.EncodingID = array.IDFSST

type fsstEncoding struct{}

func (fsstEncoding) ID() array.EncodingID { return fsstID }
func (fsstEncoding) Name() string         { return "fsst" }

func (fsstEncoding) Canonicalize(a array.Array) (array.Array, error) {
	f := a.(*FSSTArray)
	values := make([][]byte, f.length)
	for i := range values {
		values[i] = f.bytesAt(i)
	}
	return array.NewVarBin(f.dt, values, f.validity), nil
}

var theFSSTEncoding array.Encoding = fsstEncoding{}

// FSSTArray holds each string/binary value encoded independently through
// one Fast Static Symbol Table (github.com/axiomhq/fsst) trained once over
// all values, with a VarBin-style offsets array addressing the per-value
// encoded byte ranges so any one value can be decoded without touching
// its neighbors.
type FSSTArray struct {
	dt       dtype.DType
	table    *fsst.Table
	offsets  vxbuf.Buffer // (length+1) uint32 LE into codes
	codes    vxbuf.Buffer
	length   int
	validity array.Validity
	st       *stats.Set
}

func NewFSST(dt dtype.DType, values [][]byte, validity array.Validity) *FSSTArray {
	table := fsst.Train(values)
	offsets := make([]int, len(values)+1)
	var codes []byte
	for i, v := range values {
		enc := table.EncodeAll(v)
		codes = append(codes, enc...)
		offsets[i+1] = offsets[i] + len(enc)
	}
	offBuf := vxbuf.New(len(offsets)*4, nil)
	ob := offBuf.Bytes()
	for i, o := range offsets {
		writeRawOffset(ob, i, uint64(o))
	}
	a := &FSSTArray{
		dt:       dt,
		table:    table,
		offsets:  offBuf,
		codes:    vxbuf.FromBytes(codes, nil),
		length:   len(values),
		validity: validity,
	}
	a.st = stats.NewSet(nil)
	return a
}

// readRawOffset/writeRawOffset mirror array.PrimitiveArray's little-endian
// cell helpers; FSSTArray keeps its own tiny copy rather than exporting
// them from array just for one offsets buffer.
func readRawOffset(b []byte, i int) uint64 {
	off := i * 4
	var v uint64
	for k := 0; k < 4; k++ {
		v |= uint64(b[off+k]) << (8 * k)
	}
	return v
}

func writeRawOffset(b []byte, i int, v uint64) {
	off := i * 4
	for k := 0; k < 4; k++ {
		b[off+k] = byte(v >> (8 * k))
	}
}

func (a *FSSTArray) offsetAt(i int) int {
	return int(readRawOffset(a.offsets.Bytes(), i))
}

func (a *FSSTArray) bytesAt(i int) []byte {
	start, stop := a.offsetAt(i), a.offsetAt(i+1)
	return a.table.DecodeAll(a.codes.Bytes()[start:stop])
}

func (a *FSSTArray) DType() dtype.DType { return a.dt }
func (a *FSSTArray) Len() int           { return a.length }
func (a *FSSTArray) Encoding() array.Encoding { return theFSSTEncoding }
func (a *FSSTArray) Nbytes() int64      { return int64(a.offsets.Len() + a.codes.Len()) }
func (a *FSSTArray) Validity() array.Validity { return a.validity }
func (a *FSSTArray) Stats() *stats.Set  { return a.st }
func (a *FSSTArray) Children() []array.Array { return nil }
func (a *FSSTArray) IsView() bool       { return false }

func init() {
	array.Register(theFSSTEncoding)
	array.RegisterScalarAt(fsstID, func(arr array.Array, i int) (scalar.Scalar, error) {
		a := arr.(*FSSTArray)
		b := a.bytesAt(i)
		if a.dt.IsBinary() {
			return scalar.NewBinary(b), nil
		}
		return scalar.NewUtf8(string(b)), nil
	})
}
