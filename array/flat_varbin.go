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

type varBinEncoding struct{}

func (varBinEncoding) ID() EncodingID               { return IDVarBin }
func (varBinEncoding) Name() string                 { return "varbin" }
func (varBinEncoding) Canonicalize(a Array) (Array, error) { return a, nil }

var theVarBinEncoding Encoding = varBinEncoding{}

// VarBinArray is the classic offsets+bytes layout for variable-length
// Utf8/Binary data: length+1 uint32 offsets into one flat byte buffer, the
// same shape the teacher's StoragePrefix wraps a StorageString around
// (minus the prefix-stripping, which is a separate compressed encoding
// here).
type VarBinArray struct {
	dt       dtype.DType
	offsets  vxbuf.Buffer // (length+1) * 4 bytes, uint32 LE
	data     vxbuf.Buffer
	length   int
	validity Validity
	st       *stats.Set
}

func NewVarBin(dt dtype.DType, values [][]byte, validity Validity) *VarBinArray {
	offBuf := vxbuf.New((len(values)+1)*4, nil)
	offBytes := offBuf.Bytes()
	total := 0
	for i, v := range values {
		writeRaw(offBytes, i, 4, uint64(total))
		total += len(v)
	}
	writeRaw(offBytes, len(values), 4, uint64(total))

	dataBuf := vxbuf.New(total, nil)
	dataBytes := dataBuf.Bytes()
	pos := 0
	for _, v := range values {
		copy(dataBytes[pos:], v)
		pos += len(v)
	}

	a := &VarBinArray{dt: dt, offsets: offBuf, data: dataBuf, length: len(values), validity: validity}
	a.st = stats.NewSet(nil)
	return a
}

func (a *VarBinArray) offsetAt(i int) int {
	return int(readRaw(a.offsets.Bytes(), i, 4))
}

func (a *VarBinArray) bytesAt(i int) []byte {
	start, stop := a.offsetAt(i), a.offsetAt(i+1)
	return a.data.Bytes()[start:stop]
}

func (a *VarBinArray) DType() dtype.DType   { return a.dt }
func (a *VarBinArray) Len() int             { return a.length }
func (a *VarBinArray) Encoding() Encoding    { return theVarBinEncoding }
func (a *VarBinArray) Nbytes() int64        { return int64(a.offsets.Len() + a.data.Len()) }
func (a *VarBinArray) Validity() Validity   { return a.validity }
func (a *VarBinArray) Stats() *stats.Set    { return a.st }
func (a *VarBinArray) Children() []Array    { return nil }
func (a *VarBinArray) IsView() bool         { return false }

func init() {
	RegisterScalarAt(IDVarBin, func(arr Array, i int) (scalar.Scalar, error) {
		a := arr.(*VarBinArray)
		b := a.bytesAt(i)
		if a.dt.IsBinary() {
			return scalar.NewBinary(b), nil
		}
		return scalar.NewUtf8(string(b)), nil
	})
}
