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
	"github.com/cph-data/vortex/vxerr"
)

// materializeScalars builds the flat encoding matching dt's kind from a
// plain slice of already-gathered Scalars -- the common tail end of every
// compressed encoding's Canonicalize (RunEnd, Dictionary, Sparse all
// gather scalars by different index math, then converge here).
func materializeScalars(dt dtype.DType, items []scalar.Scalar, validity array.Validity) (array.Array, error) {
	switch {
	case dt.IsBool():
		values := make([]bool, len(items))
		for i, s := range items {
			values[i] = s.Bool()
		}
		return array.NewBool(values, validity), nil
	case dt.IsPrimitive():
		raw := make([]uint64, len(items))
		for i, s := range items {
			raw[i] = s.Bits()
		}
		return array.NewPrimitive(dt.PType(), raw, validity), nil
	case dt.IsUtf8(), dt.IsBinary():
		values := make([][]byte, len(items))
		for i, s := range items {
			values[i] = s.Bytes()
		}
		return array.NewVarBin(dt, values, validity), nil
	default:
		return nil, vxerr.New("materializeScalars", vxerr.NotImplemented,
			"no flat materialization for dtype kind")
	}
}
