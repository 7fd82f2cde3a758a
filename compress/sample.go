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

package compress

import "github.com/cph-data/vortex/array"

// buildSample concatenates sampleCount slices of sampleSize elements each,
// taken at evenly-spaced starting positions across a (spec §4.7 step 5).
// The starting positions are a deterministic function of a.Len(), so
// repeated calls on the same array produce the same sample.
func buildSample(a array.Array, sampleSize, sampleCount int) (array.Array, error) {
	n := a.Len()
	if n <= sampleSize*sampleCount {
		return a, nil
	}
	stride := (n - sampleSize) / sampleCount
	if stride < 1 {
		stride = 1
	}
	var pieces []array.Array
	for i := 0; i < sampleCount; i++ {
		start := i * stride
		if start+sampleSize > n {
			start = n - sampleSize
		}
		piece, err := array.Slice(a, start, start+sampleSize)
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, piece)
	}
	return concat(a, pieces)
}

// concat materializes pieces into one flat array by walking ScalarAt
// across each and re-building through the same canonical constructors
// materializeScalars uses -- samples are small (sampleSize*sampleCount
// elements, a few hundred by default) so this never runs on bulk data.
func concat(like array.Array, pieces []array.Array) (array.Array, error) {
	total := 0
	for _, p := range pieces {
		total += p.Len()
	}
	dt := like.DType()
	switch {
	case dt.IsBool():
		values := make([]bool, 0, total)
		for _, p := range pieces {
			for i := 0; i < p.Len(); i++ {
				s, err := array.ScalarAt(p, i)
				if err != nil {
					return nil, err
				}
				values = append(values, s.Bool())
			}
		}
		return array.NewBool(values, array.NewNonNullable()), nil
	case dt.IsPrimitive():
		raw := make([]uint64, 0, total)
		for _, p := range pieces {
			for i := 0; i < p.Len(); i++ {
				s, err := array.ScalarAt(p, i)
				if err != nil {
					return nil, err
				}
				raw = append(raw, s.Bits())
			}
		}
		return array.NewPrimitive(dt.PType(), raw, array.NewNonNullable()), nil
	default: // Utf8/Binary
		values := make([][]byte, 0, total)
		for _, p := range pieces {
			for i := 0; i < p.Len(); i++ {
				s, err := array.ScalarAt(p, i)
				if err != nil {
					return nil, err
				}
				values = append(values, s.Bytes())
			}
		}
		return array.NewVarBin(dt, values, array.NewNonNullable()), nil
	}
}
