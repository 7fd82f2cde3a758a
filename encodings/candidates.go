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
	"strconv"

	"github.com/google/btree"

	"github.com/cph-data/vortex/array"
	"github.com/cph-data/vortex/dtype"
	"github.com/cph-data/vortex/scalar"
	"github.com/cph-data/vortex/stats"
)

// This file wires every compressed encoding above into the sampling
// compressor's registry (array.RegisterCompressor). Each CanCompress hook
// is a cheap, type-level eligibility check; the compressor itself decides
// which eligible candidate actually helps by measuring compressed size on
// a sample (spec §4.7) -- so these hooks err on the side of "maybe",
// never attempt to replicate that ratio judgment.

func gatherInts(a array.Array) ([]int64, error) {
	out := make([]int64, a.Len())
	for i := range out {
		s, err := array.ScalarAt(a, i)
		if err != nil {
			return nil, err
		}
		out[i] = s.Int()
	}
	return out, nil
}

func gatherFloats(a array.Array) ([]float64, error) {
	out := make([]float64, a.Len())
	for i := range out {
		s, err := array.ScalarAt(a, i)
		if err != nil {
			return nil, err
		}
		out[i] = s.Float()
	}
	return out, nil
}

func gatherBools(a array.Array) ([]bool, error) {
	out := make([]bool, a.Len())
	for i := range out {
		s, err := array.ScalarAt(a, i)
		if err != nil {
			return nil, err
		}
		out[i] = s.Bool()
	}
	return out, nil
}

func gatherScalars(a array.Array) ([]scalar.Scalar, error) {
	out := make([]scalar.Scalar, a.Len())
	for i := range out {
		s, err := array.ScalarAt(a, i)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// scalarEqual compares two non-null scalars of the same dtype kind by
// their underlying representation -- the generic equality RunEnd/Sparse
// need to find repeats/fill-matches across any flat dtype.
func scalarEqual(dt dtype.DType, a, b scalar.Scalar) bool {
	if a.IsNull() || b.IsNull() {
		return a.IsNull() == b.IsNull()
	}
	switch {
	case dt.IsBool():
		return a.Bool() == b.Bool()
	case dt.IsPrimitive():
		return a.Bits() == b.Bits()
	case dt.IsUtf8(), dt.IsBinary():
		return string(a.Bytes()) == string(b.Bytes())
	default:
		return false
	}
}

// CanCompressConstant and CompressConstant back the compressor's
// mandatory constant short-circuit (spec §4.7 step 2), which must run
// before any candidate collection or sampling -- so it is exposed here
// as a direct call rather than going through the general
// array.RegisterCompressor registry that feeds the ratio-measured
// candidate search.
func CanCompressConstant(a array.Array) bool {
	if a.Len() == 0 {
		return false
	}
	if v, ok := a.Stats().Get(stats.IsConstant); ok {
		return v.Bool()
	}
	first, err := array.ScalarAt(a, 0)
	if err != nil {
		return false
	}
	dt := a.DType()
	for i := 1; i < a.Len(); i++ {
		v, err := array.ScalarAt(a, i)
		if err != nil {
			return false
		}
		if v.IsNull() != first.IsNull() {
			return false
		}
		if !v.IsNull() && !scalarEqual(dt, first, v) {
			return false
		}
	}
	return true
}

func CompressConstant(a array.Array) (array.Array, error) {
	v, err := array.ScalarAt(a, 0)
	if err != nil {
		return nil, err
	}
	return array.NewConstant(v, a.Len()), nil
}

func init() {
	array.RegisterCompressor(bitPackedID,
		func(a array.Array) bool {
			return a.DType().IsPrimitive() && a.DType().PType().IsUnsigned()
		},
		func(a array.Array) (array.Array, error) {
			vals, err := gatherInts(a)
			if err != nil {
				return nil, err
			}
			raw := make([]uint64, len(vals))
			for i, v := range vals {
				raw[i] = uint64(v)
			}
			return NewBitPacked(a.DType().PType(), raw, a.Validity()), nil
		})

	array.RegisterCompressor(forID,
		func(a array.Array) bool {
			return a.DType().IsPrimitive() && a.DType().PType().IsInteger() && a.Len() > 0
		},
		func(a array.Array) (array.Array, error) {
			vals, err := gatherInts(a)
			if err != nil {
				return nil, err
			}
			return NewFrameOfReference(a.DType().PType(), vals, a.Validity()), nil
		})

	array.RegisterCompressor(zigZagID,
		func(a array.Array) bool {
			return a.DType().IsPrimitive() && a.DType().PType().IsSigned()
		},
		func(a array.Array) (array.Array, error) {
			vals, err := gatherInts(a)
			if err != nil {
				return nil, err
			}
			return NewZigZag(a.DType().PType(), vals, a.Validity()), nil
		})

	array.RegisterCompressor(runEndID,
		func(a array.Array) bool {
			return a.Len() > 0 && (a.DType().IsBool() || a.DType().IsPrimitive() || a.DType().IsUtf8() || a.DType().IsBinary())
		},
		compressRunEnd)

	array.RegisterCompressor(dictionaryID,
		func(a array.Array) bool {
			return a.DType().IsBool() || a.DType().IsPrimitive() || a.DType().IsUtf8() || a.DType().IsBinary()
		},
		compressDictionary)

	array.RegisterCompressor(sparseID,
		func(a array.Array) bool {
			return a.Len() > 0 && (a.DType().IsBool() || a.DType().IsPrimitive() || a.DType().IsUtf8() || a.DType().IsBinary())
		},
		compressSparse)

	array.RegisterCompressor(alpID,
		func(a array.Array) bool {
			return a.DType().IsPrimitive() && a.DType().PType().IsFloat()
		},
		func(a array.Array) (array.Array, error) {
			vals, err := gatherFloats(a)
			if err != nil {
				return nil, err
			}
			return EncodeALP(a.DType().PType(), vals, a.Validity()), nil
		})

	array.RegisterCompressor(byteBoolID,
		func(a array.Array) bool { return a.DType().IsBool() },
		func(a array.Array) (array.Array, error) {
			vals, err := gatherBools(a)
			if err != nil {
				return nil, err
			}
			return NewByteBool(vals, a.Validity()), nil
		})

	array.RegisterCompressor(fsstID,
		func(a array.Array) bool { return a.DType().IsUtf8() || a.DType().IsBinary() },
		func(a array.Array) (array.Array, error) {
			items, err := gatherScalars(a)
			if err != nil {
				return nil, err
			}
			values := make([][]byte, len(items))
			for i, s := range items {
				values[i] = s.Bytes()
			}
			return NewFSST(a.DType(), values, a.Validity()), nil
		})
}

// compressRunEnd groups consecutive equal values into runs, grounded on
// the same arithmetic-run detection storage-seq.go does for consecutive
// integers, generalized to "consecutive equal" for any flat dtype.
func compressRunEnd(a array.Array) (array.Array, error) {
	dt := a.DType()
	items, err := gatherScalars(a)
	if err != nil {
		return nil, err
	}
	var ends []int64
	var values []scalar.Scalar
	for i, v := range items {
		if len(values) > 0 && scalarEqual(dt, values[len(values)-1], v) {
			ends[len(ends)-1] = int64(i + 1)
			continue
		}
		ends = append(ends, int64(i+1))
		values = append(values, v)
	}
	endsArr := array.NewI64(ends)
	valuesArr, err := materializeScalars(dt, values, array.NewNonNullable())
	if err != nil {
		return nil, err
	}
	return NewRunEnd(endsArr, valuesArr, a.Len())
}

// compressDictionary collects each value's first-seen position into a
// distinct-values list and emits one code per row, the codes+values shape
// storage-enum.go builds before its (unreproduced) entropy-coding stage.
func compressDictionary(a array.Array) (array.Array, error) {
	dt := a.DType()
	items, err := gatherScalars(a)
	if err != nil {
		return nil, err
	}
	var distinct []scalar.Scalar
	codes := make([]uint64, len(items))
	for i, v := range items {
		code := -1
		for j, d := range distinct {
			if scalarEqual(dt, d, v) {
				code = j
				break
			}
		}
		if code < 0 {
			code = len(distinct)
			distinct = append(distinct, v)
		}
		codes[i] = uint64(code)
	}
	codeWidth := dtype.UnsignedFromBitWidth(bitWidthFor(uint64(len(distinct))))
	codesArr := array.NewPrimitive(codeWidth, codes, array.NewNonNullable())
	valuesArr, err := materializeScalars(dt, distinct, array.NewNonNullable())
	if err != nil {
		return nil, err
	}
	seedSortedStats(dt, distinct, valuesArr)
	return NewDictionary(dt, codesArr, valuesArr)
}

// dictKey orders a distinct dictionary value by scalar.Less alongside the
// first-seen position it was assigned.
type dictKey struct {
	val  scalar.Scalar
	code int
}

// seedSortedStats builds an ordered btree.BTreeG of (value, first-seen
// code) over the finished distinct-values list, the same way
// StorageIndex.deltaBtree keeps an ordered delta without a full re-sort --
// ascending the tree recovers the values' sorted order, letting
// IsSorted/IsStrictSorted be set without a second sorting pass over
// valuesArr.
func seedSortedStats(dt dtype.DType, distinct []scalar.Scalar, valuesArr array.Array) {
	tree := btree.NewG(32, func(a, b dictKey) bool { return scalar.Less(a.val, b.val) })
	for i, v := range distinct {
		tree.ReplaceOrInsert(dictKey{val: v, code: i})
	}
	sorted, strict, first := true, true, true
	prevCode := -1
	tree.Ascend(func(item dictKey) bool {
		if !first {
			switch {
			case item.code < prevCode:
				sorted, strict = false, false
			case item.code == prevCode:
				strict = false
			}
		}
		prevCode = item.code
		first = false
		return true
	})
	valuesArr.Stats().Set(stats.IsSorted, scalar.NewBool(sorted))
	valuesArr.Stats().Set(stats.IsStrictSorted, scalar.NewBool(strict))
}

// scalarKey renders a non-null scalar as a comparable string key, used
// only to tally frequencies in compressSparse -- a cheap stand-in for a
// real hash since the values here never leave this function.
func scalarKey(dt dtype.DType, s scalar.Scalar) string {
	if s.IsNull() {
		return "\x00null"
	}
	switch {
	case dt.IsBool():
		return strconv.FormatBool(s.Bool())
	case dt.IsPrimitive():
		return strconv.FormatUint(s.Bits(), 16)
	case dt.IsUtf8(), dt.IsBinary():
		return string(s.Bytes())
	default:
		return ""
	}
}

// compressSparse picks the most frequent value as fill and stores only
// the positions that differ, mirroring storage-sparse.go's fill-value
// shape.
func compressSparse(a array.Array) (array.Array, error) {
	dt := a.DType()
	items, err := gatherScalars(a)
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	firstSeen := map[string]scalar.Scalar{}
	for _, v := range items {
		k := scalarKey(dt, v)
		counts[k]++
		if _, ok := firstSeen[k]; !ok {
			firstSeen[k] = v
		}
	}
	var fillKey string
	bestCount := -1
	for k, c := range counts {
		if c > bestCount {
			bestCount, fillKey = c, k
		}
	}
	fill := firstSeen[fillKey]

	var indices []int64
	var values []scalar.Scalar
	for i, v := range items {
		if scalarKey(dt, v) == fillKey {
			continue
		}
		indices = append(indices, int64(i))
		values = append(values, v)
	}
	indicesArr := array.NewI64(indices)
	valuesArr, err := materializeScalars(dt, values, array.NewNonNullable())
	if err != nil {
		return nil, err
	}
	return NewSparse(dt, indicesArr, valuesArr, fill, a.Len()), nil
}
