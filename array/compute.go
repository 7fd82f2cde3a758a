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
	"sort"
	"sync"

	"github.com/cph-data/vortex/dtype"
	"github.com/cph-data/vortex/scalar"
	"github.com/cph-data/vortex/vxerr"
)

// ScalarAtFunc reads the logical value at i directly from a, without
// canonicalizing first -- an encoding registers one only when it can beat
// the canonical path (e.g. Constant answers in O(1) regardless of i,
// RunEnd answers in O(log n) via search_sorted over its ends array).
type ScalarAtFunc func(a Array, i int) (scalar.Scalar, error)

// SliceFunc narrows a to [start, stop) without falling back to a generic
// View, when an encoding can do better (e.g. Chunked slices at the chunk
// granularity and only wraps the boundary chunks).
type SliceFunc func(a Array, start, stop int) (Array, error)

// TakeFunc gathers a's logical values at indices into a new Array of a's
// dtype, when an encoding can decompose take into cheaper sub-operations
// (Dictionary forwards to take on its codes; Chunked groups by chunk).
type TakeFunc func(a Array, indices []int) (Array, error)

// CompareFunc evaluates op between two arrays of the same dtype.
type CompareFunc func(a, b Array, op CompareOp) (Array, error)

// CompareScalarFunc evaluates op between a and a fixed scalar.
type CompareScalarFunc func(a Array, op CompareOp, s scalar.Scalar) (Array, error)

// BoolBinFunc evaluates a dyadic boolean op (and/or) between two bool
// arrays.
type BoolBinFunc func(a, b Array) (Array, error)

// SearchSortedFunc finds v's insertion point in a sorted array a.
type SearchSortedFunc func(a Array, v scalar.Scalar, side Side) (int, error)

// FillForwardFunc replaces nulls with the last preceding non-null value.
type FillForwardFunc func(a Array) (Array, error)

// SubtractScalarFunc subtracts a fixed scalar from every element of a.
type SubtractScalarFunc func(a Array, s scalar.Scalar) (Array, error)

var (
	kernelMu           sync.RWMutex
	scalarAtKernel     = map[EncodingID]ScalarAtFunc{}
	sliceKernel        = map[EncodingID]SliceFunc{}
	takeKernel         = map[EncodingID]TakeFunc{}
	compareKernel      = map[EncodingID]CompareFunc{}
	compareScalarKern  = map[EncodingID]CompareScalarFunc{}
	andKernel          = map[EncodingID]BoolBinFunc{}
	orKernel           = map[EncodingID]BoolBinFunc{}
	searchSortedKernel = map[EncodingID]SearchSortedFunc{}
	fillForwardKernel  = map[EncodingID]FillForwardFunc{}
	subtractScalarKern = map[EncodingID]SubtractScalarFunc{}
)

// RegisterScalarAt installs a's encoding-specific ScalarAt kernel.
func RegisterScalarAt(id EncodingID, fn ScalarAtFunc) {
	kernelMu.Lock()
	defer kernelMu.Unlock()
	scalarAtKernel[id] = fn
}

// RegisterSlice installs a's encoding-specific Slice kernel.
func RegisterSlice(id EncodingID, fn SliceFunc) {
	kernelMu.Lock()
	defer kernelMu.Unlock()
	sliceKernel[id] = fn
}

// RegisterTake installs a's encoding-specific Take kernel.
func RegisterTake(id EncodingID, fn TakeFunc) {
	kernelMu.Lock()
	defer kernelMu.Unlock()
	takeKernel[id] = fn
}

// RegisterCompare installs a's encoding-specific Compare kernel.
func RegisterCompare(id EncodingID, fn CompareFunc) {
	kernelMu.Lock()
	defer kernelMu.Unlock()
	compareKernel[id] = fn
}

// RegisterCompareScalar installs a's encoding-specific CompareScalar kernel.
func RegisterCompareScalar(id EncodingID, fn CompareScalarFunc) {
	kernelMu.Lock()
	defer kernelMu.Unlock()
	compareScalarKern[id] = fn
}

// RegisterAnd installs a's encoding-specific And kernel.
func RegisterAnd(id EncodingID, fn BoolBinFunc) {
	kernelMu.Lock()
	defer kernelMu.Unlock()
	andKernel[id] = fn
}

// RegisterOr installs a's encoding-specific Or kernel.
func RegisterOr(id EncodingID, fn BoolBinFunc) {
	kernelMu.Lock()
	defer kernelMu.Unlock()
	orKernel[id] = fn
}

// RegisterSearchSorted installs a's encoding-specific SearchSorted kernel.
func RegisterSearchSorted(id EncodingID, fn SearchSortedFunc) {
	kernelMu.Lock()
	defer kernelMu.Unlock()
	searchSortedKernel[id] = fn
}

// RegisterFillForward installs a's encoding-specific FillForward kernel.
func RegisterFillForward(id EncodingID, fn FillForwardFunc) {
	kernelMu.Lock()
	defer kernelMu.Unlock()
	fillForwardKernel[id] = fn
}

// RegisterSubtractScalar installs a's encoding-specific SubtractScalar
// kernel.
func RegisterSubtractScalar(id EncodingID, fn SubtractScalarFunc) {
	kernelMu.Lock()
	defer kernelMu.Unlock()
	subtractScalarKern[id] = fn
}

// ScalarAt reads the logical value at index i (spec §4 compute kernel
// dispatch: try the array's own encoding, canonicalize and retry on a
// miss). Nulls are resolved generically via Validity before any kernel
// runs, so individual kernels never need to special-case them.
func ScalarAt(a Array, i int) (scalar.Scalar, error) {
	if i < 0 || i >= a.Len() {
		return scalar.Scalar{}, vxerr.OutOfBoundsErr("ScalarAt", i, a.Len())
	}
	if v, ok := a.(*viewArray); ok {
		return ScalarAt(v.inner, v.offset+i)
	}
	if !a.Validity().IsValid(i) {
		return scalar.Null(a.DType()), nil
	}
	kernelMu.RLock()
	fn, ok := scalarAtKernel[a.Encoding().ID()]
	kernelMu.RUnlock()
	if ok {
		return fn(a, i)
	}
	canon, err := Canonicalize(a)
	if err != nil {
		return scalar.Scalar{}, err
	}
	if canon == a {
		return scalar.Scalar{}, vxerr.New("ScalarAt", vxerr.NotImplemented,
			"no scalar-at kernel for canonical encoding %s", a.Encoding().Name())
	}
	return ScalarAt(canon, i)
}

// ScalarAtUnchecked is ScalarAt without the bounds check, for call sites
// (e.g. compute kernels that already validated i against a.Len()) that
// want to skip the redundant comparison. It still resolves nulls and
// dispatches through the same kernel/canonicalize path.
func ScalarAtUnchecked(a Array, i int) (scalar.Scalar, error) {
	if v, ok := a.(*viewArray); ok {
		return ScalarAtUnchecked(v.inner, v.offset+i)
	}
	if !a.Validity().IsValid(i) {
		return scalar.Null(a.DType()), nil
	}
	kernelMu.RLock()
	fn, ok := scalarAtKernel[a.Encoding().ID()]
	kernelMu.RUnlock()
	if ok {
		return fn(a, i)
	}
	canon, err := Canonicalize(a)
	if err != nil {
		return scalar.Scalar{}, err
	}
	if canon == a {
		return scalar.Scalar{}, vxerr.New("ScalarAtUnchecked", vxerr.NotImplemented,
			"no scalar-at kernel for canonical encoding %s", a.Encoding().Name())
	}
	return ScalarAtUnchecked(canon, i)
}

// Slice narrows a to the logical window [start, stop). An encoding's own
// SliceFunc is preferred; the universal fallback is a zero-copy View.
func Slice(a Array, start, stop int) (Array, error) {
	if start < 0 || stop < start || stop > a.Len() {
		return nil, vxerr.OutOfBoundsErr("Slice", stop, a.Len())
	}
	if start == 0 && stop == a.Len() {
		return a, nil
	}
	if v, ok := a.(*viewArray); ok {
		return NewView(v.inner, v.offset+start, stop-start), nil
	}
	kernelMu.RLock()
	fn, ok := sliceKernel[a.Encoding().ID()]
	kernelMu.RUnlock()
	if ok {
		return fn(a, start, stop)
	}
	return NewView(a, start, stop-start), nil
}

// Take gathers the logical values at indices into a new Array of a's
// dtype (spec §4.3: "result length = indices.len(); result dtype =
// self.dtype()"). Every index must be < a.Len(); nulls in indices are not
// permitted. An encoding's own TakeFunc is preferred (Dictionary forwards
// to take on codes, Chunked decomposes per chunk); the universal fallback
// gathers via ScalarAt and rebuilds a flat array from the result.
func Take(a Array, indices []int) (Array, error) {
	kernelMu.RLock()
	fn, ok := takeKernel[a.Encoding().ID()]
	kernelMu.RUnlock()
	if ok {
		return fn(a, indices)
	}
	canon, err := Canonicalize(a)
	if err != nil {
		return nil, err
	}
	if canon != a {
		kernelMu.RLock()
		fn, ok = takeKernel[canon.Encoding().ID()]
		kernelMu.RUnlock()
		if ok {
			return fn(canon, indices)
		}
	}
	return takeGeneric(a, indices)
}

func takeGeneric(a Array, indices []int) (Array, error) {
	items := make([]scalar.Scalar, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= a.Len() {
			return nil, vxerr.OutOfBoundsErr("Take", idx, a.Len())
		}
		s, err := ScalarAtUnchecked(a, idx)
		if err != nil {
			return nil, err
		}
		items[i] = s
	}
	return buildFlatFromScalars(a.DType(), items)
}

// CompareOp names the relational operators spec §4.3 requires compare and
// compare_scalar to support.
type CompareOp int

const (
	Eq CompareOp = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

func evalCompare(a, b scalar.Scalar, op CompareOp) bool {
	switch op {
	case Eq:
		return scalar.Equal(a, b)
	case Ne:
		return !scalar.Equal(a, b)
	case Lt:
		return scalar.Less(a, b)
	case Le:
		return !scalar.Less(b, a)
	case Gt:
		return scalar.Less(b, a)
	case Ge:
		return !scalar.Less(a, b)
	default:
		return false
	}
}

// Compare evaluates op element-wise between a and b, both of which must
// share a length (spec universal property: "compare(a, b, op) equals the
// element-wise op on canonicalize(a) and canonicalize(b), with a null in
// either input producing a false result bit masked by the combined
// validity" -- the stored bit is false, but the position reads back as
// null since its validity bit is cleared, same as any other null).
func Compare(a, b Array, op CompareOp) (Array, error) {
	if a.Len() != b.Len() {
		return nil, vxerr.New("Compare", vxerr.MismatchedLengths,
			"compare requires equal-length operands, got %d and %d", a.Len(), b.Len())
	}
	if a.Encoding().ID() == b.Encoding().ID() {
		kernelMu.RLock()
		fn, ok := compareKernel[a.Encoding().ID()]
		kernelMu.RUnlock()
		if ok {
			return fn(a, b, op)
		}
	}
	canonA, err := Canonicalize(a)
	if err != nil {
		return nil, err
	}
	canonB, err := Canonicalize(b)
	if err != nil {
		return nil, err
	}
	if canonA != a || canonB != b {
		return Compare(canonA, canonB, op)
	}
	return compareGeneric(a, b, op)
}

func compareGeneric(a, b Array, op CompareOp) (Array, error) {
	n := a.Len()
	values := make([]bool, n)
	validMask := make([]bool, n)
	anyNull := false
	for i := 0; i < n; i++ {
		sa, err := ScalarAtUnchecked(a, i)
		if err != nil {
			return nil, err
		}
		sb, err := ScalarAtUnchecked(b, i)
		if err != nil {
			return nil, err
		}
		if sa.IsNull() || sb.IsNull() {
			anyNull = true
			continue
		}
		validMask[i] = true
		values[i] = evalCompare(sa, sb, op)
	}
	if !anyNull {
		return NewBool(values, NewNonNullable()), nil
	}
	return NewBool(values, NewValidityArray(NewBool(validMask, NewNonNullable()))), nil
}

// CompareScalar evaluates op between every element of a and the fixed
// scalar s.
func CompareScalar(a Array, op CompareOp, s scalar.Scalar) (Array, error) {
	kernelMu.RLock()
	fn, ok := compareScalarKern[a.Encoding().ID()]
	kernelMu.RUnlock()
	if ok {
		return fn(a, op, s)
	}
	canon, err := Canonicalize(a)
	if err != nil {
		return nil, err
	}
	if canon != a {
		return CompareScalar(canon, op, s)
	}
	return compareScalarGeneric(a, op, s)
}

func compareScalarGeneric(a Array, op CompareOp, s scalar.Scalar) (Array, error) {
	n := a.Len()
	values := make([]bool, n)
	validMask := make([]bool, n)
	anyNull := false
	for i := 0; i < n; i++ {
		sa, err := ScalarAtUnchecked(a, i)
		if err != nil {
			return nil, err
		}
		if sa.IsNull() || s.IsNull() {
			anyNull = true
			continue
		}
		validMask[i] = true
		values[i] = evalCompare(sa, s, op)
	}
	if !anyNull {
		return NewBool(values, NewNonNullable()), nil
	}
	return NewBool(values, NewValidityArray(NewBool(validMask, NewNonNullable()))), nil
}

func boolBinGeneric(a, b Array, f func(x, y bool) bool) (Array, error) {
	if a.Len() != b.Len() {
		return nil, vxerr.New("boolBin", vxerr.MismatchedLengths,
			"and/or require equal-length operands, got %d and %d", a.Len(), b.Len())
	}
	n := a.Len()
	values := make([]bool, n)
	validMask := make([]bool, n)
	anyNull := false
	for i := 0; i < n; i++ {
		sa, err := ScalarAtUnchecked(a, i)
		if err != nil {
			return nil, err
		}
		sb, err := ScalarAtUnchecked(b, i)
		if err != nil {
			return nil, err
		}
		if sa.IsNull() || sb.IsNull() {
			anyNull = true
			continue
		}
		validMask[i] = true
		values[i] = f(sa.Bool(), sb.Bool())
	}
	if !anyNull {
		return NewBool(values, NewNonNullable()), nil
	}
	return NewBool(values, NewValidityArray(NewBool(validMask, NewNonNullable()))), nil
}

// And evaluates the element-wise logical AND of two bool arrays.
func And(a, b Array) (Array, error) {
	if a.Encoding().ID() == b.Encoding().ID() {
		kernelMu.RLock()
		fn, ok := andKernel[a.Encoding().ID()]
		kernelMu.RUnlock()
		if ok {
			return fn(a, b)
		}
	}
	canonA, err := Canonicalize(a)
	if err != nil {
		return nil, err
	}
	canonB, err := Canonicalize(b)
	if err != nil {
		return nil, err
	}
	if canonA != a || canonB != b {
		return And(canonA, canonB)
	}
	return boolBinGeneric(a, b, func(x, y bool) bool { return x && y })
}

// Or evaluates the element-wise logical OR of two bool arrays.
func Or(a, b Array) (Array, error) {
	if a.Encoding().ID() == b.Encoding().ID() {
		kernelMu.RLock()
		fn, ok := orKernel[a.Encoding().ID()]
		kernelMu.RUnlock()
		if ok {
			return fn(a, b)
		}
	}
	canonA, err := Canonicalize(a)
	if err != nil {
		return nil, err
	}
	canonB, err := Canonicalize(b)
	if err != nil {
		return nil, err
	}
	if canonA != a || canonB != b {
		return Or(canonA, canonB)
	}
	return boolBinGeneric(a, b, func(x, y bool) bool { return x || y })
}

// Filter keeps only the elements of a where mask is true and non-null
// (spec universal property: "filter(a, mask).len() == count_true(mask)
// and values preserve order"). There is no dedicated FilterFunc registry:
// every encoding gets filter for free by computing the kept indices and
// taking them, the same fallback shape as the other derived ops.
func Filter(a Array, mask Array) (Array, error) {
	if a.Len() != mask.Len() {
		return nil, vxerr.New("Filter", vxerr.MismatchedLengths,
			"filter mask must match array length, got %d and %d", mask.Len(), a.Len())
	}
	var indices []int
	for i := 0; i < mask.Len(); i++ {
		s, err := ScalarAtUnchecked(mask, i)
		if err != nil {
			return nil, err
		}
		if !s.IsNull() && s.Bool() {
			indices = append(indices, i)
		}
	}
	return Take(a, indices)
}

// Side selects which end of a run of equal values search_sorted returns.
type Side int

const (
	Left Side = iota
	Right
)

// SearchSorted finds v's insertion point in a, which must already be
// sorted ascending with nulls sorting last (spec §4.3: "returns an index
// in [0, len] such that inserting v preserves order; side = left yields
// the first such index, side = right the last").
func SearchSorted(a Array, v scalar.Scalar, side Side) (int, error) {
	kernelMu.RLock()
	fn, ok := searchSortedKernel[a.Encoding().ID()]
	kernelMu.RUnlock()
	if ok {
		return fn(a, v, side)
	}
	canon, err := Canonicalize(a)
	if err != nil {
		return 0, err
	}
	if canon != a {
		return SearchSorted(canon, v, side)
	}
	return searchSortedGeneric(a, v, side)
}

func searchSortedGeneric(a Array, v scalar.Scalar, side Side) (int, error) {
	n := a.Len()
	// Nulls sort last: once a position holds a null, it and everything
	// after it counts as "past" v, same as the ordinary side comparisons.
	var firstErr error
	idx := sort.Search(n, func(i int) bool {
		s, err := ScalarAtUnchecked(a, i)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return true
		}
		if s.IsNull() {
			return true
		}
		if side == Left {
			return !scalar.Less(s, v)
		}
		return scalar.Less(v, s)
	})
	if firstErr != nil {
		return 0, firstErr
	}
	return idx, nil
}

// FillForward replaces each null with the nearest preceding non-null
// value, leaving a leading run of nulls (no preceding value exists) as
// nulls.
func FillForward(a Array) (Array, error) {
	kernelMu.RLock()
	fn, ok := fillForwardKernel[a.Encoding().ID()]
	kernelMu.RUnlock()
	if ok {
		return fn(a)
	}
	canon, err := Canonicalize(a)
	if err != nil {
		return nil, err
	}
	if canon != a {
		return FillForward(canon)
	}
	return fillForwardGeneric(a)
}

func fillForwardGeneric(a Array) (Array, error) {
	n := a.Len()
	items := make([]scalar.Scalar, n)
	var last scalar.Scalar
	haveLast := false
	for i := 0; i < n; i++ {
		s, err := ScalarAtUnchecked(a, i)
		if err != nil {
			return nil, err
		}
		if s.IsNull() {
			if haveLast {
				items[i] = last
			} else {
				items[i] = s
			}
			continue
		}
		last = s
		haveLast = true
		items[i] = s
	}
	return buildFlatFromScalars(a.DType(), items)
}

// SubtractScalar subtracts s from every element of a, producing a result
// of a's exact dtype. Integer results wrap at the dtype's own width (the
// subtraction happens at uint64 precision, and materializing the result
// truncates to ptype.ByteWidth() bytes), the same wraparound a fixed-width
// integer column would show in any other language.
func SubtractScalar(a Array, s scalar.Scalar) (Array, error) {
	if !a.DType().IsPrimitive() {
		return nil, vxerr.New("SubtractScalar", vxerr.InvalidDType,
			"subtract_scalar requires a primitive array, got %v", a.DType().Kind())
	}
	kernelMu.RLock()
	fn, ok := subtractScalarKern[a.Encoding().ID()]
	kernelMu.RUnlock()
	if ok {
		return fn(a, s)
	}
	canon, err := Canonicalize(a)
	if err != nil {
		return nil, err
	}
	if canon != a {
		return SubtractScalar(canon, s)
	}
	return subtractScalarGeneric(a, s)
}

func subtractScalarGeneric(a Array, s scalar.Scalar) (Array, error) {
	dt := a.DType()
	n := a.Len()
	items := make([]scalar.Scalar, n)
	for i := 0; i < n; i++ {
		v, err := ScalarAtUnchecked(a, i)
		if err != nil {
			return nil, err
		}
		if v.IsNull() || s.IsNull() {
			items[i] = scalar.Null(dt)
			continue
		}
		var raw scalar.Scalar
		switch {
		case dt.PType() == dtype.F32:
			raw = scalar.NewFloat32(float32(v.Float() - s.Float()))
		case dt.PType().IsFloat():
			raw = scalar.NewFloat64(v.Float() - s.Float())
		case dt.PType().IsSigned():
			raw = scalar.NewInt(dt.PType(), v.Int()-s.Int())
		default:
			raw = scalar.NewUint(dt.PType(), v.Uint()-s.Uint())
		}
		// raw's bit pattern is the correctly sized result already (signed/
		// unsigned arithmetic wraps at uint64 width, but buildFlatFromScalars
		// only ever copies the low ptype.ByteWidth() bytes into the backing
		// buffer, so the wraparound truncates to the right width there).
		cast, err := raw.Cast(dtype.Primitive(dt.PType(), dt.Nullable()))
		if err != nil {
			return nil, err
		}
		items[i] = cast
	}
	return buildFlatFromScalars(dt, items)
}

// buildFlatFromScalars materializes a flat Array of dtype dt from items,
// one scalar per logical position (items[i].IsNull() marks a null). This
// is the array package's own version of encodings.materializeScalars --
// duplicated rather than shared because encodings imports array, not the
// other way around -- and covers Null, Bool, Primitive, Utf8/Binary, and
// Struct (recursively), more than materializeScalars' Bool/Primitive/
// Utf8/Binary. List and Extension are left to
// their own encodings' kernels, which have direct access to child arrays
// takeGeneric/fillForwardGeneric/subtractScalarGeneric don't.
func buildFlatFromScalars(dt dtype.DType, items []scalar.Scalar) (Array, error) {
	switch dt.Kind() {
	case dtype.KindNull:
		return NewNull(len(items)), nil
	case dtype.KindBool:
		values := make([]bool, len(items))
		validMask := make([]bool, len(items))
		anyNull := false
		for i, it := range items {
			if it.IsNull() {
				anyNull = true
				continue
			}
			values[i] = it.Bool()
			validMask[i] = true
		}
		if !anyNull {
			return NewBool(values, NewNonNullable()), nil
		}
		return NewBool(values, NewValidityArray(NewBool(validMask, NewNonNullable()))), nil
	case dtype.KindPrimitive:
		raw := make([]uint64, len(items))
		validMask := make([]bool, len(items))
		anyNull := false
		for i, it := range items {
			if it.IsNull() {
				anyNull = true
				continue
			}
			raw[i] = it.Bits()
			validMask[i] = true
		}
		if !anyNull {
			return NewPrimitive(dt.PType(), raw, NewNonNullable()), nil
		}
		return NewPrimitive(dt.PType(), raw, NewValidityArray(NewBool(validMask, NewNonNullable()))), nil
	case dtype.KindUtf8, dtype.KindBinary:
		values := make([][]byte, len(items))
		validMask := make([]bool, len(items))
		anyNull := false
		for i, it := range items {
			if it.IsNull() {
				anyNull = true
				continue
			}
			values[i] = it.Bytes()
			validMask[i] = true
		}
		if !anyNull {
			return NewVarBin(dt, values, NewNonNullable()), nil
		}
		return NewVarBin(dt, values, NewValidityArray(NewBool(validMask, NewNonNullable()))), nil
	case dtype.KindStruct:
		fields := dt.Fields()
		children := make([]Array, len(fields))
		validMask := make([]bool, len(items))
		anyNull := false
		for fi, f := range fields {
			fieldItems := make([]scalar.Scalar, len(items))
			for i, it := range items {
				if it.IsNull() {
					anyNull = true
					fieldItems[i] = scalar.Null(f.Type)
					continue
				}
				validMask[i] = true
				fieldItems[i] = it.Fields()[fi]
			}
			child, err := buildFlatFromScalars(f.Type, fieldItems)
			if err != nil {
				return nil, err
			}
			children[fi] = child
		}
		validity := NewNonNullable()
		if anyNull {
			validity = NewValidityArray(NewBool(validMask, NewNonNullable()))
		}
		return NewStruct(dt, children, validity)
	default:
		return nil, vxerr.New("buildFlatFromScalars", vxerr.NotImplemented,
			"cannot materialize dtype kind %v from scalars", dt.Kind())
	}
}
