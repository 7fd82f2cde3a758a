package array

import (
	"testing"

	"github.com/cph-data/vortex/dtype"
	"github.com/cph-data/vortex/scalar"
)

func TestTakeReturnsArray(t *testing.T) {
	a := NewI64([]int64{10, 20, 30, 40, 50})
	taken, err := Take(a, []int{4, 0, 0, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if taken.Len() != 4 {
		t.Fatalf("expected length 4, got %d", taken.Len())
	}
	want := []int64{50, 10, 10, 30}
	for i, w := range want {
		s, err := ScalarAt(taken, i)
		if err != nil {
			t.Fatalf("unexpected error at %d: %v", i, err)
		}
		if s.Int() != w {
			t.Errorf("index %d: want %d got %d", i, w, s.Int())
		}
	}
}

func TestTakeOutOfBounds(t *testing.T) {
	a := NewI64([]int64{1, 2, 3})
	if _, err := Take(a, []int{0, 5}); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
}

func TestTakeOnStructComposesFields(t *testing.T) {
	dt := dtype.Struct([]dtype.Field{
		{Name: "id", Type: dtype.Primitive(dtype.I64, false)},
		{Name: "name", Type: dtype.Utf8(false)},
	}, false)
	ids := NewI64([]int64{1, 2, 3})
	names := NewVarBin(dtype.Utf8(false), [][]byte{[]byte("a"), []byte("b"), []byte("c")}, NewNonNullable())
	st, err := NewStruct(dt, []Array{ids, names}, NewNonNullable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	taken, err := Take(st, []int{2, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s0, _ := ScalarAt(taken, 0)
	if s0.Fields()[0].Int() != 3 || s0.Fields()[1].String() != "c" {
		t.Fatalf("unexpected struct scalar: %+v", s0)
	}
}

func TestChunkedTakeGroupsContiguousRuns(t *testing.T) {
	chunk0 := NewI64([]int64{0, 1, 2})
	chunk1 := NewI64([]int64{10, 11, 12, 13})
	chunk2 := NewI64([]int64{20, 21})
	c := NewChunked(dtype.Primitive(dtype.I64, false), []Array{chunk0, chunk1, chunk2})
	// spans chunk0, then chunk1 twice (a repeated index within the same
	// run), then back to chunk0 -- exercising both the multi-chunk split
	// and the non-monotonic re-entry into an earlier chunk.
	taken, err := Take(c, []int{2, 4, 4, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{2, 11, 11, 0}
	for i, w := range want {
		s, err := ScalarAt(taken, i)
		if err != nil {
			t.Fatalf("unexpected error at %d: %v", i, err)
		}
		if s.Int() != w {
			t.Errorf("index %d: want %d got %d", i, w, s.Int())
		}
	}
}

func TestCompareEquals(t *testing.T) {
	a := NewI64([]int64{1, 2, 3, 4})
	b := NewI64([]int64{1, 0, 3, 9})
	res, err := Compare(a, b, Eq)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []bool{true, false, true, false}
	for i, w := range want {
		s, err := ScalarAt(res, i)
		if err != nil {
			t.Fatalf("unexpected error at %d: %v", i, err)
		}
		if s.Bool() != w {
			t.Errorf("index %d: want %v got %v", i, w, s.Bool())
		}
	}
}

func TestCompareNullMasksResult(t *testing.T) {
	validity := NewValidityArray(NewBool([]bool{true, false}, NewNonNullable()))
	a := NewPrimitive(dtype.I32, []uint64{1, 2}, validity)
	b := NewPrimitive(dtype.I32, []uint64{1, 2}, NewNonNullable())
	res, err := Compare(a, b, Eq)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s0, err := ScalarAt(res, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s0.IsNull() || !s0.Bool() {
		t.Fatal("expected a valid true result where both operands are valid")
	}
	s1, err := ScalarAt(res, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s1.IsNull() {
		t.Fatal("expected a null result where an operand is null (validity tracks the combined mask)")
	}
}

func TestCompareScalarLessThan(t *testing.T) {
	a := NewI64([]int64{1, 5, 10, 3})
	res, err := CompareScalar(a, Lt, scalar.NewInt(dtype.I64, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []bool{true, false, false, true}
	for i, w := range want {
		s, _ := ScalarAt(res, i)
		if s.Bool() != w {
			t.Errorf("index %d: want %v got %v", i, w, s.Bool())
		}
	}
}

func TestAndOr(t *testing.T) {
	a := NewBool([]bool{true, true, false, false}, NewNonNullable())
	b := NewBool([]bool{true, false, true, false}, NewNonNullable())
	and, err := And(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	or, err := Or(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantAnd := []bool{true, false, false, false}
	wantOr := []bool{true, true, true, false}
	for i := range wantAnd {
		sa, _ := ScalarAt(and, i)
		so, _ := ScalarAt(or, i)
		if sa.Bool() != wantAnd[i] {
			t.Errorf("and index %d: want %v got %v", i, wantAnd[i], sa.Bool())
		}
		if so.Bool() != wantOr[i] {
			t.Errorf("or index %d: want %v got %v", i, wantOr[i], so.Bool())
		}
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	a := NewI64([]int64{10, 20, 30, 40, 50})
	mask := NewBool([]bool{true, false, true, false, true}, NewNonNullable())
	filtered, err := Filter(a, mask)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filtered.Len() != 3 {
		t.Fatalf("expected length 3 (count_true), got %d", filtered.Len())
	}
	want := []int64{10, 30, 50}
	for i, w := range want {
		s, _ := ScalarAt(filtered, i)
		if s.Int() != w {
			t.Errorf("index %d: want %d got %d", i, w, s.Int())
		}
	}
}

func TestFilterTreatsNullMaskAsFalse(t *testing.T) {
	a := NewI64([]int64{1, 2, 3})
	boolMaskValidity := NewValidityArray(NewBool([]bool{false, true, true}, NewNonNullable()))
	boolMask := NewBool([]bool{true, true, false}, boolMaskValidity)
	filtered, err := Filter(a, boolMask)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filtered.Len() != 1 {
		t.Fatalf("expected length 1 (null mask entries excluded), got %d", filtered.Len())
	}
	s, _ := ScalarAt(filtered, 0)
	if s.Int() != 2 {
		t.Fatalf("expected 2, got %d", s.Int())
	}
}

func TestSearchSortedLeftRight(t *testing.T) {
	a := NewI64([]int64{10, 20, 20, 20, 30})
	left, err := SearchSorted(a, scalar.NewInt(dtype.I64, 20), Left)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if left != 1 {
		t.Fatalf("expected 1, got %d", left)
	}
	right, err := SearchSorted(a, scalar.NewInt(dtype.I64, 20), Right)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if right != 4 {
		t.Fatalf("expected 4, got %d", right)
	}
	missing, err := SearchSorted(a, scalar.NewInt(dtype.I64, 25), Left)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != 4 {
		t.Fatalf("expected insertion point 4, got %d", missing)
	}
}

func TestFillForward(t *testing.T) {
	validity := NewValidityArray(NewBool([]bool{false, true, false, false, true}, NewNonNullable()))
	a := NewPrimitive(dtype.I64, []uint64{0, 11, 0, 0, 22}, validity)
	filled, err := FillForward(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s0, _ := ScalarAt(filled, 0)
	if !s0.IsNull() {
		t.Fatal("expected leading null to remain null (no preceding value)")
	}
	want := []int64{0, 11, 11, 11, 22}
	for i := 1; i < 5; i++ {
		s, err := ScalarAt(filled, i)
		if err != nil {
			t.Fatalf("unexpected error at %d: %v", i, err)
		}
		if s.Int() != want[i] {
			t.Errorf("index %d: want %d got %d", i, want[i], s.Int())
		}
	}
}

func TestSubtractScalar(t *testing.T) {
	a := NewI64([]int64{10, 20, 30})
	res, err := SubtractScalar(a, scalar.NewInt(dtype.I64, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{5, 15, 25}
	for i, w := range want {
		s, err := ScalarAt(res, i)
		if err != nil {
			t.Fatalf("unexpected error at %d: %v", i, err)
		}
		if s.Int() != w {
			t.Errorf("index %d: want %d got %d", i, w, s.Int())
		}
	}
}

func TestSubtractScalarWidthTruncation(t *testing.T) {
	a := NewPrimitive(dtype.U8, []uint64{5}, NewNonNullable())
	res, err := SubtractScalar(a, scalar.NewUint(dtype.U8, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := ScalarAt(res, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Uint() != 251 {
		t.Fatalf("expected u8 wraparound to 251, got %d", s.Uint())
	}
}

func TestWithDynBool(t *testing.T) {
	a := NewBool([]bool{false, true, true, false, true}, NewNonNullable())
	var idx []int
	err := WithDyn(a, func(v DTypeView) error {
		bv, ok := v.(BoolArrayView)
		if !ok {
			t.Fatal("expected a BoolArrayView")
		}
		idx = bv.TrueIndices()
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(idx) != 3 || idx[0] != 1 || idx[1] != 2 || idx[2] != 4 {
		t.Fatalf("unexpected true indices: %v", idx)
	}
}

func TestWithDynStruct(t *testing.T) {
	dt := dtype.Struct([]dtype.Field{
		{Name: "id", Type: dtype.Primitive(dtype.I64, false)},
		{Name: "name", Type: dtype.Utf8(false)},
	}, false)
	ids := NewI64([]int64{1, 2})
	names := NewVarBin(dtype.Utf8(false), [][]byte{[]byte("a"), []byte("b")}, NewNonNullable())
	st, err := NewStruct(dt, []Array{ids, names}, NewNonNullable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = WithDyn(st, func(v DTypeView) error {
		sv, ok := v.(StructArrayView)
		if !ok {
			t.Fatal("expected a StructArrayView")
		}
		projected, err := sv.Project([]string{"name"})
		if err != nil {
			return err
		}
		if len(projected.Children()) != 1 {
			t.Fatalf("expected 1 projected field, got %d", len(projected.Children()))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBoolArrayTrueSlices(t *testing.T) {
	a := NewBool([]bool{true, true, false, true, false, true, true, true}, NewNonNullable())
	slices := a.TrueSlices()
	want := [][2]int{{0, 2}, {3, 4}, {5, 8}}
	if len(slices) != len(want) {
		t.Fatalf("expected %d runs, got %d: %v", len(want), len(slices), slices)
	}
	for i, w := range want {
		if slices[i] != w {
			t.Errorf("run %d: want %v got %v", i, w, slices[i])
		}
	}
}
