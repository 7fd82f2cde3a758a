package array

import (
	"testing"

	"github.com/cph-data/vortex/dtype"
	"github.com/cph-data/vortex/scalar"
)

func TestNullArray(t *testing.T) {
	a := NewNull(5)
	if a.Len() != 5 {
		t.Fatalf("expected length 5, got %d", a.Len())
	}
	s, err := ScalarAt(a, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.IsNull() {
		t.Fatal("expected null")
	}
}

func TestBoolArrayRoundTrip(t *testing.T) {
	values := []bool{true, false, false, true, true, true, false, false, true}
	a := NewBool(values, NewNonNullable())
	for i, want := range values {
		s, err := ScalarAt(a, i)
		if err != nil {
			t.Fatalf("unexpected error at %d: %v", i, err)
		}
		if s.Bool() != want {
			t.Errorf("index %d: want %v got %v", i, want, s.Bool())
		}
	}
}

func TestPrimitiveArrayRoundTripAndSlice(t *testing.T) {
	values := []int64{10, -20, 30, -40, 50}
	a := NewI64(values)
	for i, want := range values {
		s, err := ScalarAt(a, i)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Int() != want {
			t.Errorf("index %d: want %d got %d", i, want, s.Int())
		}
	}
	sliced, err := Slice(a, 1, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sliced.IsView() {
		t.Fatal("primitive array has its own slice kernel, should not be a view")
	}
	s0, _ := ScalarAt(sliced, 0)
	if s0.Int() != -20 {
		t.Fatalf("expected -20, got %d", s0.Int())
	}
}

func TestPrimitiveArrayWithNulls(t *testing.T) {
	validArr := NewBool([]bool{true, false, true}, NewNonNullable())
	validity := NewValidityArray(validArr)
	a := NewPrimitive(dtype.I32, []uint64{1, 2, 3}, validity)
	s, err := ScalarAt(a, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.IsNull() {
		t.Fatal("expected null at index 1")
	}
	s2, _ := ScalarAt(a, 2)
	if s2.Int() != 3 {
		t.Fatalf("expected 3, got %d", s2.Int())
	}
}

func TestVarBinRoundTrip(t *testing.T) {
	values := [][]byte{[]byte("hello"), []byte(""), []byte("vortex compresses columns")}
	a := NewVarBin(dtype.Utf8(false), values, NewNonNullable())
	for i, want := range values {
		s, err := ScalarAt(a, i)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.String() != string(want) {
			t.Errorf("index %d: want %q got %q", i, want, s.String())
		}
	}
}

func TestVarBinViewInlineAndSpilled(t *testing.T) {
	short := []byte("short")
	long := []byte("this value is definitely longer than twelve bytes")
	a := NewVarBinView(dtype.Utf8(false), [][]byte{short, long}, NewNonNullable())
	s0, err := ScalarAt(a, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s0.String() != string(short) {
		t.Errorf("expected %q got %q", short, s0.String())
	}
	s1, err := ScalarAt(a, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s1.String() != string(long) {
		t.Errorf("expected %q got %q", long, s1.String())
	}
}

func TestStructArrayScalarAndSlice(t *testing.T) {
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
	s, err := ScalarAt(st, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Fields()[0].Int() != 2 || s.Fields()[1].String() != "b" {
		t.Fatalf("unexpected struct scalar: %+v", s)
	}
	sliced, err := Slice(st, 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sliced.IsView() {
		t.Fatal("struct has its own slice kernel")
	}
	if len(sliced.Children()) != 2 {
		t.Fatal("sliced struct should still expose its children")
	}
}

func TestListArrayScalar(t *testing.T) {
	values := NewI64([]int64{10, 20, 30, 40, 50})
	dt := dtype.List(dtype.Primitive(dtype.I64, false), false)
	lst := NewList(dt, []int{0, 2, 2, 5}, values, NewNonNullable())
	s0, err := ScalarAt(lst, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s0.ListItems()) != 2 || s0.ListItems()[0].Int() != 10 {
		t.Fatalf("unexpected list scalar: %+v", s0)
	}
	s1, _ := ScalarAt(lst, 1)
	if len(s1.ListItems()) != 0 {
		t.Fatal("expected empty list at index 1")
	}
	s2, _ := ScalarAt(lst, 2)
	if len(s2.ListItems()) != 3 || s2.ListItems()[2].Int() != 50 {
		t.Fatalf("unexpected list scalar: %+v", s2)
	}
}

func TestChunkedArray(t *testing.T) {
	c1 := NewI64([]int64{1, 2, 3})
	c2 := NewI64([]int64{4, 5})
	c3 := NewI64([]int64{6, 7, 8, 9})
	ch := NewChunked(dtype.Primitive(dtype.I64, false), []Array{c1, c2, c3})
	if ch.Len() != 9 {
		t.Fatalf("expected length 9, got %d", ch.Len())
	}
	for i := 0; i < 9; i++ {
		s, err := ScalarAt(ch, i)
		if err != nil {
			t.Fatalf("unexpected error at %d: %v", i, err)
		}
		if s.Int() != int64(i+1) {
			t.Errorf("index %d: want %d got %d", i, i+1, s.Int())
		}
	}
	sliced, err := Slice(ch, 2, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sliced.Len() != 5 {
		t.Fatalf("expected length 5, got %d", sliced.Len())
	}
	for i := 0; i < 5; i++ {
		s, err := ScalarAt(sliced, i)
		if err != nil {
			t.Fatalf("unexpected error at %d: %v", i, err)
		}
		if s.Int() != int64(i+3) {
			t.Errorf("index %d: want %d got %d", i, i+3, s.Int())
		}
	}
}

func TestConstantArray(t *testing.T) {
	v := scalar.NewInt(dtype.I32, 7)
	a := NewConstant(v, 100)
	if a.Nbytes() > 64 {
		t.Fatalf("constant array should use O(1) space, used %d bytes", a.Nbytes())
	}
	s, err := ScalarAt(a, 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Int() != 7 {
		t.Fatalf("expected 7, got %d", s.Int())
	}
	sliced, err := Slice(a, 10, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := sliced.(*ConstantArray); !ok {
		t.Fatal("slicing a constant array should stay constant, not fall back to a view")
	}
	canon, err := Canonicalize(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if canon.Len() != 100 {
		t.Fatalf("expected canonical length 100, got %d", canon.Len())
	}
	cs, err := ScalarAt(canon, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs.Int() != 7 {
		t.Fatalf("expected canonical value 7, got %d", cs.Int())
	}
}

func TestConstantNullArray(t *testing.T) {
	a := NewConstant(scalar.Null(dtype.Primitive(dtype.I32, true)), 10)
	s, err := ScalarAt(a, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.IsNull() {
		t.Fatal("expected null")
	}
}
