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
	"testing"

	"github.com/cph-data/vortex/array"
	"github.com/cph-data/vortex/dtype"
	"github.com/cph-data/vortex/scalar"
)

func mustScalarAt(t *testing.T, a array.Array, i int) scalar.Scalar {
	t.Helper()
	s, err := array.ScalarAt(a, i)
	if err != nil {
		t.Fatalf("ScalarAt(%d): %v", i, err)
	}
	return s
}

func TestBitPackedRoundTrip(t *testing.T) {
	raw := []uint64{1, 5, 3, 7, 0, 7}
	b := NewBitPacked(dtype.U8, raw, array.NewNonNullable())
	if b.Len() != len(raw) {
		t.Fatalf("len = %d, want %d", b.Len(), len(raw))
	}
	for i, want := range raw {
		got := mustScalarAt(t, b, i).Uint()
		if got != want {
			t.Errorf("at %d: got %d, want %d", i, got, want)
		}
	}
	canon, err := array.Canonicalize(b)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if canon.Len() != len(raw) {
		t.Fatalf("canon len = %d, want %d", canon.Len(), len(raw))
	}
}

func TestFrameOfReferenceRoundTrip(t *testing.T) {
	values := []int64{100, 103, 99, 150, 100}
	f := NewFrameOfReference(dtype.I32, values, array.NewNonNullable())
	for i, want := range values {
		got := mustScalarAt(t, f, i).Int()
		if got != want {
			t.Errorf("at %d: got %d, want %d", i, got, want)
		}
	}
	canon, err := array.Canonicalize(f)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	for i, want := range values {
		got := mustScalarAt(t, canon, i).Int()
		if got != want {
			t.Errorf("canon at %d: got %d, want %d", i, got, want)
		}
	}
}

func TestZigZagRoundTrip(t *testing.T) {
	values := []int64{-5, 0, 7, -1000, 1000}
	z := NewZigZag(dtype.I32, values, array.NewNonNullable())
	for i, want := range values {
		got := mustScalarAt(t, z, i).Int()
		if got != want {
			t.Errorf("at %d: got %d, want %d", i, got, want)
		}
	}
}

func TestRunEndRoundTrip(t *testing.T) {
	ends := array.NewI64([]int64{3, 5, 8})
	values := array.NewI64([]int64{10, 20, 30})
	r, err := NewRunEnd(ends, values, 8)
	if err != nil {
		t.Fatalf("NewRunEnd: %v", err)
	}
	want := []int64{10, 10, 10, 20, 20, 30, 30, 30}
	for i, w := range want {
		got := mustScalarAt(t, r, i).Int()
		if got != w {
			t.Errorf("at %d: got %d, want %d", i, got, w)
		}
	}
	canon, err := array.Canonicalize(r)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	for i, w := range want {
		got := mustScalarAt(t, canon, i).Int()
		if got != w {
			t.Errorf("canon at %d: got %d, want %d", i, got, w)
		}
	}
}

func TestRunEndMismatchedLengthsError(t *testing.T) {
	ends := array.NewI64([]int64{3})
	values := array.NewI64([]int64{1, 2})
	if _, err := NewRunEnd(ends, values, 3); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
}

func TestDictionaryRoundTrip(t *testing.T) {
	values := array.NewVarBin(dtype.Utf8(false), [][]byte{[]byte("red"), []byte("green"), []byte("blue")}, array.NewNonNullable())
	codes := array.NewPrimitive(dtype.U8, []uint64{0, 1, 2, 1, 0}, array.NewNonNullable())
	d, err := NewDictionary(dtype.Utf8(false), codes, values)
	if err != nil {
		t.Fatalf("NewDictionary: %v", err)
	}
	want := []string{"red", "green", "blue", "green", "red"}
	for i, w := range want {
		got := mustScalarAt(t, d, i).String()
		if got != w {
			t.Errorf("at %d: got %q, want %q", i, got, w)
		}
	}
	canon, err := array.Canonicalize(d)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	for i, w := range want {
		got := mustScalarAt(t, canon, i).String()
		if got != w {
			t.Errorf("canon at %d: got %q, want %q", i, got, w)
		}
	}
}

func TestSparseRoundTrip(t *testing.T) {
	indices := array.NewI64([]int64{2, 5})
	values := array.NewPrimitive(dtype.I32, []uint64{uint64(scalar.NewInt(dtype.I32, 99).Uint()), uint64(scalar.NewInt(dtype.I32, -3).Uint())}, array.NewNonNullable())
	fill := scalar.NewInt(dtype.I32, 0)
	s := NewSparse(dtype.Primitive(dtype.I32, false), indices, values, fill, 7)
	for i := 0; i < 7; i++ {
		got := mustScalarAt(t, s, i).Int()
		switch i {
		case 2:
			if got != 99 {
				t.Errorf("at 2: got %d, want 99", got)
			}
		case 5:
			if got != -3 {
				t.Errorf("at 5: got %d, want -3", got)
			}
		default:
			if got != 0 {
				t.Errorf("at %d: got %d, want fill 0", i, got)
			}
		}
	}
}

func TestALPRoundTrip(t *testing.T) {
	values := []float64{1.5, 2.25, 3.125, 100.0, 0.001}
	a := EncodeALP(dtype.F64, values, array.NewNonNullable())
	for i, want := range values {
		got := mustScalarAt(t, a, i).Float()
		if got != want {
			t.Errorf("at %d: got %v, want %v", i, got, want)
		}
	}
	canon, err := array.Canonicalize(a)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	for i, want := range values {
		got := mustScalarAt(t, canon, i).Float()
		if got != want {
			t.Errorf("canon at %d: got %v, want %v", i, got, want)
		}
	}
}

func TestALPPatchesIrrationalValues(t *testing.T) {
	values := []float64{1.0, 2.0, 3.14159265358979, 4.0}
	a := EncodeALP(dtype.F64, values, array.NewNonNullable())
	for i, want := range values {
		got := mustScalarAt(t, a, i).Float()
		if got != want {
			t.Errorf("at %d: got %v, want %v", i, got, want)
		}
	}
}

func TestDateTimePartsRoundTrip(t *testing.T) {
	dt := dtype.Extension("vortex.localdatetime", dtype.Primitive(dtype.I64, false), nil)
	days := array.NewI64([]int64{19000, 19001})
	seconds := array.NewI64([]int64{3600, 0})
	subseconds := array.NewI64([]int64{500, 0})
	d := NewDateTimeParts(dt, days, seconds, subseconds, array.NewNonNullable())
	want0 := int64(19000)*secondsPerDay*nanosPerSecond + 3600*nanosPerSecond + 500
	got0 := mustScalarAt(t, d, 0).Inner().Int()
	if got0 != want0 {
		t.Errorf("at 0: got %d, want %d", got0, want0)
	}
	want1 := int64(19001) * secondsPerDay * nanosPerSecond
	got1 := mustScalarAt(t, d, 1).Inner().Int()
	if got1 != want1 {
		t.Errorf("at 1: got %d, want %d", got1, want1)
	}
}

func TestByteBoolRoundTrip(t *testing.T) {
	values := []bool{true, false, false, true, true}
	b := NewByteBool(values, array.NewNonNullable())
	for i, want := range values {
		got := mustScalarAt(t, b, i).Bool()
		if got != want {
			t.Errorf("at %d: got %v, want %v", i, got, want)
		}
	}
	canon, err := array.Canonicalize(b)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	for i, want := range values {
		got := mustScalarAt(t, canon, i).Bool()
		if got != want {
			t.Errorf("canon at %d: got %v, want %v", i, got, want)
		}
	}
}

func TestFSSTRoundTrip(t *testing.T) {
	values := [][]byte{
		[]byte("the quick brown fox"),
		[]byte("the quick brown dog"),
		[]byte("jumps over the lazy fox"),
		[]byte(""),
	}
	f := NewFSST(dtype.Utf8(false), values, array.NewNonNullable())
	for i, want := range values {
		got := mustScalarAt(t, f, i).Bytes()
		if string(got) != string(want) {
			t.Errorf("at %d: got %q, want %q", i, got, want)
		}
	}
	canon, err := array.Canonicalize(f)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	for i, want := range values {
		got := mustScalarAt(t, canon, i).Bytes()
		if string(got) != string(want) {
			t.Errorf("canon at %d: got %q, want %q", i, got, want)
		}
	}
}
