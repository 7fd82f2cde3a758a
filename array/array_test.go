package array

import (
	"testing"

	"github.com/cph-data/vortex/dtype"
	"github.com/cph-data/vortex/scalar"
	"github.com/cph-data/vortex/stats"
)

// fakeEncoding/fakeArray are a minimal in-memory int array used only to
// exercise the dispatch machinery (ScalarAt/Slice/Canonicalize/View)
// ahead of the real flat encodings -- this package's own unit boundary is
// the tree/registry/dispatch logic, not any one encoding's bit layout.
// The fakes use IDs of their own so that their kernels do not replace the
// real Primitive/Bool kernels the other tests in this package rely on.
const (
	idFake     EncodingID = 0xFFF0
	idBoolFake EncodingID = 0xFFF1
)

type fakeEncoding struct{}

func (fakeEncoding) ID() EncodingID   { return idFake }
func (fakeEncoding) Name() string     { return "fake-primitive" }
func (fakeEncoding) Canonicalize(a Array) (Array, error) { return a, nil }

var theFakeEncoding = fakeEncoding{}

type fakeArray struct {
	values []int64
	valid  Validity
	st     *stats.Set
}

func newFakeArray(values []int64) *fakeArray {
	return &fakeArray{values: values, valid: NewAllValid(), st: stats.NewSet(nil)}
}

func (f *fakeArray) DType() dtype.DType { return dtype.Primitive(dtype.I64, true) }
func (f *fakeArray) Len() int           { return len(f.values) }
func (f *fakeArray) Encoding() Encoding  { return theFakeEncoding }
func (f *fakeArray) Nbytes() int64      { return int64(len(f.values) * 8) }
func (f *fakeArray) Validity() Validity { return f.valid }
func (f *fakeArray) Stats() *stats.Set  { return f.st }
func (f *fakeArray) Children() []Array  { return nil }
func (f *fakeArray) IsView() bool       { return false }

func init() {
	RegisterScalarAt(idFake, func(a Array, i int) (scalar.Scalar, error) {
		fa := a.(*fakeArray)
		return scalar.NewInt(dtype.I64, fa.values[i]), nil
	})
}

func TestScalarAtDirect(t *testing.T) {
	a := newFakeArray([]int64{10, 20, 30})
	s, err := ScalarAt(a, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Int() != 20 {
		t.Fatalf("expected 20, got %d", s.Int())
	}
}

func TestScalarAtOutOfBounds(t *testing.T) {
	a := newFakeArray([]int64{1, 2})
	if _, err := ScalarAt(a, 5); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
}

func TestScalarAtNullViaValidity(t *testing.T) {
	a := newFakeArray([]int64{1, 2, 3})
	a.valid = NewAllInvalid()
	s, err := ScalarAt(a, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.IsNull() {
		t.Fatal("expected null scalar for AllInvalid validity")
	}
}

func TestSliceProducesView(t *testing.T) {
	a := newFakeArray([]int64{1, 2, 3, 4, 5})
	sliced, err := Slice(a, 1, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sliced.IsView() {
		t.Fatal("expected a View for an encoding with no Slice kernel")
	}
	if sliced.Len() != 3 {
		t.Fatalf("expected length 3, got %d", sliced.Len())
	}
	s, err := ScalarAt(sliced, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Int() != 2 {
		t.Fatalf("expected 2 (index 1 of original), got %d", s.Int())
	}
}

func TestSliceFullRangeReturnsSameArray(t *testing.T) {
	a := newFakeArray([]int64{1, 2, 3})
	same, err := Slice(a, 0, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if same != Array(a) {
		t.Fatal("full-range slice should return the same array, not a view")
	}
}

func TestNestedViewComposesOffsets(t *testing.T) {
	a := newFakeArray([]int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	v1, _ := Slice(a, 2, 9) // [2..9) -> 2,3,4,5,6,7,8
	v2, _ := Slice(v1, 1, 4) // [1..4) of v1 -> 3,4,5
	inner, ok := v2.(*viewArray)
	if !ok {
		t.Fatal("expected a viewArray")
	}
	if inner.inner != Array(a) {
		t.Fatal("nested view should flatten to point at the original array")
	}
	s, err := ScalarAt(v2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Int() != 3 {
		t.Fatalf("expected 3, got %d", s.Int())
	}
}

func TestCanonicalizeIdentityForFlatEncoding(t *testing.T) {
	a := newFakeArray([]int64{1, 2, 3})
	canon, err := Canonicalize(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if canon != Array(a) {
		t.Fatal("canonicalizing an already-flat encoding should be identity")
	}
}

func TestValidityArrayKind(t *testing.T) {
	mask := newFakeArray(nil)
	_ = mask
	boolArr := newBoolFakeArray([]bool{true, false, true})
	v := NewValidityArray(boolArr)
	if !v.IsValid(0) || v.IsValid(1) || !v.IsValid(2) {
		t.Fatal("validity array mismatch")
	}
	if v.NullCount(3) != 1 {
		t.Fatalf("expected 1 null, got %d", v.NullCount(3))
	}
}

// boolFakeArray backs the ValidityArray test above.
type boolFakeEncoding struct{}

func (boolFakeEncoding) ID() EncodingID               { return idBoolFake }
func (boolFakeEncoding) Name() string                 { return "fake-bool" }
func (boolFakeEncoding) Canonicalize(a Array) (Array, error) { return a, nil }

var theBoolFakeEncoding = boolFakeEncoding{}

type boolFakeArray struct {
	values []bool
}

func newBoolFakeArray(values []bool) *boolFakeArray {
	return &boolFakeArray{values: values}
}

func (f *boolFakeArray) DType() dtype.DType { return dtype.Bool(false) }
func (f *boolFakeArray) Len() int           { return len(f.values) }
func (f *boolFakeArray) Encoding() Encoding  { return theBoolFakeEncoding }
func (f *boolFakeArray) Nbytes() int64      { return int64(len(f.values)) }
func (f *boolFakeArray) Validity() Validity { return NewNonNullable() }
func (f *boolFakeArray) Stats() *stats.Set  { return stats.NewSet(nil) }
func (f *boolFakeArray) Children() []Array  { return nil }
func (f *boolFakeArray) IsView() bool       { return false }

func init() {
	RegisterScalarAt(idBoolFake, func(a Array, i int) (scalar.Scalar, error) {
		fa := a.(*boolFakeArray)
		return scalar.NewBool(fa.values[i]), nil
	})
}
