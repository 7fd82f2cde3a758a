package stats

import (
	"testing"

	"github.com/cph-data/vortex/dtype"
	"github.com/cph-data/vortex/scalar"
)

func TestGetMissingByDefault(t *testing.T) {
	s := NewSet(nil)
	if _, ok := s.Get(Min); ok {
		t.Fatal("fresh Set should have no cached stats")
	}
}

func TestSetThenGet(t *testing.T) {
	s := NewSet(nil)
	s.Set(NullCount, scalar.NewInt(dtype.I64, 3))
	v, ok := s.Get(NullCount)
	if !ok || v.Int() != 3 {
		t.Fatalf("expected cached NullCount=3, got %v ok=%v", v, ok)
	}
}

func TestGetOrComputeCachesResult(t *testing.T) {
	calls := 0
	s := NewSet(func(k Kind) (scalar.Scalar, bool) {
		calls++
		return scalar.NewInt(dtype.I64, 42), true
	})
	v1, _ := s.GetOrCompute(Max)
	v2, _ := s.GetOrCompute(Max)
	if v1.Int() != 42 || v2.Int() != 42 {
		t.Fatal("expected computed value 42 both times")
	}
	if calls != 1 {
		t.Fatalf("expected compute to run once, ran %d times", calls)
	}
}

func TestGetOrComputeNoComputeFn(t *testing.T) {
	s := NewSet(nil)
	if _, ok := s.GetOrCompute(IsSorted); ok {
		t.Fatal("expected miss with no compute function")
	}
}

func TestAllSnapshot(t *testing.T) {
	s := NewSet(nil)
	s.Set(Min, scalar.NewInt(dtype.I32, 1))
	s.Set(Max, scalar.NewInt(dtype.I32, 9))
	all := s.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(all))
	}
}
