package vxbuf

import "testing"

func TestNewIsAligned(t *testing.T) {
	b := New(1000, nil)
	if !b.IsAligned() {
		t.Fatal("freshly allocated buffer should be 64-byte aligned")
	}
	if b.Len() != 1000 {
		t.Fatalf("expected length 1000, got %d", b.Len())
	}
}

func TestSliceIsZeroCopy(t *testing.T) {
	b := FromBytes([]byte("0123456789"), nil)
	s := b.Slice(2, 5)
	if string(s.Bytes()) != "234" {
		t.Fatalf("expected \"234\", got %q", string(s.Bytes()))
	}
	// mutate original, slice should observe it (same backing storage)
	b.Bytes()[2] = 'X'
	if s.Bytes()[0] != 'X' {
		t.Fatal("slice should alias the backing storage")
	}
}

func TestTypedView(t *testing.T) {
	b := New(24, nil)
	view := TypedView[uint64](b)
	if len(view) != 3 {
		t.Fatalf("expected 3 uint64s, got %d", len(view))
	}
	view[1] = 0xdeadbeef
	view2 := TypedView[uint64](b)
	if view2[1] != 0xdeadbeef {
		t.Fatal("typed view should alias the same buffer")
	}
}
