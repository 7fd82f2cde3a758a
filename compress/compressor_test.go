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

import (
	"testing"

	"github.com/cph-data/vortex/array"
)

func mustScalarAt(t *testing.T, a array.Array, i int) int64 {
	t.Helper()
	s, err := array.ScalarAt(a, i)
	if err != nil {
		t.Fatalf("ScalarAt(%d): %v", i, err)
	}
	return s.Int()
}

func TestCompressConstantShortCircuit(t *testing.T) {
	raw := make([]int64, 200)
	for i := range raw {
		raw[i] = 42
	}
	a := array.NewI64(raw)
	out, tree, err := Compress(a, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if out.Encoding().Name() != "constant" {
		t.Fatalf("got encoding %s, want constant", out.Encoding().Name())
	}
	if tree.Encoding == nil || tree.Encoding.Name() != "constant" {
		t.Fatalf("tree records %v, want constant", tree.Encoding)
	}
	for i := 0; i < out.Len(); i += 37 {
		if v := mustScalarAt(t, out, i); v != 42 {
			t.Errorf("at %d: got %d, want 42", i, v)
		}
	}
}

func TestCompressPicksSmallerRatioEncoding(t *testing.T) {
	raw := make([]int64, 500)
	for i := range raw {
		raw[i] = int64(i % 3) // tiny range, highly repetitive, no trend
	}
	a := array.NewI64(raw)
	out, _, err := Compress(a, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if out.Encoding().Name() == "primitive" {
		t.Fatalf("expected some compression to beat raw primitive storage")
	}
	for i := 0; i < out.Len(); i += 41 {
		want := raw[i]
		if v := mustScalarAt(t, out, i); v != want {
			t.Errorf("at %d: got %d, want %d", i, v, want)
		}
	}
}

func TestCompressTinyArrayStillRoundTrips(t *testing.T) {
	// Whatever the search picks (or doesn't) for a handful of irregular
	// values, the result must still read back exactly.
	raw := []int64{7, -3, 19, 2}
	a := array.NewI64(raw)
	out, _, err := Compress(a, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	for i, want := range raw {
		if v := mustScalarAt(t, out, i); v != want {
			t.Errorf("at %d: got %d, want %d", i, v, want)
		}
	}
}

func TestCompressRespectsMaxDepth(t *testing.T) {
	raw := make([]int64, 300)
	for i := range raw {
		raw[i] = int64(i % 5)
	}
	a := array.NewI64(raw)
	cfg := DefaultConfig()
	cfg.MaxDepth = 0
	out, tree, err := Compress(a, nil, cfg)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if out != a {
		t.Fatalf("expected input returned unchanged at depth limit 0")
	}
	if tree.Encoding != nil {
		t.Fatalf("expected an empty decision tree at depth limit 0")
	}
}

func TestCompressLikeReuseSkipsSearch(t *testing.T) {
	raw := make([]int64, 400)
	for i := range raw {
		raw[i] = int64(i % 4)
	}
	a := array.NewI64(raw)
	cfg := DefaultConfig()
	_, tree, err := Compress(a, nil, cfg)
	if err != nil {
		t.Fatalf("first Compress: %v", err)
	}

	raw2 := make([]int64, 400)
	for i := range raw2 {
		raw2[i] = int64((i + 1) % 4)
	}
	b := array.NewI64(raw2)
	out2, tree2, err := Compress(b, tree, cfg)
	if err != nil {
		t.Fatalf("second Compress with like: %v", err)
	}
	if tree2.Encoding == nil || tree2.Encoding.ID() != tree.Encoding.ID() {
		t.Fatalf("expected like's encoding %v reused, got %v", tree.Encoding, tree2.Encoding)
	}
	for i, want := range raw2 {
		if v := mustScalarAt(t, out2, i); v != want {
			t.Errorf("at %d: got %d, want %d", i, v, want)
		}
	}
}

func TestCompressDisabledEncodingExcluded(t *testing.T) {
	raw := make([]int64, 300)
	for i := range raw {
		raw[i] = int64(i % 3)
	}
	a := array.NewI64(raw)
	cfg := DefaultConfig()
	cfg.Disabled = map[array.EncodingID]bool{}
	for _, id := range array.Candidates() {
		cfg.Disabled[id] = true
	}
	out, tree, err := Compress(a, nil, cfg)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if tree.Encoding != nil {
		t.Fatalf("expected no candidates selected, got %v", tree.Encoding)
	}
	for i, want := range raw {
		if v := mustScalarAt(t, out, i); v != want {
			t.Errorf("at %d: got %d, want %d", i, v, want)
		}
	}
}
