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

func TestDictionaryTakeForwardsToCodes(t *testing.T) {
	values := array.NewVarBin(dtype.Utf8(false), [][]byte{[]byte("red"), []byte("green"), []byte("blue")}, array.NewNonNullable())
	codes := array.NewPrimitive(dtype.U8, []uint64{0, 1, 2, 1, 0}, array.NewNonNullable())
	d, err := NewDictionary(dtype.Utf8(false), codes, values)
	if err != nil {
		t.Fatalf("NewDictionary: %v", err)
	}
	taken, err := array.Take(d, []int{4, 2, 0})
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	if _, ok := taken.(*DictionaryArray); !ok {
		t.Fatalf("expected Take to stay a DictionaryArray (forwarding to codes), got %T", taken)
	}
	want := []string{"red", "blue", "red"}
	for i, w := range want {
		got := mustScalarAt(t, taken, i).String()
		if got != w {
			t.Errorf("at %d: got %q, want %q", i, got, w)
		}
	}
	dd := taken.(*DictionaryArray)
	if dd.values != d.values {
		t.Fatal("expected the values child to be shared unchanged, not rebuilt")
	}
}

func TestSparseSearchSorted(t *testing.T) {
	// spec §8 scenario 5: indices=[2,9,15], values=[33,44,55], length=20,
	// fill=null i32.
	indices := array.NewI64([]int64{2, 9, 15})
	values := array.NewPrimitive(dtype.I32, []uint64{
		uint64(scalar.NewInt(dtype.I32, 33).Uint()),
		uint64(scalar.NewInt(dtype.I32, 44).Uint()),
		uint64(scalar.NewInt(dtype.I32, 55).Uint()),
	}, array.NewNonNullable())
	fill := scalar.Null(dtype.Primitive(dtype.I32, true))
	s := NewSparse(dtype.Primitive(dtype.I32, true), indices, values, fill, 20)

	got, err := array.SearchSorted(s, scalar.NewInt(dtype.I32, 44), array.Left)
	if err != nil {
		t.Fatalf("SearchSorted: %v", err)
	}
	if got != 9 {
		t.Fatalf("search_sorted(44, left) = %d, want 9", got)
	}

	got, err = array.SearchSorted(s, scalar.NewInt(dtype.I32, 22), array.Left)
	if err != nil {
		t.Fatalf("SearchSorted: %v", err)
	}
	if got != 2 {
		t.Fatalf("search_sorted(22, left) = %d, want 2", got)
	}
}
