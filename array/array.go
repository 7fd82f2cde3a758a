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
	"github.com/cph-data/vortex/dtype"
	"github.com/cph-data/vortex/stats"
)

// Array is a node in the recursive encoding tree (spec §3). Concrete
// encodings implement this directly (a "Data" node, owning its buffers and
// children); viewArray implements it too, as a borrowed logical window
// over another Array, the same distinction the teacher draws between a
// column's owned in-memory storage and a read-only slice of it served out
// of the row cache.
//
// Array intentionally does not expose ScalarAt/Slice/Take as methods --
// those are free functions (ScalarAt, Slice, Take below) that dispatch
// through the per-encoding kernel registry and fall back to
// Canonicalize, so a new encoding only has to implement what it can do
// faster than the canonical form.
type Array interface {
	DType() dtype.DType
	Len() int
	Encoding() Encoding
	// Nbytes reports the byte size of the buffers this array (and its
	// children) directly own. A View reports its inner array's size, since
	// the bytes are shared, not duplicated.
	Nbytes() int64
	Validity() Validity
	// Stats returns this array's lazily-populated statistics cache.
	Stats() *stats.Set
	// Children returns the array's child nodes in the encoding tree, or
	// nil for a leaf/opaque encoding.
	Children() []Array
	IsView() bool
}

// Rebuildable is implemented by encodings whose Children() are
// independently meaningful nodes that the sampling compressor may want
// to recompress in place (spec §4.7 step 9). WithChildren returns a new
// array of the same encoding with children swapped in, preserving
// Array's immutable-value contract instead of mutating the Children()
// slice a caller was handed.
type Rebuildable interface {
	WithChildren(children []Array) Array
}
