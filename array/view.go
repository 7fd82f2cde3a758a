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

// viewArray is a borrowed logical window [offset, offset+length) over an
// inner Array. It owns no buffers of its own -- Nbytes, Children and the
// underlying bytes all belong to inner. This is the generic Slice
// fallback any encoding gets for free, the way the teacher's row cache
// hands out index ranges into a shared column without copying.
type viewArray struct {
	inner  Array
	offset int
	length int
}

// NewView builds a View over inner covering [offset, offset+length).
// Viewing a View composes offsets instead of nesting, so a chain of
// slices never grows the tree depth.
func NewView(inner Array, offset, length int) Array {
	if v, ok := inner.(*viewArray); ok {
		return &viewArray{inner: v.inner, offset: v.offset + offset, length: length}
	}
	return &viewArray{inner: inner, offset: offset, length: length}
}

func (v *viewArray) DType() dtype.DType   { return v.inner.DType() }
func (v *viewArray) Len() int             { return v.length }
func (v *viewArray) Encoding() Encoding   { return v.inner.Encoding() }
func (v *viewArray) Nbytes() int64        { return v.inner.Nbytes() }
func (v *viewArray) Validity() Validity   { return v.inner.Validity().Slice(v.offset, v.length) }
func (v *viewArray) Children() []Array    { return nil }
func (v *viewArray) IsView() bool         { return true }

// Stats returns a fresh, empty cache: almost no statistic of the inner
// array carries over unchanged to an arbitrary sub-window (even IsSorted
// only survives slicing, not IsConstant's specific value), so a view
// starts from "unknown" rather than risk serving a stat computed over the
// wrong range.
func (v *viewArray) Stats() *stats.Set { return stats.NewSet(nil) }
