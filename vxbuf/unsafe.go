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

package vxbuf

import "unsafe"

// uintptrOf returns the address of b's first byte, used only to check/
// compute alignment. Same unsafe-pointer-arithmetic idiom as the teacher's
// storage-int.go/storage-float.go, which reinterpret a []byte as a typed
// slice via unsafe.Slice(&backing[0], n) -- here it runs the other
// direction, just reading an address rather than reinterpreting a type.
func uintptrOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

// TypedView reinterprets buf's bytes as a slice of T without copying, the
// same cast storage-int.go/storage-float.go perform when loading a
// serialized chunk back into []uint64/[]float64. Callers are responsible
// for only using this with T whose size evenly divides buf.Len().
func TypedView[T any](buf Buffer) []T {
	bs := buf.Bytes()
	if len(bs) == 0 {
		return nil
	}
	var zero T
	width := int(unsafe.Sizeof(zero))
	n := len(bs) / width
	return unsafe.Slice((*T)(unsafe.Pointer(&bs[0])), n)
}
