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

// Canonicalize decompresses a into one of the flat encodings (Null, Bool,
// Primitive, VarBin, VarBinView, Struct, List, Chunked). Flat encodings
// return themselves unchanged. This is the fallback every compute kernel
// reaches for when it has no specialized implementation for a's own
// encoding -- the same role storage-scmer.go's generic path plays for any
// value shape none of the typed storages claimed during proposeCompression.
func Canonicalize(a Array) (Array, error) {
	if v, ok := a.(*viewArray); ok {
		canon, err := Canonicalize(v.inner)
		if err != nil {
			return nil, err
		}
		return Slice(canon, v.offset, v.offset+v.length)
	}
	return a.Encoding().Canonicalize(a)
}
