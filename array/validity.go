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

// ValidityKind distinguishes the four states a column's null mask can be
// in (spec §3 Validity). The three degenerate states (NonNullable,
// AllValid, AllInvalid) let an all-present or all-null column skip
// carrying a bool array entirely, the same shortcut the teacher's
// StorageFloat takes by using a single NaN sentinel instead of a
// separate mask when it can.
type ValidityKind uint8

const (
	// NonNullable means the dtype itself forbids nulls; IsValid is always
	// true and there is no mask to consult.
	NonNullable ValidityKind = iota
	// AllValid means the dtype allows nulls but this array has none.
	AllValid
	// AllInvalid means every logical value is null.
	AllInvalid
	// ValidityArray means validity varies per-element and is tracked by a
	// child bool Array (true = valid).
	ValidityArray
)

// Validity is a column's null mask, one of the four ValidityKind states.
type Validity struct {
	kind ValidityKind
	arr  Array
}

func NewNonNullable() Validity { return Validity{kind: NonNullable} }
func NewAllValid() Validity    { return Validity{kind: AllValid} }
func NewAllInvalid() Validity  { return Validity{kind: AllInvalid} }

// NewValidityArray wraps a non-nullable bool Array as a per-element mask.
func NewValidityArray(boolArr Array) Validity {
	return Validity{kind: ValidityArray, arr: boolArr}
}

func (v Validity) Kind() ValidityKind { return v.kind }

// BoolArray returns the backing bool array; only meaningful when
// Kind() == ValidityArray.
func (v Validity) BoolArray() Array { return v.arr }

// IsValid reports whether the logical element at i is non-null.
func (v Validity) IsValid(i int) bool {
	switch v.kind {
	case NonNullable, AllValid:
		return true
	case AllInvalid:
		return false
	case ValidityArray:
		s, err := ScalarAt(v.arr, i)
		if err != nil {
			return false
		}
		return !s.IsNull() && s.Bool()
	default:
		return true
	}
}

// NullCount counts nulls among the first length logical elements.
func (v Validity) NullCount(length int) int {
	switch v.kind {
	case NonNullable, AllValid:
		return 0
	case AllInvalid:
		return length
	case ValidityArray:
		n := 0
		for i := 0; i < length; i++ {
			if !v.IsValid(i) {
				n++
			}
		}
		return n
	default:
		return 0
	}
}

// Slice narrows a Validity to a logical sub-window, the same way Slice
// narrows the Array it belongs to.
func (v Validity) Slice(offset, length int) Validity {
	switch v.kind {
	case ValidityArray:
		sub, err := Slice(v.arr, offset, offset+length)
		if err != nil {
			return v
		}
		return Validity{kind: ValidityArray, arr: sub}
	default:
		return v
	}
}
