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
	"github.com/cph-data/vortex/vxerr"
)

// DTypeView is the trait object family WithDyn hands back (spec §4.2's
// with_dyn capability dispatch): one implementation per DType kind,
// exposing only the operations meaningful for that logical type. Dtype
// is the closed dispatch axis -- every array ends up behind exactly one
// of these -- while encoding stays the open axis, dispatched separately
// through the EncodingID kernel registry the rest of this package uses.
type DTypeView interface {
	// Array returns the canonical array this view wraps.
	Array() Array
}

// NullArrayView is the trait for KindNull; it exposes nothing beyond
// DTypeView since a run of nulls carries no further structure.
type NullArrayView interface {
	DTypeView
}

// BoolArrayView is the trait for KindBool, exposing iteration over
// true-valued positions.
type BoolArrayView interface {
	DTypeView
	TrueIndices() []int
	TrueSlices() [][2]int
}

// PrimitiveArrayView is the trait for KindPrimitive.
type PrimitiveArrayView interface {
	DTypeView
	PType() dtype.PType
}

// VarBinArrayView is the trait for KindUtf8/KindBinary. Byte access
// already goes through ScalarAt; no further capability is meaningful
// beyond the array itself.
type VarBinArrayView interface {
	DTypeView
}

// StructArrayView is the trait for KindStruct.
type StructArrayView interface {
	DTypeView
	Field(idx int) (Array, error)
	Project(names []string) (Array, error)
}

// ListArrayView is the trait for KindList.
type ListArrayView interface {
	DTypeView
	Values() Array
}

// ExtensionArrayView is the trait for KindExtension, exposing the
// underlying storage array the extension wraps.
type ExtensionArrayView interface {
	DTypeView
	Storage() Array
}

type nullView struct{ a Array }

func (v nullView) Array() Array { return v.a }

type boolView struct{ a *BoolArray }

func (v boolView) Array() Array         { return v.a }
func (v boolView) TrueIndices() []int   { return v.a.TrueIndices() }
func (v boolView) TrueSlices() [][2]int { return v.a.TrueSlices() }

type primitiveView struct{ a *PrimitiveArray }

func (v primitiveView) Array() Array       { return v.a }
func (v primitiveView) PType() dtype.PType { return v.a.PType() }

type varBinView struct{ a Array }

func (v varBinView) Array() Array { return v.a }

type structView struct{ a *StructArray }

func (v structView) Array() Array                       { return v.a }
func (v structView) Field(idx int) (Array, error)       { return v.a.Field(idx) }
func (v structView) Project(names []string) (Array, error) {
	return v.a.Project(names)
}

type listView struct{ a *ListArray }

func (v listView) Array() Array  { return v.a }
func (v listView) Values() Array { return v.a.values }

type extensionView struct{ a Array }

func (v extensionView) Array() Array { return v.a }
func (v extensionView) Storage() Array {
	children := v.a.Children()
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

// WithDyn canonicalizes a and hands f a DTypeView typed to a's DType
// variant. Canonicalizing first means every view sees the flat shape
// its methods assume (a StructArrayView always wraps a *StructArray,
// never some not-yet-decompressed encoding claiming to be a struct).
func WithDyn(a Array, f func(DTypeView) error) error {
	canon, err := Canonicalize(a)
	if err != nil {
		return err
	}
	switch canon.DType().Kind() {
	case dtype.KindNull:
		return f(nullView{canon})
	case dtype.KindBool:
		return f(boolView{canon.(*BoolArray)})
	case dtype.KindPrimitive:
		return f(primitiveView{canon.(*PrimitiveArray)})
	case dtype.KindUtf8, dtype.KindBinary:
		return f(varBinView{canon})
	case dtype.KindStruct:
		return f(structView{canon.(*StructArray)})
	case dtype.KindList:
		return f(listView{canon.(*ListArray)})
	case dtype.KindExtension:
		return f(extensionView{canon})
	default:
		return vxerr.New("WithDyn", vxerr.InvalidDType, "unhandled dtype kind")
	}
}
