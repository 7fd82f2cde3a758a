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
	"github.com/cph-data/vortex/scalar"
	"github.com/cph-data/vortex/stats"
	"github.com/cph-data/vortex/vxerr"
)

type structEncoding struct{}

func (structEncoding) ID() EncodingID { return IDStruct }
func (structEncoding) Name() string   { return "struct" }

// Canonicalize recurses into every field, since a struct built over
// compressed children (RunEnd, Dictionary, ...) is not itself a flat
// array until each field is -- invariant 4 applies to the whole tree,
// not just the outermost node.
func (structEncoding) Canonicalize(a Array) (Array, error) {
	s := a.(*StructArray)
	canonChildren := make([]Array, len(s.children))
	changed := false
	for i, c := range s.children {
		canon, err := Canonicalize(c)
		if err != nil {
			return nil, err
		}
		canonChildren[i] = canon
		if canon != c {
			changed = true
		}
	}
	if !changed {
		return a, nil
	}
	return &StructArray{dt: s.dt, children: canonChildren, length: s.length, validity: s.validity, st: stats.NewSet(nil)}, nil
}

var theStructEncoding Encoding = structEncoding{}

// StructArray holds one child Array per field, all the same length.
// Unlike the generic View fallback, StructArray installs its own Slice
// kernel so that Children() on a sliced struct still returns meaningful,
// independently addressable field arrays instead of an opaque window.
type StructArray struct {
	dt       dtype.DType
	children []Array
	length   int
	validity Validity
	st       *stats.Set
}

func NewStruct(dt dtype.DType, children []Array, validity Validity) (*StructArray, error) {
	if len(children) != len(dt.Fields()) {
		return nil, vxerr.New("NewStruct", vxerr.MismatchedLengths,
			"dtype has %d fields but %d children given", len(dt.Fields()), len(children))
	}
	length := 0
	if len(children) > 0 {
		length = children[0].Len()
		for _, c := range children {
			if c.Len() != length {
				return nil, vxerr.New("NewStruct", vxerr.MismatchedLengths,
					"struct children must share a common length")
			}
		}
	}
	a := &StructArray{dt: dt, children: children, length: length, validity: validity}
	a.st = stats.NewSet(nil)
	return a, nil
}

func (a *StructArray) DType() dtype.DType { return a.dt }
func (a *StructArray) Len() int           { return a.length }
func (a *StructArray) Encoding() Encoding  { return theStructEncoding }
func (a *StructArray) Nbytes() int64 {
	var n int64
	for _, c := range a.children {
		n += c.Nbytes()
	}
	return n
}
func (a *StructArray) Validity() Validity { return a.validity }
func (a *StructArray) Stats() *stats.Set  { return a.st }
func (a *StructArray) Children() []Array  { return a.children }
func (a *StructArray) IsView() bool       { return false }

// Field returns the child array backing field idx -- the struct-array-
// trait accessor spec §4.2 names, backing StructArrayView.Field via
// with_dyn.
func (a *StructArray) Field(idx int) (Array, error) {
	if idx < 0 || idx >= len(a.children) {
		return nil, vxerr.OutOfBoundsErr("StructArray.Field", idx, len(a.children))
	}
	return a.children[idx], nil
}

// Project returns a new StructArray restricted to the named fields, in
// the order given -- the struct-array-trait's project(fields) accessor.
func (a *StructArray) Project(names []string) (*StructArray, error) {
	fields := a.dt.Fields()
	outFields := make([]dtype.Field, len(names))
	outChildren := make([]Array, len(names))
	for i, name := range names {
		idx := -1
		for j, f := range fields {
			if f.Name == name {
				idx = j
				break
			}
		}
		if idx < 0 {
			return nil, vxerr.New("StructArray.Project", vxerr.InvalidArgument, "no field named %q", name)
		}
		outFields[i] = fields[idx]
		outChildren[i] = a.children[idx]
	}
	return NewStruct(dtype.Struct(outFields, a.dt.Nullable()), outChildren, a.validity)
}

func init() {
	RegisterScalarAt(IDStruct, func(arr Array, i int) (scalar.Scalar, error) {
		a := arr.(*StructArray)
		fields := make([]scalar.Scalar, len(a.children))
		for j, c := range a.children {
			s, err := ScalarAt(c, i)
			if err != nil {
				return scalar.Scalar{}, err
			}
			fields[j] = s
		}
		return scalar.NewStruct(a.dt, fields), nil
	})
	RegisterSlice(IDStruct, func(arr Array, start, stop int) (Array, error) {
		a := arr.(*StructArray)
		sliced := make([]Array, len(a.children))
		for j, c := range a.children {
			s, err := Slice(c, start, stop)
			if err != nil {
				return nil, err
			}
			sliced[j] = s
		}
		return &StructArray{
			dt:       a.dt,
			children: sliced,
			length:   stop - start,
			validity: a.validity.Slice(start, stop-start),
			st:       stats.NewSet(nil),
		}, nil
	})
}
