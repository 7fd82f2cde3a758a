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

package dtype

import "strings"

// Kind discriminates the DType sum type.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindPrimitive
	KindUtf8
	KindBinary
	KindStruct
	KindList
	KindExtension
)

// Field is one named member of a Struct DType. Order is significant.
type Field struct {
	Name string
	Type DType
}

// DType is the logical type of an Array. It is a value type: two DTypes
// built the same way compare equal and hash equal, which is what lets
// Array invariant 2 (child dtype determined by parent encoding) be checked
// with plain equality.
type DType struct {
	kind     Kind
	nullable bool

	ptype PType // KindPrimitive

	fields []Field // KindStruct
	elem   *DType  // KindList

	extID       string // KindExtension
	storage     *DType // KindExtension
	extMetadata []byte // KindExtension, opaque to the core
}

func Null() DType                  { return DType{kind: KindNull} }
func Bool(nullable bool) DType     { return DType{kind: KindBool, nullable: nullable} }
func Utf8(nullable bool) DType     { return DType{kind: KindUtf8, nullable: nullable} }
func Binary(nullable bool) DType   { return DType{kind: KindBinary, nullable: nullable} }

func Primitive(p PType, nullable bool) DType {
	return DType{kind: KindPrimitive, ptype: p, nullable: nullable}
}

func Struct(fields []Field, nullable bool) DType {
	cp := make([]Field, len(fields))
	copy(cp, fields)
	return DType{kind: KindStruct, fields: cp, nullable: nullable}
}

func List(elem DType, nullable bool) DType {
	e := elem
	return DType{kind: KindList, elem: &e, nullable: nullable}
}

// Extension wraps storage with an extension identity. metadata is opaque
// bytes interpreted only by the code handling that extension id
// (scalar/decimal.go reads the vortex.decimal metadata).
func Extension(id string, storage DType, metadata []byte) DType {
	s := storage
	return DType{kind: KindExtension, extID: id, storage: &s, extMetadata: metadata, nullable: storage.nullable}
}

func (d DType) Kind() Kind         { return d.kind }
func (d DType) Nullable() bool     { return d.nullable }
func (d DType) PType() PType       { return d.ptype }
func (d DType) Fields() []Field    { return d.fields }
func (d DType) Elem() DType        { return *d.elem }
func (d DType) ExtensionID() string { return d.extID }
func (d DType) ExtensionMetadata() []byte { return d.extMetadata }
func (d DType) StorageDType() DType { return *d.storage }

func (d DType) IsNull() bool      { return d.kind == KindNull }
func (d DType) IsBool() bool      { return d.kind == KindBool }
func (d DType) IsPrimitive() bool { return d.kind == KindPrimitive }
func (d DType) IsUtf8() bool      { return d.kind == KindUtf8 }
func (d DType) IsBinary() bool    { return d.kind == KindBinary }
func (d DType) IsStruct() bool    { return d.kind == KindStruct }
func (d DType) IsList() bool      { return d.kind == KindList }
func (d DType) IsExtension() bool { return d.kind == KindExtension }

// IsVarBin is a convenience shared by encodings that treat Utf8 and Binary
// identically except for the UTF-8 validity check.
func (d DType) IsVarBin() bool { return d.kind == KindUtf8 || d.kind == KindBinary }

// WithNullable returns a copy of d with nullability set, leaving everything
// else (including nested field nullability) untouched.
func (d DType) WithNullable(nullable bool) DType {
	d2 := d
	d2.nullable = nullable
	return d2
}

// Field looks up a struct field by name.
func (d DType) Field(name string) (DType, bool) {
	for _, f := range d.fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return DType{}, false
}

// Equal implements value equality, recursing into struct/list/extension.
func (d DType) Equal(o DType) bool {
	if d.kind != o.kind || d.nullable != o.nullable {
		return false
	}
	switch d.kind {
	case KindPrimitive:
		return d.ptype == o.ptype
	case KindStruct:
		if len(d.fields) != len(o.fields) {
			return false
		}
		for i := range d.fields {
			if d.fields[i].Name != o.fields[i].Name || !d.fields[i].Type.Equal(o.fields[i].Type) {
				return false
			}
		}
		return true
	case KindList:
		return d.elem.Equal(*o.elem)
	case KindExtension:
		if d.extID != o.extID || !bytesEqual(d.extMetadata, o.extMetadata) {
			return false
		}
		return d.storage.Equal(*o.storage)
	default:
		return true
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// HashKey returns a string suitable as a map key for this DType; String()
// returns the same text, and tests compare it. It is not a stable wire
// format.
func (d DType) HashKey() string {
	var b strings.Builder
	d.writeHashKey(&b)
	return b.String()
}

func (d DType) writeHashKey(b *strings.Builder) {
	switch d.kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString("bool")
	case KindPrimitive:
		b.WriteString("primitive:")
		b.WriteString(d.ptype.String())
	case KindUtf8:
		b.WriteString("utf8")
	case KindBinary:
		b.WriteString("binary")
	case KindStruct:
		b.WriteString("struct{")
		for i, f := range d.fields {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(f.Name)
			b.WriteString(":")
			f.Type.writeHashKey(b)
		}
		b.WriteString("}")
	case KindList:
		b.WriteString("list<")
		d.elem.writeHashKey(b)
		b.WriteString(">")
	case KindExtension:
		b.WriteString("ext:")
		b.WriteString(d.extID)
		b.WriteString("<")
		d.storage.writeHashKey(b)
		b.WriteString(">")
	}
	if d.nullable {
		b.WriteString("?")
	}
}

func (d DType) String() string { return d.HashKey() }
