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

package scalar

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cph-data/vortex/dtype"
	"github.com/cph-data/vortex/vxerr"
)

// Wire tags. Self-describing: a scalar's wire form carries enough of its
// DType (kind, ptype, null flag) to decode its value without an external
// schema, per spec §6 ("Scalar wire form: a self-describing compact
// encoding"); struct field names and extension metadata are not carried
// (see ReadFrom). Mirrors the magic-byte
// convention the teacher uses throughout storage/storage-*.go Serialize.
const (
	wireNull uint8 = iota
	wireBool
	wirePrimitive
	wireUtf8
	wireBinary
	wireStruct
	wireList
	wireExtension
)

var ptypeWire = map[dtype.PType]uint8{
	dtype.U8: 0, dtype.U16: 1, dtype.U32: 2, dtype.U64: 3,
	dtype.I8: 4, dtype.I16: 5, dtype.I32: 6, dtype.I64: 7,
	dtype.F16: 8, dtype.F32: 9, dtype.F64: 10,
}
var wirePtype = func() map[uint8]dtype.PType {
	m := make(map[uint8]dtype.PType, len(ptypeWire))
	for p, w := range ptypeWire {
		m[w] = p
	}
	return m
}()

// WriteTo serializes s in the compact self-describing form spec §6 asks
// for. It never returns a partial write on success.
func (s Scalar) WriteTo(w io.Writer) error {
	var nullByte uint8
	if s.null {
		nullByte = 1
	}
	switch s.dt.Kind() {
	case dtype.KindNull:
		return writeAll(w, wireNull, nullByte)
	case dtype.KindBool:
		var v uint8
		if s.b {
			v = 1
		}
		return writeAll(w, wireBool, nullByte, v)
	case dtype.KindPrimitive:
		if err := writeAll(w, wirePrimitive, nullByte, ptypeWire[s.dt.PType()]); err != nil {
			return err
		}
		return binary.Write(w, binary.LittleEndian, s.u)
	case dtype.KindUtf8, dtype.KindBinary:
		tag := uint8(wireUtf8)
		if s.dt.Kind() == dtype.KindBinary {
			tag = wireBinary
		}
		if err := writeAll(w, tag, nullByte); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(s.bytes))); err != nil {
			return err
		}
		_, err := w.Write(s.bytes)
		return err
	case dtype.KindStruct:
		if err := writeAll(w, wireStruct, nullByte); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(s.fields))); err != nil {
			return err
		}
		for _, f := range s.fields {
			if err := f.WriteTo(w); err != nil {
				return err
			}
		}
		return nil
	case dtype.KindList:
		if err := writeAll(w, wireList, nullByte); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(s.list))); err != nil {
			return err
		}
		for _, it := range s.list {
			if err := it.WriteTo(w); err != nil {
				return err
			}
		}
		return nil
	case dtype.KindExtension:
		if err := writeAll(w, wireExtension, nullByte); err != nil {
			return err
		}
		if err := writeString(w, s.dt.ExtensionID()); err != nil {
			return err
		}
		if s.inner == nil {
			return vxerr.New("scalar.WriteTo", vxerr.SerdeError, "extension scalar missing storage value")
		}
		return s.inner.WriteTo(w)
	default:
		return vxerr.New("scalar.WriteTo", vxerr.SerdeError, "unknown dtype kind %v", s.dt.Kind())
	}
}

// ReadFrom decodes a scalar previously written by WriteTo. The caller must
// already know (or not care about) the surrounding DType context; the wire
// form is fully self-describing for primitive/utf8/binary/bool/null, and
// reconstructs struct/list/extension shape from the stream itself (field
// names are not carried for struct/list members, nor metadata for
// extensions, which decode with nil metadata -- those require a DType
// from the schema side, consistent with spec §6 treating the full schema
// as an external, file-format concern).
func ReadFrom(r io.Reader) (Scalar, error) {
	var tag, nullByte uint8
	if err := binary.Read(r, binary.LittleEndian, &tag); err != nil {
		return Scalar{}, vxerr.Wrap("scalar.ReadFrom", vxerr.SerdeError, err, "reading tag")
	}
	if err := binary.Read(r, binary.LittleEndian, &nullByte); err != nil {
		return Scalar{}, vxerr.Wrap("scalar.ReadFrom", vxerr.SerdeError, err, "reading null flag")
	}
	isNull := nullByte != 0
	switch tag {
	case wireNull:
		return Null(dtype.Null()), nil
	case wireBool:
		var v uint8
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return Scalar{}, err
		}
		if isNull {
			return Null(dtype.Bool(true)), nil
		}
		return NewBool(v != 0), nil
	case wirePrimitive:
		var pw uint8
		if err := binary.Read(r, binary.LittleEndian, &pw); err != nil {
			return Scalar{}, err
		}
		p, ok := wirePtype[pw]
		if !ok {
			return Scalar{}, vxerr.New("scalar.ReadFrom", vxerr.SerdeError, "unknown ptype wire tag %d", pw)
		}
		var bits uint64
		if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
			return Scalar{}, err
		}
		if isNull {
			return Null(dtype.Primitive(p, true)), nil
		}
		return NewPrimitive(p, bits), nil
	case wireUtf8, wireBinary:
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return Scalar{}, err
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return Scalar{}, err
		}
		if tag == wireUtf8 {
			if isNull {
				return Null(dtype.Utf8(true)), nil
			}
			return NewUtf8(string(buf)), nil
		}
		if isNull {
			return Null(dtype.Binary(true)), nil
		}
		return NewBinary(buf), nil
	case wireStruct:
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return Scalar{}, err
		}
		fields := make([]Scalar, n)
		fieldTypes := make([]dtype.Field, n)
		for i := range fields {
			f, err := ReadFrom(r)
			if err != nil {
				return Scalar{}, err
			}
			fields[i] = f
			fieldTypes[i] = dtype.Field{Name: fmt.Sprintf("f%d", i), Type: f.DType()}
		}
		dt := dtype.Struct(fieldTypes, isNull)
		return NewStruct(dt, fields), nil
	case wireList:
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return Scalar{}, err
		}
		items := make([]Scalar, n)
		var elem dtype.DType
		for i := range items {
			it, err := ReadFrom(r)
			if err != nil {
				return Scalar{}, err
			}
			items[i] = it
			elem = it.DType()
		}
		return NewList(dtype.List(elem, isNull), items), nil
	case wireExtension:
		id, err := readString(r)
		if err != nil {
			return Scalar{}, err
		}
		inner, err := ReadFrom(r)
		if err != nil {
			return Scalar{}, err
		}
		dt := dtype.Extension(id, inner.DType(), nil)
		return NewExtension(dt, inner), nil
	default:
		return Scalar{}, vxerr.New("scalar.ReadFrom", vxerr.SerdeError, "unknown scalar wire tag %d", tag)
	}
}

func writeAll(w io.Writer, bs ...uint8) error {
	_, err := w.Write(bs)
	return err
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
