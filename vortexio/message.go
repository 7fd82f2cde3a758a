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

// Package vortexio implements the on-the-wire/on-disk side of the array
// model: self-describing message framing, a file footer/layout scheme,
// pluggable block storage backends, and an optional transport-level block
// codec. None of it is consumed by the core array/encodings/compress
// packages -- it is the external collaborator spec §6 describes, the same
// relationship storage/persistence.go has to the in-memory row cache.
package vortexio

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/google/uuid"

	"github.com/cph-data/vortex/array"
	"github.com/cph-data/vortex/dtype"
	"github.com/cph-data/vortex/vxerr"
)

// eosSentinel marks end-of-stream in place of a message length, so a
// reader looping over ReadMessage knows when to stop without a separate
// count prefix.
const eosSentinel uint32 = 0xFFFFFFFF

// bufferAlign is the alignment every buffer's start offset within a
// message's buffer region is padded to.
const bufferAlign = 64

// wireKind is the closed set of node shapes that actually cross the wire.
// It deliberately does not mirror array.EncodingID one-to-one: every node
// is canonicalized before it is written (see WriteMessage), and
// VarBinView collapses into the same wire shape as VarBin since both are
// just "offsets + bytes" once you stop caring about the inline-prefix
// optimization -- a deliberate simplification documented alongside this
// package's DESIGN.md entry, trading exact encoding-preservation on
// round-trip for a single, simple on-disk shape per dtype kind.
type wireKind uint8

const (
	wireNull wireKind = iota
	wireBool
	wirePrimitive
	wireVarBin
	wireStruct
	wireList
	wireChunked
)

// WriteMessage canonicalizes a and writes it as one framed message: a
// 4-byte little-endian length, a self-describing body (a stream id plus
// recursive node descriptors and dtype/buffer layout), and the buffer
// region the body's offsets point into. This mirrors spec §6's framing
// with a compact encoding/binary body in place of FlatBuffers -- the same
// hand-rolled length-prefixed idiom storage/persistence-s3.go's log
// segments use, generalized from one flat entry to a recursive tree. The
// returned id is a random v4 stream id (github.com/google/uuid's
// uuid.New) a caller can log alongside a footer/layout write to
// correlate which message produced it.
func WriteMessage(w io.Writer, a array.Array) (id string, err error) {
	canon, err := array.Canonicalize(a)
	if err != nil {
		return "", vxerr.Wrap("WriteMessage", vxerr.SerdeError, err, "writing message")
	}
	var body bytes.Buffer
	var region bytes.Buffer
	if err := encodeNode(&body, &region, canon); err != nil {
		return "", vxerr.Wrap("WriteMessage", vxerr.SerdeError, err, "writing message")
	}

	streamID := uuid.New()

	var header bytes.Buffer
	writeUint64(&header, uint64(region.Len()))
	header.Write(streamID[:])
	header.Write(body.Bytes())

	if header.Len() >= int(eosSentinel) {
		return "", vxerr.New("WriteMessage", vxerr.SerdeError, "message body too large to frame (%d bytes)", header.Len())
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(header.Len())); err != nil {
		return "", vxerr.Wrap("WriteMessage", vxerr.SerdeError, err, "writing message")
	}
	if _, err := w.Write(header.Bytes()); err != nil {
		return "", vxerr.Wrap("WriteMessage", vxerr.SerdeError, err, "writing message")
	}
	if _, err := w.Write(region.Bytes()); err != nil {
		return "", vxerr.Wrap("WriteMessage", vxerr.SerdeError, err, "writing message")
	}
	return streamID.String(), nil
}

// WriteEOS writes the end-of-stream sentinel in place of a message length,
// letting ReadMessage callers loop until they see it instead of tracking
// a separate message count.
func WriteEOS(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, eosSentinel)
}

// ReadMessage reads one framed message and reconstructs it as a
// canonical-form array.Array, alongside the stream id WriteMessage
// stamped it with. ok is false (with a nil error) when the sentinel
// end-of-stream length was read instead of a message.
func ReadMessage(r io.Reader) (a array.Array, id string, ok bool, err error) {
	br := r
	var length uint32
	if err := binary.Read(br, binary.LittleEndian, &length); err != nil {
		return nil, "", false, vxerr.Wrap("ReadMessage", vxerr.SerdeError, err, "reading message")
	}
	if length == eosSentinel {
		return nil, "", false, nil
	}
	header := make([]byte, length)
	if _, err := io.ReadFull(br, header); err != nil {
		return nil, "", false, vxerr.Wrap("ReadMessage", vxerr.SerdeError, err, "reading message")
	}
	hr := bytes.NewReader(header)
	regionLen, err := readUint64(hr)
	if err != nil {
		return nil, "", false, vxerr.Wrap("ReadMessage", vxerr.SerdeError, err, "reading message")
	}
	var idBytes [16]byte
	if _, err := io.ReadFull(hr, idBytes[:]); err != nil {
		return nil, "", false, vxerr.Wrap("ReadMessage", vxerr.SerdeError, err, "reading message")
	}
	region := make([]byte, regionLen)
	if _, err := io.ReadFull(br, region); err != nil {
		return nil, "", false, vxerr.Wrap("ReadMessage", vxerr.SerdeError, err, "reading message")
	}
	a, err = decodeNode(hr, region)
	if err != nil {
		return nil, "", false, vxerr.Wrap("ReadMessage", vxerr.SerdeError, err, "reading message")
	}
	return a, uuid.UUID(idBytes).String(), true, nil
}

func writeUint64(b *bytes.Buffer, v uint64) { _ = binary.Write(b, binary.LittleEndian, v) }
func writeUint32(b *bytes.Buffer, v uint32) { _ = binary.Write(b, binary.LittleEndian, v) }
func writeUint8(b *bytes.Buffer, v uint8)   { b.WriteByte(v) }

func readUint64(r *bytes.Reader) (uint64, error) {
	var v uint64
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}
func readUint32(r *bytes.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}
func readUint8(r *bytes.Reader) (uint8, error) { return r.ReadByte() }

func writeBytes(b *bytes.Buffer, p []byte) {
	writeUint32(b, uint32(len(p)))
	b.Write(p)
}

func readBytes(r *bytes.Reader) ([]byte, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}
	return out, nil
}

func writeString(b *bytes.Buffer, s string) { writeBytes(b, []byte(s)) }
func readString(r *bytes.Reader) (string, error) {
	b, err := readBytes(r)
	return string(b), err
}

// appendBuffer pads region up to the next alignment boundary, appends p,
// and returns the (offset, length) pair to record in the node descriptor.
func appendBuffer(region *bytes.Buffer, p []byte) (offset, length uint64) {
	if pad := region.Len() % bufferAlign; pad != 0 {
		region.Write(make([]byte, bufferAlign-pad))
	}
	offset = uint64(region.Len())
	region.Write(p)
	return offset, uint64(len(p))
}

// --- dtype wire form ---

func encodeDType(b *bytes.Buffer, dt dtype.DType) {
	writeUint8(b, uint8(dt.Kind()))
	if dt.Kind() == dtype.KindNull {
		return
	}
	if dt.Nullable() {
		writeUint8(b, 1)
	} else {
		writeUint8(b, 0)
	}
	switch dt.Kind() {
	case dtype.KindPrimitive:
		writeUint8(b, uint8(dt.PType()))
	case dtype.KindStruct:
		fields := dt.Fields()
		writeUint32(b, uint32(len(fields)))
		for _, f := range fields {
			writeString(b, f.Name)
			encodeDType(b, f.Type)
		}
	case dtype.KindList:
		encodeDType(b, dt.Elem())
	case dtype.KindExtension:
		writeString(b, dt.ExtensionID())
		writeBytes(b, dt.ExtensionMetadata())
		encodeDType(b, dt.StorageDType())
	}
}

func decodeDType(r *bytes.Reader) (dtype.DType, error) {
	kindByte, err := readUint8(r)
	if err != nil {
		return dtype.DType{}, err
	}
	kind := dtype.Kind(kindByte)
	if kind == dtype.KindNull {
		return dtype.Null(), nil
	}
	nullableByte, err := readUint8(r)
	if err != nil {
		return dtype.DType{}, err
	}
	nullable := nullableByte != 0
	switch kind {
	case dtype.KindBool:
		return dtype.Bool(nullable), nil
	case dtype.KindUtf8:
		return dtype.Utf8(nullable), nil
	case dtype.KindBinary:
		return dtype.Binary(nullable), nil
	case dtype.KindPrimitive:
		p, err := readUint8(r)
		if err != nil {
			return dtype.DType{}, err
		}
		return dtype.Primitive(dtype.PType(p), nullable), nil
	case dtype.KindStruct:
		n, err := readUint32(r)
		if err != nil {
			return dtype.DType{}, err
		}
		fields := make([]dtype.Field, n)
		for i := range fields {
			name, err := readString(r)
			if err != nil {
				return dtype.DType{}, err
			}
			ft, err := decodeDType(r)
			if err != nil {
				return dtype.DType{}, err
			}
			fields[i] = dtype.Field{Name: name, Type: ft}
		}
		return dtype.Struct(fields, nullable), nil
	case dtype.KindList:
		elem, err := decodeDType(r)
		if err != nil {
			return dtype.DType{}, err
		}
		return dtype.List(elem, nullable), nil
	case dtype.KindExtension:
		id, err := readString(r)
		if err != nil {
			return dtype.DType{}, err
		}
		meta, err := readBytes(r)
		if err != nil {
			return dtype.DType{}, err
		}
		storage, err := decodeDType(r)
		if err != nil {
			return dtype.DType{}, err
		}
		return dtype.Extension(id, storage, meta), nil
	default:
		return dtype.DType{}, vxerr.New("decodeDType", vxerr.SerdeError, "unknown dtype kind tag %d", kindByte)
	}
}

// --- validity wire form: a kind byte, plus a packed bitmap buffer when
// the kind is ValidityArray ---

func encodeValidity(b *bytes.Buffer, region *bytes.Buffer, v array.Validity, length int) {
	writeUint8(b, uint8(v.Kind()))
	if v.Kind() != array.ValidityArray {
		return
	}
	packed := make([]byte, (length+7)/8)
	for i := 0; i < length; i++ {
		if v.IsValid(i) {
			packed[i/8] |= 1 << uint(i%8)
		}
	}
	off, ln := appendBuffer(region, packed)
	writeUint64(b, off)
	writeUint64(b, ln)
}

func decodeValidity(r *bytes.Reader, region []byte, length int) (array.Validity, error) {
	kindByte, err := readUint8(r)
	if err != nil {
		return array.Validity{}, err
	}
	switch array.ValidityKind(kindByte) {
	case array.NonNullable:
		return array.NewNonNullable(), nil
	case array.AllValid:
		return array.NewAllValid(), nil
	case array.AllInvalid:
		return array.NewAllInvalid(), nil
	case array.ValidityArray:
		off, err := readUint64(r)
		if err != nil {
			return array.Validity{}, err
		}
		ln, err := readUint64(r)
		if err != nil {
			return array.Validity{}, err
		}
		packed := region[off : off+ln]
		bits := make([]bool, length)
		for i := 0; i < length; i++ {
			bits[i] = packed[i/8]&(1<<uint(i%8)) != 0
		}
		return array.NewValidityArray(array.NewBool(bits, array.NewNonNullable())), nil
	default:
		return array.Validity{}, vxerr.New("decodeValidity", vxerr.SerdeError, "unknown validity kind tag %d", kindByte)
	}
}

// --- node wire form ---

func encodeNode(b *bytes.Buffer, region *bytes.Buffer, a array.Array) error {
	dt := a.DType()
	length := a.Len()

	switch {
	case dt.IsNull():
		writeUint8(b, uint8(wireNull))
		encodeDType(b, dt)
		writeUint64(b, uint64(length))
		return nil

	case dt.IsBool():
		writeUint8(b, uint8(wireBool))
		encodeDType(b, dt)
		writeUint64(b, uint64(length))
		encodeValidity(b, region, a.Validity(), length)
		bits := make([]byte, (length+7)/8)
		for i := 0; i < length; i++ {
			if !a.Validity().IsValid(i) {
				continue
			}
			s, err := array.ScalarAt(a, i)
			if err != nil {
				return err
			}
			if s.Bool() {
				bits[i/8] |= 1 << uint(i%8)
			}
		}
		off, ln := appendBuffer(region, bits)
		writeUint64(b, off)
		writeUint64(b, ln)
		return nil

	case dt.IsPrimitive():
		writeUint8(b, uint8(wirePrimitive))
		encodeDType(b, dt)
		writeUint64(b, uint64(length))
		encodeValidity(b, region, a.Validity(), length)
		width := dt.PType().ByteWidth()
		raw := make([]byte, length*width)
		for i := 0; i < length; i++ {
			if !a.Validity().IsValid(i) {
				continue
			}
			s, err := array.ScalarAt(a, i)
			if err != nil {
				return err
			}
			putRaw(raw, i, width, s.Bits())
		}
		off, ln := appendBuffer(region, raw)
		writeUint64(b, off)
		writeUint64(b, ln)
		return nil

	case dt.IsVarBin():
		writeUint8(b, uint8(wireVarBin))
		encodeDType(b, dt)
		writeUint64(b, uint64(length))
		encodeValidity(b, region, a.Validity(), length)
		offsets := make([]byte, (length+1)*4)
		var data []byte
		for i := 0; i < length; i++ {
			putRaw(offsets, i, 4, uint64(len(data)))
			if a.Validity().IsValid(i) {
				s, err := array.ScalarAt(a, i)
				if err != nil {
					return err
				}
				data = append(data, s.Bytes()...)
			}
		}
		putRaw(offsets, length, 4, uint64(len(data)))
		offOff, offLn := appendBuffer(region, offsets)
		writeUint64(b, offOff)
		writeUint64(b, offLn)
		dataOff, dataLn := appendBuffer(region, data)
		writeUint64(b, dataOff)
		writeUint64(b, dataLn)
		return nil

	case dt.IsStruct():
		writeUint8(b, uint8(wireStruct))
		encodeDType(b, dt)
		writeUint64(b, uint64(length))
		encodeValidity(b, region, a.Validity(), length)
		children := a.Children()
		writeUint32(b, uint32(len(children)))
		for _, c := range children {
			// c is already canonical: WriteMessage canonicalizes the whole
			// tree once up front, and structEncoding.Canonicalize recurses
			// into every field, so no field here can still be compressed.
			if err := encodeNode(b, region, c); err != nil {
				return err
			}
		}
		return nil

	case dt.IsList():
		writeUint8(b, uint8(wireList))
		encodeDType(b, dt)
		writeUint64(b, uint64(length))
		encodeValidity(b, region, a.Validity(), length)
		offsets := make([]byte, (length+1)*4)
		pos := 0
		for i := 0; i < length; i++ {
			putRaw(offsets, i, 4, uint64(pos))
			s, err := array.ScalarAt(a, i)
			if err != nil {
				return err
			}
			if a.Validity().IsValid(i) {
				pos += len(s.ListItems())
			}
		}
		putRaw(offsets, length, 4, uint64(pos))
		offOff, offLn := appendBuffer(region, offsets)
		writeUint64(b, offOff)
		writeUint64(b, offLn)

		// values is already canonical: listEncoding.Canonicalize recurses
		// into it as part of the one top-level Canonicalize in WriteMessage.
		return encodeNode(b, region, a.Children()[0])

	case a.Encoding().ID() == array.IDChunked:
		writeUint8(b, uint8(wireChunked))
		encodeDType(b, dt)
		writeUint64(b, uint64(length))
		chunks := a.Children()
		writeUint32(b, uint32(len(chunks)))
		for _, c := range chunks {
			// c is already canonical: chunkedEncoding.Canonicalize recurses
			// into every chunk as part of the one top-level Canonicalize in
			// WriteMessage.
			if err := encodeNode(b, region, c); err != nil {
				return err
			}
		}
		return nil

	default:
		return vxerr.New("encodeNode", vxerr.SerdeError, "no wire form for dtype kind %v", dt.Kind())
	}
}

func decodeNode(r *bytes.Reader, region []byte) (array.Array, error) {
	kindByte, err := readUint8(r)
	if err != nil {
		return nil, err
	}
	switch wireKind(kindByte) {
	case wireNull:
		if _, err := decodeDType(r); err != nil {
			return nil, err
		}
		length, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		return array.NewNull(int(length)), nil

	case wireBool:
		dt, err := decodeDType(r)
		if err != nil {
			return nil, err
		}
		length64, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		length := int(length64)
		validity, err := decodeValidity(r, region, length)
		if err != nil {
			return nil, err
		}
		off, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		ln, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		bits := region[off : off+ln]
		values := make([]bool, length)
		for i := range values {
			values[i] = bits[i/8]&(1<<uint(i%8)) != 0
		}
		out := array.NewBool(values, validity)
		_ = dt
		return out, nil

	case wirePrimitive:
		dt, err := decodeDType(r)
		if err != nil {
			return nil, err
		}
		length64, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		length := int(length64)
		validity, err := decodeValidity(r, region, length)
		if err != nil {
			return nil, err
		}
		off, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		ln, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		width := dt.PType().ByteWidth()
		raw := region[off : off+ln]
		values := make([]uint64, length)
		for i := range values {
			values[i] = getRaw(raw, i, width)
		}
		return array.NewPrimitive(dt.PType(), values, validity), nil

	case wireVarBin:
		dt, err := decodeDType(r)
		if err != nil {
			return nil, err
		}
		length64, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		length := int(length64)
		validity, err := decodeValidity(r, region, length)
		if err != nil {
			return nil, err
		}
		offOff, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		offLn, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		dataOff, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		dataLn, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		offsets := region[offOff : offOff+offLn]
		data := region[dataOff : dataOff+dataLn]
		values := make([][]byte, length)
		for i := range values {
			start := getRaw(offsets, i, 4)
			stop := getRaw(offsets, i+1, 4)
			values[i] = data[start:stop]
		}
		return array.NewVarBin(dt, values, validity), nil

	case wireStruct:
		dt, err := decodeDType(r)
		if err != nil {
			return nil, err
		}
		length64, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		validity, err := decodeValidity(r, region, int(length64))
		if err != nil {
			return nil, err
		}
		n, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		children := make([]array.Array, n)
		for i := range children {
			c, err := decodeNode(r, region)
			if err != nil {
				return nil, err
			}
			children[i] = c
		}
		out, err := array.NewStruct(dt, children, validity)
		if err != nil {
			return nil, vxerr.Wrap("decodeNode", vxerr.SerdeError, err, "building struct array")
		}
		return out, nil

	case wireList:
		dt, err := decodeDType(r)
		if err != nil {
			return nil, err
		}
		length64, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		length := int(length64)
		validity, err := decodeValidity(r, region, length)
		if err != nil {
			return nil, err
		}
		offOff, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		offLn, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		offsetBytes := region[offOff : offOff+offLn]
		offsets := make([]int, length+1)
		for i := range offsets {
			offsets[i] = int(getRaw(offsetBytes, i, 4))
		}
		values, err := decodeNode(r, region)
		if err != nil {
			return nil, err
		}
		return array.NewList(dt, offsets, values, validity), nil

	case wireChunked:
		dt, err := decodeDType(r)
		if err != nil {
			return nil, err
		}
		if _, err := readUint64(r); err != nil { // length (redundant with chunk lengths' sum)
			return nil, err
		}
		n, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		chunks := make([]array.Array, n)
		for i := range chunks {
			c, err := decodeNode(r, region)
			if err != nil {
				return nil, err
			}
			chunks[i] = c
		}
		return array.NewChunked(dt, chunks), nil

	default:
		return nil, vxerr.New("decodeNode", vxerr.SerdeError, "unknown wire node tag %d", kindByte)
	}
}

func putRaw(b []byte, i, width int, v uint64) {
	off := i * width
	for k := 0; k < width; k++ {
		b[off+k] = byte(v >> (8 * k))
	}
}

func getRaw(b []byte, i, width int) uint64 {
	off := i * width
	var v uint64
	for k := 0; k < width; k++ {
		v |= uint64(b[off+k]) << (8 * k)
	}
	return v
}
