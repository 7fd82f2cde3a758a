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

package vortexio

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/cph-data/vortex/vxerr"
)

// magic identifies a vortex file; written at the very end so a reader can
// seek from EOF and confirm the file before trusting the footer offsets.
var magic = [8]byte{'V', 'R', 'T', 'X', 'F', 'I', 'L', 'E'}

// footerSize is the fixed trailing byte count: two int64 offsets plus magic.
const footerSize = 8 + 8 + len(magic)

// Footer is the trailing structure every vortex file ends with: where to
// find the schema message and the root layout message. Both offsets are
// absolute, from the start of the file.
type Footer struct {
	SchemaOffset int64
	LayoutOffset int64
}

// WriteFooter appends the footer to w, which must already be positioned at
// the end of the file.
func WriteFooter(w io.Writer, f Footer) error {
	var b bytes.Buffer
	if err := binary.Write(&b, binary.LittleEndian, f.SchemaOffset); err != nil {
		return vxerr.Wrap("WriteFooter", vxerr.SerdeError, err, "writing schema offset")
	}
	if err := binary.Write(&b, binary.LittleEndian, f.LayoutOffset); err != nil {
		return vxerr.Wrap("WriteFooter", vxerr.SerdeError, err, "writing layout offset")
	}
	b.Write(magic[:])
	_, err := w.Write(b.Bytes())
	return err
}

// ReadFooter reads the trailing footerSize bytes from r (whose total size
// is size) and validates the magic sequence.
func ReadFooter(r io.ReaderAt, size int64) (Footer, error) {
	if size < int64(footerSize) {
		return Footer{}, vxerr.New("ReadFooter", vxerr.SerdeError, "file too small (%d bytes) to hold a footer", size)
	}
	buf := make([]byte, footerSize)
	if _, err := r.ReadAt(buf, size-int64(footerSize)); err != nil {
		return Footer{}, vxerr.Wrap("ReadFooter", vxerr.SerdeError, err, "reading footer")
	}
	if !bytes.Equal(buf[16:], magic[:]) {
		return Footer{}, vxerr.New("ReadFooter", vxerr.SerdeError, "bad magic sequence, not a vortex file")
	}
	br := bytes.NewReader(buf[:16])
	var f Footer
	if err := binary.Read(br, binary.LittleEndian, &f.SchemaOffset); err != nil {
		return Footer{}, vxerr.Wrap("ReadFooter", vxerr.SerdeError, err, "reading schema offset")
	}
	if err := binary.Read(br, binary.LittleEndian, &f.LayoutOffset); err != nil {
		return Footer{}, vxerr.Wrap("ReadFooter", vxerr.SerdeError, err, "reading layout offset")
	}
	return f, nil
}

// LayoutKind discriminates the three ways a column's bytes can be
// organized on disk (spec §6), letting a reader prune to exactly the
// column and row range it needs without decoding unrelated bytes.
type LayoutKind uint8

const (
	// LayoutFlat is a byte range holding exactly one array message.
	LayoutFlat LayoutKind = iota
	// LayoutChunked is a sequence of layouts sharing a dtype, read back
	// as one logical ChunkedArray.
	LayoutChunked
	// LayoutColumn is one layout per struct field, in field order.
	LayoutColumn
)

// Layout describes where a column's bytes live without requiring the
// reader to parse any array message it doesn't need. A Flat layout names
// the byte range of its one message directly; Chunked and Column layouts
// recurse instead of pointing at bytes themselves.
type Layout struct {
	Kind     LayoutKind
	Offset   int64 // LayoutFlat only: start of the message's length prefix
	Length   int64 // LayoutFlat only: bytes from Offset through the end of the buffer region
	Children []Layout
}

// WriteLayout serializes l with the same length-prefixed framing
// WriteMessage uses, so layout messages and array messages share one
// reader loop.
func WriteLayout(w io.Writer, l Layout) error {
	var body bytes.Buffer
	encodeLayout(&body, l)
	if body.Len() >= int(eosSentinel) {
		return vxerr.New("WriteLayout", vxerr.SerdeError, "layout message too large to frame (%d bytes)", body.Len())
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(body.Len())); err != nil {
		return vxerr.Wrap("WriteLayout", vxerr.SerdeError, err, "writing layout length")
	}
	_, err := w.Write(body.Bytes())
	return err
}

// ReadLayout reads one length-prefixed layout message.
func ReadLayout(r io.Reader) (Layout, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return Layout{}, vxerr.Wrap("ReadLayout", vxerr.SerdeError, err, "reading layout length")
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Layout{}, vxerr.Wrap("ReadLayout", vxerr.SerdeError, err, "reading layout body")
	}
	return decodeLayout(bytes.NewReader(buf))
}

func encodeLayout(b *bytes.Buffer, l Layout) {
	writeUint8(b, uint8(l.Kind))
	switch l.Kind {
	case LayoutFlat:
		writeUint64(b, uint64(l.Offset))
		writeUint64(b, uint64(l.Length))
	case LayoutChunked, LayoutColumn:
		writeUint32(b, uint32(len(l.Children)))
		for _, c := range l.Children {
			encodeLayout(b, c)
		}
	}
}

func decodeLayout(r *bytes.Reader) (Layout, error) {
	kindByte, err := readUint8(r)
	if err != nil {
		return Layout{}, err
	}
	l := Layout{Kind: LayoutKind(kindByte)}
	switch l.Kind {
	case LayoutFlat:
		off, err := readUint64(r)
		if err != nil {
			return Layout{}, err
		}
		ln, err := readUint64(r)
		if err != nil {
			return Layout{}, err
		}
		l.Offset, l.Length = int64(off), int64(ln)
	case LayoutChunked, LayoutColumn:
		n, err := readUint32(r)
		if err != nil {
			return Layout{}, err
		}
		l.Children = make([]Layout, n)
		for i := range l.Children {
			c, err := decodeLayout(r)
			if err != nil {
				return Layout{}, err
			}
			l.Children[i] = c
		}
	default:
		return Layout{}, vxerr.New("decodeLayout", vxerr.SerdeError, "unknown layout kind tag %d", kindByte)
	}
	return l, nil
}
