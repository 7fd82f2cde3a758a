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
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"

	"github.com/cph-data/vortex/vxerr"
)

// CodecID identifies the transport-level block codec applied to a
// message's buffer region -- a layer entirely independent of the
// structural Array encoding the compressor chooses (spec §6: "independent
// of the structural Array encoding"), the same way Parquet/ORC compress
// pages with a generic codec underneath whatever column encoding they use.
type CodecID uint8

const (
	CodecNone CodecID = iota
	CodecLZ4
	CodecXZ
)

// Codec compresses and decompresses a block of bytes. decodedLen is
// supplied by the caller (the uncompressed block's length), so Decode
// never has to guess an output size; neither the message framing nor the
// Layout in this package records it, and WriteMessage/ReadMessage apply
// no codec themselves.
type Codec interface {
	ID() CodecID
	Encode(src []byte) ([]byte, error)
	Decode(src []byte, decodedLen int) ([]byte, error)
}

// LookupCodec returns the Codec for id, or an error for an unknown id.
func LookupCodec(id CodecID) (Codec, error) {
	switch id {
	case CodecNone:
		return noneCodec{}, nil
	case CodecLZ4:
		return lz4Codec{}, nil
	case CodecXZ:
		return xzCodec{}, nil
	default:
		return nil, vxerr.New("LookupCodec", vxerr.InvalidArgument, "unknown codec id %d", id)
	}
}

type noneCodec struct{}

func (noneCodec) ID() CodecID { return CodecNone }
func (noneCodec) Encode(src []byte) ([]byte, error) {
	return append([]byte(nil), src...), nil
}
func (noneCodec) Decode(src []byte, decodedLen int) ([]byte, error) {
	return append([]byte(nil), src...), nil
}

// lz4Codec is the fast transport codec: modest ratio, backed by
// pierrec/lz4/v4's block API (no streaming framing overhead, since the
// caller already knows both lengths from the surrounding message).
type lz4Codec struct{}

func (lz4Codec) ID() CodecID { return CodecLZ4 }

func (lz4Codec) Encode(src []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(src)))
	var c lz4.Compressor
	n, err := c.CompressBlock(src, dst)
	if err != nil {
		return nil, vxerr.Wrap("lz4Codec.Encode", vxerr.SerdeError, err, "compressing block")
	}
	if n == 0 {
		// incompressible input: lz4 declines rather than expanding it.
		return append([]byte(nil), src...), nil
	}
	return dst[:n], nil
}

func (lz4Codec) Decode(src []byte, decodedLen int) ([]byte, error) {
	dst := make([]byte, decodedLen)
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		// CompressBlock's "incompressible, stored raw" escape hatch means
		// src may equal the original bytes verbatim.
		if len(src) == decodedLen {
			copy(dst, src)
			return dst, nil
		}
		return nil, vxerr.Wrap("lz4Codec.Decode", vxerr.SerdeError, err, "decompressing block")
	}
	return dst[:n], nil
}

// xzCodec trades lz4's speed for a meaningfully better ratio, for callers
// that opt into it explicitly (e.g. cold archival storage).
type xzCodec struct{}

func (xzCodec) ID() CodecID { return CodecXZ }

func (xzCodec) Encode(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, vxerr.Wrap("xzCodec.Encode", vxerr.SerdeError, err, "opening xz writer")
	}
	if _, err := w.Write(src); err != nil {
		return nil, vxerr.Wrap("xzCodec.Encode", vxerr.SerdeError, err, "writing xz stream")
	}
	if err := w.Close(); err != nil {
		return nil, vxerr.Wrap("xzCodec.Encode", vxerr.SerdeError, err, "closing xz stream")
	}
	return buf.Bytes(), nil
}

func (xzCodec) Decode(src []byte, decodedLen int) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, vxerr.Wrap("xzCodec.Decode", vxerr.SerdeError, err, "opening xz reader")
	}
	dst := make([]byte, decodedLen)
	if _, err := io.ReadFull(r, dst); err != nil {
		return nil, vxerr.Wrap("xzCodec.Decode", vxerr.SerdeError, err, "reading xz stream")
	}
	return dst, nil
}
