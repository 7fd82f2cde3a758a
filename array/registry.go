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

// Package array implements the recursive array/encoding tree (spec §3
// Array, §4 capability-based polymorphism). An Array is either a Data node
// (owns its encoding's buffers/children) or a View (a borrowed logical
// window over another Array); every encoding registers itself here by ID,
// the same way the teacher registers scm builtins in storage.Init rather
// than wiring every call site to a concrete type by hand.
package array

import "sync"

// EncodingID is the stable 16-bit identifier every encoding registers
// under, used on the wire and as the registry/kernel dispatch key.
type EncodingID uint16

const (
	IDNull EncodingID = iota
	IDBool
	IDPrimitive
	IDVarBin
	IDVarBinView
	IDStruct
	IDList
	IDChunked
	IDConstant
	IDRunEnd
	IDDictionary
	IDBitPacked
	IDFrameOfReference
	IDZigZag
	IDALP
	IDALPRD
	IDSparse
	IDDateTimeParts
	IDFSST
	IDByteBool
)

// Encoding is the capability every array variant implements. Canonicalize
// must produce an array built only from the "flat" encodings (Null, Bool,
// Primitive, VarBin, VarBinView, Struct, List, Chunked) -- for an encoding
// that already is flat, Canonicalize is the identity.
type Encoding interface {
	ID() EncodingID
	Name() string
	Canonicalize(a Array) (Array, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[EncodingID]Encoding{}
)

// Register adds an encoding to the global registry, keyed by its ID.
// Encodings call this from an init() func, mirroring storage.Init's
// registration of builtins into the scm environment.
func Register(e Encoding) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[e.ID()] = e
}

// Lookup finds a previously registered encoding by ID.
func Lookup(id EncodingID) (Encoding, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := registry[id]
	return e, ok
}
