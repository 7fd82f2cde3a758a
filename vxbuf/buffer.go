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

// Package vxbuf implements the owned, aligned, immutable byte buffer that
// backs every Array's primary storage (spec §3 Buffer). Buffers are cheap
// to slice -- a slice just narrows the window into a shared backing
// allocation, the same reinterpret-in-place trick the teacher's
// storage-int.go/storage-float.go use when they cast a []byte read off
// disk into a []uint64/[]float64 via unsafe.Slice, generalized here behind
// a safe, ref-counted handle instead of raw unsafe casts scattered through
// every encoding.
package vxbuf

import (
	"sync/atomic"
)

// Alignment is the minimum alignment every Buffer's backing allocation
// honors. Implementations may widen it (e.g. a 4096-byte mmap page) but
// must never narrow it, per spec §3.
const Alignment = 64

// Allocator is the pluggable allocation strategy behind NewAligned. A
// default aligned allocator is provided (DefaultAllocator); callers that
// want e.g. an arena or mmap-backed allocator implement this.
type Allocator interface {
	// Allocate returns a []byte of at least n bytes whose first byte is
	// aligned to Alignment.
	Allocate(n int) []byte
}

type defaultAllocator struct{}

func (defaultAllocator) Allocate(n int) []byte {
	if n <= 0 {
		return make([]byte, 0)
	}
	raw := make([]byte, n+Alignment-1)
	off := alignOffset(raw)
	return raw[off : off+n]
}

func alignOffset(raw []byte) int {
	if len(raw) == 0 {
		return 0
	}
	addr := uintptrOf(raw)
	rem := addr % Alignment
	if rem == 0 {
		return 0
	}
	return Alignment - int(rem)
}

// DefaultAllocator is the aligned allocator used when no other Allocator
// is supplied.
var DefaultAllocator Allocator = defaultAllocator{}

// refCount is the shared backing allocation. Multiple Buffers may share one
// refCount by slicing into its data at different offsets -- slicing never
// copies.
type refCount struct {
	data []byte
	refs int64
}

// Buffer is an owned, immutable, 64-byte-aligned byte sequence with cheap
// shared slicing (spec §3). The zero Buffer is an empty, valid buffer.
type Buffer struct {
	backing *refCount
	offset  int
	length  int
}

// New allocates a fresh Buffer of n bytes using alloc (DefaultAllocator if
// nil), with contents left zeroed.
func New(n int, alloc Allocator) Buffer {
	if alloc == nil {
		alloc = DefaultAllocator
	}
	data := alloc.Allocate(n)
	rc := &refCount{data: data, refs: 1}
	return Buffer{backing: rc, offset: 0, length: n}
}

// FromBytes copies b into a freshly aligned Buffer. Use this at API
// boundaries where the caller's slice alignment/ownership isn't known.
func FromBytes(b []byte, alloc Allocator) Buffer {
	buf := New(len(b), alloc)
	copy(buf.Bytes(), b)
	return buf
}

// Len returns the buffer's length in bytes.
func (b Buffer) Len() int { return b.length }

// Bytes returns the buffer's contents as a []byte. The returned slice
// aliases the buffer's backing storage; callers must not retain it past
// the buffer's lifetime if they intend to mutate (buffers are meant to be
// immutable once built -- the mutable window only exists during an
// encoding's build() phase, mirroring the teacher's prepare/scan/init/
// build/finish lifecycle where build() is the only phase allowed to write).
func (b Buffer) Bytes() []byte {
	if b.backing == nil {
		return nil
	}
	return b.backing.data[b.offset : b.offset+b.length]
}

// Slice returns a zero-copy sub-buffer covering [start, stop) in bytes.
func (b Buffer) Slice(start, stop int) Buffer {
	if start < 0 || stop < start || stop > b.length {
		panic("vxbuf: slice out of range")
	}
	if b.backing != nil {
		atomic.AddInt64(&b.backing.refs, 1)
	}
	return Buffer{backing: b.backing, offset: b.offset + start, length: stop - start}
}

// IsAligned reports whether the buffer's first byte sits at a 64-byte
// aligned address -- true for any Buffer produced by New/FromBytes, and
// for any Slice of one whose start offset is itself a multiple of
// Alignment. A Slice at any other offset (PrimitiveArray's Slice kernel
// cuts at start*width) is not aligned.
func (b Buffer) IsAligned() bool {
	if b.length == 0 {
		return true
	}
	addr := uintptrOf(b.Bytes())
	return addr%Alignment == 0
}
