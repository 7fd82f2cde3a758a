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

// Package encodings implements the compressed array encodings beyond the
// flat/canonical ones: RunEnd, Dictionary, BitPacked, FrameOfReference,
// ZigZag, ALP, Sparse, DateTimeParts, FSST and ByteBool.
package encodings

// packBits writes values (each already masked to bitWidth bits) tightly
// packed, continuously across the whole buffer -- the same cross-word
// shift-and-OR technique storage-int.go uses for its chunk array, without
// the teacher's separate fixed-size-chunk restart. A real FastLanes
// layout restarts and re-interleaves every 1024 elements for SIMD gather;
// that physical detail is dropped here as a documented simplification
// (see DESIGN.md) since nothing in the array model's testable properties
// depends on the physical lane order, only on round-tripping correctly.
func packBits(values []uint64, bitWidth int) []byte {
	if bitWidth == 0 {
		return nil
	}
	totalBits := len(values) * bitWidth
	out := make([]byte, (totalBits+7)/8)
	bitPos := 0
	for _, v := range values {
		remaining := bitWidth
		for remaining > 0 {
			byteIdx := bitPos / 8
			bitOff := bitPos % 8
			canWrite := 8 - bitOff
			n := remaining
			if n > canWrite {
				n = canWrite
			}
			mask := uint64(1)<<uint(n) - 1
			chunk := v & mask
			out[byteIdx] |= byte(chunk << uint(bitOff))
			v >>= uint(n)
			remaining -= n
			bitPos += n
		}
	}
	return out
}

// unpackBitsAt reads the bitWidth-bit value starting at logical element i.
func unpackBitsAt(buf []byte, bitWidth, i int) uint64 {
	if bitWidth == 0 {
		return 0
	}
	bitPos := i * bitWidth
	var v uint64
	gotBits := 0
	remaining := bitWidth
	for remaining > 0 {
		byteIdx := bitPos / 8
		bitOff := bitPos % 8
		canRead := 8 - bitOff
		n := remaining
		if n > canRead {
			n = canRead
		}
		mask := byte(1)<<uint(n) - 1
		chunk := (buf[byteIdx] >> uint(bitOff)) & mask
		v |= uint64(chunk) << uint(gotBits)
		gotBits += n
		remaining -= n
		bitPos += n
	}
	return v
}

// bitWidthFor returns the number of bits needed to represent max (0 for
// max == 0, matching bits.Len64 semantics the teacher uses in
// storage-int.go's init()).
func bitWidthFor(max uint64) int {
	w := 0
	for max > 0 {
		w++
		max >>= 1
	}
	return w
}
