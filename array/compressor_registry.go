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
	"sort"

	"github.com/cph-data/vortex/vxerr"
)

// CanCompressFunc reports whether id's encoding could plausibly compress
// a, cheaply (no sampling, no allocation of the compressed form) -- the
// sampling compressor calls this to build its candidate set before it
// spends any bytes exploring.
type CanCompressFunc func(a Array) bool

// CompressFunc performs the actual one-level compression of a into id's
// encoding. Returning an error marks this candidate ineligible for the
// call that requested it, not globally (the compressor may still try
// other candidates).
type CompressFunc func(a Array) (Array, error)

type compressor struct {
	can CanCompressFunc
	do  CompressFunc
}

// compressorRegistry shares kernelMu (defined in compute.go) rather than
// a mutex of its own -- it's the same "process-global, write-once-at-
// startup" registry discipline as scalarAtKernel/sliceKernel.
var compressorRegistry = map[EncodingID]compressor{}

// RegisterCompressor installs id's candidate-compression hooks. An
// encoding that never wants to be chosen by the sampling compressor (the
// flat/canonical ones) simply never calls this.
func RegisterCompressor(id EncodingID, can CanCompressFunc, do CompressFunc) {
	kernelMu.Lock()
	defer kernelMu.Unlock()
	compressorRegistry[id] = compressor{can: can, do: do}
}

// Candidates returns the EncodingIDs of every registered compressor,
// sorted ascending -- the sampling compressor's tie-break is "smallest
// encoding id", so a stable sorted order is part of its contract, not an
// incidental convenience.
func Candidates() []EncodingID {
	kernelMu.RLock()
	defer kernelMu.RUnlock()
	ids := make([]EncodingID, 0, len(compressorRegistry))
	for id := range compressorRegistry {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CanCompress reports whether id's registered encoding can compress a.
// Returns false for an id with no registered compressor.
func CanCompress(id EncodingID, a Array) bool {
	kernelMu.RLock()
	c, ok := compressorRegistry[id]
	kernelMu.RUnlock()
	if !ok {
		return false
	}
	return c.can(a)
}

// Compress runs id's registered one-level compression of a. Callers must
// have already checked CanCompress (Compress does not re-check).
func Compress(id EncodingID, a Array) (Array, error) {
	kernelMu.RLock()
	c, ok := compressorRegistry[id]
	kernelMu.RUnlock()
	if !ok {
		return nil, vxerr.New("Compress", vxerr.NotImplemented, "no compressor registered for encoding id %d", id)
	}
	return c.do(a)
}
