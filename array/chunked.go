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

	"github.com/cph-data/vortex/dtype"
	"github.com/cph-data/vortex/scalar"
	"github.com/cph-data/vortex/stats"
)

type chunkedEncoding struct{}

func (chunkedEncoding) ID() EncodingID { return IDChunked }
func (chunkedEncoding) Name() string   { return "chunked" }

// Canonicalize recurses into every chunk -- a chunk may itself be
// compressed (RunEnd, Dictionary, ...), and invariant 4 ("canonicalize
// is total") requires the whole tree to bottom out in flat encodings,
// not just the outermost ChunkedArray node.
func (chunkedEncoding) Canonicalize(a Array) (Array, error) {
	c := a.(*ChunkedArray)
	canonChunks := make([]Array, len(c.chunks))
	changed := false
	for i, chunk := range c.chunks {
		canon, err := Canonicalize(chunk)
		if err != nil {
			return nil, err
		}
		canonChunks[i] = canon
		if canon != chunk {
			changed = true
		}
	}
	if !changed {
		return a, nil
	}
	return NewChunked(c.dt, canonChunks), nil
}

var theChunkedEncoding Encoding = chunkedEncoding{}

// ChunkedArray concatenates a sequence of same-dtype arrays logically,
// without copying any of them, addressed by a prefix-sum of chunk
// lengths and a binary search -- the same find_chunk-over-chunk_ends
// technique the teacher's shard/partition lookups use for locating a row
// within a table's shard list.
type ChunkedArray struct {
	dt        dtype.DType
	chunks    []Array
	chunkEnds []int // length len(chunks)+1, chunkEnds[0] == 0
	st        *stats.Set
}

func NewChunked(dt dtype.DType, chunks []Array) *ChunkedArray {
	ends := make([]int, len(chunks)+1)
	for i, c := range chunks {
		ends[i+1] = ends[i] + c.Len()
	}
	a := &ChunkedArray{dt: dt, chunks: chunks, chunkEnds: ends}
	a.st = stats.NewSet(func(k stats.Kind) (scalar.Scalar, bool) {
		if k != stats.NullCount {
			return scalar.Scalar{}, false
		}
		var total int64
		for _, c := range chunks {
			v, ok := c.Stats().GetOrCompute(stats.NullCount)
			if !ok {
				return scalar.Scalar{}, false
			}
			total += v.Int()
		}
		return scalar.NewInt(dtype.I64, total), true
	})
	return a
}

// findChunk returns the index of the chunk containing logical index i,
// and i's offset within that chunk.
func findChunk(ends []int, i int) (chunkIdx, localIdx int) {
	// ends[0..len-1] are chunk start offsets; search for the last start <= i.
	idx := sort.Search(len(ends)-1, func(k int) bool { return ends[k+1] > i })
	return idx, i - ends[idx]
}

func (a *ChunkedArray) DType() dtype.DType { return a.dt }
func (a *ChunkedArray) Len() int           { return a.chunkEnds[len(a.chunkEnds)-1] }
func (a *ChunkedArray) Encoding() Encoding  { return theChunkedEncoding }
func (a *ChunkedArray) Nbytes() int64 {
	var n int64
	for _, c := range a.chunks {
		n += c.Nbytes()
	}
	return n
}

// Validity always reports every logical element present: a ChunkedArray
// never carries its own mask, it defers to each chunk's own Validity when
// ScalarAt recurses into that chunk. This is not a claim that nulls don't
// exist -- it only governs the outer dispatcher's pre-kernel null
// short-circuit, which the per-chunk recursive ScalarAt call re-checks
// correctly one level down.
func (a *ChunkedArray) Validity() Validity { return NewAllValid() }
func (a *ChunkedArray) Stats() *stats.Set  { return a.st }
func (a *ChunkedArray) Children() []Array  { return a.chunks }
func (a *ChunkedArray) IsView() bool       { return false }

func init() {
	RegisterScalarAt(IDChunked, func(arr Array, i int) (scalar.Scalar, error) {
		a := arr.(*ChunkedArray)
		idx, local := findChunk(a.chunkEnds, i)
		return ScalarAt(a.chunks[idx], local)
	})
	RegisterSlice(IDChunked, func(arr Array, start, stop int) (Array, error) {
		a := arr.(*ChunkedArray)
		startIdx, startLocal := findChunk(a.chunkEnds, start)
		endIdx, endLocal := findChunk(a.chunkEnds, stop-1)
		if startIdx == endIdx {
			c, err := Slice(a.chunks[startIdx], startLocal, endLocal+1)
			if err != nil {
				return nil, err
			}
			return NewChunked(a.dt, []Array{c}), nil
		}
		out := make([]Array, 0, endIdx-startIdx+1)
		first, err := Slice(a.chunks[startIdx], startLocal, a.chunks[startIdx].Len())
		if err != nil {
			return nil, err
		}
		out = append(out, first)
		for k := startIdx + 1; k < endIdx; k++ {
			out = append(out, a.chunks[k])
		}
		last, err := Slice(a.chunks[endIdx], 0, endLocal+1)
		if err != nil {
			return nil, err
		}
		out = append(out, last)
		return NewChunked(a.dt, out), nil
	})
	// Take groups indices by the chunk they fall in, takes within each
	// chunk, then concatenates (spec §4.8), preserving the order of the
	// original indices argument even though grouping only merges
	// contiguous runs that land in the same chunk.
	RegisterTake(IDChunked, func(arr Array, indices []int) (Array, error) {
		a := arr.(*ChunkedArray)
		if len(indices) == 0 {
			return NewChunked(a.dt, nil), nil
		}
		var out []Array
		i := 0
		for i < len(indices) {
			chunkIdx, local := findChunk(a.chunkEnds, indices[i])
			locals := []int{local}
			j := i + 1
			for j < len(indices) {
				ci, l := findChunk(a.chunkEnds, indices[j])
				if ci != chunkIdx {
					break
				}
				locals = append(locals, l)
				j++
			}
			taken, err := Take(a.chunks[chunkIdx], locals)
			if err != nil {
				return nil, err
			}
			out = append(out, taken)
			i = j
		}
		return NewChunked(a.dt, out), nil
	})
}
