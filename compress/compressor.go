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

package compress

import (
	"github.com/cph-data/vortex/array"
	"github.com/cph-data/vortex/encodings"
)

// Compress runs the sampling search (spec §4.7) on a, optionally guided
// by like (the decision tree from a previous related chunk), using cfg's
// tunables. It returns the possibly-compressed array and the tree of
// decisions made, so a caller compressing a sequence of similar chunks
// can pass the returned tree back in as like for the next one.
func Compress(a array.Array, like *Tree, cfg Config) (array.Array, *Tree, error) {
	return compress(a, like, cfg, 0)
}

func compress(a array.Array, like *Tree, cfg Config, depth int) (array.Array, *Tree, error) {
	// Step 1: depth/empty bail-out.
	if depth >= cfg.MaxDepth || a.Len() == 0 {
		return a, &Tree{}, nil
	}

	// Step 2: mandatory constant short-circuit, must precede sampling.
	if cfg.isEnabled(array.IDConstant) && encodings.CanCompressConstant(a) {
		out, err := encodings.CompressConstant(a)
		if err != nil {
			return nil, nil, err
		}
		return out, &Tree{Encoding: out.Encoding()}, nil
	}

	// Step 3: reuse `like` if its root still applies, skipping sampling.
	if like != nil && like.Encoding != nil && array.CanCompress(like.Encoding.ID(), a) {
		out, err := array.Compress(like.Encoding.ID(), a)
		if err == nil {
			return recurseChildren(out, like, cfg, depth)
		}
		// Failing the like hint just falls through to the normal search
		// (failure semantics: ineligible for this call, not fatal).
	}

	// Step 4: collect candidates.
	var candidateIDs []array.EncodingID
	for _, id := range array.Candidates() {
		if !cfg.isEnabled(id) {
			continue
		}
		if !array.CanCompress(id, a) {
			continue
		}
		candidateIDs = append(candidateIDs, id)
	}
	if len(candidateIDs) == 0 {
		return a, &Tree{}, nil
	}

	// Step 5: build the sample once, shared across every candidate.
	sampleSize, sampleCount := cfg.SampleSize, cfg.SampleCount
	if sampleSize <= 0 {
		sampleSize = DefaultConfig().SampleSize
	}
	if sampleCount <= 0 {
		sampleCount = DefaultConfig().SampleCount
	}
	sample, err := buildSample(a, sampleSize, sampleCount)
	if err != nil {
		return nil, nil, err
	}

	// Step 6: measure each candidate's compression ratio on the sample,
	// discarding errors for this call only (failure semantics) and any
	// ratio >= 1.0.
	var bestID array.EncodingID
	bestRatio := 1.0
	found := false
	for _, id := range candidateIDs { // candidateIDs is ascending by id (array.Candidates' contract)
		compressed, err := array.Compress(id, sample)
		if err != nil {
			continue
		}
		ratio := float64(compressed.Nbytes()) / float64(sample.Nbytes()+1)
		if ratio >= 1.0 {
			continue
		}
		if !found || ratio < bestRatio {
			bestRatio, bestID, found = ratio, id, true
		}
	}

	// Step 7: nothing helped.
	if !found {
		return a, &Tree{}, nil
	}

	// Step 8: compress the full array with the winner.
	out, err := array.Compress(bestID, a)
	if err != nil {
		return nil, nil, err
	}
	if cfg.MaxCost > 0 && out.Nbytes() > cfg.MaxCost {
		return a, &Tree{}, nil
	}

	return recurseChildren(out, like, cfg, depth)
}

// recurseChildren walks out's children (spec §4.7 step 9), compressing
// each with depth+1 and the matching like subtree if any. Only encodings
// implementing array.Rebuildable get their children actually swapped in
// (preserving the immutable-value contract instead of mutating the slice
// Children() returned); other encodings still report the decision subtree
// even though the child compression result isn't wired back in.
func recurseChildren(out array.Array, like *Tree, cfg Config, depth int) (array.Array, *Tree, error) {
	tree := &Tree{Encoding: out.Encoding()}
	children := out.Children()
	if len(children) == 0 {
		return out, tree, nil
	}
	compressedChildren := make([]array.Array, len(children))
	tree.Children = make([]*Tree, len(children))
	for i := range children {
		childLike := like.child(i)
		compChild, childTree, err := compress(children[i], childLike, cfg, depth+1)
		if err != nil {
			return nil, nil, err
		}
		compressedChildren[i] = compChild
		tree.Children[i] = childTree
	}
	if rb, ok := out.(array.Rebuildable); ok {
		return rb.WithChildren(compressedChildren), tree, nil
	}
	return out, tree, nil
}
