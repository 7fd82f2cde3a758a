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

import "github.com/cph-data/vortex/array"

// Tree records the decision the compressor made for one array node: the
// encoding reference chosen (nil if the node was left unchanged), plus
// one subtree per child the chosen encoding recurses into. Passing a
// Tree back in as `like` for a related chunk skips the sampling search
// entirely when its root still applies (spec §4.7 step 3).
type Tree struct {
	Encoding array.Encoding
	Children []*Tree
}

func (t *Tree) child(i int) *Tree {
	if t == nil || i >= len(t.Children) {
		return nil
	}
	return t.Children[i]
}
