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

package encodings

import (
	"sort"

	"github.com/cph-data/vortex/array"
	"github.com/cph-data/vortex/dtype"
	"github.com/cph-data/vortex/scalar"
	"github.com/cph-data/vortex/stats"
	"github.com/cph-data/vortex/vxerr"
)

const runEndID array.EncodingID = array.IDRunEnd

type runEndEncoding struct{}

func (runEndEncoding) ID() array.EncodingID { return runEndID }
func (runEndEncoding) Name() string         { return "run_end" }

func (runEndEncoding) Canonicalize(a array.Array) (array.Array, error) {
	r := a.(*RunEndArray)
	items := make([]scalar.Scalar, r.length)
	prev := 0
	for run := 0; run < r.ends.Len(); run++ {
		endS, err := array.ScalarAt(r.ends, run)
		if err != nil {
			return nil, err
		}
		end := int(endS.Int())
		v, err := array.ScalarAt(r.values, run)
		if err != nil {
			return nil, err
		}
		for i := prev; i < end; i++ {
			items[i] = v
		}
		prev = end
	}
	return materializeScalars(r.DType(), items, r.Validity())
}

var theRunEndEncoding array.Encoding = runEndEncoding{}

// RunEndArray is run-length encoding: ends holds the exclusive cumulative
// end index of each run (strictly increasing, search_sorted-able),
// values holds one value per run. Grounded on the teacher's arithmetic
// run detection in StorageSeq, generalized from "arithmetic sequence of
// ints" to "any repeated value".
type RunEndArray struct {
	ends   array.Array // integer ends, len == number of runs
	values array.Array // one value per run, same length as ends
	length int
	st     *stats.Set
}

func NewRunEnd(ends, values array.Array, length int) (*RunEndArray, error) {
	if ends.Len() != values.Len() {
		return nil, vxerr.New("NewRunEnd", vxerr.MismatchedLengths, "ends and values must have equal length")
	}
	a := &RunEndArray{ends: ends, values: values, length: length}
	a.st = stats.NewSet(func(k stats.Kind) (scalar.Scalar, bool) {
		if k == stats.RunCount {
			return scalar.NewInt(dtype.I64, int64(ends.Len())), true
		}
		return scalar.Scalar{}, false
	})
	return a, nil
}

func (a *RunEndArray) DType() dtype.DType { return a.values.DType() }
func (a *RunEndArray) Len() int           { return a.length }
func (a *RunEndArray) Encoding() array.Encoding { return theRunEndEncoding }
func (a *RunEndArray) Nbytes() int64      { return a.ends.Nbytes() + a.values.Nbytes() }
func (a *RunEndArray) Validity() array.Validity { return a.values.Validity() }
func (a *RunEndArray) Stats() *stats.Set  { return a.st }
func (a *RunEndArray) Children() []array.Array { return []array.Array{a.ends, a.values} }
func (a *RunEndArray) IsView() bool       { return false }

// WithChildren rebuilds with recompressed ends/values children (e.g.
// after the sampling compressor finds run values worth dictionary-coding).
func (a *RunEndArray) WithChildren(children []array.Array) array.Array {
	b := *a
	b.ends = children[0]
	b.values = children[1]
	b.st = stats.NewSet(func(k stats.Kind) (scalar.Scalar, bool) {
		if k == stats.RunCount {
			return scalar.NewInt(dtype.I64, int64(b.ends.Len())), true
		}
		return scalar.Scalar{}, false
	})
	return &b
}

// findRun returns the run index owning logical index i via search_sorted
// over ends (the first end strictly greater than i).
func findRun(ends array.Array, i int) (int, error) {
	var searchErr error
	idx := sort.Search(ends.Len(), func(k int) bool {
		s, err := array.ScalarAt(ends, k)
		if err != nil {
			searchErr = err
			return true
		}
		return int(s.Int()) > i
	})
	return idx, searchErr
}

func init() {
	array.Register(theRunEndEncoding)
	array.RegisterScalarAt(runEndID, func(arr array.Array, i int) (scalar.Scalar, error) {
		a := arr.(*RunEndArray)
		run, err := findRun(a.ends, i)
		if err != nil {
			return scalar.Scalar{}, err
		}
		if run >= a.ends.Len() {
			return scalar.Scalar{}, vxerr.OutOfBoundsErr("RunEnd.ScalarAt", i, a.length)
		}
		return array.ScalarAt(a.values, run)
	})
}
