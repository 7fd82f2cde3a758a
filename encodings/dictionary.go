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
	"github.com/cph-data/vortex/array"
	"github.com/cph-data/vortex/dtype"
	"github.com/cph-data/vortex/scalar"
	"github.com/cph-data/vortex/stats"
	"github.com/cph-data/vortex/vxerr"
)

const dictionaryID array.EncodingID = array.IDDictionary

type dictionaryEncoding struct{}

func (dictionaryEncoding) ID() array.EncodingID { return dictionaryID }
func (dictionaryEncoding) Name() string         { return "dictionary" }

func (dictionaryEncoding) Canonicalize(a array.Array) (array.Array, error) {
	d := a.(*DictionaryArray)
	// Gather via codes rather than a bulk Take on values, since codes may
	// repeat/reorder values arbitrarily. Scalars are pulled directly
	// (not through array.Take) since materializeScalars wants a plain
	// []scalar.Scalar, not an Array.
	items := make([]scalar.Scalar, d.length)
	for i := 0; i < d.length; i++ {
		c, err := array.ScalarAt(d.codes, i)
		if err != nil {
			return nil, err
		}
		if c.IsNull() {
			items[i] = scalar.Null(d.dt)
			continue
		}
		idx := int(c.Uint())
		s, err := array.ScalarAt(d.values, idx)
		if err != nil {
			return nil, err
		}
		items[i] = s
	}
	return materializeScalars(d.dt, items, d.Validity())
}

var theDictionaryEncoding array.Encoding = dictionaryEncoding{}

// DictionaryArray is codes+values: codes index into a distinct-values
// array, every code < values.Len(). Grounded on the cardinality-threshold
// idea in storage-enum.go -- that file goes on to entropy-code the codes
// with a k-ary rANS coder, a refinement not reproduced here since the
// array model's Dictionary encoding is plain codes+values (the entropy
// stage would be a distinct encoding not in scope).
type DictionaryArray struct {
	dt     dtype.DType
	codes  array.Array // unsigned primitive/bitpacked codes
	values array.Array // distinct values, flat
	length int
	st     *stats.Set
}

func NewDictionary(dt dtype.DType, codes, values array.Array) (*DictionaryArray, error) {
	a := &DictionaryArray{dt: dt, codes: codes, values: values, length: codes.Len()}
	a.st = stats.NewSet(nil)
	a.st.Set(stats.NullCount, scalar.NewInt(dtype.I64, 0))
	return a, nil
}

func (a *DictionaryArray) DType() dtype.DType { return a.dt }
func (a *DictionaryArray) Len() int           { return a.length }
func (a *DictionaryArray) Encoding() array.Encoding { return theDictionaryEncoding }
func (a *DictionaryArray) Nbytes() int64      { return a.codes.Nbytes() + a.values.Nbytes() }
func (a *DictionaryArray) Validity() array.Validity { return a.codes.Validity() }
func (a *DictionaryArray) Stats() *stats.Set  { return a.st }
func (a *DictionaryArray) Children() []array.Array { return []array.Array{a.codes, a.values} }
func (a *DictionaryArray) IsView() bool       { return false }

func (a *DictionaryArray) WithChildren(children []array.Array) array.Array {
	b := *a
	b.codes = children[0]
	b.values = children[1]
	return &b
}

func init() {
	array.Register(theDictionaryEncoding)
	array.RegisterScalarAt(dictionaryID, func(arr array.Array, i int) (scalar.Scalar, error) {
		a := arr.(*DictionaryArray)
		c, err := array.ScalarAt(a.codes, i)
		if err != nil {
			return scalar.Scalar{}, err
		}
		idx := int(c.Uint())
		if idx < 0 || idx >= a.values.Len() {
			return scalar.Scalar{}, vxerr.OutOfBoundsErr("Dictionary.ScalarAt", idx, a.values.Len())
		}
		return array.ScalarAt(a.values, idx)
	})
	// take forwards to take on codes (spec §4.3 item 3): gathering new
	// codes and keeping the same values child is equivalent to -- and far
	// cheaper than -- canonicalizing first and taking from flat values.
	array.RegisterTake(dictionaryID, func(arr array.Array, indices []int) (array.Array, error) {
		a := arr.(*DictionaryArray)
		newCodes, err := array.Take(a.codes, indices)
		if err != nil {
			return nil, err
		}
		return NewDictionary(a.dt, newCodes, a.values)
	})
}
