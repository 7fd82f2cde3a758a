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
)

const dateTimePartsID array.EncodingID = array.IDDateTimeParts

type dateTimePartsEncoding struct{}

func (dateTimePartsEncoding) ID() array.EncodingID { return dateTimePartsID }
func (dateTimePartsEncoding) Name() string         { return "datetime_parts" }

func (dateTimePartsEncoding) Canonicalize(a array.Array) (array.Array, error) {
	d := a.(*DateTimePartsArray)
	raw := make([]uint64, d.length)
	for i := 0; i < d.length; i++ {
		v, err := scalarNanos(d, i)
		if err != nil {
			return nil, err
		}
		raw[i] = uint64(v)
	}
	return array.NewPrimitive(dtype.I64, raw, d.validity), nil
}

var theDateTimePartsEncoding array.Encoding = dateTimePartsEncoding{}

// secondsPerDay and nanosPerSecond are the fixed conversion factors
// between the three parts and a single nanoseconds-since-epoch integer.
const secondsPerDay = 86400
const nanosPerSecond = 1_000_000_000

// DateTimePartsArray splits a timestamp into days-since-epoch, seconds-
// within-day and sub-second remainder children, each independently
// compressible (days is usually near-constant or linear, seconds cycles
// 0..86399, subseconds is often exactly zero) -- the same decomposition
// storage-decimal.go performs for fixed-point decimals, applied here to
// wall-clock time instead of scale/precision. Backs the vortex.localdatetime
// extension dtype.
type DateTimePartsArray struct {
	dt         dtype.DType // Extension "vortex.localdatetime"
	days       array.Array // I32, days since epoch
	seconds    array.Array // I32, seconds within day [0, 86400)
	subseconds array.Array // I64, nanoseconds within second
	length     int
	validity   array.Validity
	st         *stats.Set
}

func NewDateTimeParts(dt dtype.DType, days, seconds, subseconds array.Array, validity array.Validity) *DateTimePartsArray {
	a := &DateTimePartsArray{dt: dt, days: days, seconds: seconds, subseconds: subseconds, length: days.Len(), validity: validity}
	a.st = stats.NewSet(nil)
	return a
}

func scalarNanos(d *DateTimePartsArray, i int) (int64, error) {
	day, err := array.ScalarAt(d.days, i)
	if err != nil {
		return 0, err
	}
	sec, err := array.ScalarAt(d.seconds, i)
	if err != nil {
		return 0, err
	}
	sub, err := array.ScalarAt(d.subseconds, i)
	if err != nil {
		return 0, err
	}
	return day.Int()*secondsPerDay*nanosPerSecond + sec.Int()*nanosPerSecond + sub.Int(), nil
}

func (a *DateTimePartsArray) DType() dtype.DType { return a.dt }
func (a *DateTimePartsArray) Len() int            { return a.length }
func (a *DateTimePartsArray) Encoding() array.Encoding { return theDateTimePartsEncoding }
func (a *DateTimePartsArray) Nbytes() int64 {
	return a.days.Nbytes() + a.seconds.Nbytes() + a.subseconds.Nbytes()
}
func (a *DateTimePartsArray) Validity() array.Validity { return a.validity }
func (a *DateTimePartsArray) Stats() *stats.Set         { return a.st }
func (a *DateTimePartsArray) Children() []array.Array {
	return []array.Array{a.days, a.seconds, a.subseconds}
}
func (a *DateTimePartsArray) IsView() bool { return false }

func init() {
	array.Register(theDateTimePartsEncoding)
	array.RegisterScalarAt(dateTimePartsID, func(arr array.Array, i int) (scalar.Scalar, error) {
		a := arr.(*DateTimePartsArray)
		nanos, err := scalarNanos(a, i)
		if err != nil {
			return scalar.Scalar{}, err
		}
		return scalar.NewExtension(a.dt, scalar.NewInt(dtype.I64, nanos)), nil
	})
}
