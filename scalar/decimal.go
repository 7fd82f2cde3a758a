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

package scalar

import (
	"github.com/shopspring/decimal"

	"github.com/cph-data/vortex/dtype"
	"github.com/cph-data/vortex/vxerr"
)

// DecimalExtensionID names the vortex.decimal extension dtype: an int64
// child carrying a fixed-point value plus a 2-byte metadata tail of
// (precision, scale), the same fixed-point-over-an-integer layout
// storage-decimal.go's StorageDecimal used internally before handing a
// value back to callers as a shopspring/decimal.Decimal.
const DecimalExtensionID = "vortex.decimal"

// NewDecimalDType builds a vortex.decimal extension dtype with the given
// precision and scale. Only scale is actually consulted when shifting
// values in and out; precision is carried for callers that want to
// validate or display it, mirroring the (precision, scale) pair
// StorageDecimal.GetValue's schema entry keeps.
func NewDecimalDType(precision, scale int, nullable bool) dtype.DType {
	storage := dtype.Primitive(dtype.I64, nullable)
	return dtype.Extension(DecimalExtensionID, storage, []byte{byte(precision), byte(scale)})
}

// DecimalPrecision reports the precision metadata of a vortex.decimal
// dtype, or 0 if dt carries none.
func DecimalPrecision(dt dtype.DType) int {
	md := dt.ExtensionMetadata()
	if len(md) < 1 {
		return 0
	}
	return int(md[0])
}

// DecimalScale reports the scale metadata of a vortex.decimal dtype, or
// 0 if dt carries none.
func DecimalScale(dt dtype.DType) int {
	md := dt.ExtensionMetadata()
	if len(md) < 2 {
		return 0
	}
	return int(md[1])
}

func checkDecimalDType(op string, dt dtype.DType) error {
	if dt.Kind() != dtype.KindExtension || dt.ExtensionID() != DecimalExtensionID {
		return vxerr.New(op, vxerr.InvalidArgument, "dtype %s is not a vortex.decimal extension", dt)
	}
	return nil
}

// NewDecimal builds a vortex.decimal scalar, shifting d by dt's scale,
// rounding half away from zero to a whole number and storing that as an
// int64 child the way StorageDecimal stores its
// fixed-point representation rather than shopspring/decimal's own
// arbitrary-precision big.Int form.
func NewDecimal(dt dtype.DType, d decimal.Decimal) (Scalar, error) {
	if err := checkDecimalDType("NewDecimal", dt); err != nil {
		return Scalar{}, err
	}
	scale := DecimalScale(dt)
	fixed := d.Shift(int32(scale)).Round(0)
	return NewExtension(dt, NewInt(dtype.I64, fixed.IntPart())), nil
}

// NewNullDecimal builds a null vortex.decimal scalar of dt.
func NewNullDecimal(dt dtype.DType) (Scalar, error) {
	if err := checkDecimalDType("NewNullDecimal", dt); err != nil {
		return Scalar{}, err
	}
	return Null(dt), nil
}

// Decimal reconstructs a decimal.Decimal from a vortex.decimal scalar's
// fixed-point int64 child and the dtype's metadata-carried scale.
func (s Scalar) Decimal() (decimal.Decimal, error) {
	if err := checkDecimalDType("Decimal", s.dt); err != nil {
		return decimal.Decimal{}, err
	}
	if s.IsNull() {
		return decimal.Decimal{}, vxerr.New("Decimal", vxerr.InvalidArgument, "cannot read decimal value of a null scalar")
	}
	scale := DecimalScale(s.dt)
	return decimal.New(s.Inner().Int(), -int32(scale)), nil
}
