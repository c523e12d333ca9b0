package quantity

import (
	"fmt"
	"math"
	"strconv"

	"github.com/arloliu/neosig/errs"
)

// equalRelTol is the relative tolerance used by checked equality.
// Rescaling multiplies magnitudes by conversion factors, so exact bit
// equality is too strict for values that round-tripped through another
// unit.
const equalRelTol = 1e-9

// Scalar is a single unit-bearing value.
//
// The zero Scalar is "undefined": Defined reports false, and it stands in
// for optional values that were never set (e.g. a spike train without a
// waveform sampling rate).
type Scalar struct {
	value float64
	unit  Unit
}

// NewScalar creates a scalar with the given magnitude and unit.
func NewScalar(value float64, unit Unit) Scalar {
	return Scalar{value: value, unit: unit}
}

// Seconds is shorthand for NewScalar(v, Second).
func Seconds(v float64) Scalar {
	return Scalar{value: v, unit: Second}
}

// Defined reports whether the scalar carries a unit.
func (s Scalar) Defined() bool {
	return s.unit.Defined()
}

// Value returns the magnitude in the scalar's own unit.
func (s Scalar) Value() float64 {
	return s.value
}

// Unit returns the scalar's unit.
func (s Scalar) Unit() Unit {
	return s.unit
}

// base returns the magnitude expressed in the base unit of its Dim.
func (s Scalar) base() float64 {
	return s.value * s.unit.scale
}

// Rescale converts the scalar to a compatible unit.
func (s Scalar) Rescale(to Unit) (Scalar, error) {
	if s.unit.Equal(to) {
		return Scalar{value: s.value, unit: to}, nil
	}

	cf, err := s.unit.ConversionFactor(to)
	if err != nil {
		return Scalar{}, err
	}

	return Scalar{value: s.value * cf, unit: to}, nil
}

// Add returns s + o in s's unit. The operands must share a dimensionality.
func (s Scalar) Add(o Scalar) (Scalar, error) {
	ro, err := o.Rescale(s.unit)
	if err != nil {
		return Scalar{}, err
	}

	return Scalar{value: s.value + ro.value, unit: s.unit}, nil
}

// Sub returns s - o in s's unit. The operands must share a dimensionality.
func (s Scalar) Sub(o Scalar) (Scalar, error) {
	ro, err := o.Rescale(s.unit)
	if err != nil {
		return Scalar{}, err
	}

	return Scalar{value: s.value - ro.value, unit: s.unit}, nil
}

// Mul returns the product of two scalars with a combined unit.
func (s Scalar) Mul(o Scalar) Scalar {
	return Scalar{value: s.value * o.value, unit: s.unit.Mul(o.unit)}
}

// Div returns the quotient of two scalars with a combined unit.
func (s Scalar) Div(o Scalar) Scalar {
	return Scalar{value: s.value / o.value, unit: s.unit.Div(o.unit)}
}

// MulFloat scales the magnitude, keeping the unit.
func (s Scalar) MulFloat(f float64) Scalar {
	return Scalar{value: s.value * f, unit: s.unit}
}

// Reciprocal returns 1/s. The unit inverts and canonicalizes, so the
// reciprocal of a 250 Hz rate is a 0.004 s period.
func (s Scalar) Reciprocal() Scalar {
	return Scalar{value: 1 / s.value, unit: s.unit.Reciprocal()}
}

// Compare orders two scalars of the same dimensionality: -1, 0 or +1.
func (s Scalar) Compare(o Scalar) (int, error) {
	if !s.unit.Compatible(o.unit) {
		return 0, fmt.Errorf("%w: cannot compare %s with %s", errs.ErrIncompatibleUnits, s.unit, o.unit)
	}

	sb, ob := s.base(), o.base()
	switch {
	case sb < ob:
		return -1, nil
	case sb > ob:
		return 1, nil
	default:
		return 0, nil
	}
}

// Equal is the checked equality of the unit system: true when both scalars
// are defined, share a dimensionality, and agree within a relative
// tolerance after conversion. Incompatible scalars are unequal, not an
// error.
func (s Scalar) Equal(o Scalar) bool {
	if !s.unit.Compatible(o.unit) {
		return false
	}

	return floatsEqual(s.base(), o.base())
}

func (s Scalar) String() string {
	v := strconv.FormatFloat(s.value, 'g', -1, 64)
	if s.unit.symbol == "" {
		return v
	}

	return v + " " + s.unit.symbol
}

func floatsEqual(a, b float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))

	return diff <= scale*equalRelTol
}
