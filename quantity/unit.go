package quantity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/neosig/errs"
)

// Dim is a dimensionality: the exponents of the base dimensions that make
// up a physical quantity, independent of the specific unit. Seconds and
// milliseconds share the same Dim; hertz is time^-1.
type Dim struct {
	Time    int8
	Voltage int8
	Current int8
	Length  int8
	Mass    int8
}

// Predefined dimensionalities.
var (
	DimNone      = Dim{}
	DimTime      = Dim{Time: 1}
	DimFrequency = Dim{Time: -1}
	DimVoltage   = Dim{Voltage: 1}
	DimCurrent   = Dim{Current: 1}
)

// IsTime reports whether d is exactly one dimension of time with power 1.
func (d Dim) IsTime() bool {
	return d == DimTime
}

// IsNone reports whether d is dimensionless.
func (d Dim) IsNone() bool {
	return d == DimNone
}

// Add returns the element-wise sum of exponents (the dimensionality of a
// product of two quantities).
func (d Dim) Add(o Dim) Dim {
	return Dim{
		Time:    d.Time + o.Time,
		Voltage: d.Voltage + o.Voltage,
		Current: d.Current + o.Current,
		Length:  d.Length + o.Length,
		Mass:    d.Mass + o.Mass,
	}
}

// Sub returns the element-wise difference of exponents (the dimensionality
// of a quotient of two quantities).
func (d Dim) Sub(o Dim) Dim {
	return Dim{
		Time:    d.Time - o.Time,
		Voltage: d.Voltage - o.Voltage,
		Current: d.Current - o.Current,
		Length:  d.Length - o.Length,
		Mass:    d.Mass - o.Mass,
	}
}

// Neg returns the dimensionality of a reciprocal.
func (d Dim) Neg() Dim {
	return DimNone.Sub(d)
}

func (d Dim) String() string {
	parts := make([]string, 0, 5)
	appendPart := func(name string, exp int8) {
		switch exp {
		case 0:
		case 1:
			parts = append(parts, name)
		default:
			parts = append(parts, name+"^"+strconv.Itoa(int(exp)))
		}
	}
	appendPart("time", d.Time)
	appendPart("voltage", d.Voltage)
	appendPart("current", d.Current)
	appendPart("length", d.Length)
	appendPart("mass", d.Mass)

	if len(parts) == 0 {
		return "dimensionless"
	}

	return strings.Join(parts, "*")
}

// Unit is a named physical unit: a symbol, a dimensionality, and the scale
// factor converting one of this unit to the base unit of its Dim
// (ms has scale 1e-3 relative to the second).
//
// The zero value is undefined; Defined reports false for it. Undefined
// units mark optional values that were never set.
type Unit struct {
	symbol string
	dim    Dim
	scale  float64
}

// Predefined units. These cover the symbols Parse understands; units with
// other scales arise from arithmetic (Mul/Div/Reciprocal).
var (
	Dimensionless = Unit{symbol: "", dim: DimNone, scale: 1}

	Nanosecond  = Unit{symbol: "ns", dim: DimTime, scale: 1e-9}
	Microsecond = Unit{symbol: "us", dim: DimTime, scale: 1e-6}
	Millisecond = Unit{symbol: "ms", dim: DimTime, scale: 1e-3}
	Second      = Unit{symbol: "s", dim: DimTime, scale: 1}
	Minute      = Unit{symbol: "min", dim: DimTime, scale: 60}
	Hour        = Unit{symbol: "h", dim: DimTime, scale: 3600}

	Hertz     = Unit{symbol: "Hz", dim: DimFrequency, scale: 1}
	Kilohertz = Unit{symbol: "kHz", dim: DimFrequency, scale: 1e3}
	Megahertz = Unit{symbol: "MHz", dim: DimFrequency, scale: 1e6}

	Microvolt = Unit{symbol: "uV", dim: DimVoltage, scale: 1e-6}
	Millivolt = Unit{symbol: "mV", dim: DimVoltage, scale: 1e-3}
	Volt      = Unit{symbol: "V", dim: DimVoltage, scale: 1}

	Nanoampere  = Unit{symbol: "nA", dim: DimCurrent, scale: 1e-9}
	Microampere = Unit{symbol: "uA", dim: DimCurrent, scale: 1e-6}
	Milliampere = Unit{symbol: "mA", dim: DimCurrent, scale: 1e-3}
	Ampere      = Unit{symbol: "A", dim: DimCurrent, scale: 1}
)

var unitTable = []Unit{
	Dimensionless,
	Nanosecond, Microsecond, Millisecond, Second, Minute, Hour,
	Hertz, Kilohertz, Megahertz,
	Microvolt, Millivolt, Volt,
	Nanoampere, Microampere, Milliampere, Ampere,
}

var unitsBySymbol = func() map[string]Unit {
	m := make(map[string]Unit, len(unitTable))
	for _, u := range unitTable {
		m[u.symbol] = u
	}
	// Common aliases.
	m["sec"] = Second
	m["µs"] = Microsecond
	m["µV"] = Microvolt

	return m
}()

// Parse resolves a unit symbol such as "ms", "kHz" or "mV".
//
// Returns errs.ErrUnknownUnit for symbols not in the unit table.
func Parse(symbol string) (Unit, error) {
	u, ok := unitsBySymbol[symbol]
	if !ok {
		return Unit{}, fmt.Errorf("%w: %q", errs.ErrUnknownUnit, symbol)
	}

	return u, nil
}

// MustParse is Parse that panics on unknown symbols. Intended for
// package-level declarations and tests.
func MustParse(symbol string) Unit {
	u, err := Parse(symbol)
	if err != nil {
		panic(err)
	}

	return u
}

// NewUnit builds a unit from a symbol, dimensionality and scale. Prefer the
// predefined units and Parse for standard symbols; NewUnit exists for
// derived units and for reconstructing stored units. A unit matching a
// table entry exactly snaps to that entry.
func NewUnit(symbol string, dim Dim, scale float64) Unit {
	return deriveUnit(dim, scale, symbol)
}

// Defined reports whether u is a usable unit. The zero Unit is not.
func (u Unit) Defined() bool {
	return u.scale != 0
}

// Symbol returns the unit symbol, e.g. "ms".
func (u Unit) Symbol() string {
	return u.symbol
}

// Dim returns the unit's dimensionality.
func (u Unit) Dim() Dim {
	return u.dim
}

// Scale returns the factor converting one of this unit to the base unit of
// its dimensionality.
func (u Unit) Scale() float64 {
	return u.scale
}

// Equal reports whether two units are the same unit: same dimensionality
// and same scale. Symbols are not compared, so a derived "1/kHz" equals ms.
func (u Unit) Equal(o Unit) bool {
	return u.dim == o.dim && u.scale == o.scale
}

// Compatible reports whether two units share a dimensionality and can
// therefore be converted into each other.
func (u Unit) Compatible(o Unit) bool {
	return u.Defined() && o.Defined() && u.dim == o.dim
}

// ConversionFactor returns the factor that converts magnitudes expressed in
// u into magnitudes expressed in to.
//
// Returns errs.ErrIncompatibleUnits when the dimensionalities are
// unrelated.
func (u Unit) ConversionFactor(to Unit) (float64, error) {
	if !u.Compatible(to) {
		return 0, fmt.Errorf("%w: cannot convert %s to %s", errs.ErrIncompatibleUnits, u, to)
	}

	return u.scale / to.scale, nil
}

// Mul returns the unit of a product of quantities in u and o.
// The result snaps to a table unit when one matches exactly.
func (u Unit) Mul(o Unit) Unit {
	return deriveUnit(u.dim.Add(o.dim), u.scale*o.scale, u.symbol+"*"+o.symbol)
}

// Div returns the unit of a quotient of quantities in u and o.
func (u Unit) Div(o Unit) Unit {
	return deriveUnit(u.dim.Sub(o.dim), u.scale/o.scale, u.symbol+"/"+o.symbol)
}

// Reciprocal returns the inverse unit. Reciprocals of table units
// canonicalize: 1/kHz is ms, 1/ms is kHz.
func (u Unit) Reciprocal() Unit {
	return deriveUnit(u.dim.Neg(), 1/u.scale, "1/"+u.symbol)
}

// String returns the symbol, or the dimensionality for symbol-less derived
// units.
func (u Unit) String() string {
	if u.symbol != "" {
		return u.symbol
	}
	if u.dim.IsNone() {
		return "dimensionless"
	}

	return u.dim.String()
}

// deriveUnit builds a unit for the given dim and scale, preferring an
// exactly matching table unit over the synthesized fallback symbol.
func deriveUnit(dim Dim, scale float64, fallback string) Unit {
	for _, t := range unitTable {
		if t.dim == dim && t.scale == scale {
			return t
		}
	}

	return Unit{symbol: fallback, dim: dim, scale: scale}
}
