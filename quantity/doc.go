// Package quantity provides unit-aware numeric values and arrays for
// neosig time-series containers.
//
// A physical quantity couples a float64 magnitude (or array of magnitudes)
// with a Unit. Units carry a Dim (an exponent vector over the base
// dimensions time, voltage, current, length and mass) and a scale factor
// to the base unit of that dimensionality. Arithmetic checks dimensional
// compatibility and rescales operands as needed; operations between
// unrelated dimensionalities fail with errs.ErrIncompatibleUnits.
//
// # Types
//
//   - Dim: dimensionality as base-dimension exponents
//   - Unit: symbol + Dim + scale (e.g. ms = time^1, scale 1e-3)
//   - Scalar: a single unit-bearing value; the zero value is "undefined"
//   - Quantity: a row-major float64 array with a unit, sliced and
//     concatenated along its leading axis
//
// # Usage
//
//	times := quantity.New([]float64{3, 4, 5}, quantity.Second)
//	ms, _ := times.Rescale(quantity.Millisecond) // [3000 4000 5000] ms
//
//	rate := quantity.NewScalar(250, quantity.Hertz)
//	period := rate.Reciprocal() // 0.004 s
//
// All operations return new values; nothing in this package mutates its
// receiver except where explicitly documented.
package quantity
