package quantity

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/arloliu/neosig/errs"
)

// Quantity is a unit-bearing float64 array.
//
// Data is stored row-major. Most containers hold 1-D quantities; spike
// waveforms use a 3-D (spike x channel x sample) quantity. All structural
// operations (Slice, Select, Concat) act along the leading axis.
type Quantity struct {
	values []float64
	shape  []int
	unit   Unit
}

// New creates a 1-D quantity, copying values.
func New(values []float64, unit Unit) *Quantity {
	return &Quantity{
		values: slices.Clone(values),
		shape:  []int{len(values)},
		unit:   unit,
	}
}

// NewShaped creates an N-D quantity, copying values. The product of shape
// must equal len(values).
func NewShaped(values []float64, shape []int, unit Unit) (*Quantity, error) {
	if len(shape) == 0 {
		return nil, fmt.Errorf("%w: empty shape", errs.ErrShapeMismatch)
	}
	size := 1
	for _, n := range shape {
		if n < 0 {
			return nil, fmt.Errorf("%w: negative dimension %d", errs.ErrShapeMismatch, n)
		}
		if n != 0 && size > math.MaxInt/n {
			return nil, fmt.Errorf("%w: shape %v element count overflows", errs.ErrShapeMismatch, shape)
		}
		size *= n
	}
	if size != len(values) {
		return nil, fmt.Errorf("%w: shape %v needs %d values, got %d",
			errs.ErrShapeMismatch, shape, size, len(values))
	}

	return &Quantity{
		values: slices.Clone(values),
		shape:  slices.Clone(shape),
		unit:   unit,
	}, nil
}

// Zeros creates a zero-filled 1-D quantity of length n.
func Zeros(n int, unit Unit) *Quantity {
	return &Quantity{
		values: make([]float64, n),
		shape:  []int{n},
		unit:   unit,
	}
}

// FromScalar wraps a scalar as a length-1 quantity.
func FromScalar(s Scalar) *Quantity {
	return &Quantity{
		values: []float64{s.value},
		shape:  []int{1},
		unit:   s.unit,
	}
}

// Len returns the element count along the leading axis.
func (q *Quantity) Len() int {
	return q.shape[0]
}

// Size returns the total number of stored values.
func (q *Quantity) Size() int {
	return len(q.values)
}

// NDim returns the number of axes.
func (q *Quantity) NDim() int {
	return len(q.shape)
}

// Shape returns a copy of the array shape.
func (q *Quantity) Shape() []int {
	return slices.Clone(q.shape)
}

// Unit returns the quantity's unit.
func (q *Quantity) Unit() Unit {
	return q.unit
}

// Values returns the underlying storage, row-major.
// The returned slice is a live view; the caller must not modify it.
func (q *Quantity) Values() []float64 {
	return q.values
}

// Copy returns a deep copy.
func (q *Quantity) Copy() *Quantity {
	return &Quantity{
		values: slices.Clone(q.values),
		shape:  slices.Clone(q.shape),
		unit:   q.unit,
	}
}

// stride is the number of stored values per leading-axis element.
func (q *Quantity) stride() int {
	s := 1
	for _, n := range q.shape[1:] {
		s *= n
	}

	return s
}

// At returns element i of a 1-D quantity as a bare scalar.
func (q *Quantity) At(i int) (Scalar, error) {
	if len(q.shape) != 1 {
		return Scalar{}, fmt.Errorf("%w: At requires a 1-D quantity, have %d axes",
			errs.ErrShapeMismatch, len(q.shape))
	}
	if i < 0 || i >= len(q.values) {
		return Scalar{}, fmt.Errorf("%w: index %d, length %d", errs.ErrIndexOutOfRange, i, len(q.values))
	}

	return Scalar{value: q.values[i], unit: q.unit}, nil
}

// SetAt replaces element i of a 1-D quantity in place, rescaling v into
// the quantity's unit.
func (q *Quantity) SetAt(i int, v Scalar) error {
	if len(q.shape) != 1 {
		return fmt.Errorf("%w: SetAt requires a 1-D quantity, have %d axes",
			errs.ErrShapeMismatch, len(q.shape))
	}
	if i < 0 || i >= len(q.values) {
		return fmt.Errorf("%w: index %d, length %d", errs.ErrIndexOutOfRange, i, len(q.values))
	}
	rv, err := v.Rescale(q.unit)
	if err != nil {
		return err
	}
	q.values[i] = rv.value

	return nil
}

// Slice returns elements [start, stop) along the leading axis with the
// given step. Step must be positive; bounds must lie within the array.
func (q *Quantity) Slice(start, stop, step int) (*Quantity, error) {
	if step <= 0 {
		return nil, fmt.Errorf("%w: step %d", errs.ErrInvalidSliceRange, step)
	}
	if start < 0 || stop < start || stop > q.shape[0] {
		return nil, fmt.Errorf("%w: [%d:%d] of %d", errs.ErrInvalidSliceRange, start, stop, q.shape[0])
	}

	stride := q.stride()
	count := (stop - start + step - 1) / step
	values := make([]float64, 0, count*stride)
	for i := start; i < stop; i += step {
		values = append(values, q.values[i*stride:(i+1)*stride]...)
	}

	shape := slices.Clone(q.shape)
	shape[0] = count

	return &Quantity{values: values, shape: shape, unit: q.unit}, nil
}

// Select returns a new quantity holding the leading-axis elements at the
// given indices, in the given order.
func (q *Quantity) Select(indices []int) (*Quantity, error) {
	stride := q.stride()
	values := make([]float64, 0, len(indices)*stride)
	for _, i := range indices {
		if i < 0 || i >= q.shape[0] {
			return nil, fmt.Errorf("%w: index %d, length %d", errs.ErrIndexOutOfRange, i, q.shape[0])
		}
		values = append(values, q.values[i*stride:(i+1)*stride]...)
	}

	shape := slices.Clone(q.shape)
	shape[0] = len(indices)

	return &Quantity{values: values, shape: shape, unit: q.unit}, nil
}

// Concat appends o along the leading axis, rescaling it into q's unit.
// Trailing axes must match.
func (q *Quantity) Concat(o *Quantity) (*Quantity, error) {
	if len(q.shape) != len(o.shape) || !slices.Equal(q.shape[1:], o.shape[1:]) {
		return nil, fmt.Errorf("%w: cannot concatenate %v with %v", errs.ErrShapeMismatch, q.shape, o.shape)
	}
	ro, err := o.Rescale(q.unit)
	if err != nil {
		return nil, err
	}

	shape := slices.Clone(q.shape)
	shape[0] += o.shape[0]
	values := make([]float64, 0, len(q.values)+len(ro.values))
	values = append(values, q.values...)
	values = append(values, ro.values...)

	return &Quantity{values: values, shape: shape, unit: q.unit}, nil
}

// Rescale converts the quantity to a compatible unit. When the target unit
// already matches bit-for-bit the magnitudes are copied without scaling.
func (q *Quantity) Rescale(to Unit) (*Quantity, error) {
	if q.unit.Equal(to) {
		out := q.Copy()
		out.unit = to

		return out, nil
	}

	cf, err := q.unit.ConversionFactor(to)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(q.values))
	for i, v := range q.values {
		values[i] = v * cf
	}

	return &Quantity{values: values, shape: slices.Clone(q.shape), unit: to}, nil
}

// ArgSort returns the permutation that sorts a 1-D quantity ascending.
// The sort is stable so equal elements keep their relative order.
func (q *Quantity) ArgSort() ([]int, error) {
	if len(q.shape) != 1 {
		return nil, fmt.Errorf("%w: ArgSort requires a 1-D quantity, have %d axes",
			errs.ErrShapeMismatch, len(q.shape))
	}

	perm := make([]int, len(q.values))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return q.values[perm[a]] < q.values[perm[b]]
	})

	return perm, nil
}

// Min returns the smallest element of a non-empty quantity.
func (q *Quantity) Min() (Scalar, error) {
	if len(q.values) == 0 {
		return Scalar{}, fmt.Errorf("%w: empty quantity has no minimum", errs.ErrIndexOutOfRange)
	}

	return Scalar{value: slices.Min(q.values), unit: q.unit}, nil
}

// Max returns the largest element of a non-empty quantity.
func (q *Quantity) Max() (Scalar, error) {
	if len(q.values) == 0 {
		return Scalar{}, fmt.Errorf("%w: empty quantity has no maximum", errs.ErrIndexOutOfRange)
	}

	return Scalar{value: slices.Max(q.values), unit: q.unit}, nil
}

// Add returns q + o in q's unit. The operand must share q's shape, or be a
// single value which is broadcast.
func (q *Quantity) Add(o *Quantity) (*Quantity, error) {
	return q.combineCompatible(o, func(a, b float64) float64 { return a + b })
}

// Sub returns q - o in q's unit, with the same operand rules as Add.
func (q *Quantity) Sub(o *Quantity) (*Quantity, error) {
	return q.combineCompatible(o, func(a, b float64) float64 { return a - b })
}

// Mul returns the element-wise product with combined units. No dimensional
// compatibility is required; units multiply.
func (q *Quantity) Mul(o *Quantity) (*Quantity, error) {
	return q.combineFree(o, q.unit.Mul(o.unit), func(a, b float64) float64 { return a * b })
}

// Div returns the element-wise quotient with combined units.
func (q *Quantity) Div(o *Quantity) (*Quantity, error) {
	return q.combineFree(o, q.unit.Div(o.unit), func(a, b float64) float64 { return a / b })
}

// Equal reports unit-aware element-wise equality: same shape, compatible
// units, and all magnitudes equal within the checked tolerance after
// conversion.
func (q *Quantity) Equal(o *Quantity) bool {
	if o == nil || !slices.Equal(q.shape, o.shape) {
		return false
	}
	ro, err := o.Rescale(q.unit)
	if err != nil {
		return false
	}
	for i, v := range q.values {
		if !floatsEqual(v, ro.values[i]) {
			return false
		}
	}

	return true
}

// combineCompatible applies op after rescaling o into q's unit.
func (q *Quantity) combineCompatible(o *Quantity, op func(a, b float64) float64) (*Quantity, error) {
	ro, err := o.Rescale(q.unit)
	if err != nil {
		return nil, err
	}

	return q.combineValues(ro.values, ro.shape, q.unit, op)
}

// combineFree applies op without rescaling; the caller supplies the result
// unit.
func (q *Quantity) combineFree(o *Quantity, unit Unit, op func(a, b float64) float64) (*Quantity, error) {
	return q.combineValues(o.values, o.shape, unit, op)
}

func (q *Quantity) combineValues(ov []float64, oshape []int, unit Unit, op func(a, b float64) float64) (*Quantity, error) {
	values := make([]float64, len(q.values))
	switch {
	case len(ov) == 1:
		for i, v := range q.values {
			values[i] = op(v, ov[0])
		}
	case slices.Equal(q.shape, oshape):
		for i, v := range q.values {
			values[i] = op(v, ov[i])
		}
	default:
		return nil, fmt.Errorf("%w: cannot combine %v with %v", errs.ErrShapeMismatch, q.shape, oshape)
	}

	return &Quantity{values: values, shape: slices.Clone(q.shape), unit: unit}, nil
}

func (q *Quantity) String() string {
	return fmt.Sprintf("%v %s", q.values, q.unit)
}
