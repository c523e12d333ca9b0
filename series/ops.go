package series

import (
	"fmt"

	"github.com/arloliu/neosig/entity"
	"github.com/arloliu/neosig/errs"
	"github.com/arloliu/neosig/quantity"
)

// propagateMeta copies src's metadata onto a freshly derived container:
// the entity fields (name, description, origin, annotations), every
// declared scalar attribute, and every declared auxiliary array. Derive
// operations call this explicitly at each exit point; there is no implicit
// copy hook.
func propagateMeta(dst, src Container) {
	dst.Meta().CopyFrom(src.Meta())

	spec := src.Spec()
	for _, name := range spec.ScalarAttrs {
		dst.setScalarAttr(name, src.scalarAttr(name))
	}
	for _, name := range spec.QuantitySlice {
		if v := src.quantityAttr(name); v != nil {
			dst.setQuantityAttr(name, v.Copy())
		}
	}
	for _, name := range spec.StringSlice {
		if v := src.stringAttr(name); v != nil {
			dst.setStringAttr(name, append([]string(nil), v...))
		}
	}
}

// CheckConsistency fails with errs.ErrInconsistentAttribute when a and b
// are the same kind and any declared consistency attribute differs by
// value. Containers of different kinds are not compared at all, matching
// the merge precondition this backs.
func CheckConsistency(a, b Container) error {
	if a.Spec() != b.Spec() {
		return nil
	}
	for _, name := range a.Spec().Consistency {
		av, bv := a.scalarAttr(name), b.scalarAttr(name)
		if av.Defined() != bv.Defined() || (av.Defined() && !av.Equal(bv)) {
			return fmt.Errorf("%w: %s (%s vs %s)", errs.ErrInconsistentAttribute, name, av, bv)
		}
	}

	return nil
}

// Slice returns a new container of the same kind holding elements
// [start, stop) of the primary array. Every declared auxiliary array that
// is non-empty is sliced identically along its leading axis.
//
// For single elements use At: it returns a bare scalar, not a container.
func Slice[T Container](c T, start, stop int) (T, error) {
	return SliceStep(c, start, stop, 1)
}

// SliceStep is Slice with a step. AnalogSignal additionally shifts t_start
// by start sampling periods and multiplies its sampling period by step
// (the shift uses the pre-step period).
func SliceStep[T Container](c T, start, stop, step int) (T, error) {
	var zero T

	data, err := c.Data().Slice(start, stop, step)
	if err != nil {
		return zero, err
	}

	out := c.emptyLike()
	propagateMeta(out, c)
	out.setData(data)

	for _, name := range c.Spec().QuantitySlice {
		v := c.quantityAttr(name)
		if v == nil || v.Len() == 0 {
			continue
		}
		sliced, err := v.Slice(start, stop, step)
		if err != nil {
			return zero, fmt.Errorf("slicing %s: %w", name, err)
		}
		out.setQuantityAttr(name, sliced)
	}
	for _, name := range c.Spec().StringSlice {
		v := c.stringAttr(name)
		if len(v) == 0 {
			continue
		}
		if stop > len(v) {
			return zero, fmt.Errorf("slicing %s: %w: [%d:%d] of %d",
				name, errs.ErrInvalidSliceRange, start, stop, len(v))
		}
		sliced := make([]string, 0, (stop-start+step-1)/step)
		for i := start; i < stop; i += step {
			sliced = append(sliced, v[i])
		}
		out.setStringAttr(name, sliced)
	}

	out.adjustAfterSlice(c, start, step)

	return out.(T), nil
}

// DuplicateWithNewData returns a container with c's metadata but a copy of
// data as the primary array. Rescale and the arithmetic operations are
// built on it.
func DuplicateWithNewData[T Container](c T, data *quantity.Quantity) T {
	out := c.emptyLike()
	propagateMeta(out, c)
	out.setData(data.Copy())

	return out.(T)
}

// Rescale returns a copy of c with the primary array converted to the
// given compatible unit. When the unit already matches bit-for-bit the
// magnitudes are copied unscaled. Unrelated dimensionalities fail with
// errs.ErrIncompatibleUnits.
func Rescale[T Container](c T, to quantity.Unit) (T, error) {
	var zero T

	data, err := c.Data().Rescale(to)
	if err != nil {
		return zero, err
	}

	return DuplicateWithNewData(c, data), nil
}

// Merge concatenates b onto a: the primary arrays (b rescaled into a's
// units) and every declared auxiliary array are joined along the leading
// axis, and the annotation maps are merged with the documented
// entity.MergeAnnotations policy. Fails if the consistency attributes
// differ.
func Merge[T Container](a, b T) (T, error) {
	var zero T

	if err := CheckConsistency(a, b); err != nil {
		return zero, err
	}

	data, err := a.Data().Concat(b.Data())
	if err != nil {
		return zero, err
	}
	out := DuplicateWithNewData(a, data)

	for _, name := range a.Spec().QuantitySlice {
		av, bv := a.quantityAttr(name), b.quantityAttr(name)
		if av == nil && bv == nil {
			continue
		}
		if av == nil || bv == nil {
			return zero, fmt.Errorf("%w: %s present on only one side of merge", errs.ErrLengthMismatch, name)
		}
		merged, err := av.Concat(bv)
		if err != nil {
			return zero, fmt.Errorf("merging %s: %w", name, err)
		}
		out.setQuantityAttr(name, merged)
	}
	for _, name := range a.Spec().StringSlice {
		av, bv := a.stringAttr(name), b.stringAttr(name)
		merged := make([]string, 0, len(av)+len(bv))
		merged = append(merged, av...)
		merged = append(merged, bv...)
		out.setStringAttr(name, merged)
	}

	out.Meta().Annotations = entity.MergeAnnotations(a.Meta().Annotations, b.Meta().Annotations)

	return out, nil
}

// Sort reorders c in place so the primary array ascends. The permutation
// is computed once from the primary array before anything is reordered, so
// the auxiliary arrays stay aligned with their elements even though each
// array is physically permuted in a separate pass.
func Sort(c Container) error {
	perm, err := c.Data().ArgSort()
	if err != nil {
		return err
	}

	for _, name := range c.Spec().QuantitySlice {
		v := c.quantityAttr(name)
		if v == nil || v.Len() == 0 {
			continue
		}
		sorted, err := v.Select(perm)
		if err != nil {
			return fmt.Errorf("sorting %s: %w", name, err)
		}
		c.setQuantityAttr(name, sorted)
	}
	for _, name := range c.Spec().StringSlice {
		v := c.stringAttr(name)
		if len(v) == 0 {
			continue
		}
		if len(v) != len(perm) {
			return fmt.Errorf("sorting %s: %w: %d entries for %d elements",
				name, errs.ErrLengthMismatch, len(v), len(perm))
		}
		sorted := make([]string, len(v))
		for i, p := range perm {
			sorted[i] = v[p]
		}
		c.setStringAttr(name, sorted)
	}

	sortedData, err := c.Data().Select(perm)
	if err != nil {
		return err
	}
	c.setData(sortedData)

	return nil
}

// Equal reports whether two containers hold equal data. When both are the
// same kind, differing consistency attributes make them unequal rather
// than raising an error; otherwise equality is the unit-aware element-wise
// comparison of the primary arrays.
func Equal(a, b Container) bool {
	if err := CheckConsistency(a, b); err != nil {
		return false
	}

	return a.Data().Equal(b.Data())
}

// Add returns c + operand with c's metadata propagated onto the result.
//
// The operand may be a container of the same kind (checked for
// consistency first), a *quantity.Quantity, a quantity.Scalar, or a bare
// float64 (treated as dimensionless).
func Add[T Container](c T, operand any) (T, error) {
	return applyOperator(c, operand, (*quantity.Quantity).Add)
}

// Sub returns c - operand; see Add for operand rules.
func Sub[T Container](c T, operand any) (T, error) {
	return applyOperator(c, operand, (*quantity.Quantity).Sub)
}

// Mul returns c * operand; see Add for operand rules. Units combine.
func Mul[T Container](c T, operand any) (T, error) {
	return applyOperator(c, operand, (*quantity.Quantity).Mul)
}

// Div returns c / operand; see Add for operand rules. Units combine.
func Div[T Container](c T, operand any) (T, error) {
	return applyOperator(c, operand, (*quantity.Quantity).Div)
}

func applyOperator[T Container](c T, operand any,
	op func(*quantity.Quantity, *quantity.Quantity) (*quantity.Quantity, error),
) (T, error) {
	var zero T

	rhs, err := operandQuantity(c, operand)
	if err != nil {
		return zero, err
	}
	data, err := op(c.Data(), rhs)
	if err != nil {
		return zero, err
	}

	return DuplicateWithNewData(c, data), nil
}

func operandQuantity(c Container, operand any) (*quantity.Quantity, error) {
	switch v := operand.(type) {
	case Container:
		if err := CheckConsistency(c, v); err != nil {
			return nil, err
		}

		return v.Data(), nil
	case *quantity.Quantity:
		return v, nil
	case quantity.Scalar:
		return quantity.FromScalar(v), nil
	case float64:
		return quantity.FromScalar(quantity.NewScalar(v, quantity.Dimensionless)), nil
	case int:
		return quantity.FromScalar(quantity.NewScalar(float64(v), quantity.Dimensionless)), nil
	default:
		return nil, fmt.Errorf("unsupported operand type %T", operand)
	}
}
