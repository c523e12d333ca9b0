package series

import (
	"fmt"

	"github.com/arloliu/neosig/entity"
	"github.com/arloliu/neosig/errs"
	"github.com/arloliu/neosig/quantity"
)

// Base carries the state every container kind shares: the primary array,
// the annotated-entity metadata, the kind's Spec, and a registry mapping
// the attribute names declared in the Spec to pointers into the concrete
// struct's fields. The registry is what lets the generic operations slice,
// sort, merge and propagate attributes without knowing the concrete type.
type Base struct {
	meta entity.Entity
	data *quantity.Quantity
	spec *Spec

	scalarAttrs   map[string]*quantity.Scalar
	quantityAttrs map[string]**quantity.Quantity
	stringAttrs   map[string]*[]string
}

// initAttrs wires the Base to its kind's Spec and allocates the attribute
// registry. Concrete constructors call it before registering fields.
func (b *Base) initAttrs(spec *Spec) {
	b.spec = spec
	b.scalarAttrs = make(map[string]*quantity.Scalar, len(spec.ScalarAttrs))
	b.quantityAttrs = make(map[string]**quantity.Quantity, len(spec.QuantitySlice))
	b.stringAttrs = make(map[string]*[]string, len(spec.StringSlice))
}

func (b *Base) registerScalar(name string, ptr *quantity.Scalar) {
	b.scalarAttrs[name] = ptr
}

func (b *Base) registerQuantity(name string, ptr **quantity.Quantity) {
	b.quantityAttrs[name] = ptr
}

func (b *Base) registerStrings(name string, ptr *[]string) {
	b.stringAttrs[name] = ptr
}

// initData validates and installs the primary array.
//
// The array must carry units; if the Spec enforces a dimensionality, the
// units must match it exactly (time^1 for all event-like kinds). The data
// is copied: containers own their arrays outright. Parent links are reset
// to empty.
func (b *Base) initData(data *quantity.Quantity) error {
	if data == nil {
		return fmt.Errorf("%w: %s requires data", errs.ErrMissingUnits, b.spec.Kind)
	}
	if !data.Unit().Defined() {
		return fmt.Errorf("%w: %s data has no units", errs.ErrMissingUnits, b.spec.Kind)
	}
	if b.spec.EnforceDim && data.Unit().Dim() != b.spec.RequiredDim {
		return fmt.Errorf("%w: unit %s has dimensionality %s, not [%s]",
			errs.ErrNonTimeUnits, data.Unit(), data.Unit().Dim(), b.spec.RequiredDim)
	}

	b.data = data.Copy()
	b.meta.ResetParents(b.spec.SingleParents, b.spec.MultiParents)

	return nil
}

// Spec returns the kind's configuration record.
func (b *Base) Spec() *Spec {
	return b.spec
}

// Data returns the primary array.
func (b *Base) Data() *quantity.Quantity {
	return b.data
}

// Meta returns the annotated-entity metadata.
func (b *Base) Meta() *entity.Entity {
	return &b.meta
}

// Len returns the element count along the primary array's leading axis.
func (b *Base) Len() int {
	return b.data.Len()
}

// At returns element i as a bare unit-bearing scalar.
func (b *Base) At(i int) (quantity.Scalar, error) {
	return b.data.At(i)
}

func (b *Base) setData(q *quantity.Quantity) {
	b.data = q
}

func (b *Base) scalarAttr(name string) quantity.Scalar {
	if ptr, ok := b.scalarAttrs[name]; ok {
		return *ptr
	}

	return quantity.Scalar{}
}

func (b *Base) setScalarAttr(name string, v quantity.Scalar) {
	if ptr, ok := b.scalarAttrs[name]; ok {
		*ptr = v
	}
}

func (b *Base) quantityAttr(name string) *quantity.Quantity {
	if ptr, ok := b.quantityAttrs[name]; ok {
		return *ptr
	}

	return nil
}

func (b *Base) setQuantityAttr(name string, q *quantity.Quantity) {
	if ptr, ok := b.quantityAttrs[name]; ok {
		*ptr = q
	}
}

func (b *Base) stringAttr(name string) []string {
	if ptr, ok := b.stringAttrs[name]; ok {
		return *ptr
	}

	return nil
}

func (b *Base) setStringAttr(name string, s []string) {
	if ptr, ok := b.stringAttrs[name]; ok {
		*ptr = s
	}
}

// adjustAfterSlice is the default no-op hook; kinds with derived timing
// metadata override it.
func (b *Base) adjustAfterSlice(Container, int, int) {}
