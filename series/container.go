package series

import (
	"github.com/arloliu/neosig/entity"
	"github.com/arloliu/neosig/quantity"
)

// Container is implemented by every concrete container kind. The exported
// surface gives generic code (and callers) uniform access to the primary
// array, metadata and time-domain identity; the unexported methods are the
// hooks the generic operations in this package drive, which also seals the
// interface to the four kinds defined here.
type Container interface {
	// Spec returns the kind's configuration record. All instances of one
	// kind share the same pointer.
	Spec() *Spec

	// Data returns the primary array.
	Data() *quantity.Quantity

	// Meta returns the annotated-entity metadata.
	Meta() *entity.Entity

	// Len returns the element count along the primary array's leading axis.
	Len() int

	// At returns a single element as a bare scalar. Containers are views
	// over ranges, not their own elements.
	At(i int) (quantity.Scalar, error)

	// TStart returns the time the data begins.
	TStart() quantity.Scalar

	// TStop returns the time the data ends.
	TStop() quantity.Scalar

	// Times returns the time point of every element.
	Times() *quantity.Quantity

	// Duration returns the time span covered by the data.
	Duration() quantity.Scalar

	setData(q *quantity.Quantity)
	scalarAttr(name string) quantity.Scalar
	setScalarAttr(name string, v quantity.Scalar)
	quantityAttr(name string) *quantity.Quantity
	setQuantityAttr(name string, q *quantity.Quantity)
	stringAttr(name string) []string
	setStringAttr(name string, s []string)

	// emptyLike allocates a new, unpopulated instance of the same concrete
	// kind with its attribute registry wired up.
	emptyLike() Container

	// adjustAfterSlice lets a kind fix up derived timing metadata after
	// the generic slice has run (AnalogSignal shifts t_start and scales
	// the sampling period; the other kinds do nothing).
	adjustAfterSlice(src Container, start, step int)
}
