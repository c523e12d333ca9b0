package series

import (
	"fmt"
	"strings"

	"github.com/arloliu/neosig/errs"
	"github.com/arloliu/neosig/internal/options"
	"github.com/arloliu/neosig/quantity"
)

// Epoch is one or more time periods: an Event where every entry also has a
// duration. Durations are unit-bearing and move in lockstep with the times
// through slicing, sorting and merging, like labels do.
type Epoch struct {
	Event

	durations *quantity.Quantity
}

var _ Container = (*Epoch)(nil)

// EpochOption configures NewEpoch.
type EpochOption = options.Option[*Epoch]

// WithDurations sets the length of each time period. Durations given in a
// different time unit are rescaled into the times' unit; durations default
// to zeros.
func WithDurations(durations *quantity.Quantity) EpochOption {
	return options.New(func(ep *Epoch) error {
		rescaled, err := durations.Rescale(ep.data.Unit())
		if err != nil {
			return err
		}
		ep.durations = rescaled

		return nil
	})
}

// WithDurationValues sets durations from bare magnitudes, interpreted in
// the times' own unit.
func WithDurationValues(values []float64) EpochOption {
	return options.NoError(func(ep *Epoch) {
		ep.durations = quantity.New(values, ep.data.Unit())
	})
}

// WithEpochLabels sets one label per time period.
func WithEpochLabels(labels []string) EpochOption {
	return options.NoError(func(ep *Epoch) {
		ep.labels = append([]string(nil), labels...)
	})
}

// WithEpochUnits rescales the epoch times (and any already-set durations)
// into the given time unit at construction.
func WithEpochUnits(unit quantity.Unit) EpochOption {
	return options.New(func(ep *Epoch) error {
		data, err := ep.data.Rescale(unit)
		if err != nil {
			return err
		}
		ep.data = data
		if ep.durations != nil {
			if ep.durations, err = ep.durations.Rescale(unit); err != nil {
				return err
			}
		}

		return nil
	})
}

// WithEpochName sets the dataset label.
func WithEpochName(name string) EpochOption {
	return options.NoError(func(ep *Epoch) { ep.meta.Name = name })
}

// WithEpochDescription sets the free-text description.
func WithEpochDescription(description string) EpochOption {
	return options.NoError(func(ep *Epoch) { ep.meta.Description = description })
}

// WithEpochOrigin sets the origin of the data, typically a file path.
func WithEpochOrigin(origin string) EpochOption {
	return options.NoError(func(ep *Epoch) { ep.meta.Origin = origin })
}

// WithEpochAnnotations stores user metadata on the epoch array.
func WithEpochAnnotations(annotations map[string]any) EpochOption {
	return options.NoError(func(ep *Epoch) {
		for k, v := range annotations {
			ep.meta.Annotate(k, v)
		}
	})
}

func newEpoch() *Epoch {
	ep := &Epoch{}
	ep.initAttrs(epochSpec)
	ep.registerStrings("labels", &ep.labels)
	ep.registerQuantity("durations", &ep.durations)

	return ep
}

// NewEpoch creates an epoch array from period start times.
//
// The times must be time-dimensional. Durations default to zeros in the
// times' unit; labels default to empty strings.
//
// Example:
//
//	times := quantity.New([]float64{0, 10, 20}, quantity.Second)
//	durs := quantity.New([]float64{10, 5, 7}, quantity.Millisecond)
//	epc, err := series.NewEpoch(times,
//	    series.WithDurations(durs),
//	    series.WithEpochLabels([]string{"btn0", "btn1", "btn2"}),
//	)
func NewEpoch(times *quantity.Quantity, opts ...EpochOption) (*Epoch, error) {
	ep := newEpoch()
	if err := ep.initData(times); err != nil {
		return nil, err
	}
	if err := options.Apply(ep, opts...); err != nil {
		return nil, err
	}
	if err := ep.fillLabels(); err != nil {
		return nil, err
	}
	if err := ep.fillDurations(); err != nil {
		return nil, err
	}

	return ep, nil
}

// fillDurations defaults missing durations to a zero array in the times'
// unit and validates the count.
func (ep *Epoch) fillDurations() error {
	if ep.durations == nil {
		ep.durations = quantity.Zeros(ep.Len(), ep.data.Unit())
	}
	if ep.durations.Len() != ep.Len() {
		return fmt.Errorf("%w: %d durations for %d times",
			errs.ErrLengthMismatch, ep.durations.Len(), ep.Len())
	}

	return nil
}

// Durations returns the per-entry durations, in the times' unit.
func (ep *Epoch) Durations() *quantity.Quantity {
	return ep.durations
}

func (ep *Epoch) emptyLike() Container {
	return newEpoch()
}

// EpochArgs is the ordered argument tuple that reconstructs an Epoch; see
// ReconstructEpoch.
type EpochArgs struct {
	Times       *quantity.Quantity
	Labels      []string
	Durations   *quantity.Quantity
	Name        string
	Description string
	Origin      string
	Annotations map[string]any
}

// Args returns the reconstruction tuple for the epoch array.
func (ep *Epoch) Args() EpochArgs {
	return EpochArgs{
		Times:       ep.data.Copy(),
		Labels:      append([]string(nil), ep.labels...),
		Durations:   ep.durations.Copy(),
		Name:        ep.meta.Name,
		Description: ep.meta.Description,
		Origin:      ep.meta.Origin,
		Annotations: ep.meta.Annotations,
	}
}

// ReconstructEpoch rebuilds an epoch array from its Args tuple.
func ReconstructEpoch(args EpochArgs) (*Epoch, error) {
	return NewEpoch(args.Times,
		WithEpochLabels(args.Labels),
		WithDurations(args.Durations),
		WithEpochName(args.Name),
		WithEpochDescription(args.Description),
		WithEpochOrigin(args.Origin),
		WithEpochAnnotations(args.Annotations),
	)
}

func (ep *Epoch) String() string {
	entries := make([]string, ep.Len())
	values := ep.data.Values()
	durs := ep.durations.Values()
	for i := range entries {
		entries[i] = fmt.Sprintf("%s@%g %s for %g %s",
			ep.labels[i], values[i], ep.data.Unit(), durs[i], ep.durations.Unit())
	}

	return "<Epoch: " + strings.Join(entries, ", ") + ">"
}
