package series

import (
	"fmt"
	"strings"

	"github.com/arloliu/neosig/errs"
	"github.com/arloliu/neosig/internal/options"
	"github.com/arloliu/neosig/quantity"
)

// Event is one or more discrete events: irregular time stamps, each with a
// short text label. The primary array is the times themselves, so Times
// aliases the container's own data.
type Event struct {
	Base

	labels []string
}

var _ Container = (*Event)(nil)

// EventOption configures NewEvent.
type EventOption = options.Option[*Event]

// WithLabels sets one label per event. Defaults to empty strings.
func WithLabels(labels []string) EventOption {
	return options.NoError(func(e *Event) {
		e.labels = append([]string(nil), labels...)
	})
}

// WithEventUnits rescales the event times into the given time unit at
// construction.
func WithEventUnits(unit quantity.Unit) EventOption {
	return options.New(func(e *Event) error {
		data, err := e.data.Rescale(unit)
		if err != nil {
			return err
		}
		e.data = data

		return nil
	})
}

// WithEventName sets the dataset label.
func WithEventName(name string) EventOption {
	return options.NoError(func(e *Event) { e.meta.Name = name })
}

// WithEventDescription sets the free-text description.
func WithEventDescription(description string) EventOption {
	return options.NoError(func(e *Event) { e.meta.Description = description })
}

// WithEventOrigin sets the origin of the data, typically a file path.
func WithEventOrigin(origin string) EventOption {
	return options.NoError(func(e *Event) { e.meta.Origin = origin })
}

// WithEventAnnotations stores user metadata on the event array.
func WithEventAnnotations(annotations map[string]any) EventOption {
	return options.NoError(func(e *Event) {
		for k, v := range annotations {
			e.meta.Annotate(k, v)
		}
	})
}

func newEvent() *Event {
	e := &Event{}
	e.initAttrs(eventSpec)
	e.registerStrings("labels", &e.labels)

	return e
}

// NewEvent creates an event array from time stamps.
//
// The times must be time-dimensional. Labels default to one empty string
// per entry; when supplied their count must match the times.
func NewEvent(times *quantity.Quantity, opts ...EventOption) (*Event, error) {
	e := newEvent()
	if err := e.initData(times); err != nil {
		return nil, err
	}
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}
	if err := e.fillLabels(); err != nil {
		return nil, err
	}

	return e, nil
}

// fillLabels defaults missing labels to empty strings and validates the
// count against the times.
func (e *Event) fillLabels() error {
	if e.labels == nil {
		e.labels = make([]string, e.Len())
	}
	if len(e.labels) != e.Len() {
		return fmt.Errorf("%w: %d labels for %d times", errs.ErrLengthMismatch, len(e.labels), e.Len())
	}

	return nil
}

// Labels returns the event labels. The returned slice is a live view; the
// caller must not modify it.
func (e *Event) Labels() []string {
	return e.labels
}

// Times returns the event times: the container's own data, without
// modification or copying.
func (e *Event) Times() *quantity.Quantity {
	return e.data
}

// TStart returns the minimum event time, or an undefined scalar for an
// empty array.
func (e *Event) TStart() quantity.Scalar {
	mn, err := e.data.Min()
	if err != nil {
		return quantity.Scalar{}
	}

	return mn
}

// TStop returns the minimum event time, the same value as TStart. Callers
// rely on this legacy behavior; it deliberately does not report the
// maximum.
func (e *Event) TStop() quantity.Scalar {
	mn, err := e.data.Min()
	if err != nil {
		return quantity.Scalar{}
	}

	return mn
}

// Duration returns TStop - TStart, which given TStop's definition is
// always zero for a non-empty event array.
func (e *Event) Duration() quantity.Scalar {
	d, err := e.TStop().Sub(e.TStart())
	if err != nil {
		return quantity.Scalar{}
	}

	return d
}

func (e *Event) emptyLike() Container {
	return newEvent()
}

// EventArgs is the ordered argument tuple that reconstructs an Event; see
// ReconstructEvent.
type EventArgs struct {
	Times       *quantity.Quantity
	Labels      []string
	Name        string
	Description string
	Origin      string
	Annotations map[string]any
}

// Args returns the reconstruction tuple for the event array.
func (e *Event) Args() EventArgs {
	return EventArgs{
		Times:       e.data.Copy(),
		Labels:      append([]string(nil), e.labels...),
		Name:        e.meta.Name,
		Description: e.meta.Description,
		Origin:      e.meta.Origin,
		Annotations: e.meta.Annotations,
	}
}

// ReconstructEvent rebuilds an event array from its Args tuple.
func ReconstructEvent(args EventArgs) (*Event, error) {
	return NewEvent(args.Times,
		WithLabels(args.Labels),
		WithEventName(args.Name),
		WithEventDescription(args.Description),
		WithEventOrigin(args.Origin),
		WithEventAnnotations(args.Annotations),
	)
}

func (e *Event) String() string {
	entries := make([]string, e.Len())
	values := e.data.Values()
	for i := range entries {
		entries[i] = fmt.Sprintf("%s@%g %s", e.labels[i], values[i], e.data.Unit())
	}

	return "<Event: " + strings.Join(entries, ", ") + ">"
}
