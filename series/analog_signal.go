package series

import (
	"fmt"

	"github.com/arloliu/neosig/errs"
	"github.com/arloliu/neosig/internal/options"
	"github.com/arloliu/neosig/quantity"
)

// AnalogSignal is a continuous signal acquired at time TStart at a fixed
// sampling rate. The primary array may carry any dimensionality (voltage,
// current, ...); the time axis is derived from TStart and SamplingRate and
// never stored.
//
// Slicing an AnalogSignal keeps its metadata, except that a nonzero start
// offset advances TStart by start sampling periods and a non-unit step
// multiplies the sampling period by the step.
type AnalogSignal struct {
	Base

	tStart       quantity.Scalar
	samplingRate quantity.Scalar

	// construction staging for the rate/period reciprocal check
	optRate   quantity.Scalar
	optPeriod quantity.Scalar
}

var _ Container = (*AnalogSignal)(nil)

// AnalogSignalOption configures NewAnalogSignal.
type AnalogSignalOption = options.Option[*AnalogSignal]

// WithTStart sets the time the signal begins. Must be time-valued.
// Default: 0 s.
func WithTStart(start quantity.Scalar) AnalogSignalOption {
	return options.New(func(s *AnalogSignal) error {
		return s.SetTStart(start)
	})
}

// WithSamplingRate sets the number of samples per unit time.
func WithSamplingRate(rate quantity.Scalar) AnalogSignalOption {
	return options.NoError(func(s *AnalogSignal) {
		s.optRate = rate
	})
}

// WithSamplingPeriod sets the interval between two samples. If both rate
// and period are supplied they must be exact reciprocals.
func WithSamplingPeriod(period quantity.Scalar) AnalogSignalOption {
	return options.NoError(func(s *AnalogSignal) {
		s.optPeriod = period
	})
}

// WithSignalUnits rescales the signal data into the given unit at
// construction.
func WithSignalUnits(unit quantity.Unit) AnalogSignalOption {
	return options.New(func(s *AnalogSignal) error {
		data, err := s.data.Rescale(unit)
		if err != nil {
			return err
		}
		s.data = data

		return nil
	})
}

// WithSignalName sets the dataset label.
func WithSignalName(name string) AnalogSignalOption {
	return options.NoError(func(s *AnalogSignal) { s.meta.Name = name })
}

// WithSignalDescription sets the free-text description.
func WithSignalDescription(description string) AnalogSignalOption {
	return options.NoError(func(s *AnalogSignal) { s.meta.Description = description })
}

// WithSignalOrigin sets the origin of the data, typically a file path.
func WithSignalOrigin(origin string) AnalogSignalOption {
	return options.NoError(func(s *AnalogSignal) { s.meta.Origin = origin })
}

// WithSignalAnnotations stores user metadata on the signal.
func WithSignalAnnotations(annotations map[string]any) AnalogSignalOption {
	return options.NoError(func(s *AnalogSignal) {
		for k, v := range annotations {
			s.meta.Annotate(k, v)
		}
	})
}

func newAnalogSignal() *AnalogSignal {
	s := &AnalogSignal{}
	s.initAttrs(analogSignalSpec)
	s.registerScalar("t_start", &s.tStart)
	s.registerScalar("sampling_rate", &s.samplingRate)

	return s
}

// NewAnalogSignal creates a signal from a sampled data array.
//
// The data must carry units. One of WithSamplingRate or WithSamplingPeriod
// is required; when both are given they must be exact reciprocals or
// construction fails with errs.ErrSamplingRateMismatch. TStart defaults to
// 0 s.
//
// Example:
//
//	data := quantity.New(samples, quantity.Millivolt)
//	sig, err := series.NewAnalogSignal(data,
//	    series.WithSamplingRate(quantity.NewScalar(30, quantity.Kilohertz)),
//	    series.WithTStart(quantity.NewScalar(42, quantity.Millisecond)),
//	)
func NewAnalogSignal(data *quantity.Quantity, opts ...AnalogSignalOption) (*AnalogSignal, error) {
	s := newAnalogSignal()
	if err := s.initData(data); err != nil {
		return nil, err
	}
	s.tStart = quantity.Seconds(0)

	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}

	rate, err := resolveSamplingRate(s.optRate, s.optPeriod)
	if err != nil {
		return nil, err
	}
	s.samplingRate = rate
	s.optRate, s.optPeriod = quantity.Scalar{}, quantity.Scalar{}

	return s, nil
}

// resolveSamplingRate derives the sampling rate from whichever of rate and
// period were supplied, enforcing reciprocity when both were.
func resolveSamplingRate(rate, period quantity.Scalar) (quantity.Scalar, error) {
	switch {
	case !rate.Defined() && !period.Defined():
		return quantity.Scalar{}, errs.ErrMissingSamplingRate
	case !rate.Defined():
		return period.Reciprocal(), nil
	case period.Defined() && !period.Equal(rate.Reciprocal()):
		return quantity.Scalar{}, fmt.Errorf("%w: rate %s, period %s",
			errs.ErrSamplingRateMismatch, rate, period)
	}

	return rate, nil
}

// Signal returns the container's own data array. It is the signal's main
// attribute alias.
func (s *AnalogSignal) Signal() *quantity.Quantity {
	return s.data
}

// TStart returns the time the signal begins.
func (s *AnalogSignal) TStart() quantity.Scalar {
	return s.tStart
}

// SetTStart replaces the signal start time. Undefined values are rejected.
func (s *AnalogSignal) SetTStart(start quantity.Scalar) error {
	if !start.Defined() {
		return errs.ErrMissingTStart
	}
	if !start.Unit().Dim().IsTime() {
		return fmt.Errorf("%w: t_start has dimensionality %s", errs.ErrNonTimeUnits, start.Unit().Dim())
	}
	s.tStart = start

	return nil
}

// SamplingRate returns the number of samples per unit time.
func (s *AnalogSignal) SamplingRate() quantity.Scalar {
	return s.samplingRate
}

// SetSamplingRate replaces the sampling rate. Undefined (unitless) values
// are rejected; an AnalogSignal always has a rate.
func (s *AnalogSignal) SetSamplingRate(rate quantity.Scalar) error {
	if !rate.Defined() {
		return fmt.Errorf("%w: sampling_rate cannot be undefined", errs.ErrMissingSamplingRate)
	}
	s.samplingRate = rate

	return nil
}

// SamplingPeriod returns the interval between two samples, the reciprocal
// of SamplingRate.
func (s *AnalogSignal) SamplingPeriod() quantity.Scalar {
	return s.samplingRate.Reciprocal()
}

// SetSamplingPeriod stores the reciprocal of period as the sampling rate.
// Undefined values are rejected, unlike SpikeTrain's setter.
func (s *AnalogSignal) SetSamplingPeriod(period quantity.Scalar) error {
	if !period.Defined() {
		return fmt.Errorf("%w: sampling_period cannot be undefined", errs.ErrMissingSamplingRate)
	}
	s.samplingRate = period.Reciprocal()

	return nil
}

// Duration returns the signal duration: element count over sampling rate.
func (s *AnalogSignal) Duration() quantity.Scalar {
	return s.SamplingPeriod().MulFloat(float64(s.Len()))
}

// TStop returns the time the signal ends: TStart + Duration.
func (s *AnalogSignal) TStop() quantity.Scalar {
	stop, err := s.tStart.Add(s.Duration())
	if err != nil {
		// tStart is validated time-dimensional, so Duration always
		// rescales into it.
		return quantity.Scalar{}
	}

	return stop
}

// Times returns the time point of each sample:
// TStart + i / SamplingRate. The axis is recomputed on every call, never
// cached.
func (s *AnalogSignal) Times() *quantity.Quantity {
	period, err := s.SamplingPeriod().Rescale(s.tStart.Unit())
	if err != nil {
		return quantity.New(nil, s.tStart.Unit())
	}

	values := make([]float64, s.Len())
	t0 := s.tStart.Value()
	for i := range values {
		values[i] = t0 + float64(i)*period.Value()
	}

	return quantity.New(values, s.tStart.Unit())
}

func (s *AnalogSignal) emptyLike() Container {
	return newAnalogSignal()
}

// adjustAfterSlice advances t_start by start periods (using the original,
// pre-step period) and folds the step into the sampling rate.
func (s *AnalogSignal) adjustAfterSlice(src Container, start, step int) {
	orig := src.(*AnalogSignal)
	if start > 0 {
		shift := orig.SamplingPeriod().MulFloat(float64(start))
		if moved, err := orig.tStart.Add(shift); err == nil {
			s.tStart = moved
		}
	}
	if step != 1 {
		s.samplingRate = orig.samplingRate.MulFloat(1 / float64(step))
	}
}

// AnalogSignalArgs is the ordered argument tuple that reconstructs an
// AnalogSignal; see ReconstructAnalogSignal. Together they form the
// signal's serialization contract.
type AnalogSignalArgs struct {
	Data         *quantity.Quantity
	TStart       quantity.Scalar
	SamplingRate quantity.Scalar
	Name         string
	Description  string
	Origin       string
	Annotations  map[string]any
}

// Args returns the reconstruction tuple for the signal.
func (s *AnalogSignal) Args() AnalogSignalArgs {
	return AnalogSignalArgs{
		Data:         s.data.Copy(),
		TStart:       s.tStart,
		SamplingRate: s.samplingRate,
		Name:         s.meta.Name,
		Description:  s.meta.Description,
		Origin:       s.meta.Origin,
		Annotations:  s.meta.Annotations,
	}
}

// ReconstructAnalogSignal rebuilds a signal from its Args tuple.
func ReconstructAnalogSignal(args AnalogSignalArgs) (*AnalogSignal, error) {
	return NewAnalogSignal(args.Data,
		WithTStart(args.TStart),
		WithSamplingRate(args.SamplingRate),
		WithSignalName(args.Name),
		WithSignalDescription(args.Description),
		WithSignalOrigin(args.Origin),
		WithSignalAnnotations(args.Annotations),
	)
}

func (s *AnalogSignal) String() string {
	return fmt.Sprintf("<AnalogSignal(%s, [%s, %s], sampling rate: %s)>",
		s.data, s.TStart(), s.TStop(), s.samplingRate)
}
