package series

import (
	"fmt"

	"github.com/arloliu/neosig/errs"
	"github.com/arloliu/neosig/internal/options"
	"github.com/arloliu/neosig/quantity"
)

// SpikeTrain is an ensemble of action potentials (spikes) emitted by the
// same unit in a period of time. Every spike time must lie within the
// enforced [TStart, TStop] interval, both at construction and on element
// assignment.
//
// A train may carry per-spike waveform snippets as a 3-D
// (spike x channel x sample) quantity, plus a left sweep and a sampling
// rate describing the waveform timing.
type SpikeTrain struct {
	Base

	tStart       quantity.Scalar
	tStop        quantity.Scalar
	waveforms    *quantity.Quantity
	leftSweep    quantity.Scalar
	samplingRate quantity.Scalar
}

var _ Container = (*SpikeTrain)(nil)

// SpikeTrainOption configures NewSpikeTrain.
type SpikeTrainOption = options.Option[*SpikeTrain]

// WithTrainTStart sets the time the spike train begins. A scalar without
// units is interpreted in the times' unit. Default: 0 s.
func WithTrainTStart(start quantity.Scalar) SpikeTrainOption {
	return options.NoError(func(st *SpikeTrain) {
		st.tStart = start
	})
}

// WithWaveforms attaches per-spike waveform snippets: a 3-D
// (spike x channel x sample) quantity whose leading axis matches the spike
// count.
func WithWaveforms(waveforms *quantity.Quantity) SpikeTrainOption {
	return options.NoError(func(st *SpikeTrain) {
		st.waveforms = waveforms.Copy()
	})
}

// WithLeftSweep sets the time from the beginning of each waveform to the
// spike trigger time.
func WithLeftSweep(sweep quantity.Scalar) SpikeTrainOption {
	return options.NoError(func(st *SpikeTrain) {
		st.leftSweep = sweep
	})
}

// WithTrainSamplingRate sets the waveform sampling rate. Default: 1 Hz.
func WithTrainSamplingRate(rate quantity.Scalar) SpikeTrainOption {
	return options.NoError(func(st *SpikeTrain) {
		st.samplingRate = rate
	})
}

// WithTrainUnits rescales the spike times into the given time unit at
// construction.
func WithTrainUnits(unit quantity.Unit) SpikeTrainOption {
	return options.New(func(st *SpikeTrain) error {
		data, err := st.data.Rescale(unit)
		if err != nil {
			return err
		}
		st.data = data

		return nil
	})
}

// WithTrainName sets the dataset label.
func WithTrainName(name string) SpikeTrainOption {
	return options.NoError(func(st *SpikeTrain) { st.meta.Name = name })
}

// WithTrainDescription sets the free-text description.
func WithTrainDescription(description string) SpikeTrainOption {
	return options.NoError(func(st *SpikeTrain) { st.meta.Description = description })
}

// WithTrainOrigin sets the origin of the data, typically a file path.
func WithTrainOrigin(origin string) SpikeTrainOption {
	return options.NoError(func(st *SpikeTrain) { st.meta.Origin = origin })
}

// WithTrainAnnotations stores user metadata on the spike train.
func WithTrainAnnotations(annotations map[string]any) SpikeTrainOption {
	return options.NoError(func(st *SpikeTrain) {
		for k, v := range annotations {
			st.meta.Annotate(k, v)
		}
	})
}

func newSpikeTrain() *SpikeTrain {
	st := &SpikeTrain{}
	st.initAttrs(spikeTrainSpec)
	st.registerScalar("t_start", &st.tStart)
	st.registerScalar("t_stop", &st.tStop)
	st.registerScalar("left_sweep", &st.leftSweep)
	st.registerScalar("sampling_rate", &st.samplingRate)
	st.registerQuantity("waveforms", &st.waveforms)

	return st
}

// NewSpikeTrain creates a spike train from spike times and the required
// end of its observation interval.
//
// tStop (and a tStart given via WithTrainTStart) are coerced into the
// times' unit; a scalar without units is interpreted in that unit
// directly, so NewSpikeTrain(times, quantity.NewScalar(10, quantity.Unit{}))
// bounds times given in seconds at 10 s. Construction fails with
// errs.ErrTimeOutOfRange if any spike lies outside [tStart, tStop].
//
// Example:
//
//	times := quantity.New([]float64{3, 4, 5}, quantity.Second)
//	train, err := series.NewSpikeTrain(times, quantity.Seconds(10))
func NewSpikeTrain(times *quantity.Quantity, tStop quantity.Scalar, opts ...SpikeTrainOption) (*SpikeTrain, error) {
	st := newSpikeTrain()
	if err := st.initData(times); err != nil {
		return nil, err
	}
	st.tStart = quantity.Seconds(0)
	st.tStop = tStop
	st.samplingRate = quantity.NewScalar(1, quantity.Hertz)

	if err := options.Apply(st, opts...); err != nil {
		return nil, err
	}

	var err error
	if st.tStart, err = st.coerceBound("t_start", st.tStart); err != nil {
		return nil, err
	}
	if !st.tStop.Defined() && st.tStop.Value() == 0 {
		return nil, errs.ErrMissingTStop
	}
	if st.tStop, err = st.coerceBound("t_stop", st.tStop); err != nil {
		return nil, err
	}

	if err := st.checkTimesInRange(); err != nil {
		return nil, err
	}
	if err := st.checkWaveforms(); err != nil {
		return nil, err
	}

	return st, nil
}

// coerceBound brings a boundary scalar into the data's unit: unitless
// values adopt the unit directly, matching units copy fast, and other time
// units rescale.
func (st *SpikeTrain) coerceBound(name string, v quantity.Scalar) (quantity.Scalar, error) {
	unit := st.data.Unit()
	if !v.Defined() {
		return quantity.NewScalar(v.Value(), unit), nil
	}
	if v.Unit().Equal(unit) {
		return v, nil
	}
	rv, err := v.Rescale(unit)
	if err != nil {
		return quantity.Scalar{}, fmt.Errorf("%s: %w", name, err)
	}

	return rv, nil
}

// checkTimesInRange verifies every spike lies within [tStart, tStop].
// Bounds and data share a unit by construction, so raw values compare
// directly.
func (st *SpikeTrain) checkTimesInRange() error {
	if st.Len() == 0 {
		return nil
	}
	mn, _ := st.data.Min()
	mx, _ := st.data.Max()
	if mn.Value() < st.tStart.Value() {
		return fmt.Errorf("%w: the first spike (%s) is before t_start (%s)",
			errs.ErrTimeOutOfRange, mn, st.tStart)
	}
	if mx.Value() > st.tStop.Value() {
		return fmt.Errorf("%w: the last spike (%s) is after t_stop (%s)",
			errs.ErrTimeOutOfRange, mx, st.tStop)
	}

	return nil
}

func (st *SpikeTrain) checkWaveforms() error {
	if st.waveforms == nil {
		return nil
	}
	if st.waveforms.NDim() != 3 {
		return fmt.Errorf("%w: waveforms must be 3-D (spike x channel x sample), have %d axes",
			errs.ErrShapeMismatch, st.waveforms.NDim())
	}
	if st.waveforms.Len() != st.Len() {
		return fmt.Errorf("%w: %d waveforms for %d spikes",
			errs.ErrLengthMismatch, st.waveforms.Len(), st.Len())
	}

	return nil
}

// SetAt replaces spike time i, re-validating the [TStart, TStop] bound.
// A value without units is coerced into the train's unit first.
func (st *SpikeTrain) SetAt(i int, v quantity.Scalar) error {
	if !v.Unit().Defined() {
		v = quantity.NewScalar(v.Value(), st.data.Unit())
	}
	rv, err := v.Rescale(st.data.Unit())
	if err != nil {
		return err
	}
	if rv.Value() < st.tStart.Value() || rv.Value() > st.tStop.Value() {
		return fmt.Errorf("%w: %s outside [%s, %s]", errs.ErrTimeOutOfRange, rv, st.tStart, st.tStop)
	}

	return st.data.SetAt(i, rv)
}

// TimeSlice returns a new train containing the spikes with
// start <= t <= stop. A nil bound is unbounded in that direction. The
// result's own interval tightens to [max(start, TStart), min(stop, TStop)],
// and waveforms, if present, are selected identically.
func (st *SpikeTrain) TimeSlice(start, stop *quantity.Scalar) (*SpikeTrain, error) {
	lo, hi, err := st.sliceBounds(start, stop)
	if err != nil {
		return nil, err
	}

	values := st.data.Values()
	indices := make([]int, 0, len(values))
	for i, v := range values {
		if (start == nil || v >= lo.Value()) && (stop == nil || v <= hi.Value()) {
			indices = append(indices, i)
		}
	}

	data, err := st.data.Select(indices)
	if err != nil {
		return nil, err
	}
	out := DuplicateWithNewData(st, data)
	out.tStart = maxScalar(lo, st.tStart)
	out.tStop = minScalar(hi, st.tStop)
	if st.waveforms != nil {
		if out.waveforms, err = st.waveforms.Select(indices); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// sliceBounds coerces the requested bounds into the train's unit,
// defaulting nil bounds to the train's own interval.
func (st *SpikeTrain) sliceBounds(start, stop *quantity.Scalar) (lo, hi quantity.Scalar, err error) {
	lo, hi = st.tStart, st.tStop
	if start != nil {
		if lo, err = st.coerceBound("t_start", *start); err != nil {
			return quantity.Scalar{}, quantity.Scalar{}, err
		}
	}
	if stop != nil {
		if hi, err = st.coerceBound("t_stop", *stop); err != nil {
			return quantity.Scalar{}, quantity.Scalar{}, err
		}
	}

	return lo, hi, nil
}

func maxScalar(a, b quantity.Scalar) quantity.Scalar {
	if a.Value() >= b.Value() {
		return a
	}

	return b
}

func minScalar(a, b quantity.Scalar) quantity.Scalar {
	if a.Value() <= b.Value() {
		return a
	}

	return b
}

// Times returns the spike times: the container's own data, without
// modification or copying.
func (st *SpikeTrain) Times() *quantity.Quantity {
	return st.data
}

// TStart returns the start of the observation interval.
func (st *SpikeTrain) TStart() quantity.Scalar {
	return st.tStart
}

// TStop returns the end of the observation interval.
func (st *SpikeTrain) TStop() quantity.Scalar {
	return st.tStop
}

// Duration returns the span over which spikes could occur:
// TStop - TStart.
func (st *SpikeTrain) Duration() quantity.Scalar {
	d, err := st.tStop.Sub(st.tStart)
	if err != nil {
		return quantity.Scalar{}
	}

	return d
}

// Waveforms returns the per-spike waveform snippets, or nil.
func (st *SpikeTrain) Waveforms() *quantity.Quantity {
	return st.waveforms
}

// LeftSweep returns the time from the beginning of each waveform to the
// spike trigger time; undefined when never set.
func (st *SpikeTrain) LeftSweep() quantity.Scalar {
	return st.leftSweep
}

// SamplingRate returns the waveform sampling rate; undefined when cleared.
func (st *SpikeTrain) SamplingRate() quantity.Scalar {
	return st.samplingRate
}

// SetSamplingRate replaces the waveform sampling rate. Unlike
// AnalogSignal, an undefined value is accepted and clears the rate.
func (st *SpikeTrain) SetSamplingRate(rate quantity.Scalar) {
	st.samplingRate = rate
}

// SamplingPeriod returns the reciprocal of the sampling rate, or an
// undefined scalar when the rate is undefined.
func (st *SpikeTrain) SamplingPeriod() quantity.Scalar {
	if !st.samplingRate.Defined() {
		return quantity.Scalar{}
	}

	return st.samplingRate.Reciprocal()
}

// SetSamplingPeriod stores the reciprocal of period as the sampling rate.
// An undefined period clears the rate rather than failing.
func (st *SpikeTrain) SetSamplingPeriod(period quantity.Scalar) {
	if !period.Defined() {
		st.samplingRate = quantity.Scalar{}

		return
	}
	st.samplingRate = period.Reciprocal()
}

// SpikeDuration returns the duration of one waveform: sample count over
// sampling rate. Undefined when waveforms or the rate are absent.
func (st *SpikeTrain) SpikeDuration() quantity.Scalar {
	if st.waveforms == nil || !st.samplingRate.Defined() {
		return quantity.Scalar{}
	}
	samples := st.waveforms.Shape()[2]

	return st.samplingRate.Reciprocal().MulFloat(float64(samples))
}

// RightSweep returns LeftSweep + SpikeDuration; undefined when either
// operand is.
func (st *SpikeTrain) RightSweep() quantity.Scalar {
	dur := st.SpikeDuration()
	if !st.leftSweep.Defined() || !dur.Defined() {
		return quantity.Scalar{}
	}
	sweep, err := st.leftSweep.Add(dur)
	if err != nil {
		return quantity.Scalar{}
	}

	return sweep
}

func (st *SpikeTrain) emptyLike() Container {
	return newSpikeTrain()
}

// SpikeTrainArgs is the ordered argument tuple that reconstructs a
// SpikeTrain; see ReconstructSpikeTrain.
type SpikeTrainArgs struct {
	Times        *quantity.Quantity
	TStop        quantity.Scalar
	TStart       quantity.Scalar
	SamplingRate quantity.Scalar
	Waveforms    *quantity.Quantity
	LeftSweep    quantity.Scalar
	Name         string
	Description  string
	Origin       string
	Annotations  map[string]any
}

// Args returns the reconstruction tuple for the spike train.
func (st *SpikeTrain) Args() SpikeTrainArgs {
	args := SpikeTrainArgs{
		Times:        st.data.Copy(),
		TStop:        st.tStop,
		TStart:       st.tStart,
		SamplingRate: st.samplingRate,
		LeftSweep:    st.leftSweep,
		Name:         st.meta.Name,
		Description:  st.meta.Description,
		Origin:       st.meta.Origin,
		Annotations:  st.meta.Annotations,
	}
	if st.waveforms != nil {
		args.Waveforms = st.waveforms.Copy()
	}

	return args
}

// ReconstructSpikeTrain rebuilds a spike train from its Args tuple.
func ReconstructSpikeTrain(args SpikeTrainArgs) (*SpikeTrain, error) {
	opts := []SpikeTrainOption{
		WithTrainTStart(args.TStart),
		WithTrainSamplingRate(args.SamplingRate),
		WithTrainName(args.Name),
		WithTrainDescription(args.Description),
		WithTrainOrigin(args.Origin),
		WithTrainAnnotations(args.Annotations),
	}
	if args.Waveforms != nil {
		opts = append(opts, WithWaveforms(args.Waveforms))
	}
	if args.LeftSweep.Defined() {
		opts = append(opts, WithLeftSweep(args.LeftSweep))
	}

	return NewSpikeTrain(args.Times, args.TStop, opts...)
}

func (st *SpikeTrain) String() string {
	return fmt.Sprintf("<SpikeTrain(%s, [%s, %s])>", st.data, st.tStart, st.tStop)
}
