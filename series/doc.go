// Package series implements unit-aware array containers for
// neurophysiology time-series data: continuous analog signals, discrete
// events, interval epochs, and spike trains.
//
// Every container wraps a quantity.Quantity primary array together with
// annotated-entity metadata (entity.Entity) and time-domain identity
// (TStart/TStop/Times/Duration). The four concrete kinds share one
// generic behavioral core driven by a per-type configuration record
// (Spec): which scalar attributes must match for two containers to be
// combined, and which auxiliary arrays move in lockstep with the primary
// array through slicing, sorting and merging.
//
// # Containers
//
//   - AnalogSignal: fixed-rate regularly sampled array; the time axis is
//     derived from t_start and the sampling rate
//   - Event: irregular discrete timestamps with text labels
//   - Epoch: Event plus a duration per entry
//   - SpikeTrain: event times bounded by an enforced [t_start, t_stop]
//     interval, with optional per-spike waveform snippets
//
// # Generic operations
//
// Slice, Merge, Sort, Rescale, DuplicateWithNewData, Add/Sub/Mul/Div and
// Equal are package-level functions that work on any container kind and
// return the same concrete type they were given. Derived containers get
// their metadata through an explicit propagation step; there is no hidden
// copying machinery.
//
//	sig, _ := series.NewAnalogSignal(data,
//	    series.WithSamplingRate(quantity.NewScalar(1, quantity.Kilohertz)))
//	tail, _ := series.Slice(sig, 100, 200) // *AnalogSignal, t_start shifted
//
// Single-element indexing returns a bare quantity.Scalar, never a
// container: containers are views over ranges, not their own elements.
//
// # Concurrency
//
// Containers are mutable value containers with no internal locking.
// Callers that share one across goroutines must serialize access
// externally or treat it as immutable after construction.
package series
