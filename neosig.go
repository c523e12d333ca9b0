// Package neosig provides typed, unit-aware array containers for
// neurophysiology time-series data, together with a compact binary
// serialization format.
//
// Four container kinds cover the common electrophysiology data shapes:
//
//   - series.AnalogSignal: a continuous signal sampled at a fixed rate
//   - series.Event: discrete labeled time stamps
//   - series.Epoch: labeled time periods with durations
//   - series.SpikeTrain: spike times bounded by an observation interval,
//     optionally with per-spike waveform snippets
//
// Every container carries physical units (see the quantity package) and
// annotated-entity metadata (name, description, origin, free-form
// annotations). Generic operations such as slicing, merging, sorting,
// rescaling and unit-aware arithmetic live in the series package.
//
// # Basic Usage
//
// Creating a signal and serializing it:
//
//	import "github.com/arloliu/neosig"
//
//	data := quantity.New(samples, quantity.Microvolt)
//	sig, _ := series.NewAnalogSignal(data,
//	    series.WithSamplingRate(quantity.NewScalar(30, quantity.Kilohertz)),
//	)
//
//	raw, _ := neosig.Marshal(sig)
//
// Restoring it:
//
//	container, _ := neosig.Unmarshal(raw)
//	sig := container.(*series.AnalogSignal)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the blob
// package, simplifying the most common use cases. For control over byte
// order, column encoding and compression, use the blob package directly.
package neosig

import (
	"github.com/arloliu/neosig/blob"
	"github.com/arloliu/neosig/series"
)

// Marshal serializes a container with the default settings: little-endian
// byte order, Gorilla float encoding, Zstd compression.
//
// For other settings create a blob.Encoder directly:
//
//	encoder, _ := blob.NewEncoder(
//	    blob.WithEncoding(format.TypeRaw),
//	    blob.WithCompression(format.CompressionLZ4),
//	)
//	data, err := encoder.Encode(c)
func Marshal(c series.Container) ([]byte, error) {
	encoder, err := blob.NewEncoder()
	if err != nil {
		return nil, err
	}

	return encoder.Encode(c)
}

// Unmarshal restores a container serialized by Marshal or a blob.Encoder.
// The blob header carries all decoding configuration, so no options are
// needed.
//
// The result's concrete type matches the encoded kind; assert on it or use
// blob.NewDecoder with the kind-specific accessors when the kind is known
// up front:
//
//	decoder, _ := blob.NewDecoder(data)
//	train, err := decoder.SpikeTrain()
func Unmarshal(data []byte) (series.Container, error) {
	return blob.Decode(data)
}
