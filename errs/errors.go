// Package errs defines the sentinel errors shared by all neosig packages.
//
// Callers can match failure categories with errors.Is regardless of the
// contextual detail added at the failure site:
//
//	_, err := series.NewSpikeTrain(times, tStop)
//	if errors.Is(err, errs.ErrTimeOutOfRange) {
//	    // a spike time lies outside [t_start, t_stop]
//	}
package errs

import "errors"

// Unit and dimensionality errors.
var (
	// ErrMissingUnits indicates a value was supplied without units where
	// units are required and cannot be inferred from the data.
	ErrMissingUnits = errors.New("units must be specified")

	// ErrNonTimeUnits indicates a value whose dimensionality is not exactly
	// one dimension of time with power 1.
	ErrNonTimeUnits = errors.New("dimensionality is not [time]")

	// ErrIncompatibleUnits indicates a rescale or arithmetic operation
	// between unrelated dimensionalities.
	ErrIncompatibleUnits = errors.New("incompatible units")

	// ErrUnknownUnit indicates a unit symbol that cannot be parsed.
	ErrUnknownUnit = errors.New("unknown unit")
)

// Container construction and mutation errors.
var (
	// ErrInconsistentAttribute indicates two containers differ in an
	// attribute that must match for them to be combined.
	ErrInconsistentAttribute = errors.New("inconsistent attribute values")

	// ErrTimeOutOfRange indicates a spike time outside [t_start, t_stop].
	ErrTimeOutOfRange = errors.New("time out of range")

	// ErrMissingSamplingRate indicates that neither a sampling rate nor a
	// sampling period was provided.
	ErrMissingSamplingRate = errors.New("sampling rate or sampling period required")

	// ErrSamplingRateMismatch indicates sampling rate and sampling period
	// were both provided but are not reciprocals of each other.
	ErrSamplingRateMismatch = errors.New("sampling period is not the reciprocal of sampling rate")

	// ErrMissingTStart indicates t_start was set to an undefined value.
	ErrMissingTStart = errors.New("t_start cannot be undefined")

	// ErrMissingTStop indicates t_stop was omitted or undefined.
	ErrMissingTStop = errors.New("t_stop cannot be undefined")

	// ErrLengthMismatch indicates an auxiliary array whose leading-axis
	// length differs from the primary array's element count.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrShapeMismatch indicates arrays whose shapes cannot be combined.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInvalidSliceRange indicates slice bounds outside the array or a
	// non-positive step.
	ErrInvalidSliceRange = errors.New("invalid slice range")

	// ErrIndexOutOfRange indicates an element index outside the array.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Blob format errors.
var (
	// ErrInvalidHeaderSize indicates a blob shorter than its fixed header.
	ErrInvalidHeaderSize = errors.New("invalid header size")

	// ErrInvalidMagic indicates a blob that does not start with the neosig
	// magic bits.
	ErrInvalidMagic = errors.New("invalid magic number")

	// ErrInvalidContainerKind indicates an unrecognized container kind.
	ErrInvalidContainerKind = errors.New("invalid container kind")

	// ErrInvalidEncodingType indicates an unrecognized payload encoding.
	ErrInvalidEncodingType = errors.New("invalid encoding type")

	// ErrInvalidCompressionType indicates an unrecognized compression type.
	ErrInvalidCompressionType = errors.New("invalid compression type")

	// ErrChecksumMismatch indicates payload corruption detected by the
	// xxHash64 checksum.
	ErrChecksumMismatch = errors.New("payload checksum mismatch")

	// ErrPayloadTruncated indicates a payload that ends before all declared
	// fields were decoded.
	ErrPayloadTruncated = errors.New("payload truncated")
)
