package series

import "github.com/arloliu/neosig/quantity"

// Spec is the per-type configuration record consumed by the generic
// container operations. Each concrete kind declares one package-level Spec
// and every instance of that kind returns the same pointer, so two
// containers are "the same kind" exactly when their Spec pointers match.
//
// The attribute names listed here refer to fields the concrete type
// registers with its embedded Base at construction (see Base.registerScalar
// and friends); the generic routines resolve them through that registry
// rather than through reflection.
type Spec struct {
	// Kind is the container kind name, e.g. "AnalogSignal".
	Kind string

	// MainAttr is the attribute name that aliases the container's own
	// time-bearing data ("signal" or "times").
	MainAttr string

	// RequiredDim is the dimensionality the primary array must have.
	// It is only enforced when EnforceDim is true; AnalogSignal data may
	// be voltage, current or anything else, while the event-like kinds
	// require time.
	RequiredDim quantity.Dim
	EnforceDim  bool

	// ScalarAttrs are the scalar metadata attributes propagated onto every
	// derived container (slice, copy, arithmetic result, merge).
	ScalarAttrs []string

	// Consistency lists the scalar attributes that must match between two
	// containers of this kind before they may be merged or compared equal.
	// Always a subset of ScalarAttrs.
	Consistency []string

	// QuantitySlice lists unit-bearing auxiliary arrays that are sliced,
	// sorted and merged in lockstep with the primary array along its
	// leading axis.
	QuantitySlice []string

	// StringSlice lists plain text auxiliary arrays treated the same way.
	StringSlice []string

	// SingleParents and MultiParents declare the parent-link kinds the
	// entity layer maintains. Construction resets them; nothing in this
	// package reads them.
	SingleParents []string
	MultiParents  []string
}

var analogSignalSpec = &Spec{
	Kind:          "AnalogSignal",
	MainAttr:      "signal",
	ScalarAttrs:   []string{"t_start", "sampling_rate"},
	Consistency:   []string{"t_start", "sampling_rate"},
	SingleParents: []string{"segment", "recording_channel", "block"},
}

var eventSpec = &Spec{
	Kind:          "Event",
	MainAttr:      "times",
	RequiredDim:   quantity.DimTime,
	EnforceDim:    true,
	StringSlice:   []string{"labels"},
	SingleParents: []string{"segment", "unit", "recording_channel", "block"},
}

var epochSpec = &Spec{
	Kind:          "Epoch",
	MainAttr:      "times",
	RequiredDim:   quantity.DimTime,
	EnforceDim:    true,
	QuantitySlice: []string{"durations"},
	StringSlice:   []string{"labels"},
	SingleParents: []string{"segment", "unit", "recording_channel", "block"},
}

var spikeTrainSpec = &Spec{
	Kind:          "SpikeTrain",
	MainAttr:      "times",
	RequiredDim:   quantity.DimTime,
	EnforceDim:    true,
	ScalarAttrs:   []string{"t_start", "t_stop", "left_sweep", "sampling_rate"},
	QuantitySlice: []string{"waveforms"},
	SingleParents: []string{"segment", "unit"},
}
