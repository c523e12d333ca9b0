package format

type (
	// ContainerKind identifies which series container a blob holds.
	ContainerKind uint8

	// EncodingType selects how float64 columns are encoded in a payload.
	EncodingType uint8

	// CompressionType selects the whole-payload compression codec.
	CompressionType uint8
)

const (
	KindAnalogSignal ContainerKind = 0x1 // KindAnalogSignal is a continuous sampled signal.
	KindEvent        ContainerKind = 0x2 // KindEvent is an array of labeled time stamps.
	KindEpoch        ContainerKind = 0x3 // KindEpoch is an array of labeled time periods.
	KindSpikeTrain   ContainerKind = 0x4 // KindSpikeTrain is a bounded array of spike times.

	TypeRaw     EncodingType = 0x1 // TypeRaw stores float64 values verbatim.
	TypeGorilla EncodingType = 0x2 // TypeGorilla stores XOR-compressed float64 values.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (k ContainerKind) String() string {
	switch k {
	case KindAnalogSignal:
		return "AnalogSignal"
	case KindEvent:
		return "Event"
	case KindEpoch:
		return "Epoch"
	case KindSpikeTrain:
		return "SpikeTrain"
	default:
		return "Unknown"
	}
}

func (e EncodingType) String() string {
	switch e {
	case TypeRaw:
		return "Raw"
	case TypeGorilla:
		return "Gorilla"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
