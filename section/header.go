package section

import (
	"github.com/arloliu/neosig/errs"
	"github.com/arloliu/neosig/format"
)

// Header represents the fixed-size header section at the start of a
// container blob.
type Header struct {
	// ElementCount is the number of entries in the container's primary
	// array (samples, events, periods or spikes).
	ElementCount uint32 // byte offset 4-7

	// PayloadLength is the byte length of the (possibly compressed)
	// payload following the header.
	PayloadLength uint64 // byte offset 8-15

	// Checksum is the xxHash64 digest of the payload as stored, computed
	// after compression.
	Checksum uint64 // byte offset 16-23

	// Flag is a packed field for various flags and the magic number.
	Flag Flag // byte offset 0-3
}

// NewHeader creates a new Header for the given container kind.
// The element count, payload length and checksum are set when the encoder
// finishes.
func NewHeader(kind format.ContainerKind) *Header {
	return &Header{
		Flag: NewFlag(kind),
	}
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly 32 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is not 32 bytes, or flag validation errors
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// Parse options first to determine endianness (the options field itself
	// is always little-endian).
	h.Flag.Options = uint16(data[optionsOffset]) | (uint16(data[optionsOffset+1]) << 8)
	h.Flag.Kind = data[kindOffset]
	h.Flag.Codec = data[codecOffset]

	engine := h.Flag.GetEndianEngine()

	h.ElementCount = engine.Uint32(data[elementCountOffset : elementCountOffset+4])
	h.PayloadLength = engine.Uint64(data[payloadLenOffset : payloadLenOffset+8])
	h.Checksum = engine.Uint64(data[checksumOffset : checksumOffset+8])

	return h.Flag.Validate()
}

// Bytes serializes the Header into a byte slice of HeaderSize bytes.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)

	engine := h.Flag.GetEndianEngine()

	// The options field is always little-endian so a reader can determine
	// the byte order of the remaining fields from it.
	b[optionsOffset] = byte(h.Flag.Options)
	b[optionsOffset+1] = byte(h.Flag.Options >> 8)
	b[kindOffset] = h.Flag.Kind
	b[codecOffset] = h.Flag.Codec
	engine.PutUint32(b[elementCountOffset:elementCountOffset+4], h.ElementCount)
	engine.PutUint64(b[payloadLenOffset:payloadLenOffset+8], h.PayloadLength)
	engine.PutUint64(b[checksumOffset:checksumOffset+8], h.Checksum)
	// bytes 24-31 stay zero (reserved)

	return b
}

// ParseHeader parses a Header from the front of a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be at least 32 bytes)
//
// Returns:
//   - Header: Parsed header struct
//   - error: ErrInvalidHeaderSize or flag validation errors
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.ErrInvalidHeaderSize
	}

	h := Header{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}
