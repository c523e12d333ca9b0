package section

const (
	// Bit masks for the packed options field.
	EndiannessMask   = 0x0001 // Mask for endianness bit (bit 0)
	ReservedBitsMask = 0x000E // Mask for reserved bits (bits 1-3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicContainerV1Opt is the version 1 magic number for the container blob format (bits 4-15).
	MagicContainerV1Opt = 0xEC10
)

// Header layout in the blob file.
const (
	HeaderSize = 32 // fixed header size in bytes

	optionsOffset      = 0  // bytes 0-1: packed options (always little-endian)
	kindOffset         = 2  // byte 2: container kind
	codecOffset        = 3  // byte 3: encoding (bits 0-3) and compression (bits 4-7)
	elementCountOffset = 4  // bytes 4-7: element count of the primary array
	payloadLenOffset   = 8  // bytes 8-15: compressed payload length
	checksumOffset     = 16 // bytes 16-23: xxHash64 checksum of the payload
	reservedOffset     = 24 // bytes 24-31: reserved, must be zero
)
