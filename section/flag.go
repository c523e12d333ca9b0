package section

import (
	"fmt"

	"github.com/arloliu/neosig/endian"
	"github.com/arloliu/neosig/errs"
	"github.com/arloliu/neosig/format"
)

// Flag represents the packed flag fields in the blob header.
type Flag struct {
	// Options is a packed field for various options.
	// Bit 0 is the endianness flag, 0 means little-endian, 1 means big-endian.
	// Bits 1-3 are reserved for future use, must be set to 0.
	// Bits 4-15 are the magic number identifying the blob format:
	//   - 0xEC10 (0b1110_1100_0001_0000): container blob format v1
	Options uint16

	// Kind identifies which container the blob holds.
	Kind uint8

	// Codec packs the column encoding in bits 0-3 and the payload
	// compression in bits 4-7.
	Codec uint8
}

var (
	validKinds = map[uint8]struct{}{
		uint8(format.KindAnalogSignal): {},
		uint8(format.KindEvent):        {},
		uint8(format.KindEpoch):        {},
		uint8(format.KindSpikeTrain):   {},
	}

	validEncodings = map[uint8]struct{}{
		uint8(format.TypeRaw):     {},
		uint8(format.TypeGorilla): {},
	}

	validCompressions = map[uint8]struct{}{
		uint8(format.CompressionNone): {},
		uint8(format.CompressionZstd): {},
		uint8(format.CompressionS2):   {},
		uint8(format.CompressionLZ4):  {},
	}
)

// NewFlag creates a new Flag for the given container kind with default
// settings: little-endian, Gorilla encoding, Zstd compression.
func NewFlag(kind format.ContainerKind) Flag {
	flag := Flag{
		Options: MagicContainerV1Opt,
		Kind:    uint8(kind),
	}
	flag.WithLittleEndian()
	flag.SetEncoding(format.TypeGorilla)
	flag.SetCompression(format.CompressionZstd)

	return flag
}

// IsLittleEndian returns whether the blob data is little-endian.
func (f Flag) IsLittleEndian() bool {
	return (f.Options & EndiannessMask) == 0
}

// IsBigEndian returns whether the blob data is big-endian.
func (f Flag) IsBigEndian() bool {
	return (f.Options & EndiannessMask) != 0
}

// WithLittleEndian sets little-endian byte order.
func (f *Flag) WithLittleEndian() {
	f.Options &= ^uint16(EndiannessMask)
}

// WithBigEndian sets big-endian byte order.
func (f *Flag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// GetMagicNumber returns the magic number from the Options field.
func (f Flag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// ContainerKind returns the container kind the blob holds.
func (f Flag) ContainerKind() format.ContainerKind {
	return format.ContainerKind(f.Kind)
}

// SetContainerKind sets the container kind.
func (f *Flag) SetContainerKind(kind format.ContainerKind) {
	f.Kind = uint8(kind)
}

// Encoding returns the column encoding type from bits 0-3 of Codec.
func (f Flag) Encoding() format.EncodingType {
	return format.EncodingType(f.Codec & 0x0F)
}

// SetEncoding sets the column encoding type in bits 0-3 of Codec.
func (f *Flag) SetEncoding(enc format.EncodingType) {
	f.Codec &^= 0x0F
	f.Codec |= uint8(enc) & 0x0F
}

// Compression returns the payload compression type from bits 4-7 of Codec.
func (f Flag) Compression() format.CompressionType {
	return format.CompressionType((f.Codec >> 4) & 0x0F)
}

// SetCompression sets the payload compression type in bits 4-7 of Codec.
func (f *Flag) SetCompression(compression format.CompressionType) {
	f.Codec &^= 0xF0
	f.Codec |= (uint8(compression) & 0x0F) << 4
}

// Validate checks if the flag contains valid values.
func (f Flag) Validate() error {
	if f.GetMagicNumber() != MagicContainerV1Opt {
		return fmt.Errorf("%w: 0x%04X", errs.ErrInvalidMagic, f.GetMagicNumber())
	}

	if _, ok := validKinds[f.Kind]; !ok {
		return fmt.Errorf("%w: 0x%02X", errs.ErrInvalidContainerKind, f.Kind)
	}

	if _, ok := validEncodings[f.Codec&0x0F]; !ok {
		return fmt.Errorf("%w: 0x%02X", errs.ErrInvalidEncodingType, f.Codec&0x0F)
	}

	if _, ok := validCompressions[(f.Codec>>4)&0x0F]; !ok {
		return fmt.Errorf("%w: 0x%02X", errs.ErrInvalidCompressionType, (f.Codec>>4)&0x0F)
	}

	return nil
}

// GetEndianEngine returns the appropriate endian engine based on the flag.
func (f Flag) GetEndianEngine() endian.EndianEngine {
	if f.IsLittleEndian() {
		return endian.GetLittleEndianEngine()
	}

	return endian.GetBigEndianEngine()
}
