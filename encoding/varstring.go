package encoding

import (
	"encoding/binary"
	"fmt"
	"iter"

	"github.com/arloliu/neosig/internal/pool"
)

// MaxStringLength is the maximum byte length of a single encoded string.
// Labels and descriptions are free text, so the cap exists only to reject
// absurd values from corrupted payloads.
const MaxStringLength = 1 << 20 // 1MiB

// VarStringEncoder encodes variable-length strings with an unsigned varint
// length prefix.
//
// Each string is encoded as:
//   - 1-3 bytes: length as uvarint
//   - N bytes: string data (UTF-8)
//
// Event and epoch labels routinely exceed a byte-sized prefix ("stimulus
// onset, contrast 0.8, orientation 135deg"), hence the varint framing.
type VarStringEncoder struct {
	buf   *pool.ByteBuffer
	count int
}

// NewVarStringEncoder creates a new variable-length string encoder.
//
// The encoder uses a pooled byte buffer with amortized growth strategy for
// optimal performance when encoding multiple strings.
func NewVarStringEncoder() *VarStringEncoder {
	return &VarStringEncoder{
		buf: pool.GetPayloadBuffer(),
	}
}

// Write encodes a single string with a uvarint length prefix.
//
// Returns an error if the string exceeds MaxStringLength.
func (e *VarStringEncoder) Write(text string) error {
	if len(text) > MaxStringLength {
		return fmt.Errorf("string length %d exceeds maximum %d", len(text), MaxStringLength)
	}

	e.count++
	e.buf.Grow(binary.MaxVarintLen32 + len(text))
	e.buf.B = binary.AppendUvarint(e.buf.B, uint64(len(text)))
	e.buf.MustWrite([]byte(text))

	return nil
}

// WriteSlice encodes a slice of strings with buffer pre-allocation.
//
// Returns an error if any string exceeds MaxStringLength.
func (e *VarStringEncoder) WriteSlice(texts []string) error {
	totalSize := 0
	for _, text := range texts {
		if len(text) > MaxStringLength {
			return fmt.Errorf("string length %d exceeds maximum %d", len(text), MaxStringLength)
		}
		totalSize += binary.MaxVarintLen32 + len(text)
	}

	e.buf.Grow(totalSize)

	for _, text := range texts {
		e.buf.B = binary.AppendUvarint(e.buf.B, uint64(len(text)))
		e.buf.MustWrite([]byte(text))
		e.count++
	}

	return nil
}

// WriteUvarint encodes an unsigned integer as a varint. Used for counts and
// shape dimensions interleaved with string columns.
func (e *VarStringEncoder) WriteUvarint(val uint64) {
	e.buf.B = binary.AppendUvarint(e.buf.B, val)
}

// Bytes returns the encoded data as a byte slice.
//
// The returned slice shares the underlying buffer with the encoder.
// Do not modify the returned slice.
func (e *VarStringEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of strings encoded.
func (e *VarStringEncoder) Len() int {
	return e.count
}

// Size returns the total size of encoded data in bytes.
func (e *VarStringEncoder) Size() int {
	return e.buf.Len()
}

// Finish returns the buffer to the pool. After calling Finish, the encoder
// should not be used again.
func (e *VarStringEncoder) Finish() {
	if e.buf != nil {
		pool.PutPayloadBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// StringDecoder decodes uvarint-prefixed strings produced by
// VarStringEncoder. The decoder is stateless and safe for concurrent use.
type StringDecoder struct{}

// NewStringDecoder creates a new string decoder.
func NewStringDecoder() StringDecoder {
	return StringDecoder{}
}

// All decodes count strings from the given byte slice.
//
// If the data is malformed or truncated, the iterator yields fewer than
// count strings.
func (d StringDecoder) All(data []byte, count int) iter.Seq[string] {
	return func(yield func(string) bool) {
		offset := 0
		for range count {
			text, n, err := ReadVarString(data[offset:])
			if err != nil {
				return
			}
			offset += n
			if !yield(text) {
				return
			}
		}
	}
}

// At retrieves the string at the specified index by scanning the prefixes.
func (d StringDecoder) At(data []byte, index int, count int) (string, bool) {
	if index < 0 || index >= count {
		return "", false
	}

	offset := 0
	for i := 0; i <= index; i++ {
		text, n, err := ReadVarString(data[offset:])
		if err != nil {
			return "", false
		}
		if i == index {
			return text, true
		}
		offset += n
	}

	return "", false
}

// ReadVarString decodes one uvarint-prefixed string from the front of data.
//
// Returns:
//   - string: The decoded string
//   - int: Total bytes consumed (prefix + string data)
//   - error: Malformed varint, oversized length, or truncated data
func ReadVarString(data []byte) (string, int, error) {
	length, n := binary.Uvarint(data)
	if n <= 0 {
		return "", 0, fmt.Errorf("malformed string length prefix")
	}
	if length > MaxStringLength {
		return "", 0, fmt.Errorf("string length %d exceeds maximum %d", length, MaxStringLength)
	}
	end := n + int(length)
	if end > len(data) {
		return "", 0, fmt.Errorf("string data truncated: need %d bytes, have %d", end, len(data))
	}

	return string(data[n:end]), end, nil
}
