package encoding

import (
	"encoding/binary"
	"iter"
	"math"
	"math/bits"

	"github.com/arloliu/neosig/internal/pool"
)

// FloatGorillaEncoder implements XOR-based float64 compression after
// Facebook's Gorilla paper (https://www.vldb.org/pvldb/vol8/p1816-teller.pdf).
//
// Encoding scheme: the first value is stored uncompressed (64 bits), and
// each subsequent value is XORed with its predecessor. A zero XOR is stored
// as a single 0 bit. A non-zero XOR is stored as a 1 bit followed by either
// a 0 bit plus the meaningful bits, when the new XOR fits the previous
// leading/trailing window, or a 1 bit plus a 5-bit leading zero count, a
// 6-bit block length and the meaningful bits, when the window changes.
//
// Sampled physiological signals change slowly between neighboring points,
// so the XOR results carry long runs of leading and trailing zeros and the
// meaningful block stays short.
type FloatGorillaEncoder struct {
	bitBuf       uint64
	prevValue    uint64
	bitCount     int
	count        int
	prevLeading  int
	prevTrailing int
	firstValue   bool

	buf *pool.ByteBuffer
}

var _ ColumnarEncoder[float64] = (*FloatGorillaEncoder)(nil)

// NewFloatGorillaEncoder creates a new Gorilla encoder for float64 values.
func NewFloatGorillaEncoder() *FloatGorillaEncoder {
	return &FloatGorillaEncoder{
		buf:        pool.GetPayloadBuffer(),
		firstValue: true,
	}
}

// Write encodes a single float64 value using Gorilla compression.
//
// Panics if Finish() has been called (nil buffer).
func (e *FloatGorillaEncoder) Write(val float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write values after Finish()")
	}

	e.count++
	valBits := math.Float64bits(val)

	if e.firstValue {
		e.firstValue = false
		e.prevValue = valBits
		e.writeBits(valBits, 64)

		return
	}

	e.writeValue(valBits)
}

// WriteSlice encodes a slice of float64 values using Gorilla compression.
func (e *FloatGorillaEncoder) WriteSlice(values []float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write values after Finish()")
	}

	for _, v := range values {
		e.count++
		valBits := math.Float64bits(v)
		if e.firstValue {
			e.firstValue = false
			e.prevValue = valBits
			e.writeBits(valBits, 64)

			continue
		}
		e.writeValue(valBits)
	}
}

// Bytes returns the encoded byte slice containing all compressed values.
//
// Pending bits are flushed first, so the returned slice is always complete.
// The caller must not modify the returned slice.
//
// Panics if Finish() has been called (nil buffer).
func (e *FloatGorillaEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	if e.bitCount > 0 {
		e.flushBits()
	}

	return e.buf.Bytes()
}

// Len returns the number of encoded float64 values.
func (e *FloatGorillaEncoder) Len() int {
	return e.count
}

// Size returns the number of bytes flushed to the internal buffer. Pending
// bits in the bit buffer are not included; call Bytes() first for the final
// size.
//
// Panics if Finish() has been called (nil buffer).
func (e *FloatGorillaEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Reset clears the per-column compression state for the next column while
// retaining accumulated data. Pending bits are flushed so the next column
// starts on a byte boundary.
func (e *FloatGorillaEncoder) Reset() {
	if e.buf != nil && e.bitCount > 0 {
		e.flushBits()
	}
	e.bitBuf = 0
	e.bitCount = 0
	e.prevValue = 0
	e.prevLeading = 0
	e.prevTrailing = 0
	e.firstValue = true
}

// Finish finalizes the encoding process and returns the buffer to the pool.
//
// The encoder becomes single-use after calling Finish(); retrieve the data
// with Bytes() first.
func (e *FloatGorillaEncoder) Finish() {
	if e.buf == nil {
		return
	}

	pool.PutPayloadBuffer(e.buf)
	e.buf = nil
	e.count = 0
}

// writeValue encodes one value's XOR against the previous value.
func (e *FloatGorillaEncoder) writeValue(valBits uint64) {
	xor := valBits ^ e.prevValue
	e.prevValue = valBits

	if xor == 0 {
		e.writeBits(0, 1)

		return
	}

	e.writeBits(1, 1)

	leading := bits.LeadingZeros64(xor)
	trailing := bits.TrailingZeros64(xor)

	// Leading zeros are framed in 5 bits, so clamp at 31 and widen the
	// meaningful block instead.
	if leading > 31 {
		adjustment := leading - 31
		leading = 31
		trailing -= adjustment
		if trailing < 0 {
			trailing = 0
		}
	}

	prevBlockSize := 64 - e.prevLeading - e.prevTrailing
	if e.count > 2 && prevBlockSize < 64 && leading >= e.prevLeading && trailing >= e.prevTrailing {
		// Same window: control bit 0 + meaningful bits only.
		e.writeBits(0, 1)
		e.writeBits(xor>>e.prevTrailing, prevBlockSize)
	} else {
		blockSize := 64 - leading - trailing
		e.writeBits(1, 1)
		e.writeBits(uint64(leading), 5)
		e.writeBits(uint64(blockSize-1), 6)
		e.writeBits(xor>>trailing, blockSize)

		e.prevLeading = leading
		e.prevTrailing = trailing
	}
}

// writeBits appends the low numBits of value to the bit stream.
func (e *FloatGorillaEncoder) writeBits(value uint64, numBits int) {
	if numBits == 0 {
		return
	}

	if numBits < 64 {
		value &= (1 << numBits) - 1
	}

	available := 64 - e.bitCount
	if numBits <= available {
		e.bitBuf = (e.bitBuf << numBits) | value
		e.bitCount += numBits
		if e.bitCount == 64 {
			e.flushBits()
		}

		return
	}

	// Split across the buffer boundary.
	highBits := numBits - available
	e.bitBuf = (e.bitBuf << available) | (value >> highBits)
	e.bitCount = 64
	e.flushBits()

	e.bitBuf = value & ((1 << highBits) - 1)
	e.bitCount = highBits
}

// flushBits writes the accumulated bits to the byte buffer, most significant
// bits first.
func (e *FloatGorillaEncoder) flushBits() {
	if e.bitCount == 0 {
		return
	}

	numBytes := (e.bitCount + 7) / 8
	alignedBits := e.bitBuf << (64 - e.bitCount)

	startLen := e.buf.Len()
	e.buf.ExtendOrGrow(numBytes)
	bs := e.buf.Slice(startLen, startLen+numBytes)

	if numBytes == 8 {
		binary.BigEndian.PutUint64(bs, alignedBits)
	} else {
		for i := range numBytes {
			shift := 56 - (i * 8)
			bs[i] = byte(alignedBits >> shift)
		}
	}

	e.bitBuf = 0
	e.bitCount = 0
}

// FloatGorillaDecoder decodes float64 values compressed with the Gorilla
// scheme. The decoder is stateless and safe for concurrent use.
type FloatGorillaDecoder struct{}

var _ ColumnarDecoder[float64] = FloatGorillaDecoder{}

// NewFloatGorillaDecoder creates a new Gorilla decoder for float64 values.
func NewFloatGorillaDecoder() FloatGorillaDecoder {
	return FloatGorillaDecoder{}
}

// All decodes all float64 values from the Gorilla-compressed byte slice.
//
// If the data is malformed or truncated, the iterator yields fewer than
// count values.
func (d FloatGorillaDecoder) All(data []byte, count int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		if len(data) == 0 || count == 0 {
			return
		}

		br := newBitReader(data)

		firstBits, ok := br.readBits(64)
		if !ok {
			return
		}
		prevValue := firstBits
		if !yield(math.Float64frombits(prevValue)) {
			return
		}

		trailing := 0
		blockSize := 0
		blockValid := false

		for produced := 1; produced < count; produced++ {
			controlBit, ok := br.readBits(1)
			if !ok {
				return
			}

			if controlBit == 0 {
				// Value unchanged.
				if !yield(math.Float64frombits(prevValue)) {
					return
				}

				continue
			}

			reuseBit, ok := br.readBits(1)
			if !ok {
				return
			}

			if reuseBit != 0 {
				leading, ok := br.readBits(5)
				if !ok {
					return
				}
				sizeBits, ok := br.readBits(6)
				if !ok {
					return
				}
				blockSize = int(sizeBits) + 1
				trailing = 64 - int(leading) - blockSize
				if trailing < 0 || trailing > 64 {
					return
				}
				blockValid = true
			} else if !blockValid {
				return
			}

			meaningful, ok := br.readBits(blockSize)
			if !ok {
				return
			}

			prevValue ^= meaningful << uint64(trailing) //nolint:gosec
			if !yield(math.Float64frombits(prevValue)) {
				return
			}
		}
	}
}

// At retrieves the float64 value at the specified index.
//
// Gorilla data has no random access; values are decoded sequentially up to
// the requested index. For repeated access decode once with All().
func (d FloatGorillaDecoder) At(data []byte, index int, count int) (float64, bool) {
	if len(data) == 0 || index < 0 || index >= count {
		return 0, false
	}

	i := 0
	for v := range d.All(data, index+1) {
		if i == index {
			return v, true
		}
		i++
	}

	return 0, false
}

// bitReader provides bit-level reading from a byte slice, most significant
// bits first.
type bitReader struct {
	data     []byte
	bytePos  int
	bitBuf   uint64
	bitCount int
}

func newBitReader(data []byte) *bitReader {
	return &bitReader{data: data}
}

// readBits reads numBits (0-64) from the stream, right-aligned.
func (br *bitReader) readBits(numBits int) (uint64, bool) {
	if numBits == 0 {
		return 0, true
	}

	if numBits <= br.bitCount {
		result := br.bitBuf >> (64 - numBits)
		br.bitBuf <<= numBits
		br.bitCount -= numBits

		return result, true
	}

	var result uint64
	firstRead := true

	for numBits > 0 {
		if br.bitCount == 0 {
			if !br.fillBuffer() {
				return 0, false
			}
		}

		bitsToRead := numBits
		if bitsToRead > br.bitCount {
			bitsToRead = br.bitCount
		}

		shiftedBits := br.bitBuf >> (64 - bitsToRead)
		if firstRead {
			result = shiftedBits
			firstRead = false
		} else {
			result = (result << bitsToRead) | shiftedBits
		}

		br.bitBuf <<= bitsToRead
		br.bitCount -= bitsToRead
		numBits -= bitsToRead
	}

	return result, true
}

// fillBuffer refills the bit buffer with up to 8 bytes, left-aligned.
func (br *bitReader) fillBuffer() bool {
	if br.bytePos >= len(br.data) {
		return false
	}

	bytesToRead := len(br.data) - br.bytePos
	if bytesToRead >= 8 {
		br.bitBuf = binary.BigEndian.Uint64(br.data[br.bytePos : br.bytePos+8])
		br.bytePos += 8
		br.bitCount = 64

		return true
	}

	br.bitBuf = 0
	for i := 0; i < bytesToRead; i++ {
		br.bitBuf = (br.bitBuf << 8) | uint64(br.data[br.bytePos])
		br.bytePos++
	}
	br.bitBuf <<= (8 - bytesToRead) * 8
	br.bitCount = bytesToRead * 8

	return true
}
