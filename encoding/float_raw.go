package encoding

import (
	"iter"
	"math"

	"github.com/arloliu/neosig/endian"
	"github.com/arloliu/neosig/internal/pool"
)

// FloatRawEncoder encodes 64-bit float values in their native binary
// representation (IEEE 754) using the specified endianness.
//
// Raw encoding is the right choice when sample values have high entropy,
// such as broadband noise or already-filtered signals, where XOR
// compression buys nothing. Each value occupies exactly 8 bytes.
type FloatRawEncoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	count  int
}

var _ ColumnarEncoder[float64] = (*FloatRawEncoder)(nil)

// NewFloatRawEncoder creates a new raw float encoder using the specified endian engine.
//
// Parameters:
//   - engine: Endian engine for byte order (typically little-endian)
//
// Returns:
//   - *FloatRawEncoder: A new encoder instance ready for float64 encoding
func NewFloatRawEncoder(engine endian.EndianEngine) *FloatRawEncoder {
	return &FloatRawEncoder{
		engine: engine,
		buf:    pool.GetPayloadBuffer(),
	}
}

// Write encodes a single 64-bit float value with amortized buffer growth.
//
// For encoding multiple values, use WriteSlice for better performance.
//
// Panics if Finish() has been called (nil buffer).
func (e *FloatRawEncoder) Write(val float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	e.buf.Grow(8)

	bufLen := e.buf.Len()
	bs := e.buf.Slice(bufLen, bufLen+8)
	e.engine.PutUint64(bs, math.Float64bits(val))
	e.buf.SetLength(bufLen + 8)
}

// WriteSlice encodes a slice of 64-bit float values with buffer pre-allocation.
//
// The buffer is grown once for the entire slice (8 bytes per value), then
// each value is encoded directly into the pre-allocated region.
//
// Panics if Finish() has been called (nil buffer).
func (e *FloatRawEncoder) WriteSlice(values []float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	valLen := len(values)
	e.count += valLen

	if valLen == 0 {
		return
	}

	startIdx := e.buf.Len()
	e.buf.ExtendOrGrow(valLen * 8)

	for i, v := range values {
		offset := startIdx + i*8
		e.engine.PutUint64(e.buf.Slice(offset, offset+8), math.Float64bits(v))
	}
}

// Bytes returns the encoded byte slice containing all written float values.
//
// The returned slice references the internal buffer and is valid until the
// next call to Write or WriteSlice. The caller must not modify it.
//
// Panics if Finish() has been called (nil buffer).
func (e *FloatRawEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of encoded float values.
func (e *FloatRawEncoder) Len() int {
	return e.count
}

// Size returns the size in bytes of the encoded float values.
//
// Panics if Finish() has been called (nil buffer).
func (e *FloatRawEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Reset prepares the encoder for the next column. Raw encoding keeps no
// per-column state, so the accumulated buffer is retained and Reset is a
// no-op.
func (e *FloatRawEncoder) Reset() {}

// Finish finalizes the encoding process and returns buffer resources to the pool.
//
// After calling Finish(), the encoder is no longer usable. Any subsequent
// calls to Write(), WriteSlice(), Bytes(), or Size() will panic.
func (e *FloatRawEncoder) Finish() {
	if e.buf != nil {
		pool.PutPayloadBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// FloatRawDecoder decodes raw float64 values produced by FloatRawEncoder.
//
// The decoder is immutable and stateless; it is returned by value and can
// be reused across goroutines.
type FloatRawDecoder struct {
	engine endian.EndianEngine
}

var _ ColumnarDecoder[float64] = FloatRawDecoder{}

// NewFloatRawDecoder creates a new raw float decoder using the specified endian engine.
//
// Parameters:
//   - engine: Endian engine for byte order (must match encoder's engine)
func NewFloatRawDecoder(engine endian.EndianEngine) FloatRawDecoder {
	return FloatRawDecoder{engine: engine}
}

// All decodes all float64 values from the given byte slice.
//
// The data must hold at least count*8 bytes; otherwise the iterator yields
// nothing.
func (d FloatRawDecoder) All(data []byte, count int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		if len(data) < count*8 || count == 0 {
			return
		}

		for i := range count {
			start := i * 8
			bits := d.engine.Uint64(data[start : start+8])
			if !yield(math.Float64frombits(bits)) {
				return
			}
		}
	}
}

// At retrieves the float64 value at the specified index from the encoded data.
//
// Returns false if the index is out of bounds or the data is truncated.
func (d FloatRawDecoder) At(data []byte, index int, count int) (float64, bool) {
	if len(data) == 0 || index < 0 || index >= count {
		return 0, false
	}

	start := index * 8
	if start+8 > len(data) {
		return 0, false
	}

	return math.Float64frombits(d.engine.Uint64(data[start : start+8])), true
}
