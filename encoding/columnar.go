package encoding

import "iter"

// ColumnarEncoder encodes a column of values of type T into a pooled buffer.
type ColumnarEncoder[T comparable] interface {
	// Bytes returns the encoded byte slice.
	// The returned slice is valid until the next call to Write, WriteSlice, or Reset.
	// The caller should not modify the returned slice.
	Bytes() []byte

	// Len returns the number of encoded values.
	Len() int

	// Size returns the size in bytes of the encoded values.
	// It represents the number of bytes that were written to the internal buffer.
	Size() int

	// Reset clears the per-column encoder state but keeps the accumulated
	// data in the internal buffer, allowing several columns to be encoded
	// back to back into one payload.
	Reset()

	// Finish finalizes the encoding process and returns buffer resources to the pool.
	//
	// After calling Finish(), the encoder is no longer usable. Any subsequent calls to
	// Write(), WriteSlice(), Bytes(), Len(), or Size() will result in a panic due to nil buffer.
	//
	// To encode more data, create a new encoder instance. Use defer to
	// ensure Finish is called even in error paths:
	//
	//	encoder := NewFloatRawEncoder(engine)
	//	defer encoder.Finish()
	//
	//	encoder.Write(sample)
	//	data := encoder.Bytes() // Get data before Finish
	Finish()

	// Write a single value.
	//
	// This method is optimized for appending a single value.
	// For bulk writes, use WriteSlice for better performance.
	Write(data T)

	// WriteSlice encodes a slice of values.
	//
	// This method is optimized for bulk writes. For single writes, use Write for better performance.
	WriteSlice(values []T)
}

// ColumnarDecoder decodes a column of values of type T from encoded bytes.
type ColumnarDecoder[T comparable] interface {
	// All returns an iterator that yields all decoded items from the provided encoded data.
	//
	// The data should be the byte slice payload produced by a corresponding encoder.
	// The count parameter specifies the expected number of values to decode.
	//
	// If the data is malformed or does not contain enough values, the iterator
	// may yield fewer values. The caller should handle this case appropriately.
	All(data []byte, count int) iter.Seq[T]

	// At retrieves the value at the specified index from the encoded data.
	//
	// The index is zero-based. If the index is out of bounds (index < 0 or
	// index >= count), the second return value will be false.
	At(data []byte, index int, count int) (T, bool)
}
