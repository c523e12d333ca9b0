package blob

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/arloliu/neosig/encoding"
	"github.com/arloliu/neosig/endian"
	"github.com/arloliu/neosig/errs"
	"github.com/arloliu/neosig/format"
	"github.com/arloliu/neosig/internal/pool"
	"github.com/arloliu/neosig/quantity"
	"github.com/arloliu/neosig/section"
)

// Annotation value tags. Annotations are heterogeneous, so each value is
// prefixed with a one-byte tag.
const (
	annotString  = 0x0
	annotBool    = 0x1
	annotInt     = 0x2
	annotFloat   = 0x3
	annotNested  = 0x4
	maxDimension = 1 << 30 // sanity cap for decoded shape dimensions
)

// payloadWriter flattens container attributes into a pooled payload buffer.
type payloadWriter struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	enc    format.EncodingType
}

func newPayloadWriter(flag section.Flag) *payloadWriter {
	return &payloadWriter{
		buf:    pool.GetPayloadBuffer(),
		engine: flag.GetEndianEngine(),
		enc:    flag.Encoding(),
	}
}

func (w *payloadWriter) finish() {
	if w.buf != nil {
		pool.PutPayloadBuffer(w.buf)
		w.buf = nil
	}
}

func (w *payloadWriter) uvarint(v uint64) {
	w.buf.B = binary.AppendUvarint(w.buf.B, v)
}

func (w *payloadWriter) float64(v float64) {
	w.buf.B = w.engine.AppendUint64(w.buf.B, math.Float64bits(v))
}

func (w *payloadWriter) str(s string) error {
	if len(s) > encoding.MaxStringLength {
		return fmt.Errorf("string length %d exceeds maximum %d", len(s), encoding.MaxStringLength)
	}
	w.uvarint(uint64(len(s)))
	w.buf.MustWrite([]byte(s))

	return nil
}

// strSlice writes a uvarint count followed by the length-prefixed strings.
func (w *payloadWriter) strSlice(ss []string) error {
	w.uvarint(uint64(len(ss)))

	venc := encoding.NewVarStringEncoder()
	defer venc.Finish()
	if err := venc.WriteSlice(ss); err != nil {
		return err
	}
	w.buf.MustWrite(venc.Bytes())

	return nil
}

// unit writes a unit as symbol + dimension exponents + scale. An undefined
// unit round-trips as an all-zero record.
func (w *payloadWriter) unit(u quantity.Unit) error {
	if err := w.str(u.Symbol()); err != nil {
		return err
	}
	dim := u.Dim()
	w.buf.MustWrite([]byte{
		byte(dim.Time), byte(dim.Voltage), byte(dim.Current), byte(dim.Length), byte(dim.Mass),
	})
	w.float64(u.Scale())

	return nil
}

// scalar writes a presence byte, then value and unit for defined scalars.
// Undefined scalars are stored as absent; in a validated container they are
// always exact zero values.
func (w *payloadWriter) scalar(s quantity.Scalar) error {
	if !s.Defined() {
		w.buf.MustWrite([]byte{0})

		return nil
	}
	w.buf.MustWrite([]byte{1})
	w.float64(s.Value())

	return w.unit(s.Unit())
}

// quantity writes a presence byte, the shape, the unit, and the float64
// column encoded per the configured encoding type with a byte-length
// prefix.
func (w *payloadWriter) quantity(q *quantity.Quantity) error {
	if q == nil {
		w.buf.MustWrite([]byte{0})

		return nil
	}
	w.buf.MustWrite([]byte{1})

	shape := q.Shape()
	w.uvarint(uint64(len(shape)))
	for _, d := range shape {
		w.uvarint(uint64(d))
	}
	if err := w.unit(q.Unit()); err != nil {
		return err
	}

	return w.floatColumn(q.Values())
}

// floatColumn encodes a float64 column with a byte-length prefix so the
// reader can skip to the next field without decoding.
func (w *payloadWriter) floatColumn(values []float64) error {
	var column []byte
	switch w.enc {
	case format.TypeRaw:
		enc := encoding.NewFloatRawEncoder(w.engine)
		defer enc.Finish()
		enc.WriteSlice(values)
		column = enc.Bytes()
	case format.TypeGorilla:
		enc := encoding.NewFloatGorillaEncoder()
		defer enc.Finish()
		enc.WriteSlice(values)
		column = enc.Bytes()
	default:
		return fmt.Errorf("%w: %s", errs.ErrInvalidEncodingType, w.enc)
	}

	w.uvarint(uint64(len(column)))
	w.buf.MustWrite(column)

	return nil
}

// annotations writes the map with sorted keys so encoding is deterministic.
func (w *payloadWriter) annotations(m map[string]any) error {
	w.uvarint(uint64(len(m)))

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := w.str(k); err != nil {
			return err
		}
		if err := w.annotationValue(m[k]); err != nil {
			return fmt.Errorf("annotation %q: %w", k, err)
		}
	}

	return nil
}

func (w *payloadWriter) annotationValue(v any) error {
	switch val := v.(type) {
	case string:
		w.buf.MustWrite([]byte{annotString})

		return w.str(val)
	case bool:
		b := byte(0)
		if val {
			b = 1
		}
		w.buf.MustWrite([]byte{annotBool, b})

		return nil
	case int:
		return w.annotationValue(int64(val))
	case int32:
		return w.annotationValue(int64(val))
	case int64:
		w.buf.MustWrite([]byte{annotInt})
		w.buf.B = binary.AppendVarint(w.buf.B, val)

		return nil
	case float32:
		return w.annotationValue(float64(val))
	case float64:
		w.buf.MustWrite([]byte{annotFloat})
		w.float64(val)

		return nil
	case map[string]any:
		w.buf.MustWrite([]byte{annotNested})

		return w.annotations(val)
	default:
		return fmt.Errorf("unsupported annotation value type %T", v)
	}
}

// payloadReader is the mirror of payloadWriter, consuming a decompressed
// payload front to back.
type payloadReader struct {
	data   []byte
	off    int
	engine endian.EndianEngine
	enc    format.EncodingType
}

func newPayloadReader(data []byte, flag section.Flag) *payloadReader {
	return &payloadReader{
		data:   data,
		engine: flag.GetEndianEngine(),
		enc:    flag.Encoding(),
	}
}

func (r *payloadReader) remaining() []byte {
	return r.data[r.off:]
}

func (r *payloadReader) take(n int) ([]byte, error) {
	if r.off+n > len(r.data) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			errs.ErrPayloadTruncated, n, r.off, len(r.data)-r.off)
	}
	b := r.data[r.off : r.off+n]
	r.off += n

	return b, nil
}

func (r *payloadReader) uvarint() (uint64, error) {
	v, n := binary.Uvarint(r.remaining())
	if n <= 0 {
		return 0, fmt.Errorf("%w: malformed uvarint at offset %d", errs.ErrPayloadTruncated, r.off)
	}
	r.off += n

	return v, nil
}

func (r *payloadReader) varint() (int64, error) {
	v, n := binary.Varint(r.remaining())
	if n <= 0 {
		return 0, fmt.Errorf("%w: malformed varint at offset %d", errs.ErrPayloadTruncated, r.off)
	}
	r.off += n

	return v, nil
}

func (r *payloadReader) byte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

func (r *payloadReader) float64() (float64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(r.engine.Uint64(b)), nil
}

func (r *payloadReader) str() (string, error) {
	s, n, err := encoding.ReadVarString(r.remaining())
	if err != nil {
		return "", fmt.Errorf("%w: %s", errs.ErrPayloadTruncated, err)
	}
	r.off += n

	return s, nil
}

// strSlice decodes a label column into a pooled scratch slice; the returned
// cleanup must be called once the strings have been copied into their final
// owner.
func (r *payloadReader) strSlice() ([]string, func(), error) {
	noop := func() {}

	count, err := r.uvarint()
	if err != nil {
		return nil, noop, err
	}

	out, cleanup := pool.GetStringSlice(int(count))
	for i := range out {
		s, err := r.str()
		if err != nil {
			cleanup()

			return nil, noop, err
		}
		out[i] = s
	}

	return out, cleanup, nil
}

func (r *payloadReader) unit() (quantity.Unit, error) {
	symbol, err := r.str()
	if err != nil {
		return quantity.Unit{}, err
	}
	dims, err := r.take(5)
	if err != nil {
		return quantity.Unit{}, err
	}
	scale, err := r.float64()
	if err != nil {
		return quantity.Unit{}, err
	}
	if scale == 0 {
		// Undefined unit stored as an all-zero record.
		return quantity.Unit{}, nil
	}

	dim := quantity.Dim{
		Time:    int8(dims[0]),
		Voltage: int8(dims[1]),
		Current: int8(dims[2]),
		Length:  int8(dims[3]),
		Mass:    int8(dims[4]),
	}

	return quantity.NewUnit(symbol, dim, scale), nil
}

func (r *payloadReader) scalar() (quantity.Scalar, error) {
	present, err := r.byte()
	if err != nil {
		return quantity.Scalar{}, err
	}
	if present == 0 {
		return quantity.Scalar{}, nil
	}

	value, err := r.float64()
	if err != nil {
		return quantity.Scalar{}, err
	}
	unit, err := r.unit()
	if err != nil {
		return quantity.Scalar{}, err
	}

	return quantity.NewScalar(value, unit), nil
}

// quantity decodes one quantity field. The float column is decoded through
// a pooled scratch slice; the returned cleanup must be called once the
// quantity's values have been copied into their final owner (container
// constructors always copy).
func (r *payloadReader) quantity() (*quantity.Quantity, func(), error) {
	noop := func() {}

	present, err := r.byte()
	if err != nil {
		return nil, noop, err
	}
	if present == 0 {
		return nil, noop, nil
	}

	ndim, err := r.uvarint()
	if err != nil {
		return nil, noop, err
	}
	if ndim == 0 || ndim > 8 {
		return nil, noop, fmt.Errorf("%w: implausible shape rank %d", errs.ErrPayloadTruncated, ndim)
	}

	// Every element needs at least one encoded bit, so a shape whose element
	// count exceeds the remaining payload bits is corrupt. Checking the
	// running product against that bound also keeps it from overflowing.
	limit := uint64(len(r.data)-r.off) * 8
	product := uint64(1)

	shape := make([]int, ndim)
	for i := range shape {
		d, err := r.uvarint()
		if err != nil {
			return nil, noop, err
		}
		if d > maxDimension {
			return nil, noop, fmt.Errorf("%w: implausible dimension %d", errs.ErrPayloadTruncated, d)
		}
		if d != 0 && product > limit/d {
			return nil, noop, fmt.Errorf("%w: shape element count exceeds payload size", errs.ErrPayloadTruncated)
		}
		product *= d
		shape[i] = int(d)
	}
	size := int(product)

	unit, err := r.unit()
	if err != nil {
		return nil, noop, err
	}

	values, cleanup, err := r.floatColumn(size)
	if err != nil {
		cleanup()

		return nil, noop, err
	}

	q, err := quantity.NewShaped(values, shape, unit)
	if err != nil {
		cleanup()

		return nil, noop, err
	}

	return q, cleanup, nil
}

// floatColumn decodes a byte-length-prefixed float64 column into a pooled
// slice.
func (r *payloadReader) floatColumn(count int) ([]float64, func(), error) {
	noop := func() {}

	byteLen, err := r.uvarint()
	if err != nil {
		return nil, noop, err
	}
	column, err := r.take(int(byteLen))
	if err != nil {
		return nil, noop, err
	}

	values, cleanup := pool.GetFloat64Slice(count)

	var decoded int
	switch r.enc {
	case format.TypeRaw:
		dec := encoding.NewFloatRawDecoder(r.engine)
		for v := range dec.All(column, count) {
			values[decoded] = v
			decoded++
		}
	case format.TypeGorilla:
		dec := encoding.NewFloatGorillaDecoder()
		for v := range dec.All(column, count) {
			values[decoded] = v
			decoded++
		}
	default:
		cleanup()

		return nil, noop, fmt.Errorf("%w: %s", errs.ErrInvalidEncodingType, r.enc)
	}

	if decoded != count {
		cleanup()

		return nil, noop, fmt.Errorf("%w: decoded %d of %d values", errs.ErrPayloadTruncated, decoded, count)
	}

	return values, cleanup, nil
}

func (r *payloadReader) annotations() (map[string]any, error) {
	count, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return map[string]any{}, nil
	}

	out := make(map[string]any, count)
	for range count {
		key, err := r.str()
		if err != nil {
			return nil, err
		}
		value, err := r.annotationValue()
		if err != nil {
			return nil, fmt.Errorf("annotation %q: %w", key, err)
		}
		out[key] = value
	}

	return out, nil
}

func (r *payloadReader) annotationValue() (any, error) {
	tag, err := r.byte()
	if err != nil {
		return nil, err
	}

	switch tag {
	case annotString:
		return r.str()
	case annotBool:
		b, err := r.byte()
		if err != nil {
			return nil, err
		}

		return b != 0, nil
	case annotInt:
		return r.varint()
	case annotFloat:
		return r.float64()
	case annotNested:
		return r.annotations()
	default:
		return nil, fmt.Errorf("unknown annotation value tag 0x%02X", tag)
	}
}
