package blob

import (
	"fmt"

	"github.com/arloliu/neosig/compress"
	"github.com/arloliu/neosig/errs"
	"github.com/arloliu/neosig/format"
	"github.com/arloliu/neosig/internal/hash"
	"github.com/arloliu/neosig/internal/options"
	"github.com/arloliu/neosig/section"
	"github.com/arloliu/neosig/series"
)

// Encoder serializes series containers into blobs. One encoder holds a
// fixed byte order, column encoding and compression and can encode any
// number of containers of any kind; the per-container kind is stamped into
// each header.
//
// An Encoder is safe for concurrent use: encoding does not mutate it.
type Encoder struct {
	flag section.Flag
}

// EncoderOption configures NewEncoder.
type EncoderOption = options.Option[*Encoder]

// WithLittleEndian makes the encoder write multi-byte values in
// little-endian order. This is the default.
func WithLittleEndian() EncoderOption {
	return options.NoError(func(e *Encoder) {
		e.flag.WithLittleEndian()
	})
}

// WithBigEndian makes the encoder write multi-byte values in big-endian
// order.
func WithBigEndian() EncoderOption {
	return options.NoError(func(e *Encoder) {
		e.flag.WithBigEndian()
	})
}

// WithEncoding selects the float column encoding.
//
// format.TypeGorilla (the default) XOR-compresses consecutive values and is
// a large win on slowly varying signals; format.TypeRaw stores plain IEEE
// 754 bits and is preferable for white-noise-like data.
func WithEncoding(enc format.EncodingType) EncoderOption {
	return options.New(func(e *Encoder) error {
		switch enc {
		case format.TypeRaw, format.TypeGorilla:
			e.flag.SetEncoding(enc)

			return nil
		default:
			return fmt.Errorf("%w: %s", errs.ErrInvalidEncodingType, enc)
		}
	})
}

// WithCompression selects the whole-payload compression codec. Defaults to
// format.CompressionZstd.
func WithCompression(compression format.CompressionType) EncoderOption {
	return options.New(func(e *Encoder) error {
		switch compression {
		case format.CompressionNone, format.CompressionZstd,
			format.CompressionS2, format.CompressionLZ4:
			e.flag.SetCompression(compression)

			return nil
		default:
			return fmt.Errorf("%w: %s", errs.ErrInvalidCompressionType, compression)
		}
	})
}

// NewEncoder creates an encoder with the given options applied over the
// defaults: little-endian, Gorilla encoding, Zstd compression.
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	e := &Encoder{flag: section.NewFlag(format.KindAnalogSignal)}
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	return e, nil
}

// Encode serializes any container, dispatching on its concrete kind.
func (e *Encoder) Encode(c series.Container) ([]byte, error) {
	switch v := c.(type) {
	case *series.AnalogSignal:
		return e.EncodeAnalogSignal(v)
	case *series.Event:
		return e.EncodeEvent(v)
	case *series.Epoch:
		return e.EncodeEpoch(v)
	case *series.SpikeTrain:
		return e.EncodeSpikeTrain(v)
	default:
		return nil, fmt.Errorf("%w: %T", errs.ErrInvalidContainerKind, c)
	}
}

// EncodeAnalogSignal serializes an analog signal.
func (e *Encoder) EncodeAnalogSignal(sig *series.AnalogSignal) ([]byte, error) {
	flag := e.kindFlag(format.KindAnalogSignal)
	w := newPayloadWriter(flag)
	defer w.finish()

	args := sig.Args()
	if err := writeMeta(w, args.Name, args.Description, args.Origin, args.Annotations); err != nil {
		return nil, err
	}
	if err := w.quantity(args.Data); err != nil {
		return nil, err
	}
	if err := w.scalar(args.TStart); err != nil {
		return nil, err
	}
	if err := w.scalar(args.SamplingRate); err != nil {
		return nil, err
	}

	return finalize(flag, sig.Len(), w)
}

// EncodeEvent serializes an event array.
func (e *Encoder) EncodeEvent(ev *series.Event) ([]byte, error) {
	flag := e.kindFlag(format.KindEvent)
	w := newPayloadWriter(flag)
	defer w.finish()

	args := ev.Args()
	if err := writeMeta(w, args.Name, args.Description, args.Origin, args.Annotations); err != nil {
		return nil, err
	}
	if err := w.quantity(args.Times); err != nil {
		return nil, err
	}
	if err := w.strSlice(args.Labels); err != nil {
		return nil, err
	}

	return finalize(flag, ev.Len(), w)
}

// EncodeEpoch serializes an epoch array.
func (e *Encoder) EncodeEpoch(ep *series.Epoch) ([]byte, error) {
	flag := e.kindFlag(format.KindEpoch)
	w := newPayloadWriter(flag)
	defer w.finish()

	args := ep.Args()
	if err := writeMeta(w, args.Name, args.Description, args.Origin, args.Annotations); err != nil {
		return nil, err
	}
	if err := w.quantity(args.Times); err != nil {
		return nil, err
	}
	if err := w.strSlice(args.Labels); err != nil {
		return nil, err
	}
	if err := w.quantity(args.Durations); err != nil {
		return nil, err
	}

	return finalize(flag, ep.Len(), w)
}

// EncodeSpikeTrain serializes a spike train, including its waveforms when
// present.
func (e *Encoder) EncodeSpikeTrain(st *series.SpikeTrain) ([]byte, error) {
	flag := e.kindFlag(format.KindSpikeTrain)
	w := newPayloadWriter(flag)
	defer w.finish()

	args := st.Args()
	if err := writeMeta(w, args.Name, args.Description, args.Origin, args.Annotations); err != nil {
		return nil, err
	}
	if err := w.quantity(args.Times); err != nil {
		return nil, err
	}
	if err := w.scalar(args.TStart); err != nil {
		return nil, err
	}
	if err := w.scalar(args.TStop); err != nil {
		return nil, err
	}
	if err := w.scalar(args.SamplingRate); err != nil {
		return nil, err
	}
	if err := w.scalar(args.LeftSweep); err != nil {
		return nil, err
	}
	if err := w.quantity(args.Waveforms); err != nil {
		return nil, err
	}

	return finalize(flag, st.Len(), w)
}

func (e *Encoder) kindFlag(kind format.ContainerKind) section.Flag {
	flag := e.flag
	flag.SetContainerKind(kind)

	return flag
}

// writeMeta writes the annotated-entity block shared by all kinds.
func writeMeta(w *payloadWriter, name, description, origin string, annotations map[string]any) error {
	if err := w.str(name); err != nil {
		return err
	}
	if err := w.str(description); err != nil {
		return err
	}
	if err := w.str(origin); err != nil {
		return err
	}

	return w.annotations(annotations)
}

// finalize compresses the payload and prepends the section header carrying
// the element count, payload length and checksum.
func finalize(flag section.Flag, count int, w *payloadWriter) ([]byte, error) {
	codec, err := compress.GetCodec(flag.Compression())
	if err != nil {
		return nil, err
	}

	compressed, err := codec.Compress(w.buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("compress payload: %w", err)
	}

	header := section.Header{
		ElementCount:  uint32(count),
		PayloadLength: uint64(len(compressed)),
		Checksum:      hash.Checksum(compressed),
		Flag:          flag,
	}

	out := make([]byte, 0, section.HeaderSize+len(compressed))
	out = append(out, header.Bytes()...)
	out = append(out, compressed...)

	return out, nil
}
