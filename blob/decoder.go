package blob

import (
	"fmt"

	"github.com/arloliu/neosig/compress"
	"github.com/arloliu/neosig/errs"
	"github.com/arloliu/neosig/format"
	"github.com/arloliu/neosig/internal/hash"
	"github.com/arloliu/neosig/section"
	"github.com/arloliu/neosig/series"
)

// Decoder restores a container from one blob. It needs no configuration:
// the header carries the byte order, column encoding and compression.
//
// NewDecoder verifies the checksum and decompresses the payload up front,
// so a successful construction means the payload is intact; field parsing
// happens in the kind accessors.
type Decoder struct {
	header  section.Header
	payload []byte
}

// NewDecoder parses and verifies the blob header, checks the payload
// against the recorded xxHash64 checksum, and decompresses it.
//
// Returns errs.ErrPayloadTruncated when the data is shorter than the
// recorded payload length and errs.ErrChecksumMismatch on corruption.
func NewDecoder(data []byte) (*Decoder, error) {
	header, err := section.ParseHeader(data)
	if err != nil {
		return nil, err
	}

	body := data[section.HeaderSize:]
	if uint64(len(body)) < header.PayloadLength {
		return nil, fmt.Errorf("%w: header declares %d payload bytes, have %d",
			errs.ErrPayloadTruncated, header.PayloadLength, len(body))
	}
	body = body[:header.PayloadLength]

	if hash.Checksum(body) != header.Checksum {
		return nil, fmt.Errorf("%w: expected 0x%016X", errs.ErrChecksumMismatch, header.Checksum)
	}

	codec, err := compress.GetCodec(header.Flag.Compression())
	if err != nil {
		return nil, err
	}
	payload, err := codec.Decompress(body)
	if err != nil {
		return nil, fmt.Errorf("decompress payload: %w", err)
	}

	return &Decoder{header: header, payload: payload}, nil
}

// Kind returns the container kind recorded in the header.
func (d *Decoder) Kind() format.ContainerKind {
	return d.header.Flag.ContainerKind()
}

// ElementCount returns the element count recorded in the header, available
// without parsing the payload.
func (d *Decoder) ElementCount() int {
	return int(d.header.ElementCount)
}

// Container restores the stored container, dispatching on the header kind.
func (d *Decoder) Container() (series.Container, error) {
	switch d.Kind() {
	case format.KindAnalogSignal:
		return d.AnalogSignal()
	case format.KindEvent:
		return d.Event()
	case format.KindEpoch:
		return d.Epoch()
	case format.KindSpikeTrain:
		return d.SpikeTrain()
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidContainerKind, d.Kind())
	}
}

// AnalogSignal restores a stored analog signal.
//
// Returns errs.ErrInvalidContainerKind when the blob holds another kind.
func (d *Decoder) AnalogSignal() (*series.AnalogSignal, error) {
	r, err := d.reader(format.KindAnalogSignal)
	if err != nil {
		return nil, err
	}

	var args series.AnalogSignalArgs
	if args.Name, args.Description, args.Origin, args.Annotations, err = readMeta(r); err != nil {
		return nil, err
	}

	data, cleanup, err := r.quantity()
	if err != nil {
		return nil, err
	}
	defer cleanup()
	args.Data = data

	if args.TStart, err = r.scalar(); err != nil {
		return nil, err
	}
	if args.SamplingRate, err = r.scalar(); err != nil {
		return nil, err
	}

	return series.ReconstructAnalogSignal(args)
}

// Event restores a stored event array.
func (d *Decoder) Event() (*series.Event, error) {
	r, err := d.reader(format.KindEvent)
	if err != nil {
		return nil, err
	}

	var args series.EventArgs
	if args.Name, args.Description, args.Origin, args.Annotations, err = readMeta(r); err != nil {
		return nil, err
	}

	times, cleanup, err := r.quantity()
	if err != nil {
		return nil, err
	}
	defer cleanup()
	args.Times = times

	labels, labelsCleanup, err := r.strSlice()
	if err != nil {
		return nil, err
	}
	defer labelsCleanup()
	args.Labels = labels

	return series.ReconstructEvent(args)
}

// Epoch restores a stored epoch array.
func (d *Decoder) Epoch() (*series.Epoch, error) {
	r, err := d.reader(format.KindEpoch)
	if err != nil {
		return nil, err
	}

	var args series.EpochArgs
	if args.Name, args.Description, args.Origin, args.Annotations, err = readMeta(r); err != nil {
		return nil, err
	}

	times, timesCleanup, err := r.quantity()
	if err != nil {
		return nil, err
	}
	defer timesCleanup()
	args.Times = times

	labels, labelsCleanup, err := r.strSlice()
	if err != nil {
		return nil, err
	}
	defer labelsCleanup()
	args.Labels = labels

	durations, durationsCleanup, err := r.quantity()
	if err != nil {
		return nil, err
	}
	defer durationsCleanup()
	args.Durations = durations

	return series.ReconstructEpoch(args)
}

// SpikeTrain restores a stored spike train.
func (d *Decoder) SpikeTrain() (*series.SpikeTrain, error) {
	r, err := d.reader(format.KindSpikeTrain)
	if err != nil {
		return nil, err
	}

	var args series.SpikeTrainArgs
	if args.Name, args.Description, args.Origin, args.Annotations, err = readMeta(r); err != nil {
		return nil, err
	}

	times, timesCleanup, err := r.quantity()
	if err != nil {
		return nil, err
	}
	defer timesCleanup()
	args.Times = times

	if args.TStart, err = r.scalar(); err != nil {
		return nil, err
	}
	if args.TStop, err = r.scalar(); err != nil {
		return nil, err
	}
	if args.SamplingRate, err = r.scalar(); err != nil {
		return nil, err
	}
	if args.LeftSweep, err = r.scalar(); err != nil {
		return nil, err
	}

	waveforms, waveformsCleanup, err := r.quantity()
	if err != nil {
		return nil, err
	}
	defer waveformsCleanup()
	args.Waveforms = waveforms

	return series.ReconstructSpikeTrain(args)
}

func (d *Decoder) reader(kind format.ContainerKind) (*payloadReader, error) {
	if got := d.Kind(); got != kind {
		return nil, fmt.Errorf("%w: blob holds %s, not %s", errs.ErrInvalidContainerKind, got, kind)
	}

	return newPayloadReader(d.payload, d.header.Flag), nil
}

// readMeta reads the annotated-entity block shared by all kinds.
func readMeta(r *payloadReader) (name, description, origin string, annotations map[string]any, err error) {
	if name, err = r.str(); err != nil {
		return
	}
	if description, err = r.str(); err != nil {
		return
	}
	if origin, err = r.str(); err != nil {
		return
	}
	annotations, err = r.annotations()

	return
}

// Decode restores the container stored in data. It is shorthand for
// NewDecoder followed by Container.
func Decode(data []byte) (series.Container, error) {
	decoder, err := NewDecoder(data)
	if err != nil {
		return nil, err
	}

	return decoder.Container()
}
