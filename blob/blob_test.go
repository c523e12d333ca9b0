package blob

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/neosig/errs"
	"github.com/arloliu/neosig/format"
	"github.com/arloliu/neosig/quantity"
	"github.com/arloliu/neosig/section"
	"github.com/arloliu/neosig/series"
)

var (
	allEncodings    = []format.EncodingType{format.TypeRaw, format.TypeGorilla}
	allCompressions = []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}
)

func makeSignal(t *testing.T, n int) *series.AnalogSignal {
	t.Helper()

	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 50 * math.Sin(2*math.Pi*float64(i)/64)
	}

	sig, err := series.NewAnalogSignal(quantity.New(samples, quantity.Microvolt),
		series.WithSamplingRate(quantity.NewScalar(30, quantity.Kilohertz)),
		series.WithTStart(quantity.NewScalar(42, quantity.Millisecond)),
		series.WithSignalName("ch01"),
		series.WithSignalDescription("extracellular recording"),
		series.WithSignalOrigin("session-07.dat"),
		series.WithSignalAnnotations(map[string]any{
			"probe":    "A32",
			"filtered": true,
			"gain":     int64(500),
			"impedance": map[string]any{
				"value": 1.2,
				"unit":  "MOhm",
			},
		}),
	)
	require.NoError(t, err)

	return sig
}

func makeEvent(t *testing.T) *series.Event {
	t.Helper()

	ev, err := series.NewEvent(quantity.New([]float64{1.5, 20, 68.125}, quantity.Second),
		series.WithLabels([]string{"trial start", "stimulus", "trial end"}),
		series.WithEventName("trial markers"),
		series.WithEventAnnotations(map[string]any{"session": "07"}),
	)
	require.NoError(t, err)

	return ev
}

func makeEpoch(t *testing.T) *series.Epoch {
	t.Helper()

	ep, err := series.NewEpoch(quantity.New([]float64{0, 30, 60}, quantity.Second),
		series.WithDurationValues([]float64{10, 10, 12}),
		series.WithEpochLabels([]string{"baseline", "stimulus", "recovery"}),
		series.WithEpochName("protocol phases"),
	)
	require.NoError(t, err)

	return ep
}

func makeTrain(t *testing.T, withWaveforms bool) *series.SpikeTrain {
	t.Helper()

	opts := []series.SpikeTrainOption{
		series.WithTrainTStart(quantity.Seconds(0.5)),
		series.WithTrainName("unit 3"),
		series.WithTrainAnnotations(map[string]any{"quality": "good"}),
	}
	if withWaveforms {
		waveforms := make([]float64, 4*2*8)
		for i := range waveforms {
			waveforms[i] = math.Sin(float64(i) / 3)
		}
		wf, err := quantity.NewShaped(waveforms, []int{4, 2, 8}, quantity.Microvolt)
		require.NoError(t, err)
		opts = append(opts,
			series.WithWaveforms(wf),
			series.WithLeftSweep(quantity.NewScalar(0.4, quantity.Millisecond)),
			series.WithTrainSamplingRate(quantity.NewScalar(30, quantity.Kilohertz)),
		)
	}

	train, err := series.NewSpikeTrain(
		quantity.New([]float64{0.7, 1.8, 4.4, 9.1}, quantity.Second),
		quantity.Seconds(10),
		opts...,
	)
	require.NoError(t, err)

	return train
}

func TestAnalogSignalRoundTrip(t *testing.T) {
	sig := makeSignal(t, 512)

	for _, enc := range allEncodings {
		for _, comp := range allCompressions {
			t.Run(enc.String()+"/"+comp.String(), func(t *testing.T) {
				encoder, err := NewEncoder(WithEncoding(enc), WithCompression(comp))
				require.NoError(t, err)

				data, err := encoder.EncodeAnalogSignal(sig)
				require.NoError(t, err)

				decoder, err := NewDecoder(data)
				require.NoError(t, err)
				require.Equal(t, format.KindAnalogSignal, decoder.Kind())
				require.Equal(t, sig.Len(), decoder.ElementCount())

				got, err := decoder.AnalogSignal()
				require.NoError(t, err)

				require.True(t, series.Equal(sig, got))
				assert.Equal(t, sig.Signal().Values(), got.Signal().Values())
				assert.True(t, sig.TStart().Equal(got.TStart()))
				assert.True(t, sig.SamplingRate().Equal(got.SamplingRate()))
				assert.Equal(t, "ch01", got.Meta().Name)
				assert.Equal(t, "extracellular recording", got.Meta().Description)
				assert.Equal(t, "session-07.dat", got.Meta().Origin)
			})
		}
	}
}

func TestEventRoundTrip(t *testing.T) {
	ev := makeEvent(t)

	encoder, err := NewEncoder()
	require.NoError(t, err)
	data, err := encoder.EncodeEvent(ev)
	require.NoError(t, err)

	decoder, err := NewDecoder(data)
	require.NoError(t, err)
	got, err := decoder.Event()
	require.NoError(t, err)

	assert.Equal(t, ev.Times().Values(), got.Times().Values())
	assert.True(t, ev.Times().Unit().Equal(got.Times().Unit()))
	assert.Equal(t, ev.Labels(), got.Labels())
	assert.Equal(t, "trial markers", got.Meta().Name)
	assert.Equal(t, map[string]any{"session": "07"}, got.Meta().Annotations)
}

func TestEpochRoundTrip(t *testing.T) {
	ep := makeEpoch(t)

	encoder, err := NewEncoder(WithCompression(format.CompressionS2))
	require.NoError(t, err)
	data, err := encoder.EncodeEpoch(ep)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)

	epoch, ok := got.(*series.Epoch)
	require.True(t, ok)
	assert.Equal(t, ep.Times().Values(), epoch.Times().Values())
	assert.Equal(t, ep.Durations().Values(), epoch.Durations().Values())
	assert.Equal(t, ep.Labels(), epoch.Labels())
}

func TestSpikeTrainRoundTrip(t *testing.T) {
	t.Run("with waveforms", func(t *testing.T) {
		train := makeTrain(t, true)

		encoder, err := NewEncoder()
		require.NoError(t, err)
		data, err := encoder.EncodeSpikeTrain(train)
		require.NoError(t, err)

		decoder, err := NewDecoder(data)
		require.NoError(t, err)
		got, err := decoder.SpikeTrain()
		require.NoError(t, err)

		assert.Equal(t, train.Times().Values(), got.Times().Values())
		assert.True(t, train.TStart().Equal(got.TStart()))
		assert.True(t, train.TStop().Equal(got.TStop()))
		assert.True(t, train.SamplingRate().Equal(got.SamplingRate()))
		assert.True(t, train.LeftSweep().Equal(got.LeftSweep()))

		require.NotNil(t, got.Waveforms())
		assert.Equal(t, train.Waveforms().Shape(), got.Waveforms().Shape())
		assert.Equal(t, train.Waveforms().Values(), got.Waveforms().Values())
	})

	t.Run("without waveforms", func(t *testing.T) {
		train := makeTrain(t, false)

		encoder, err := NewEncoder()
		require.NoError(t, err)
		data, err := encoder.EncodeSpikeTrain(train)
		require.NoError(t, err)

		got, err := Decode(data)
		require.NoError(t, err)

		decoded, ok := got.(*series.SpikeTrain)
		require.True(t, ok)
		assert.Nil(t, decoded.Waveforms())
		assert.False(t, decoded.LeftSweep().Defined())
	})
}

func TestBigEndianRoundTrip(t *testing.T) {
	sig := makeSignal(t, 64)

	encoder, err := NewEncoder(WithBigEndian(), WithEncoding(format.TypeRaw))
	require.NoError(t, err)
	data, err := encoder.EncodeAnalogSignal(sig)
	require.NoError(t, err)

	decoder, err := NewDecoder(data)
	require.NoError(t, err)
	got, err := decoder.AnalogSignal()
	require.NoError(t, err)

	assert.Equal(t, sig.Signal().Values(), got.Signal().Values())
}

func TestEncodeDispatch(t *testing.T) {
	encoder, err := NewEncoder()
	require.NoError(t, err)

	containers := []series.Container{
		makeSignal(t, 16), makeEvent(t), makeEpoch(t), makeTrain(t, false),
	}
	kinds := []format.ContainerKind{
		format.KindAnalogSignal, format.KindEvent, format.KindEpoch, format.KindSpikeTrain,
	}

	for i, c := range containers {
		data, err := encoder.Encode(c)
		require.NoError(t, err)

		decoder, err := NewDecoder(data)
		require.NoError(t, err)
		assert.Equal(t, kinds[i], decoder.Kind())

		got, err := decoder.Container()
		require.NoError(t, err)
		assert.Equal(t, c.Len(), got.Len())
	}
}

func TestAnnotationsRoundTrip(t *testing.T) {
	ev, err := series.NewEvent(quantity.New([]float64{1}, quantity.Second),
		series.WithEventAnnotations(map[string]any{
			"text":  "stim A",
			"flag":  false,
			"count": 12,
			"ratio": 0.75,
			"nested": map[string]any{
				"depth": int64(800),
			},
		}),
	)
	require.NoError(t, err)

	encoder, err := NewEncoder()
	require.NoError(t, err)
	data, err := encoder.EncodeEvent(ev)
	require.NoError(t, err)

	decoder, err := NewDecoder(data)
	require.NoError(t, err)
	got, err := decoder.Event()
	require.NoError(t, err)

	// Integer widths normalize to int64 on the wire.
	assert.Equal(t, map[string]any{
		"text":  "stim A",
		"flag":  false,
		"count": int64(12),
		"ratio": 0.75,
		"nested": map[string]any{
			"depth": int64(800),
		},
	}, got.Meta().Annotations)
}

func TestUnsupportedAnnotationValue(t *testing.T) {
	ev, err := series.NewEvent(quantity.New([]float64{1}, quantity.Second),
		series.WithEventAnnotations(map[string]any{"bad": []int{1, 2}}),
	)
	require.NoError(t, err)

	encoder, err := NewEncoder()
	require.NoError(t, err)
	_, err = encoder.EncodeEvent(ev)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported annotation value type")
}

func TestChecksumMismatch(t *testing.T) {
	encoder, err := NewEncoder()
	require.NoError(t, err)
	data, err := encoder.EncodeEvent(makeEvent(t))
	require.NoError(t, err)

	data[len(data)-1] ^= 0xFF

	_, err = NewDecoder(data)
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)
}

func TestTruncatedBlob(t *testing.T) {
	encoder, err := NewEncoder()
	require.NoError(t, err)
	data, err := encoder.EncodeEvent(makeEvent(t))
	require.NoError(t, err)

	t.Run("short header", func(t *testing.T) {
		_, err := NewDecoder(data[:10])
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("short payload", func(t *testing.T) {
		_, err := NewDecoder(data[:len(data)-5])
		require.ErrorIs(t, err, errs.ErrPayloadTruncated)
	})
}

func TestImplausibleShapeRejected(t *testing.T) {
	// Each dimension passes the per-dimension cap, but the element count
	// wraps int64 to zero. The decoder must reject the shape against the
	// actual payload size instead of allocating for it.
	flag := section.NewFlag(format.KindEvent)
	flag.SetEncoding(format.TypeRaw)
	flag.SetCompression(format.CompressionNone)

	w := newPayloadWriter(flag)
	defer w.finish()

	require.NoError(t, writeMeta(w, "", "", "", nil))
	w.buf.MustWrite([]byte{1}) // times quantity present
	w.uvarint(4)
	for _, d := range []uint64{1 << 30, 1 << 30, 16, 1} {
		w.uvarint(d)
	}
	require.NoError(t, w.unit(quantity.Second))
	w.uvarint(0) // empty float column

	data, err := finalize(flag, 4, w)
	require.NoError(t, err)

	_, err = Decode(data)
	require.ErrorIs(t, err, errs.ErrPayloadTruncated)
}

func TestWrongKindAccessor(t *testing.T) {
	encoder, err := NewEncoder()
	require.NoError(t, err)
	data, err := encoder.EncodeEvent(makeEvent(t))
	require.NoError(t, err)

	decoder, err := NewDecoder(data)
	require.NoError(t, err)

	_, err = decoder.AnalogSignal()
	require.ErrorIs(t, err, errs.ErrInvalidContainerKind)
	_, err = decoder.SpikeTrain()
	require.ErrorIs(t, err, errs.ErrInvalidContainerKind)
}

func TestEncoderOptionValidation(t *testing.T) {
	_, err := NewEncoder(WithEncoding(format.EncodingType(0xF)))
	require.ErrorIs(t, err, errs.ErrInvalidEncodingType)

	_, err = NewEncoder(WithCompression(format.CompressionType(0xF)))
	require.ErrorIs(t, err, errs.ErrInvalidCompressionType)
}

func TestGorillaBeatsRawOnSmoothSignal(t *testing.T) {
	samples := make([]float64, 4096)
	for i := range samples {
		samples[i] = math.Round(100*math.Sin(2*math.Pi*float64(i)/512)) / 10
	}
	sig, err := series.NewAnalogSignal(quantity.New(samples, quantity.Millivolt),
		series.WithSamplingRate(quantity.NewScalar(1, quantity.Kilohertz)),
	)
	require.NoError(t, err)

	rawEnc, err := NewEncoder(WithEncoding(format.TypeRaw), WithCompression(format.CompressionNone))
	require.NoError(t, err)
	gorillaEnc, err := NewEncoder(WithEncoding(format.TypeGorilla), WithCompression(format.CompressionNone))
	require.NoError(t, err)

	raw, err := rawEnc.EncodeAnalogSignal(sig)
	require.NoError(t, err)
	gorilla, err := gorillaEnc.EncodeAnalogSignal(sig)
	require.NoError(t, err)

	assert.Less(t, len(gorilla), len(raw))

	got, err := Decode(gorilla)
	require.NoError(t, err)
	assert.Equal(t, samples, got.Data().Values())
}
