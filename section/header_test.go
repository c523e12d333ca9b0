package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/neosig/errs"
	"github.com/arloliu/neosig/format"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := NewHeader(format.KindSpikeTrain)
	h.ElementCount = 1234
	h.PayloadLength = 987654
	h.Checksum = 0xDEADBEEFCAFEF00D

	data := h.Bytes()
	require.Len(t, data, HeaderSize)

	parsed, err := ParseHeader(data)
	require.NoError(t, err)
	require.Equal(t, *h, parsed)
	require.Equal(t, format.KindSpikeTrain, parsed.Flag.ContainerKind())
}

func TestHeaderRoundTripBigEndian(t *testing.T) {
	h := NewHeader(format.KindEpoch)
	h.Flag.WithBigEndian()
	h.ElementCount = 42
	h.PayloadLength = 4096
	h.Checksum = 0x0123456789ABCDEF

	parsed, err := ParseHeader(h.Bytes())
	require.NoError(t, err)
	require.True(t, parsed.Flag.IsBigEndian())
	require.Equal(t, uint32(42), parsed.ElementCount)
	require.Equal(t, uint64(4096), parsed.PayloadLength)
	require.Equal(t, uint64(0x0123456789ABCDEF), parsed.Checksum)
}

func TestHeaderReservedBytesZero(t *testing.T) {
	h := NewHeader(format.KindEvent)
	h.ElementCount = 7
	h.PayloadLength = 100
	h.Checksum = ^uint64(0)

	data := h.Bytes()
	for i := reservedOffset; i < HeaderSize; i++ {
		require.Zero(t, data[i], "reserved byte %d must be zero", i)
	}
}

func TestParseHeaderErrors(t *testing.T) {
	t.Run("short data", func(t *testing.T) {
		_, err := ParseHeader(make([]byte, HeaderSize-1))
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("exact size required by Parse", func(t *testing.T) {
		var h Header
		require.ErrorIs(t, h.Parse(make([]byte, HeaderSize+1)), errs.ErrInvalidHeaderSize)
	})

	t.Run("corrupted magic", func(t *testing.T) {
		h := NewHeader(format.KindAnalogSignal)
		data := h.Bytes()
		data[1] = 0x00 // clobber the magic bits

		_, err := ParseHeader(data)
		require.ErrorIs(t, err, errs.ErrInvalidMagic)
	})

	t.Run("unknown kind", func(t *testing.T) {
		h := NewHeader(format.KindAnalogSignal)
		data := h.Bytes()
		data[kindOffset] = 0x7F

		_, err := ParseHeader(data)
		require.ErrorIs(t, err, errs.ErrInvalidContainerKind)
	})
}

func TestParseHeaderIgnoresTrailingPayload(t *testing.T) {
	h := NewHeader(format.KindEvent)
	h.ElementCount = 3
	blob := append(h.Bytes(), []byte("payload...")...)

	parsed, err := ParseHeader(blob)
	require.NoError(t, err)
	require.Equal(t, uint32(3), parsed.ElementCount)
}
