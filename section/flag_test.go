package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/neosig/errs"
	"github.com/arloliu/neosig/format"
)

func TestNewFlagDefaults(t *testing.T) {
	flag := NewFlag(format.KindAnalogSignal)

	require.Equal(t, uint16(MagicContainerV1Opt), flag.GetMagicNumber())
	require.True(t, flag.IsLittleEndian())
	require.Equal(t, format.KindAnalogSignal, flag.ContainerKind())
	require.Equal(t, format.TypeGorilla, flag.Encoding())
	require.Equal(t, format.CompressionZstd, flag.Compression())
	require.NoError(t, flag.Validate())
}

func TestFlagEndianness(t *testing.T) {
	flag := NewFlag(format.KindEvent)

	flag.WithBigEndian()
	require.True(t, flag.IsBigEndian())
	require.False(t, flag.IsLittleEndian())

	flag.WithLittleEndian()
	require.True(t, flag.IsLittleEndian())

	// Toggling endianness must not disturb the magic number.
	require.Equal(t, uint16(MagicContainerV1Opt), flag.GetMagicNumber())
}

func TestFlagCodecPacking(t *testing.T) {
	flag := NewFlag(format.KindSpikeTrain)

	flag.SetEncoding(format.TypeRaw)
	flag.SetCompression(format.CompressionLZ4)
	require.Equal(t, format.TypeRaw, flag.Encoding())
	require.Equal(t, format.CompressionLZ4, flag.Compression())

	flag.SetEncoding(format.TypeGorilla)
	require.Equal(t, format.TypeGorilla, flag.Encoding())
	require.Equal(t, format.CompressionLZ4, flag.Compression(), "encoding change must not disturb compression")
}

func TestFlagValidate(t *testing.T) {
	t.Run("bad magic", func(t *testing.T) {
		flag := NewFlag(format.KindEpoch)
		flag.Options = 0x1230
		require.ErrorIs(t, flag.Validate(), errs.ErrInvalidMagic)
	})

	t.Run("bad kind", func(t *testing.T) {
		flag := NewFlag(format.ContainerKind(0x9))
		require.ErrorIs(t, flag.Validate(), errs.ErrInvalidContainerKind)
	})

	t.Run("bad encoding", func(t *testing.T) {
		flag := NewFlag(format.KindEvent)
		flag.Codec = (flag.Codec &^ 0x0F) | 0x0D
		require.ErrorIs(t, flag.Validate(), errs.ErrInvalidEncodingType)
	})

	t.Run("bad compression", func(t *testing.T) {
		flag := NewFlag(format.KindEvent)
		flag.Codec = (flag.Codec &^ 0xF0) | 0xD0
		require.ErrorIs(t, flag.Validate(), errs.ErrInvalidCompressionType)
	})
}

func TestFlagGetEndianEngine(t *testing.T) {
	flag := NewFlag(format.KindAnalogSignal)

	little := flag.GetEndianEngine()
	buf := make([]byte, 2)
	little.PutUint16(buf, 0x0102)
	require.Equal(t, byte(0x02), buf[0])

	flag.WithBigEndian()
	big := flag.GetEndianEngine()
	big.PutUint16(buf, 0x0102)
	require.Equal(t, byte(0x01), buf[0])
}
