package compress

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/neosig/format"
)

// samplePayload builds a payload resembling an encoded container: a run of
// raw float64 samples followed by repetitive label text.
func samplePayload(n int) []byte {
	buf := make([]byte, 0, n*8+n*6)
	for i := 0; i < n; i++ {
		v := math.Sin(float64(i)/25.0) * 80.0
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}
	for i := 0; i < n; i++ {
		buf = append(buf, "trial "...)
	}

	return buf
}

func allCodecs(t *testing.T) map[string]Codec {
	t.Helper()

	return map[string]Codec{
		"noop": NewNoOpCompressor(),
		"zstd": NewZstdCompressor(),
		"s2":   NewS2Compressor(),
		"lz4":  NewLZ4Compressor(),
	}
}

func TestCodecRoundTrip(t *testing.T) {
	payload := samplePayload(512)

	for name, codec := range allCodecs(t) {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(payload)
			require.NoError(t, err)

			restored, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, payload, restored)
		})
	}
}

func TestCodecEmptyInput(t *testing.T) {
	for name, codec := range allCodecs(t) {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(nil)
			require.NoError(t, err)

			restored, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Empty(t, restored)
		})
	}
}

func TestCodecSingleByte(t *testing.T) {
	for name, codec := range allCodecs(t) {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress([]byte{0x42})
			require.NoError(t, err)

			restored, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, []byte{0x42}, restored)
		})
	}
}

func TestCodecReducesRepetitivePayload(t *testing.T) {
	payload := samplePayload(4096)

	for _, name := range []string{"zstd", "s2", "lz4"} {
		t.Run(name, func(t *testing.T) {
			codec := allCodecs(t)[name]
			compressed, err := codec.Compress(payload)
			require.NoError(t, err)
			require.Less(t, len(compressed), len(payload))
		})
	}
}

func TestNoOpReturnsInputSlice(t *testing.T) {
	codec := NewNoOpCompressor()
	payload := samplePayload(16)

	compressed, err := codec.Compress(payload)
	require.NoError(t, err)
	require.Equal(t, &payload[0], &compressed[0])
}

func TestZstdDecompressCorruptedData(t *testing.T) {
	codec := NewZstdCompressor()

	_, err := codec.Decompress([]byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02})
	require.Error(t, err)
}

func TestCreateCodec(t *testing.T) {
	tests := []struct {
		compression format.CompressionType
		want        Codec
	}{
		{format.CompressionNone, NewNoOpCompressor()},
		{format.CompressionZstd, NewZstdCompressor()},
		{format.CompressionS2, NewS2Compressor()},
		{format.CompressionLZ4, NewLZ4Compressor()},
	}

	for _, tt := range tests {
		t.Run(tt.compression.String(), func(t *testing.T) {
			codec, err := CreateCodec(tt.compression, "payload")
			require.NoError(t, err)
			require.IsType(t, tt.want, codec)
		})
	}

	_, err := CreateCodec(format.CompressionType(0xff), "payload")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid payload compression")
}

func TestGetCodec(t *testing.T) {
	for _, compression := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		codec, err := GetCodec(compression)
		require.NoError(t, err)
		require.NotNil(t, codec)
	}

	_, err := GetCodec(format.CompressionType(0x9))
	require.Error(t, err)
}
