package compress

// ZstdCompressor provides Zstandard compression for container payloads.
//
// This compressor is designed for scenarios where compression ratio is more
// important than compression speed, making it ideal for:
//   - Archival of recording sessions
//   - Network transmission where bandwidth is limited
//   - Payloads dominated by labels and annotations, which compress well
//
// Two implementations exist behind the same type: a cgo build links the
// native libzstd via valyala/gozstd, and a pure-Go build falls back to
// klauspost/compress/zstd. The wire format is identical either way.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Returns:
//   - ZstdCompressor: New Zstd compressor instance
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
