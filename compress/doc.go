// Package compress provides compression and decompression codecs for
// serialized container payloads.
//
// Compression is applied at the payload level, after the column encoding
// stage: the blob encoder first encodes a container's argument tuple into a
// payload, then compresses the whole payload with one of the codecs here.
//
// Supported algorithms:
//   - None: no compression (fastest, largest)
//   - Zstd: excellent compression ratio, moderate speed
//   - S2: balanced compression and speed
//   - LZ4: fast decompression, moderate compression
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// Zstd is the recommended default. Gorilla-encoded sample columns are
// already dense, so the wins come mostly from labels, annotations and raw
// columns; archival blobs still benefit from Zstd's ratio, while LZ4 or S2
// suit read-heavy paths where decompression latency dominates.
//
// All codec implementations are stateless values and safe for concurrent
// use. Zstd and LZ4 pool their encoder and decoder state internally.
//
// The blob package uses this package internally. Configure compression via
// encoder options:
//
//	encoder, err := blob.NewEncoder(
//	    blob.WithCompression(format.CompressionZstd),
//	)
//
// Decoders detect the algorithm from the blob header automatically.
package compress
