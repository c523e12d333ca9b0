// Package blob serializes series containers into a compact binary format
// and restores them.
//
// A blob is a 32-byte header (see the section package) followed by one
// payload. The payload is the container's reconstruction tuple flattened
// into columns: uvarint-framed strings for names, labels and annotations,
// units as symbol + dimension exponents + scale, and float64 columns either
// raw or Gorilla-compressed. The whole payload is then run through one of
// the compress package codecs, and its xxHash64 checksum is recorded in the
// header so corruption is caught before parsing.
//
// Encoding:
//
//	encoder, _ := blob.NewEncoder(
//	    blob.WithEncoding(format.TypeGorilla),
//	    blob.WithCompression(format.CompressionZstd),
//	)
//	data, err := encoder.EncodeAnalogSignal(sig)
//
// Decoding does not need any configuration; the header carries the byte
// order, column encoding and compression:
//
//	container, err := blob.Decode(data)
//
// Or, when the kind is known up front:
//
//	decoder, _ := blob.NewDecoder(data)
//	sig, err := decoder.AnalogSignal()
package blob
