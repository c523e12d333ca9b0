// Package encoding provides columnar encoders and decoders for blob payloads.
//
// A container's argument tuple is flattened into columns before it is
// written to a blob: float64 sample columns, string columns for labels, and
// uvarint-framed metadata. This package implements the column codecs:
//
//   - FloatRawEncoder/FloatRawDecoder: IEEE 754 float64 values verbatim,
//     8 bytes per value in a configurable byte order.
//   - FloatGorillaEncoder/FloatGorillaDecoder: XOR compression with
//     leading/trailing zero optimization, after Facebook's Gorilla paper.
//     Neighboring neural samples are usually close in value, which is
//     exactly the access pattern Gorilla rewards.
//   - VarStringEncoder/StringDecoder: length-prefixed UTF-8 strings using
//     unsigned varints, so labels and descriptions are not capped at 255
//     bytes.
//
// Encoders draw their buffers from an internal pool; call Finish when an
// encoding session is complete to return the buffer. Decoders are stateless
// values and safe for concurrent use.
package encoding
