// Package hash provides payload checksum helpers.
package hash

import "github.com/cespare/xxhash/v2"

// Checksum computes the xxHash64 digest of a payload. Blob headers carry
// this digest so decoders can detect corruption before parsing.
func Checksum(data []byte) uint64 {
	return xxhash.Sum64(data)
}
