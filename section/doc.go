// Package section defines the fixed-size header section of a container blob.
//
// Every blob starts with a 32-byte header: a packed flag (magic number,
// byte order, container kind, column encoding, payload compression), the
// element count of the container's primary array, the compressed payload
// length, and an xxHash64 checksum of the payload. The remaining header
// bytes are reserved and must be zero.
//
// The flag's options field is always serialized little-endian so a decoder
// can read the endianness bit before choosing the byte order for the rest
// of the header.
package section
