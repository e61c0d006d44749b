// Package maw32core implements the byte-level primitives of the MAW32
// hash function: rotation, majority, the two sigma mixing functions,
// modular addition, and the whole-message Merkle-Damgard hash built from
// them. Everything else in this module treats these functions as the
// external collaborator described by the spec: a small, fixed set of
// 8-bit operations to reason about differentially.
package maw32core

// BlockSize is the MAW32 input block size in bytes (64 bits).
const BlockSize = 8

// DigestSize is the MAW32 digest size in bytes (32 bits).
const DigestSize = 4

// Rounds is the number of compression rounds per block.
const Rounds = 16

// IV is the initial register state H[0..3].
var IV = [4]byte{0x24, 0x3f, 0x6a, 0x88}

// K holds the 16 round constants (fractional expansion of e).
var K = [16]byte{
	0xb7, 0xe1, 0x51, 0x62, 0x8a, 0xed, 0x2a, 0x6a,
	0xbf, 0x71, 0x58, 0x80, 0x9c, 0xf4, 0xf3, 0xc7,
}

// Rotr right-rotates an 8-bit value by n bits, n in [1,7].
func Rotr(x byte, n uint) byte {
	return (x >> n) | (x << (8 - n))
}

// Maj computes the bitwise majority of three bytes.
func Maj(x, y, z byte) byte {
	return (x & y) ^ (x & z) ^ (y & z)
}

// Sigma0 is the non-truncating mixing function used on register a.
func Sigma0(x byte) byte {
	return Rotr(x, 2) ^ Rotr(x, 3) ^ Rotr(x, 5)
}

// Sigma1 is the truncating mixing function used on register b and the
// message schedule.
func Sigma1(x byte) byte {
	return Rotr(x, 1) ^ Rotr(x, 4) ^ (x >> 3)
}

// Add is addition modulo 256.
func Add(x, y byte) byte {
	return x + y
}
