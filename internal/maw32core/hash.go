package maw32core

import "encoding/binary"

// Hash computes the MAW32 digest of msg and returns the 4-byte result.
//
// Padding follows Merkle-Damgard: append 0x80, zero-pad until the block
// length is a multiple of BlockSize with 4 bytes to spare, then append the
// bit length of the original message as a big-endian 32-bit integer.
func Hash(msg []byte) [DigestSize]byte {
	H := IV

	for _, block := range blocks(msg) {
		a, b, c, d := H[0], H[1], H[2], H[3]
		var W [16]byte

		for t := 0; t < Rounds; t++ {
			if t < 8 {
				W[t] = block[t]
			} else {
				W[t] = Add(Add(Sigma0(W[t-3]), W[t-4]), Sigma1(W[t-8]))
			}
			t1 := Add(Add(Add(d, Sigma1(b)), K[t]), W[t])
			t2 := Add(Sigma0(a), Maj(a, b, c))
			d = c
			c = Add(b, t1)
			b = a
			a = Add(t1, t2)
		}

		H[0] += a
		H[1] += b
		H[2] += c
		H[3] += d
	}

	return H
}

// blocks splits msg into BlockSize-byte chunks, Merkle-Damgard padded.
func blocks(msg []byte) [][BlockSize]byte {
	bitLen := uint32(len(msg)) * 8

	padded := make([]byte, 0, len(msg)+BlockSize+1)
	padded = append(padded, msg...)
	padded = append(padded, 0x80)
	for len(padded)%BlockSize != BlockSize-4 {
		padded = append(padded, 0x00)
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], bitLen)
	padded = append(padded, lenBuf[:]...)

	out := make([][BlockSize]byte, 0, len(padded)/BlockSize)
	for i := 0; i < len(padded); i += BlockSize {
		var b [BlockSize]byte
		copy(b[:], padded[i:i+BlockSize])
		out = append(out, b)
	}
	return out
}
