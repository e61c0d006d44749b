package maw32core

import (
	"encoding/hex"
	"testing"
)

func TestHashEmptyMessage(t *testing.T) {
	// Scenario #5: MAW32("", 0 bytes) has a fixed digest determined by the
	// IV, K table, and single-block Merkle-Damgard padding.
	got := Hash(nil)
	want, _ := hex.DecodeString("97610064")
	if hex.EncodeToString(got[:]) != hex.EncodeToString(want) {
		t.Fatalf("Hash(nil) = %x, want %x", got, want)
	}
}

func TestHashKnownVector(t *testing.T) {
	got := Hash([]byte("abc"))
	want, _ := hex.DecodeString("61770724")
	if hex.EncodeToString(got[:]) != hex.EncodeToString(want) {
		t.Fatalf("Hash(\"abc\") = %x, want %x", got, want)
	}
}

func TestHashDeterministic(t *testing.T) {
	msg := []byte("the quick brown fox jumps over the lazy dog")
	a := Hash(msg)
	b := Hash(msg)
	if a != b {
		t.Fatalf("Hash is not deterministic: %x != %x", a, b)
	}
}

func TestHashMultiBlock(t *testing.T) {
	// A message whose last partial block holds 4 or more bytes (60 % 8
	// == 4), so the 0x80 marker and the 32-bit length spill into an
	// extra padding block.
	msg := make([]byte, 60)
	for i := range msg {
		msg[i] = byte(i)
	}
	digest := Hash(msg)
	if digest == (Hash(append(msg, 0x01))) {
		t.Fatalf("appending a byte should change the digest")
	}
}
