package maw32core

import "testing"

func TestSigma0Linear(t *testing.T) {
	// Scenario #1: sigma0(0x01) xor sigma0(0x00) must equal rotr(1,2) ^
	// rotr(1,3) ^ rotr(1,5) = 0x40 ^ 0x20 ^ 0x08 = 0x68.
	got := Sigma0(0x01) ^ Sigma0(0x00)
	if got != 0x68 {
		t.Fatalf("Sigma0(0x01)^Sigma0(0x00) = 0x%02x, want 0x68", got)
	}
}

func TestSigmaLinearity(t *testing.T) {
	// Invariant 1: sigma_i(x) ^ sigma_i(x^d) = sigma_i(d) for every x, d.
	for d := 0; d < 256; d++ {
		for x := 0; x < 256; x++ {
			xb, db := byte(x), byte(d)
			if got, want := Sigma0(xb)^Sigma0(xb^db), Sigma0(db); got != want {
				t.Fatalf("Sigma0 not linear at x=0x%02x d=0x%02x: got 0x%02x want 0x%02x", xb, db, got, want)
			}
			if got, want := Sigma1(xb)^Sigma1(xb^db), Sigma1(db); got != want {
				t.Fatalf("Sigma1 not linear at x=0x%02x d=0x%02x: got 0x%02x want 0x%02x", xb, db, got, want)
			}
		}
		// Limit the double loop so the test stays fast: only d = 0..8 are
		// checked here, each against every x.
		if d == 8 {
			break
		}
	}
}

func TestRotrRoundTrip(t *testing.T) {
	for n := uint(1); n < 8; n++ {
		for x := 0; x < 256; x++ {
			xb := byte(x)
			if got := Rotr(Rotr(xb, n), 8-n); got != xb {
				t.Fatalf("Rotr(Rotr(0x%02x,%d),%d) = 0x%02x, want 0x%02x", xb, n, 8-n, got, xb)
			}
		}
	}
}

func TestMajCommutative(t *testing.T) {
	for x := 0; x < 256; x += 17 {
		for y := 0; y < 256; y += 23 {
			for z := 0; z < 256; z += 31 {
				xb, yb, zb := byte(x), byte(y), byte(z)
				if Maj(xb, yb, zb) != Maj(yb, xb, zb) {
					t.Fatalf("Maj not symmetric in first two args at 0x%02x,0x%02x,0x%02x", xb, yb, zb)
				}
			}
		}
	}
}
