package crc

import "testing"

func TestCCITTKnownVector(t *testing.T) {
	// "123456789" is the standard CRC check string; this config (poly
	// 0x1021, init 0xFFFF, final invert) matches CRC-16/GENIBUS, check
	// value 0xD64E.
	got := CCITT.Calc([]byte("123456789"))
	want := uint16(0xD64E)
	if got != want {
		t.Errorf("CCITT.Calc(%q) = 0x%04X, want 0x%04X", "123456789", got, want)
	}
}

func TestCCITTEmpty(t *testing.T) {
	// Initial 0xFFFF, no bytes processed, then inverted.
	got := CCITT.Calc(nil)
	want := uint16(0x0000)
	if got != want {
		t.Errorf("CCITT.Calc(nil) = 0x%04X, want 0x%04X", got, want)
	}
}

func TestCheckTrailingRoundTrip(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	sum := CCITT.Calc(payload)
	framed := append(append([]byte{}, payload...), byte(sum>>8), byte(sum))
	if !CCITT.CheckTrailing(framed) {
		t.Errorf("CheckTrailing failed for freshly computed CRC trailer")
	}
	framed[len(framed)-1] ^= 0xFF
	if CCITT.CheckTrailing(framed) {
		t.Errorf("CheckTrailing passed for corrupted CRC trailer")
	}
}

func TestCheckTrailingTooShort(t *testing.T) {
	if CCITT.CheckTrailing([]byte{0x01}) {
		t.Errorf("CheckTrailing should fail on input shorter than 2 bytes")
	}
}

func TestIBMDiffersFromCCITT(t *testing.T) {
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	if IBM.Calc(data) == CCITT.Calc(data) {
		t.Errorf("IBM and CCITT engines should not collide on arbitrary data")
	}
}

func TestFireCodeDeterministic(t *testing.T) {
	data := []byte{0x00, 0x11, 0x22, 0x33}
	a := FireCode.Calc(data)
	b := FireCode.Calc(data)
	if a != b {
		t.Errorf("FireCode.Calc not deterministic: %04X != %04X", a, b)
	}
}
