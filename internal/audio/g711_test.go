package audio

import "testing"

func TestMulawRoundTrip_Silence(t *testing.T) {
	encoded := Linear8ToMulaw(SilenceByte)
	decoded := MulawToLinear8(encoded)
	if decoded != SilenceByte {
		t.Errorf("silence round trip = %#x, want %#x", decoded, SilenceByte)
	}
}

func TestMulawRoundTrip_Approximate(t *testing.T) {
	// Mu-law is lossy; a round trip should stay within one quantization
	// step of the original across the 8-bit range.
	for v := 0; v < 256; v++ {
		decoded := MulawToLinear8(Linear8ToMulaw(byte(v)))
		diff := int(decoded) - v
		if diff < 0 {
			diff = -diff
		}
		if diff > 16 {
			t.Errorf("round trip of %d gave %d (diff %d)", v, decoded, diff)
		}
	}
}

func TestDecodeMulaw_Length(t *testing.T) {
	payload := make([]byte, 3*FrameLen)
	decoded := DecodeMulaw(payload)
	if len(decoded) != len(payload) {
		t.Errorf("decoded length = %d, want %d", len(decoded), len(payload))
	}
}

func TestEncodeDecode_Symmetry(t *testing.T) {
	samples := []byte{0, 64, 127, 128, 129, 192, 255}
	wire := EncodeMulaw(samples)
	back := DecodeMulaw(wire)
	if len(back) != len(samples) {
		t.Fatalf("length mismatch: %d vs %d", len(back), len(samples))
	}
	// Extremes keep their sign relative to the midpoint.
	if back[0] >= SilenceByte {
		t.Error("negative extreme decoded above midpoint")
	}
	if back[len(back)-1] <= SilenceByte {
		t.Error("positive extreme decoded below midpoint")
	}
}
