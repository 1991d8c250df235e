package audio

// G.711 mu-law codec between the wire format and the engine's 8-bit
// unsigned linear samples (ITU-T G.711).

const (
	mulawBias = 33
	mulawMax  = 0x1FFF
)

// Linear8ToMulaw encodes one 8-bit unsigned linear sample as mu-law.
// The 8-bit domain is expanded onto the codec's 14-bit range.
func Linear8ToMulaw(sample byte) byte {
	return linear14ToMulaw(int16(int(sample)-128) * 64)
}

// MulawToLinear8 decodes one mu-law byte to an 8-bit unsigned linear sample.
func MulawToLinear8(b byte) byte {
	v := int(mulawToLinear14(b))/64 + 128
	if v > 255 {
		v = 255
	} else if v < 0 {
		v = 0
	}
	return byte(v)
}

// DecodeMulaw converts a mu-law payload to native-format samples.
func DecodeMulaw(payload []byte) []byte {
	out := make([]byte, len(payload))
	for i, b := range payload {
		out[i] = MulawToLinear8(b)
	}
	return out
}

// EncodeMulaw converts native-format samples to a mu-law payload.
func EncodeMulaw(samples []byte) []byte {
	out := make([]byte, len(samples))
	for i, s := range samples {
		out[i] = Linear8ToMulaw(s)
	}
	return out
}

func linear14ToMulaw(sample int16) byte {
	var sign byte
	magnitude := int32(sample)
	if sample < 0 {
		sign = 0x80
		magnitude = -magnitude
	}
	magnitude += mulawBias
	if magnitude > mulawMax {
		magnitude = mulawMax
	}

	var segment byte
	for s := byte(7); s >= 1; s-- {
		if magnitude >= 0x20<<s {
			segment = s
			break
		}
	}
	mantissa := byte((magnitude >> (segment + 1)) & 0x0F)
	return ^(sign | segment<<4 | mantissa)
}

func mulawToLinear14(b byte) int16 {
	b = ^b
	sign := b & 0x80
	segment := int32((b >> 4) & 0x07)
	mantissa := int32(b & 0x0F)

	step := mantissa << (segment + 1)
	step += int32(mulawBias) << segment
	magnitude := step - mulawBias
	if sign != 0 {
		return int16(-magnitude)
	}
	return int16(magnitude)
}
