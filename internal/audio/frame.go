package audio

import "time"

// Audio framing constants shared by every call. The engine works on raw
// 8-bit unsigned PCM at 8 kHz, 160 samples (20 ms) per frame.
const (
	SampleRate  = 8000
	FrameLen    = 160
	SilenceByte = 0x80
)

// FrameDuration is the wall-clock length of one frame.
const FrameDuration = FrameLen * time.Second / SampleRate

var silence = func() []byte {
	f := make([]byte, FrameLen)
	for i := range f {
		f[i] = SilenceByte
	}
	return f
}()

// SilenceFrame returns a fresh canonical silence frame.
func SilenceFrame() []byte {
	f := make([]byte, FrameLen)
	copy(f, silence)
	return f
}

// IsSilence reports whether buf is exactly the canonical silence frame.
func IsSilence(buf []byte) bool {
	if len(buf) != FrameLen {
		return false
	}
	for _, b := range buf {
		if b != SilenceByte {
			return false
		}
	}
	return true
}

// Duration returns the playback time of a sample buffer at the fixed rate.
func Duration(buf []byte) time.Duration {
	return time.Duration(len(buf)) * time.Second / SampleRate
}
