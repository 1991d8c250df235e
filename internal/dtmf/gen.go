package dtmf

import (
	"math"

	"github.com/ca4ti/FrugalVox/internal/audio"
)

// toneDuration is the length of a generated tone clip in samples (0.2 s).
const toneDuration = audio.SampleRate / 5

// GenTone renders the sum of two sine frequencies as a 0.2 s clip of
// 8-bit unsigned samples centered slightly below the bias point.
func GenTone(f1, f2 int) []byte {
	buf := make([]byte, toneDuration)
	for i := range buf {
		t := float64(i) / audio.SampleRate
		v := 127 + 61.44*(math.Sin(2*math.Pi*float64(f1)*t)+math.Sin(2*math.Pi*float64(f2)*t))
		buf[i] = byte(v)
	}
	return buf
}

// GenClips renders a tone clip for every symbol in the table, keyed by
// the symbol character.
func GenClips() map[byte][]byte {
	clips := make(map[byte][]byte, len(Table))
	for _, e := range Table {
		clips[e.Digit] = GenTone(e.F1, e.F2)
	}
	return clips
}
