package dtmf

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// binTolerance is the half-width of the window used when matching a target
// frequency against the set of loud spectral bins.
const binTolerance = 5

// Detect runs spectral analysis over a buffer of 8-bit unsigned samples
// and returns the first DTMF symbol whose two frequencies are present.
// The second return value is false when no symbol matches.
//
// Loud bins are those exceeding an adaptive threshold of 20x the mean
// spectral magnitude, which keeps the detector level-independent. Target
// frequencies are matched directly against raw bin indices; with the
// engine's fixed framing this makes the detector a best-effort heuristic,
// and the behavior is kept as-is.
func Detect(buf []byte) (byte, bool) {
	n := len(buf)
	if n < 2 {
		return 0, false
	}

	samples := make([]float64, n)
	for i, b := range buf {
		samples[i] = float64(b)
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, samples)

	mags := make([]float64, len(coeffs))
	var sum float64
	for i, c := range coeffs {
		m := math.Trunc(cmplx.Abs(c))
		mags[i] = m
		sum += m
	}
	threshold := 20 * sum / float64(len(mags))

	loud := make([]bool, len(mags))
	for i, m := range mags {
		if m > threshold {
			loud[i] = true
		}
	}

	for _, e := range Table {
		if nearLoudBin(loud, e.F1) && nearLoudBin(loud, e.F2) {
			return e.Digit, true
		}
	}
	return 0, false
}

func nearLoudBin(loud []bool, target int) bool {
	for i := target - binTolerance; i < target+binTolerance; i++ {
		if i >= 0 && i < len(loud) && loud[i] {
			return true
		}
	}
	return false
}
