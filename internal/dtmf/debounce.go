package dtmf

import (
	"github.com/ca4ti/FrugalVox/internal/audio"
)

// Source tells how a digit was recognized.
type Source int

const (
	// SourceSignaled digits arrive out-of-band from the transport.
	SourceSignaled Source = iota
	// SourceDetected digits are recognized in the audio stream.
	SourceDetected
)

func (s Source) String() string {
	if s == SourceSignaled {
		return "signaled"
	}
	return "detected"
}

// Event is one recognized digit.
type Event struct {
	Digit  byte
	Source Source
}

// Debouncer reconciles out-of-band digit events with per-frame in-band
// tone detection into a single digit stream. An in-band tone held across
// several frames produces exactly one event, on the run's trailing edge.
type Debouncer struct {
	cache    byte
	hasCache bool
}

// Process consumes one out-of-band digit (0 when absent) and one audio
// frame, and returns a recognized digit event if one completed.
//
// Out-of-band digits are authoritative and already edge-detected by the
// transport, so they bypass in-band detection entirely. Silence frames
// neither start nor end an in-band tone run.
func (d *Debouncer) Process(signaled byte, frame []byte) (Event, bool) {
	if signaled != 0 {
		return Event{Digit: signaled, Source: SourceSignaled}, true
	}
	if audio.IsSilence(frame) {
		return Event{}, false
	}

	candidate, detected := Detect(frame)
	switch {
	case detected && (!d.hasCache || candidate != d.cache):
		// A tone run started, or changed mid-run.
		d.cache = candidate
		d.hasCache = true
	case !detected && d.hasCache:
		// The run ended; this is the single emission point.
		digit := d.cache
		d.cache = 0
		d.hasCache = false
		return Event{Digit: digit, Source: SourceDetected}, true
	}
	return Event{}, false
}

// Reset clears any pending tone run.
func (d *Debouncer) Reset() {
	d.cache = 0
	d.hasCache = false
}
