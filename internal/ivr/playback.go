package ivr

import (
	"fmt"
	"time"

	"github.com/ca4ti/FrugalVox/internal/audio"
	"github.com/ca4ti/FrugalVox/internal/telephony"
)

const (
	// MaxRepeat caps clip repetition counts.
	MaxRepeat = 10
	// repeatGapFrames of silence trail each repetition unit.
	repeatGapFrames = 10
	// flushFrames matches the transport's internal input buffering window.
	flushFrames = 625
)

// PlayBuffer writes buf to the call and paces real time to the buffer's
// duration, so back-to-back playback never overlaps even when the
// transport write itself does not block.
func PlayBuffer(call telephony.Call, buf []byte) error {
	if err := call.WriteAudio(buf); err != nil {
		return err
	}
	time.Sleep(audio.Duration(buf))
	return nil
}

// PlayClips plays named clips from the table back-to-back with pacing.
func PlayClips(call telephony.Call, clips ClipTable, names []string) error {
	for _, name := range names {
		buf, ok := clips[name]
		if !ok {
			return fmt.Errorf("unknown clip %q", name)
		}
		if err := PlayBuffer(call, buf); err != nil {
			return err
		}
	}
	return nil
}

// RepeatClip concatenates clip plus a short silence gap, times times.
// The count is clamped to [1, MaxRepeat].
func RepeatClip(clip []byte, times int) []byte {
	if times < 1 {
		times = 1
	}
	if times > MaxRepeat {
		times = MaxRepeat
	}
	unit := make([]byte, 0, len(clip)+repeatGapFrames*audio.FrameLen)
	unit = append(unit, clip...)
	for i := 0; i < repeatGapFrames; i++ {
		unit = append(unit, audio.SilenceFrame()...)
	}
	out := make([]byte, 0, len(unit)*times)
	for i := 0; i < times; i++ {
		out = append(out, unit...)
	}
	return out
}

// FlushInput drains and discards the call's buffered input audio for the
// transport's full buffering window, so stale tones are not misread as
// the next command.
func FlushInput(call telephony.Call) {
	for i := 0; i < flushFrames; i++ {
		call.ReadFrame(false)
	}
}
