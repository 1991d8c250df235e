package ivr

import (
	"testing"
	"time"

	"github.com/ca4ti/FrugalVox/internal/audio"
)

func TestPlayBuffer_Pacing(t *testing.T) {
	call := newFakeCall("p1", "")
	buf := make([]byte, audio.SampleRate/10) // 100ms of audio

	start := time.Now()
	if err := PlayBuffer(call, buf); err != nil {
		t.Fatalf("play: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed < 100*time.Millisecond {
		t.Errorf("returned after %v, want at least 100ms of pacing", elapsed)
	}
	if len(call.writtenBuffers()) != 1 {
		t.Errorf("wrote %d buffers, want 1", len(call.writtenBuffers()))
	}
}

func TestPlayClips_Sequence(t *testing.T) {
	call := newFakeCall("p2", "")
	clips := ClipTable{"a": {1}, "b": {2}}

	if err := PlayClips(call, clips, []string{"a", "b", "a"}); err != nil {
		t.Fatalf("play: %v", err)
	}
	written := call.writtenBuffers()
	if len(written) != 3 {
		t.Fatalf("wrote %d buffers, want 3", len(written))
	}
	want := []byte{1, 2, 1}
	for i, buf := range written {
		if buf[0] != want[i] {
			t.Errorf("buffer %d = %v, want first byte %d", i, buf, want[i])
		}
	}
}

func TestPlayClips_UnknownClip(t *testing.T) {
	call := newFakeCall("p3", "")
	if err := PlayClips(call, ClipTable{}, []string{"missing"}); err == nil {
		t.Error("expected error for unknown clip name")
	}
}

func TestRepeatClip_Counts(t *testing.T) {
	clip := []byte{9, 9, 9, 9}
	unitLen := len(clip) + 10*audio.FrameLen

	cases := []struct {
		times int
		units int
	}{
		{3, 3},
		{99, 10}, // clamped to the maximum
		{1, 1},
		{0, 1}, // below minimum
	}
	for _, tc := range cases {
		out := RepeatClip(clip, tc.times)
		if len(out) != unitLen*tc.units {
			t.Errorf("times=%d: length %d, want %d units of %d",
				tc.times, len(out), tc.units, unitLen)
		}
	}
}

func TestRepeatClip_UnitLayout(t *testing.T) {
	clip := []byte{9, 9}
	out := RepeatClip(clip, 2)

	if out[0] != 9 || out[1] != 9 {
		t.Error("unit does not start with the clip")
	}
	// The gap after the clip is canonical silence.
	if out[2] != audio.SilenceByte {
		t.Errorf("gap sample = %#x, want silence", out[2])
	}
	// Second unit starts right after the first.
	unitLen := len(clip) + 10*audio.FrameLen
	if out[unitLen] != 9 {
		t.Error("second repetition does not start with the clip")
	}
}

func TestFlushInput_DrainsBufferedAudio(t *testing.T) {
	call := newFakeCall("p4", "")
	before := call.reads
	FlushInput(call)
	if call.reads-before != flushFrames {
		t.Errorf("flushed %d frames, want %d", call.reads-before, flushFrames)
	}
}
