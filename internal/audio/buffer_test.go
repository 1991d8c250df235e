package audio

import (
	"bytes"
	"testing"
	"time"
)

func TestFrameBuffer_WriteRead(t *testing.T) {
	fb := NewFrameBuffer(4)

	data := make([]byte, FrameLen)
	for i := range data {
		data[i] = byte(i)
	}
	fb.Write(data)

	frame := fb.ReadFrame(false)
	if !bytes.Equal(frame, data) {
		t.Error("read frame does not match written data")
	}
}

func TestFrameBuffer_NonBlockingEmpty(t *testing.T) {
	fb := NewFrameBuffer(4)

	frame := fb.ReadFrame(false)
	if !IsSilence(frame) {
		t.Error("expected silence frame from empty buffer")
	}
}

func TestFrameBuffer_PartialFrame(t *testing.T) {
	fb := NewFrameBuffer(4)
	fb.Write(make([]byte, FrameLen/2))

	if frame := fb.ReadFrame(false); !IsSilence(frame) {
		t.Error("expected silence while less than a full frame is buffered")
	}
	if fb.Buffered() != FrameLen/2 {
		t.Errorf("buffered = %d, want %d", fb.Buffered(), FrameLen/2)
	}
}

func TestFrameBuffer_Overflow(t *testing.T) {
	fb := NewFrameBuffer(2)

	first := bytes.Repeat([]byte{1}, FrameLen)
	second := bytes.Repeat([]byte{2}, FrameLen)
	third := bytes.Repeat([]byte{3}, FrameLen)
	fb.Write(first)
	fb.Write(second)
	fb.Write(third) // overwrites first

	if frame := fb.ReadFrame(false); !bytes.Equal(frame, second) {
		t.Error("oldest frame should have been discarded on overflow")
	}
	if frame := fb.ReadFrame(false); !bytes.Equal(frame, third) {
		t.Error("newest frame lost on overflow")
	}
}

func TestFrameBuffer_Drain(t *testing.T) {
	fb := NewFrameBuffer(4)
	fb.Write(make([]byte, 3*FrameLen))
	fb.Drain()
	if fb.Buffered() != 0 {
		t.Errorf("buffered after drain = %d, want 0", fb.Buffered())
	}
}

func TestFrameBuffer_BlockingRead(t *testing.T) {
	fb := NewFrameBuffer(4)

	done := make(chan []byte, 1)
	go func() {
		done <- fb.ReadFrame(true)
	}()

	// Reader should be parked until a full frame arrives.
	select {
	case <-done:
		t.Fatal("blocking read returned before data was written")
	case <-time.After(20 * time.Millisecond):
	}

	want := bytes.Repeat([]byte{7}, FrameLen)
	fb.Write(want)

	select {
	case frame := <-done:
		if !bytes.Equal(frame, want) {
			t.Error("blocking read returned wrong frame")
		}
	case <-time.After(time.Second):
		t.Fatal("blocking read did not return after write")
	}
}

func TestFrameBuffer_CloseUnblocks(t *testing.T) {
	fb := NewFrameBuffer(4)

	done := make(chan []byte, 1)
	go func() {
		done <- fb.ReadFrame(true)
	}()

	time.Sleep(10 * time.Millisecond)
	fb.Close()

	select {
	case frame := <-done:
		if !IsSilence(frame) {
			t.Error("expected silence frame after close")
		}
	case <-time.After(time.Second):
		t.Fatal("close did not unblock reader")
	}
}
