package audio

import (
	"sync"
)

// FrameBuffer is a thread-safe byte ring holding buffered call audio
// between the transport's receive loop and the session reading frames.
// When the ring fills, the oldest audio is overwritten so a stalled
// session never blocks the transport.
type FrameBuffer struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buffer []byte
	size   int
	read   int
	write  int
	count  int
	closed bool
}

// NewFrameBuffer creates a buffer holding up to frames whole frames.
func NewFrameBuffer(frames int) *FrameBuffer {
	fb := &FrameBuffer{
		buffer: make([]byte, frames*FrameLen),
		size:   frames * FrameLen,
	}
	fb.cond = sync.NewCond(&fb.mu)
	return fb
}

// Write appends data to the ring, discarding the oldest bytes on overflow.
func (fb *FrameBuffer) Write(data []byte) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if fb.closed {
		return
	}
	for _, b := range data {
		fb.buffer[fb.write] = b
		fb.write = (fb.write + 1) % fb.size
		if fb.count == fb.size {
			fb.read = (fb.read + 1) % fb.size
		} else {
			fb.count++
		}
	}
	fb.cond.Broadcast()
}

// ReadFrame returns the next frame of buffered audio. When blocking is
// false and less than a full frame is buffered, it returns the canonical
// silence frame immediately. When blocking is true it waits until a full
// frame is available or the buffer is closed (then returns silence).
func (fb *FrameBuffer) ReadFrame(blocking bool) []byte {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for fb.count < FrameLen {
		if !blocking || fb.closed {
			return SilenceFrame()
		}
		fb.cond.Wait()
	}
	frame := make([]byte, FrameLen)
	for i := 0; i < FrameLen; i++ {
		frame[i] = fb.buffer[fb.read]
		fb.read = (fb.read + 1) % fb.size
	}
	fb.count -= FrameLen
	return frame
}

// Buffered returns the number of buffered bytes.
func (fb *FrameBuffer) Buffered() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.count
}

// Drain discards all buffered audio.
func (fb *FrameBuffer) Drain() {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.read = 0
	fb.write = 0
	fb.count = 0
}

// Close unblocks pending readers; subsequent writes are dropped.
func (fb *FrameBuffer) Close() {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.closed = true
	fb.cond.Broadcast()
}
