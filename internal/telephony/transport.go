// Package telephony defines the call-transport contract the session
// engine consumes, and a WebSocket media-stream implementation of it.
package telephony

import "errors"

// CallState is the externally observed state of a call.
type CallState int

const (
	StateActive CallState = iota
	StateEnded
)

// ErrCallEnded reports an operation on a call that already ended. The
// engine treats it as normal termination, not a failure.
var ErrCallEnded = errors.New("call already ended")

// Call is one live call as exposed by the transport layer.
//
// ReadFrame returns the next frame of caller audio; non-blocking reads
// return the canonical silence frame when nothing is buffered. ReadDigit
// polls for one out-of-band DTMF digit (0 when none is pending). Hangup
// is idempotent and returns ErrCallEnded on repeated calls.
type Call interface {
	ID() string
	Answer() error
	Hangup() error
	ReadFrame(blocking bool) []byte
	ReadDigit() (byte, bool)
	WriteAudio(buf []byte) error
	State() CallState
	CallerAddress() string
	CalleeAddress() string
}

// InboundHandler is invoked once per inbound call, on a dedicated
// goroutine. The call has not been answered yet.
type InboundHandler func(Call)
