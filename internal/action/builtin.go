package action

import (
	"fmt"
	"strconv"

	"github.com/ca4ti/FrugalVox/internal/dtmf"
	"github.com/ca4ti/FrugalVox/internal/ivr"
	"github.com/ca4ti/FrugalVox/internal/telephony"
)

// Action roots handled by EchoBeep.
const (
	echoRoot     = "32"
	callerIDRoot = "24"
)

// RegisterBuiltins registers the bundled handlers.
func RegisterBuiltins(r *Registry) {
	r.Register("echobeep", EchoBeep{})
}

// EchoBeep bundles three demo actions: an echo test (root 32), caller-id
// readback (root 24) and a parameterized beep (any other root).
type EchoBeep struct{}

// Run implements Handler.
func (EchoBeep) Run(inv ivr.Invocation) error {
	switch inv.ActionID {
	case echoRoot:
		return runEcho(inv)
	case callerIDRoot:
		return runCallerID(inv)
	default:
		return runBeep(inv)
	}
}

// runEcho loops caller audio straight back until '#' is pressed or the
// call ends. It reads frames blocking and runs its own digit debouncer.
func runEcho(inv ivr.Invocation) error {
	intro, err := inv.TTS.Render("Entering the echo test, press pound to return")
	if err != nil {
		return fmt.Errorf("render echo intro: %w", err)
	}
	if err := ivr.PlayBuffer(inv.Call, intro); err != nil {
		return err
	}
	ivr.FlushInput(inv.Call)

	var deb dtmf.Debouncer
	for inv.Call.State() == telephony.StateActive {
		frame := inv.Call.ReadFrame(true)
		if err := inv.Call.WriteAudio(frame); err != nil {
			if err == telephony.ErrCallEnded {
				return nil
			}
			return err
		}

		signaled, _ := inv.Call.ReadDigit()
		if ev, ok := deb.Process(signaled, frame); ok && ev.Digit == '#' {
			outro, err := inv.TTS.Render("Echo test ended")
			if err != nil {
				return fmt.Errorf("render echo outro: %w", err)
			}
			return ivr.PlayBuffer(inv.Call, outro)
		}
	}
	return nil
}

// runCallerID reads the caller's address back over TTS.
func runCallerID(inv ivr.Invocation) error {
	buf, err := inv.TTS.Render(fmt.Sprintf("Your caller ID is %s", inv.Call.CallerAddress()))
	if err != nil {
		return fmt.Errorf("render caller id: %w", err)
	}
	return ivr.PlayBuffer(inv.Call, buf)
}

// runBeep plays the beep clip N times with a silence gap between
// repetitions. N comes from the first parameter, defaults to 1 and is
// clamped to the repetition maximum.
func runBeep(inv ivr.Invocation) error {
	times := 1
	if len(inv.Params) > 0 {
		n, err := strconv.Atoi(inv.Params[0])
		if err != nil {
			return fmt.Errorf("invalid beep count %q: %w", inv.Params[0], err)
		}
		times = n
	}

	clip, ok := inv.Clips["beep"]
	if !ok {
		return fmt.Errorf("beep clip is not loaded")
	}
	return ivr.PlayBuffer(inv.Call, ivr.RepeatClip(clip, times))
}
