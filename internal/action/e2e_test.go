package action

import (
	"bytes"
	"testing"

	"github.com/ca4ti/FrugalVox/internal/audio"
	"github.com/ca4ti/FrugalVox/internal/config"
	"github.com/ca4ti/FrugalVox/internal/ivr"
)

// End-to-end tests: a real session driving the real dispatcher and
// builtin handlers over a scripted call.

func e2eConfig(auth bool) *config.Config {
	return &config.Config{
		IVR: config.IVRConfig{
			Auth: auth,
			Users: map[string]config.Policy{
				"9999": config.WildcardPolicy(),
				"2468": {Roots: map[string]bool{"24": true}},
			},
			Actions: map[string]string{
				"22": "echobeep",
				"24": "echobeep",
				"32": "echobeep",
			},
			AuthPromptClips: []string{"authprompt"},
			CmdPromptClips:  []string{"cmdprompt"},
			AuthFailClips:   []string{"authfail"},
			CmdFailClips:    []string{"cmdfail"},
		},
	}
}

func e2eClips() ivr.ClipTable {
	return ivr.ClipTable{
		"authprompt": {1, 1},
		"cmdprompt":  {2, 2},
		"authfail":   {3, 3},
		"cmdfail":    {4, 4},
		"beep":       {5, 5},
	}
}

func e2eSession(call *fakeCall, cfg *config.Config) (*ivr.Session, *ivr.Registry) {
	actions := NewRegistry()
	RegisterBuiltins(actions)
	sessions := ivr.NewRegistry()
	s := ivr.NewSession(call, cfg, e2eClips(), sessions, actions, stubRenderer{})
	s.Run()
	return s, sessions
}

func playedClip(call *fakeCall, clip []byte) int {
	count := 0
	for _, buf := range call.writtenBuffers() {
		if bytes.Equal(buf, clip) {
			count++
		}
	}
	return count
}

func TestE2E_UnauthorizedCommandRefused(t *testing.T) {
	// 2468 may only run root 24; the echo test (32) must be refused
	// without ending the session or reaching the handler.
	call := newFakeCall("e1", "2468#32#")
	s, _ := e2eSession(call, e2eConfig(true))

	if playedClip(call, e2eClips()["cmdfail"]) != 1 {
		t.Error("command-failure clip not played")
	}
	if s.State() != ivr.Authenticated {
		t.Errorf("state = %v, want Authenticated after refusal", s.State())
	}
	for _, buf := range call.writtenBuffers() {
		if bytes.Contains(buf, []byte("Entering the echo test")) {
			t.Error("echo handler ran despite the refusal")
		}
	}
}

func TestE2E_BeepCommandPlaysClampedCount(t *testing.T) {
	// 99 repetitions clamp to the maximum of 10.
	call := newFakeCall("e2", "22*99#")
	e2eSession(call, e2eConfig(false))

	want := 10 * (len(e2eClips()["beep"]) + 10*audio.FrameLen)
	found := 0
	for _, buf := range call.writtenBuffers() {
		if len(buf) == want {
			found++
		}
	}
	if found != 1 {
		t.Errorf("found %d beep buffers of %d samples, want exactly 1", found, want)
	}
}

func TestE2E_FailedAuthenticationEndsCall(t *testing.T) {
	call := newFakeCall("e3", "1234#")
	s, sessions := e2eSession(call, e2eConfig(true))

	if playedClip(call, e2eClips()["authfail"]) != 1 {
		t.Error("authentication-failure clip not played")
	}
	if s.State() != ivr.Terminated {
		t.Errorf("state = %v, want Terminated", s.State())
	}
	if call.hangups == 0 {
		t.Error("call not hung up")
	}
	if sessions.Len() != 0 {
		t.Error("session still registered after the call ended")
	}
}
