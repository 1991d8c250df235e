package ivr

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ca4ti/FrugalVox/internal/audio"
	"github.com/ca4ti/FrugalVox/internal/config"
	"github.com/ca4ti/FrugalVox/internal/dtmf"
	"github.com/ca4ti/FrugalVox/internal/observability"
	"github.com/ca4ti/FrugalVox/internal/telephony"
	"github.com/ca4ti/FrugalVox/internal/tts"
)

// AuthState is the session's authentication state. It only ever moves
// forward, or to Terminated.
type AuthState int

const (
	Unauthenticated AuthState = iota
	Authenticated
	Terminated
)

const (
	// DefaultUserID is the identity bound before (or without) authentication.
	DefaultUserID = "0000"

	terminatorDigit = '#'
	paramDelimiter  = "*"
)

// Session owns one call's lifecycle: authentication, command
// accumulation, authorization and dispatch. One goroutine runs one
// session; sessions share nothing but the registry.
type Session struct {
	id         string
	call       telephony.Call
	cfg        *config.Config
	clips      ClipTable
	registry   *Registry
	dispatcher Dispatcher
	tts        tts.Renderer

	logger  zerolog.Logger
	metrics *observability.CallMetrics

	state     AuthState
	userID    string
	policy    config.Policy
	cmdBuf    strings.Builder
	debouncer dtmf.Debouncer
}

// NewSession creates a session for an inbound call.
func NewSession(call telephony.Call, cfg *config.Config, clips ClipTable, registry *Registry, dispatcher Dispatcher, renderer tts.Renderer) *Session {
	return &Session{
		id:         call.ID(),
		call:       call,
		cfg:        cfg,
		clips:      clips,
		registry:   registry,
		dispatcher: dispatcher,
		tts:        renderer,
		logger:     observability.WithCall(call.ID()),
		userID:     DefaultUserID,
	}
}

// ID returns the call id the session is registered under.
func (s *Session) ID() string { return s.id }

// State returns the session's authentication state.
func (s *Session) State() AuthState { return s.state }

// UserID returns the currently bound user identity.
func (s *Session) UserID() string { return s.userID }

// Run drives the session until the call ends or the state machine
// terminates. It must be called on a dedicated goroutine. Every exit
// path removes the session from the registry and hangs up the call.
func (s *Session) Run() {
	defer s.finalize()

	s.registry.Add(s)
	s.metrics = observability.NewCallMetrics()
	s.logger.Info().Str("caller", s.call.CallerAddress()).Msg("new incoming call")

	if err := s.call.Answer(); err != nil {
		s.logger.Warn().Err(err).Msg("answer failed")
		return
	}

	var prompt []string
	if s.cfg.IVR.Auth {
		s.state = Unauthenticated
		prompt = s.cfg.IVR.AuthPromptClips
	} else {
		s.state = Authenticated
		s.policy = config.WildcardPolicy()
		prompt = s.cfg.IVR.CmdPromptClips
	}
	if err := PlayClips(s.call, s.clips, prompt); err != nil {
		s.failed(err)
		return
	}

	for s.call.State() == telephony.StateActive && s.state != Terminated {
		frame := s.call.ReadFrame(false)
		signaled, _ := s.call.ReadDigit()

		ev, ok := s.debouncer.Process(signaled, frame)
		if !ok {
			if signaled == 0 && audio.IsSilence(frame) {
				// Nothing buffered; wait out one frame interval.
				time.Sleep(audio.FrameDuration)
			}
			continue
		}

		observability.DigitRecognized(ev.Source.String())
		if err := s.handleDigit(ev.Digit); err != nil {
			s.failed(err)
			return
		}
	}
}

// handleDigit feeds one recognized digit into the state machine.
func (s *Session) handleDigit(d byte) error {
	if d != terminatorDigit {
		s.cmdBuf.WriteByte(d)
		return nil
	}
	command := s.cmdBuf.String()
	s.cmdBuf.Reset()

	if s.state == Authenticated {
		return s.runCommand(command)
	}
	return s.authenticate(command)
}

// authenticate treats the accumulated buffer as a candidate PIN.
func (s *Session) authenticate(pin string) error {
	policy, ok := s.cfg.IVR.Users[pin]
	if !ok {
		observability.AuthAttempt(false)
		s.logger.Warn().Msg("authentication attempt with invalid PIN")
		if err := PlayClips(s.call, s.clips, s.cfg.IVR.AuthFailClips); err != nil {
			return err
		}
		s.state = Terminated
		return nil
	}

	s.state = Authenticated
	s.userID = pin
	s.policy = policy
	observability.AuthAttempt(true)
	s.logger.Info().Str("user", s.userID).Msg("caller authenticated")
	return PlayClips(s.call, s.clips, s.cfg.IVR.CmdPromptClips)
}

// runCommand authorizes and dispatches one accumulated command, then
// reprompts and discards audio buffered while the action ran.
func (s *Session) runCommand(command string) error {
	parts := strings.Split(command, paramDelimiter)
	root, params := parts[0], parts[1:]

	if !s.policy.Allows(root) {
		observability.ActionRun("unauthorized")
		s.logger.Warn().
			Str("command", command).
			Str("user", s.userID).
			Msg("attempt to execute an unauthorized action")
		if err := PlayClips(s.call, s.clips, s.cfg.IVR.CmdFailClips); err != nil {
			return err
		}
	} else {
		err := s.dispatcher.Dispatch(Invocation{
			ActionID: root,
			Params:   params,
			Call:     s.call,
			UserID:   s.userID,
			Config:   s.cfg,
			Clips:    s.clips,
			Sessions: s.registry,
			TTS:      s.tts,
			Logger:   s.logger,
		})
		switch {
		case errors.Is(err, ErrUnknownAction):
			observability.ActionRun("unknown")
			s.logger.Warn().
				Str("command", command).
				Str("user", s.userID).
				Msg("attempt to execute a non-existing action")
			if perr := PlayClips(s.call, s.clips, s.cfg.IVR.CmdFailClips); perr != nil {
				return perr
			}
		case err != nil:
			observability.ActionRun("error")
			return err
		default:
			observability.ActionRun("ok")
		}
	}

	if err := PlayClips(s.call, s.clips, s.cfg.IVR.CmdPromptClips); err != nil {
		return err
	}
	FlushInput(s.call)
	return nil
}

// failed sorts a loop error into the invalid-call-state and unexpected
// failure categories. Either way the session ends via finalize.
func (s *Session) failed(err error) {
	if errors.Is(err, telephony.ErrCallEnded) {
		s.logger.Debug().Msg("call ended mid-operation")
		return
	}
	s.logger.Error().Err(err).Msg("session failure")
}

// finalize is the single cleanup path for every exit: panic recovery,
// registry removal and idempotent hangup.
func (s *Session) finalize() {
	if r := recover(); r != nil {
		s.logger.Error().Interface("panic", r).Msg("unexpected session failure")
	}
	s.registry.Remove(s.id)
	if err := s.call.Hangup(); err != nil && !errors.Is(err, telephony.ErrCallEnded) {
		s.logger.Warn().Err(err).Msg("hangup failed")
	}
	if s.metrics != nil {
		s.metrics.CallEnded()
	}
	s.logger.Info().Str("caller", s.call.CallerAddress()).Msg("call terminated")
}
