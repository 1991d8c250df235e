package ivr

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/ca4ti/FrugalVox/internal/config"
	"github.com/ca4ti/FrugalVox/internal/telephony"
	"github.com/ca4ti/FrugalVox/internal/tts"
)

// ErrUnknownAction reports an action root with no configured handler.
var ErrUnknownAction = errors.New("unknown action")

// Invocation is the fixed contract an action handler is invoked with.
type Invocation struct {
	ActionID string
	Params   []string
	Call     telephony.Call
	UserID   string
	Config   *config.Config
	Clips    ClipTable
	Sessions *Registry
	TTS      tts.Renderer
	Logger   zerolog.Logger
}

// Dispatcher resolves an action root and runs its handler synchronously
// within the calling session's goroutine. It returns ErrUnknownAction
// when no handler is configured for the root; any other error is fatal
// to the calling session.
type Dispatcher interface {
	Dispatch(inv Invocation) error
}
