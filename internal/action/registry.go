// Package action implements the action-dispatch contract: named handlers
// invoked by action root inside a call session's goroutine.
package action

import (
	"fmt"

	"github.com/ca4ti/FrugalVox/internal/ivr"
)

// Handler is the single entry point an action implements. It runs
// synchronously in the calling session's goroutine until done or until
// the call is no longer active. A returned error is fatal to that call.
type Handler interface {
	Run(inv ivr.Invocation) error
}

// Registry maps handler names to handlers. Action roots resolve to
// handler names through configuration at dispatch time, so every
// invocation observes the current action mapping.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a handler name. Later registrations win.
func (r *Registry) Register(name string, h Handler) {
	r.handlers[name] = h
}

// Dispatch resolves the invocation's action root through configuration
// and runs the handler. Unconfigured roots and unregistered handler
// names report ivr.ErrUnknownAction.
func (r *Registry) Dispatch(inv ivr.Invocation) error {
	name, ok := inv.Config.IVR.Actions[inv.ActionID]
	if !ok {
		return ivr.ErrUnknownAction
	}
	h, ok := r.handlers[name]
	if !ok {
		return fmt.Errorf("%w: handler %q is not registered", ivr.ErrUnknownAction, name)
	}

	inv.Logger.Info().
		Str("action", inv.ActionID).
		Str("handler", name).
		Strs("params", inv.Params).
		Str("user", inv.UserID).
		Msg("running action")
	return h.Run(inv)
}
