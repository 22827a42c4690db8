package plugin

import "fmt"

// HookAction classifies the outcome of one plugin handling one hook.
type HookAction string

const (
	// ActionContinue lets dispatch proceed to the next plugin in the bucket.
	ActionContinue HookAction = "continue"
	// ActionStop skips the remaining plugins for this hook. The stage itself
	// proceeds.
	ActionStop HookAction = "stop_propagation"
	// ActionError aborts the dispatch; the host treats it as a stage failure.
	ActionError HookAction = "error"
)

// HookResult is what a plugin returns from HandleHook. The zero value
// continues. Err is only meaningful for ActionError and is handed back to the
// dispatching stage without rewrapping.
type HookResult struct {
	Action HookAction
	Err    error
}

// Continue signals normal completion.
func Continue() HookResult {
	return HookResult{Action: ActionContinue}
}

// Stop halts propagation to later plugins for the current hook.
func Stop() HookResult {
	return HookResult{Action: ActionStop}
}

// Fail aborts the dispatch with err. A nil err is reported as an unspecified
// failure so the action and the error can never disagree.
func Fail(err error) HookResult {
	if err == nil {
		err = fmt.Errorf("plugin reported failure without error")
	}
	return HookResult{Action: ActionError, Err: err}
}

// Failf aborts the dispatch with a formatted error.
func Failf(format string, args ...any) HookResult {
	return HookResult{Action: ActionError, Err: fmt.Errorf(format, args...)}
}

// Stopped reports whether the result halts propagation.
func (r HookResult) Stopped() bool {
	return r.Action == ActionStop
}

// Failed reports whether the result aborts the dispatch.
func (r HookResult) Failed() bool {
	return r.Action == ActionError
}
