package plugin

import (
	"errors"
	"fmt"
)

// Sentinel errors for registry and loader outcomes. Callers branch with
// errors.Is.
var (
	// ErrNotFound indicates no plugin artifact or built-in factory matched a
	// requested name, or the name is not registered.
	ErrNotFound = errors.New("plugin not found")

	// ErrDuplicate indicates a registration under a name that is already
	// taken.
	ErrDuplicate = errors.New("plugin already registered")
)

// PluginError records a failure inside a plugin lifecycle operation (load,
// initialize, cleanup). Hook-time errors never use this type: they travel
// inside HookResult.Err unwrapped.
type PluginError struct {
	// Name identifies which plugin failed.
	Name string

	// Op describes what the plugin was doing when it failed.
	Op string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %s failed during %s: %v", e.Name, e.Op, e.Err)
}

// Unwrap returns the underlying error for error inspection.
func (e *PluginError) Unwrap() error {
	return e.Err
}

// NewPluginError creates a new plugin error.
func NewPluginError(name, op string, err error) *PluginError {
	return &PluginError{Name: name, Op: op, Err: err}
}
