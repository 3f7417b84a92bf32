package netctl

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the named interface does not exist or is not managed.
	ErrNotFound = errors.New("interface not found")

	// ErrBusy means another operation holds the interface's exclusive section
	// and the busy policy is to fail fast.
	ErrBusy = errors.New("interface busy")

	// ErrInvalidState means the requested link state is not Up or Down.
	ErrInvalidState = errors.New("invalid link state")

	// ErrInvalidMode means the requested mode failed validation.
	ErrInvalidMode = errors.New("invalid interface mode")

	// ErrUnsupportedMode means the hardware cannot operate the requested mode.
	ErrUnsupportedMode = errors.New("mode not supported by interface")
)

// OperationError wraps an OS-level failure from netlink or nl80211. The
// store is never updated when one of these is returned.
type OperationError struct {
	Op        string
	Interface string
	Err       error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Interface, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }
