package reconciler

import "errors"

var (
	ErrInvalidHookCall      = errors.New("invalid hook call: hooks can only be called while rendering a function component")
	ErrTooManyHooks         = errors.New("rendered more hooks than during the previous render")
	ErrTooFewHooks          = errors.New("rendered fewer hooks than expected")
	ErrContextOutsideRender = errors.New("context can only be read while rendering a function component")
	ErrSuspended            = errors.New("suspended on an unresolved value")
	ErrMissingThenable      = errors.New("suspended without a wakeable")
	ErrHostOperation        = errors.New("host operation failed")
)

// OnErrorFunc receives render failures that aborted a pass.
type OnErrorFunc func(root *FiberRoot, err error)

// SuspenseError is returned by Use when a value is not ready yet. It carries
// the wakeable the work loop waits on and matches ErrSuspended.
type SuspenseError struct {
	Wakeable Wakeable
}

func (e *SuspenseError) Error() string { return ErrSuspended.Error() }

func (e *SuspenseError) Is(target error) bool { return target == ErrSuspended }
