package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for the graph package.
var (
	// ErrPassEnded is returned when a PassBuilder is reused after EndPass.
	ErrPassEnded = errors.New("graph: pass builder already ended")
)

// UnknownResourceError is returned when a binding names a resource handle
// that was never created on this builder. It is a programmer error and is
// surfaced synchronously at the declaration site, never silently ignored.
type UnknownResourceError struct {
	ID ResourceID
}

func (e *UnknownResourceError) Error() string {
	return fmt.Sprintf("graph: unknown resource %d", e.ID)
}

// UnknownPassError is returned when a dependency names a pass handle that
// was never created on this builder.
type UnknownPassError struct {
	ID RenderPassID
}

func (e *UnknownPassError) Error() string {
	return fmt.Sprintf("graph: unknown pass %d", e.ID)
}

// CycleError is returned by Compile when the pass dependency graph induced
// by resource usage (plus explicit dependencies) contains a cycle. Passes
// holds every pass that could not be scheduled, in declaration order.
//
// A CycleError is fatal to the frame's graph: the caller logs it, skips
// submission and rebuilds next frame. It is never retried.
type CycleError struct {
	Passes []RenderPassID
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("graph: cyclic dependency between %d passes", len(e.Passes))
}
