package backend

import (
	"errors"

	"github.com/gogpu/rendergraph/graph"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// Backend executes compiled schedules against a graphics API.
// It abstracts the submission layer, keeping the graph core free of device
// code while supporting multiple APIs (Vulkan, Metal, a recorder for
// tests).
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
type Backend interface {
	// Name returns the backend identifier (e.g., "vulkan", "record").
	Name() string

	// Init initializes the backend.
	// This should be called before any schedule is executed.
	Init() error

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close()

	// Execute runs one compiled schedule: every pass in scheduled order,
	// with each barrier issued before its destination pass begins.
	// Schedules are immutable values; Execute must not retain s past the
	// call.
	Execute(s *graph.Schedule) error
}
