package graph

import "math"

// ResourceID is an opaque handle to a resource declared on a Builder.
// IDs are only meaningful within the builder instance that created them.
type ResourceID uint32

// RenderPassID is an opaque handle to a pass declared on a Builder.
type RenderPassID uint32

// Sentinel values representing "no resource" / "no pass".
const (
	// InvalidResourceID is the reserved invalid resource handle.
	InvalidResourceID ResourceID = math.MaxUint32

	// InvalidRenderPassID is the reserved invalid pass handle.
	InvalidRenderPassID RenderPassID = math.MaxUint32
)

// IsValid reports whether the handle is not the invalid sentinel.
func (id ResourceID) IsValid() bool { return id != InvalidResourceID }

// IsValid reports whether the handle is not the invalid sentinel.
func (id RenderPassID) IsValid() bool { return id != InvalidRenderPassID }
