package visbuf

import "fmt"

// ID field widths. The 32-bit encoding packs the instance index in the high
// 12 bits and the triangle index in the low 20; the 64-bit meshlet encoding
// uses 24/24/16 for instance/meshlet/triangle.
const (
	MaxInstances = 1 << 12
	MaxTriangles = 1 << 20

	MaxInstances64 = 1 << 24
	MaxMeshlets64  = 1 << 24
	MaxTriangles64 = 1 << 16
)

// RangeError reports an index that does not fit its ID field.
type RangeError struct {
	Field string
	Value uint32
	Limit uint32
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("visbuf: %s index %d exceeds limit %d", e.Field, e.Value, e.Limit-1)
}

// VisibilityID is the per-pixel value of the visibility buffer: 12 bits of
// instance index and 20 bits of triangle index.
type VisibilityID uint32

// NewVisibilityID packs an instance and triangle index. Indices outside
// their field widths are rejected rather than silently truncated.
func NewVisibilityID(instance, triangle uint32) (VisibilityID, error) {
	if instance >= MaxInstances {
		return 0, &RangeError{Field: "instance", Value: instance, Limit: MaxInstances}
	}
	if triangle >= MaxTriangles {
		return 0, &RangeError{Field: "triangle", Value: triangle, Limit: MaxTriangles}
	}
	return VisibilityID(instance<<20 | triangle), nil
}

// Instance returns the instance index.
func (id VisibilityID) Instance() uint32 { return uint32(id) >> 20 }

// Triangle returns the triangle index.
func (id VisibilityID) Triangle() uint32 { return uint32(id) & (MaxTriangles - 1) }

// VisibilityID64 is the wide per-pixel encoding used with meshlet geometry:
// 24 bits of instance, 24 bits of meshlet, 16 bits of triangle.
type VisibilityID64 uint64

// NewVisibilityID64 packs instance, meshlet and triangle indices.
func NewVisibilityID64(instance, meshlet, triangle uint32) (VisibilityID64, error) {
	if instance >= MaxInstances64 {
		return 0, &RangeError{Field: "instance", Value: instance, Limit: MaxInstances64}
	}
	if meshlet >= MaxMeshlets64 {
		return 0, &RangeError{Field: "meshlet", Value: meshlet, Limit: MaxMeshlets64}
	}
	if triangle >= MaxTriangles64 {
		return 0, &RangeError{Field: "triangle", Value: triangle, Limit: MaxTriangles64}
	}
	return VisibilityID64(uint64(instance)<<40 | uint64(meshlet)<<16 | uint64(triangle)), nil
}

// Instance returns the instance index.
func (id VisibilityID64) Instance() uint32 { return uint32(id >> 40) }

// Meshlet returns the meshlet index.
func (id VisibilityID64) Meshlet() uint32 { return uint32(id>>16) & (MaxMeshlets64 - 1) }

// Triangle returns the triangle index within the meshlet.
func (id VisibilityID64) Triangle() uint32 { return uint32(id) & (MaxTriangles64 - 1) }
