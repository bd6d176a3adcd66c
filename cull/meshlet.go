package cull

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Meshlet capacity limits. Clusters are built offline to fit these; the
// culling and rasterization paths rely on them for fixed-size scratch
// memory.
const (
	// MaxMeshletTriangles is the triangle capacity of one meshlet.
	MaxMeshletTriangles = 124

	// MaxMeshletVertices is the vertex capacity of one meshlet.
	MaxMeshletVertices = 64
)

// Meshlet is a fixed-capacity triangle/vertex cluster, the granularity of
// cluster culling and software rasterization.
type Meshlet struct {
	// Bounds is the cluster bounding sphere in world space.
	Bounds Sphere

	// Box is the cluster bounding box in world space.
	Box AABB

	// TriangleCount and VertexCount are the occupancy of the cluster.
	TriangleCount uint32
	VertexCount   uint32

	// TriangleOffset and VertexOffset locate the cluster's data inside
	// the externally owned index/vertex buffers.
	TriangleOffset uint32
	VertexOffset   uint32
}

// Validate checks the cluster against the capacity limits.
func (m *Meshlet) Validate() error {
	if m.TriangleCount > MaxMeshletTriangles {
		return fmt.Errorf("cull: meshlet has %d triangles, max %d", m.TriangleCount, MaxMeshletTriangles)
	}
	if m.VertexCount > MaxMeshletVertices {
		return fmt.Errorf("cull: meshlet has %d vertices, max %d", m.VertexCount, MaxMeshletVertices)
	}
	return nil
}

// Triangle is one clip-space triangle fed to triangle culling.
type Triangle struct {
	V0 mgl32.Vec4
	V1 mgl32.Vec4
	V2 mgl32.Vec4
}
