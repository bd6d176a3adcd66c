package graph

import "github.com/gogpu/gputypes"

// ResourceType classifies a declared resource.
type ResourceType uint8

// Resource types.
const (
	// ResourceBuffer is a linear buffer.
	ResourceBuffer ResourceType = iota

	// ResourceTexture2D is a two-dimensional texture.
	ResourceTexture2D

	// ResourceTexture2DArray is a layered two-dimensional texture.
	ResourceTexture2DArray

	// ResourceTextureCube is a six-face cube texture.
	ResourceTextureCube

	// ResourceTexture3D is a volume texture.
	ResourceTexture3D

	// ResourceImported wraps an externally owned resource (e.g. the
	// swapchain image or a persistent buffer). The graph synchronizes it
	// but the external pool never allocates it.
	ResourceImported

	// ResourceTransient is a frame-local texture whose physical memory
	// may be aliased by the external pool based on the computed
	// FirstUse/LastUse lifetime.
	ResourceTransient
)

// String returns a human-readable type name for debugging and logs.
func (t ResourceType) String() string {
	switch t {
	case ResourceBuffer:
		return "Buffer"
	case ResourceTexture2D:
		return "Texture2D"
	case ResourceTexture2DArray:
		return "Texture2DArray"
	case ResourceTextureCube:
		return "TextureCube"
	case ResourceTexture3D:
		return "Texture3D"
	case ResourceImported:
		return "Imported"
	case ResourceTransient:
		return "Transient"
	}
	return "Unknown"
}

// TextureDesc is the physical description of a texture. The graph carries
// it opaquely to the external allocator/pool and never dereferences memory.
type TextureDesc struct {
	// Label is an optional debug label.
	Label string

	// Size is the texture extent in texels.
	Size gputypes.Extent3D

	// MipLevelCount is the number of mip levels. Zero means 1.
	MipLevelCount uint32

	// SampleCount is the MSAA sample count. Zero means 1.
	SampleCount uint32

	// Dimension is the texture dimensionality.
	Dimension gputypes.TextureDimension

	// Format is the texel format.
	Format gputypes.TextureFormat

	// Usage declares every way the texture will be used.
	Usage gputypes.TextureUsage
}

// BufferDesc is the physical description of a buffer, carried opaquely to
// the external allocator/pool.
type BufferDesc struct {
	// Label is an optional debug label.
	Label string

	// Size is the buffer size in bytes.
	Size uint64

	// Usage declares every way the buffer will be used.
	Usage gputypes.BufferUsage
}
