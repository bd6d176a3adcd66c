package graph

import (
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rendergraph"
)

// resourceEntry is the builder-side record of one declared resource.
type resourceEntry struct {
	id      ResourceID
	rtype   ResourceType
	texture *TextureDesc
	buffer  *BufferDesc
}

// passEntry is the builder-side record of one declared pass.
type passEntry struct {
	id       RenderPassID
	name     string
	desc     RenderPassDesc
	bindings []Binding
}

// Builder records the resources and passes of one frame graph.
//
// Construction is single-threaded and synchronous, like a command-buffer
// recorder: one goroutine records passes and bindings sequentially.
// Concurrent mutation of a Builder is not supported.
//
// Resource and pass IDs come from counters owned by the builder instance,
// so identical declaration sequences on fresh builders produce identical
// IDs (and, after Compile, bit-identical schedules).
type Builder struct {
	resources []resourceEntry
	passes    []passEntry
	deps      []PassDependency
}

// NewBuilder creates an empty frame graph builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// ResourceCount returns the number of declared resources.
func (b *Builder) ResourceCount() int { return len(b.resources) }

// PassCount returns the number of declared passes.
func (b *Builder) PassCount() int { return len(b.passes) }

// newResource appends a resource entry and returns its handle.
func (b *Builder) newResource(rtype ResourceType, tex *TextureDesc, buf *BufferDesc) ResourceID {
	id := ResourceID(len(b.resources))
	b.resources = append(b.resources, resourceEntry{id: id, rtype: rtype, texture: tex, buffer: buf})
	return id
}

// CreateTexture declares a texture. The resource type is derived from the
// descriptor: 3D for volume textures, 2D array for layered textures, 2D
// otherwise. Use CreateTextureCube for cube textures.
func (b *Builder) CreateTexture(desc TextureDesc) ResourceID {
	rtype := ResourceTexture2D
	switch {
	case desc.Dimension == gputypes.TextureDimension3D:
		rtype = ResourceTexture3D
	case desc.Size.DepthOrArrayLayers > 1:
		rtype = ResourceTexture2DArray
	}
	return b.newResource(rtype, &desc, nil)
}

// CreateTextureCube declares a six-face cube texture.
func (b *Builder) CreateTextureCube(desc TextureDesc) ResourceID {
	return b.newResource(ResourceTextureCube, &desc, nil)
}

// CreateTransientTexture declares a frame-local texture whose physical
// memory the external pool may alias based on the computed lifetime.
func (b *Builder) CreateTransientTexture(desc TextureDesc) ResourceID {
	return b.newResource(ResourceTransient, &desc, nil)
}

// CreateBuffer declares a buffer.
func (b *Builder) CreateBuffer(desc BufferDesc) ResourceID {
	return b.newResource(ResourceBuffer, nil, &desc)
}

// ImportTexture declares an externally owned texture (for example the
// swapchain image). The graph synchronizes it but the pool never allocates
// it.
func (b *Builder) ImportTexture(desc TextureDesc) ResourceID {
	return b.newResource(ResourceImported, &desc, nil)
}

// ImportBuffer declares an externally owned buffer.
func (b *Builder) ImportBuffer(desc BufferDesc) ResourceID {
	return b.newResource(ResourceImported, nil, &desc)
}

// BeginPass starts declaring a pass of the given type. Bindings are
// recorded on the returned PassBuilder; EndPass validates and registers
// the pass.
func (b *Builder) BeginPass(name string, ptype PassType) *PassBuilder {
	return &PassBuilder{
		owner: b,
		name:  name,
		desc:  RenderPassDesc{Type: ptype},
	}
}

// EndPass validates the accumulated bindings and registers the pass.
// Every bound resource must have been created on this builder; a binding
// naming a foreign or invalid handle fails with UnknownResourceError.
func (b *Builder) EndPass(pb *PassBuilder) (RenderPassID, error) {
	if pb.owner == nil {
		return InvalidRenderPassID, ErrPassEnded
	}
	if pb.owner != b {
		return InvalidRenderPassID, ErrPassEnded
	}
	for _, bind := range pb.bindings {
		if int(bind.Resource) >= len(b.resources) {
			return InvalidRenderPassID, &UnknownResourceError{ID: bind.Resource}
		}
	}
	id := RenderPassID(len(b.passes))
	b.passes = append(b.passes, passEntry{
		id:       id,
		name:     pb.name,
		desc:     pb.desc,
		bindings: pb.bindings,
	})
	pb.owner = nil
	rendergraph.Logger().Debug("graph: pass registered",
		slog.String("name", pb.name),
		slog.Int("bindings", len(pb.bindings)))
	return id, nil
}

// addPass is the shared convenience path for the AddXxxPass helpers.
func (b *Builder) addPass(name string, ptype PassType, bindings []Binding) (RenderPassID, error) {
	pb := b.BeginPass(name, ptype)
	for _, bind := range bindings {
		pb.Bind(bind.Resource, bind.Usage, bind.Set, bind.Slot)
	}
	return b.EndPass(pb)
}

// AddGraphicsPass declares a graphics pass with the given bindings.
func (b *Builder) AddGraphicsPass(name string, bindings []Binding) (RenderPassID, error) {
	return b.addPass(name, PassGraphics, bindings)
}

// AddComputePass declares a compute pass with the given bindings.
func (b *Builder) AddComputePass(name string, bindings []Binding) (RenderPassID, error) {
	return b.addPass(name, PassCompute, bindings)
}

// AddTransferPass declares a transfer pass with the given bindings.
func (b *Builder) AddTransferPass(name string, bindings []Binding) (RenderPassID, error) {
	return b.addPass(name, PassTransfer, bindings)
}

// AddDependency records an explicit ordering edge for a dependency the
// compiler cannot infer from resource usage. Both passes must already be
// declared on this builder.
func (b *Builder) AddDependency(dep PassDependency) error {
	if int(dep.Src) >= len(b.passes) {
		return &UnknownPassError{ID: dep.Src}
	}
	if int(dep.Dst) >= len(b.passes) {
		return &UnknownPassError{ID: dep.Dst}
	}
	b.deps = append(b.deps, dep)
	return nil
}

// PassName returns the name of a declared pass, or "" for an unknown
// handle.
func (b *Builder) PassName(id RenderPassID) string {
	if int(id) >= len(b.passes) {
		return ""
	}
	return b.passes[id].name
}
