package graph

// PassType classifies the work a pass performs.
type PassType uint8

// Pass types.
const (
	// PassGraphics is a rasterization pass with attachments.
	PassGraphics PassType = iota

	// PassCompute is a compute dispatch pass.
	PassCompute

	// PassTransfer is a copy/blit pass.
	PassTransfer

	// PassRayTracing is a ray tracing dispatch pass.
	PassRayTracing

	// PassPresent hands a resource to the presentation engine.
	PassPresent
)

// String returns a human-readable pass type name.
func (t PassType) String() string {
	switch t {
	case PassGraphics:
		return "Graphics"
	case PassCompute:
		return "Compute"
	case PassTransfer:
		return "Transfer"
	case PassRayTracing:
		return "RayTracing"
	case PassPresent:
		return "Present"
	}
	return "Unknown"
}

// QueueType is a hint about which hardware queue should execute a pass.
// The backend is free to ignore it.
type QueueType uint8

// Queue types.
const (
	// QueueGraphics is the universal graphics queue.
	QueueGraphics QueueType = iota

	// QueueCompute is an async compute queue.
	QueueCompute

	// QueueTransfer is a dedicated transfer queue.
	QueueTransfer
)

// Binding records the semantic usage of one resource in one pass, together
// with the descriptor set and slot the shader binds it at.
type Binding struct {
	// Resource is the bound resource.
	Resource ResourceID

	// Usage is the semantic role of the resource in this pass.
	Usage ResourceUsage

	// Set is the descriptor set index.
	Set uint32

	// Slot is the binding slot within the set.
	Slot uint32
}

// RenderPassDesc describes a declared pass.
type RenderPassDesc struct {
	// Type classifies the pass.
	Type PassType

	// Queue is the preferred execution queue.
	Queue QueueType

	// ColorAttachmentCount is the number of bound color attachments
	// (including resolve targets).
	ColorAttachmentCount int

	// HasDepthAttachment reports whether a depth target is bound.
	HasDepthAttachment bool

	// Width and Height define the render area for graphics passes.
	// Zero for compute and transfer passes.
	Width  uint32
	Height uint32
}

// PassDependency is an explicit ordering edge between two passes, for
// dependencies the compiler cannot infer from resource usage (for example
// ordering with no shared resource). Stage hints bound the execution scope;
// zero hints widen to all commands.
type PassDependency struct {
	// Src must execute before Dst.
	Src RenderPassID
	Dst RenderPassID

	// SrcStage and DstStage are optional stage hints.
	SrcStage PipelineStageFlags
	DstStage PipelineStageFlags
}

// PassBuilder accumulates the bindings of one pass between BeginPass and
// EndPass. Methods return the builder for chaining. A PassBuilder is only
// valid until it is passed to EndPass.
type PassBuilder struct {
	owner    *Builder
	name     string
	desc     RenderPassDesc
	bindings []Binding
}

// Name returns the pass name.
func (pb *PassBuilder) Name() string { return pb.name }

// Bind records a resource usage at an explicit descriptor set and slot.
func (pb *PassBuilder) Bind(r ResourceID, usage ResourceUsage, set, slot uint32) *PassBuilder {
	pb.bindings = append(pb.bindings, Binding{Resource: r, Usage: usage, Set: set, Slot: slot})
	switch usage {
	case UsageColorAttachment, UsageResolveAttachment:
		pb.desc.ColorAttachmentCount++
	case UsageDepthAttachment, UsageDepthReadOnly:
		pb.desc.HasDepthAttachment = true
	}
	return pb
}

// Reads binds a resource as a generic shader input at set 0, slot 0.
func (pb *PassBuilder) Reads(r ResourceID) *PassBuilder {
	return pb.Bind(r, UsageInput, 0, 0)
}

// Writes binds a resource as a generic shader output at set 0, slot 0.
func (pb *PassBuilder) Writes(r ResourceID) *PassBuilder {
	return pb.Bind(r, UsageOutput, 0, 0)
}

// Storage binds a read-write storage resource.
func (pb *PassBuilder) Storage(r ResourceID, set, slot uint32) *PassBuilder {
	return pb.Bind(r, UsageStorage, set, slot)
}

// StorageRead binds a read-only storage resource.
func (pb *PassBuilder) StorageRead(r ResourceID, set, slot uint32) *PassBuilder {
	return pb.Bind(r, UsageStorageRead, set, slot)
}

// Indirect binds an indirect command argument buffer.
func (pb *PassBuilder) Indirect(r ResourceID, set, slot uint32) *PassBuilder {
	return pb.Bind(r, UsageIndirect, set, slot)
}

// Sampled binds a sampled texture.
func (pb *PassBuilder) Sampled(r ResourceID, set, slot uint32) *PassBuilder {
	return pb.Bind(r, UsageSampled, set, slot)
}

// ColorTarget binds a color attachment.
func (pb *PassBuilder) ColorTarget(r ResourceID) *PassBuilder {
	return pb.Bind(r, UsageColorAttachment, 0, 0)
}

// DepthTarget binds a read-write depth attachment.
func (pb *PassBuilder) DepthTarget(r ResourceID) *PassBuilder {
	return pb.Bind(r, UsageDepthAttachment, 0, 0)
}

// DepthRead binds a read-only depth attachment.
func (pb *PassBuilder) DepthRead(r ResourceID) *PassBuilder {
	return pb.Bind(r, UsageDepthReadOnly, 0, 0)
}

// ResolveTarget binds a multisample resolve destination.
func (pb *PassBuilder) ResolveTarget(r ResourceID) *PassBuilder {
	return pb.Bind(r, UsageResolveAttachment, 0, 0)
}

// TransferSrc binds a copy source.
func (pb *PassBuilder) TransferSrc(r ResourceID) *PassBuilder {
	return pb.Bind(r, UsageTransferSrc, 0, 0)
}

// TransferDst binds a copy destination.
func (pb *PassBuilder) TransferDst(r ResourceID) *PassBuilder {
	return pb.Bind(r, UsageTransferDst, 0, 0)
}

// Present binds the resource handed to the presentation engine.
func (pb *PassBuilder) Present(r ResourceID) *PassBuilder {
	return pb.Bind(r, UsagePresent, 0, 0)
}

// RenderArea sets the render area for graphics passes.
func (pb *PassBuilder) RenderArea(width, height uint32) *PassBuilder {
	pb.desc.Width = width
	pb.desc.Height = height
	return pb
}

// Queue sets the preferred execution queue.
func (pb *PassBuilder) Queue(q QueueType) *PassBuilder {
	pb.desc.Queue = q
	return pb
}
