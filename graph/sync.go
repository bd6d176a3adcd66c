package graph

// PipelineStageFlags is a bitmask identifying where in the GPU pipeline a
// resource is touched. Values are bit-compatible with the Vulkan
// VK_PIPELINE_STAGE_* encoding so a backend can pass them through
// untranslated.
type PipelineStageFlags uint32

// Pipeline stage bits.
const (
	StageTopOfPipe             PipelineStageFlags = 0x00000001
	StageDrawIndirect          PipelineStageFlags = 0x00000002
	StageVertexInput           PipelineStageFlags = 0x00000004
	StageVertexShader          PipelineStageFlags = 0x00000008
	StageTessControlShader     PipelineStageFlags = 0x00000010
	StageTessEvaluationShader  PipelineStageFlags = 0x00000020
	StageGeometryShader        PipelineStageFlags = 0x00000040
	StageFragmentShader        PipelineStageFlags = 0x00000080
	StageEarlyFragmentTests    PipelineStageFlags = 0x00000100
	StageLateFragmentTests     PipelineStageFlags = 0x00000200
	StageColorAttachmentOutput PipelineStageFlags = 0x00000400
	StageComputeShader         PipelineStageFlags = 0x00000800
	StageTransfer              PipelineStageFlags = 0x00001000
	StageBottomOfPipe          PipelineStageFlags = 0x00002000
	StageHost                  PipelineStageFlags = 0x00004000
	StageAllGraphics           PipelineStageFlags = 0x00008000
	StageAllCommands           PipelineStageFlags = 0x00010000
)

// StageAllShaders covers every programmable shader stage. Used for generic
// shader reads/writes (storage, sampled) where the exact stage is unknown
// at graph-build time.
const StageAllShaders = StageVertexShader |
	StageTessControlShader |
	StageTessEvaluationShader |
	StageGeometryShader |
	StageFragmentShader |
	StageComputeShader

// StageDepthStencilTests covers both the early and late fragment test
// stages, which is where depth attachments are read and written.
const StageDepthStencilTests = StageEarlyFragmentTests | StageLateFragmentTests

// AccessFlags is a bitmask identifying how memory is accessed at a pipeline
// stage. Values are bit-compatible with the Vulkan VK_ACCESS_* encoding.
type AccessFlags uint32

// Access bits.
const (
	AccessFlagIndirectCommandRead         AccessFlags = 0x00000001
	AccessFlagIndexRead                   AccessFlags = 0x00000002
	AccessFlagVertexAttributeRead         AccessFlags = 0x00000004
	AccessFlagUniformRead                 AccessFlags = 0x00000008
	AccessFlagInputAttachmentRead         AccessFlags = 0x00000010
	AccessFlagShaderRead                  AccessFlags = 0x00000020
	AccessFlagShaderWrite                 AccessFlags = 0x00000040
	AccessFlagColorAttachmentRead         AccessFlags = 0x00000080
	AccessFlagColorAttachmentWrite        AccessFlags = 0x00000100
	AccessFlagDepthStencilAttachmentRead  AccessFlags = 0x00000200
	AccessFlagDepthStencilAttachmentWrite AccessFlags = 0x00000400
	AccessFlagTransferRead                AccessFlags = 0x00000800
	AccessFlagTransferWrite               AccessFlags = 0x00001000
	AccessFlagHostRead                    AccessFlags = 0x00002000
	AccessFlagHostWrite                   AccessFlags = 0x00004000
	AccessFlagMemoryRead                  AccessFlags = 0x00008000
	AccessFlagMemoryWrite                 AccessFlags = 0x00010000
)

// ImageLayout identifies the organization of a texture's memory.
// Values are bit-compatible with the Vulkan VK_IMAGE_LAYOUT_* encoding
// (including the extension values above 1000000000).
type ImageLayout uint32

// Image layouts.
const (
	ImageLayoutUndefined                 ImageLayout = 0
	ImageLayoutGeneral                   ImageLayout = 1
	ImageLayoutColorAttachmentOptimal    ImageLayout = 2
	ImageLayoutDepthStencilAttachment    ImageLayout = 3
	ImageLayoutDepthStencilReadOnly      ImageLayout = 4
	ImageLayoutShaderReadOnlyOptimal     ImageLayout = 5
	ImageLayoutTransferSrcOptimal        ImageLayout = 6
	ImageLayoutTransferDstOptimal        ImageLayout = 7
	ImageLayoutPreinitialized            ImageLayout = 8
	ImageLayoutPresentSrc                ImageLayout = 1000001002
)

// Barrier is one synchronization edge of a compiled schedule: the prior
// access to Resource in SrcPass must complete and become visible before the
// access in DstPass begins. When OldLayout differs from NewLayout the
// backend must also transition the image layout.
//
// A Barrier with Resource == InvalidResourceID is an execution-only
// dependency carrying no memory access or layout information.
type Barrier struct {
	// SrcPass is the pass whose access must complete first.
	SrcPass RenderPassID

	// DstPass is the pass whose access waits on the barrier.
	DstPass RenderPassID

	// Resource is the resource being synchronized, or InvalidResourceID
	// for an execution-only barrier.
	Resource ResourceID

	// SrcStage and DstStage bound the synchronization scope.
	SrcStage PipelineStageFlags
	DstStage PipelineStageFlags

	// SrcAccess and DstAccess bound the memory visibility scope.
	SrcAccess AccessFlags
	DstAccess AccessFlags

	// OldLayout and NewLayout describe the image layout transition.
	// Both are ImageLayoutUndefined for buffer-only barriers.
	OldLayout ImageLayout
	NewLayout ImageLayout
}

// IsLayoutTransition reports whether the barrier changes the image layout.
func (b Barrier) IsLayoutTransition() bool {
	return b.OldLayout != b.NewLayout
}
