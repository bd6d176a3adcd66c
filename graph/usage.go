package graph

// ResourceUsage is the semantic role a resource plays in one pass. Each
// usage maps to a ResourceAccess, an ImageLayout, a PipelineStageFlags mask
// and an AccessFlags mask through pure lookup tables. The tables are part of
// the package contract: the mapping for a given usage never changes, which
// is what makes barrier insertion reproducible across frames and processes.
type ResourceUsage uint8

// Resource usages.
const (
	// UsageNone indicates no access. It is never recorded in a binding.
	UsageNone ResourceUsage = iota

	// UsageInput is a generic shader input (read-only).
	UsageInput

	// UsageOutput is a generic shader output (write via storage).
	UsageOutput

	// UsageColorAttachment is a color render target.
	UsageColorAttachment

	// UsageDepthAttachment is a read-write depth/stencil target.
	UsageDepthAttachment

	// UsageDepthReadOnly is a depth/stencil target in read-only mode.
	UsageDepthReadOnly

	// UsageResolveAttachment is a multisample resolve destination.
	UsageResolveAttachment

	// UsageTransferSrc is a copy source.
	UsageTransferSrc

	// UsageTransferDst is a copy destination.
	UsageTransferDst

	// UsageStorage is a read-write storage buffer or image.
	UsageStorage

	// UsageStorageRead is a read-only storage buffer or image.
	UsageStorageRead

	// UsageIndirect is an indirect command argument buffer.
	UsageIndirect

	// UsageSampled is a sampled texture.
	UsageSampled

	// UsagePresent hands the resource to the presentation engine.
	UsagePresent

	usageCount
)

// usageProps is one row of the usage lookup table.
type usageProps struct {
	access ResourceAccess
	layout ImageLayout
	stages PipelineStageFlags
	flags  AccessFlags
}

// usageTable maps each usage to its derived synchronization semantics.
// Indexed by ResourceUsage. Rows must never be edited for an existing
// usage: compiled barrier lists are expected to be reproducible.
var usageTable = [usageCount]usageProps{
	UsageNone: {AccessNone, ImageLayoutUndefined, 0, 0},
	UsageInput: {AccessRead, ImageLayoutShaderReadOnlyOptimal,
		StageAllShaders, AccessFlagShaderRead},
	UsageOutput: {AccessWrite, ImageLayoutGeneral,
		StageAllShaders, AccessFlagShaderWrite},
	UsageColorAttachment: {AccessReadWrite, ImageLayoutColorAttachmentOptimal,
		StageColorAttachmentOutput,
		AccessFlagColorAttachmentRead | AccessFlagColorAttachmentWrite},
	UsageDepthAttachment: {AccessReadWrite, ImageLayoutDepthStencilAttachment,
		StageDepthStencilTests,
		AccessFlagDepthStencilAttachmentRead | AccessFlagDepthStencilAttachmentWrite},
	UsageDepthReadOnly: {AccessRead, ImageLayoutDepthStencilReadOnly,
		StageDepthStencilTests, AccessFlagDepthStencilAttachmentRead},
	UsageResolveAttachment: {AccessWrite, ImageLayoutColorAttachmentOptimal,
		StageColorAttachmentOutput, AccessFlagColorAttachmentWrite},
	UsageTransferSrc: {AccessRead, ImageLayoutTransferSrcOptimal,
		StageTransfer, AccessFlagTransferRead},
	UsageTransferDst: {AccessWrite, ImageLayoutTransferDstOptimal,
		StageTransfer, AccessFlagTransferWrite},
	UsageStorage: {AccessReadWrite, ImageLayoutGeneral,
		StageAllShaders, AccessFlagShaderRead | AccessFlagShaderWrite},
	UsageStorageRead: {AccessRead, ImageLayoutGeneral,
		StageAllShaders, AccessFlagShaderRead},
	UsageIndirect: {AccessRead, ImageLayoutUndefined,
		StageDrawIndirect, AccessFlagIndirectCommandRead},
	UsageSampled: {AccessRead, ImageLayoutShaderReadOnlyOptimal,
		StageAllShaders, AccessFlagShaderRead},
	UsagePresent: {AccessRead, ImageLayoutPresentSrc,
		StageBottomOfPipe, AccessFlagMemoryRead},
}

// Access returns the read/write classification of the usage.
func (u ResourceUsage) Access() ResourceAccess {
	if u >= usageCount {
		return AccessNone
	}
	return usageTable[u].access
}

// ImageLayout returns the image layout the usage requires.
func (u ResourceUsage) ImageLayout() ImageLayout {
	if u >= usageCount {
		return ImageLayoutUndefined
	}
	return usageTable[u].layout
}

// PipelineStages returns the pipeline stages in which the usage occurs.
func (u ResourceUsage) PipelineStages() PipelineStageFlags {
	if u >= usageCount {
		return 0
	}
	return usageTable[u].stages
}

// AccessFlags returns the memory access mask of the usage.
func (u ResourceUsage) AccessFlags() AccessFlags {
	if u >= usageCount {
		return 0
	}
	return usageTable[u].flags
}

// String returns a human-readable usage name for debugging and logs.
func (u ResourceUsage) String() string {
	switch u {
	case UsageNone:
		return "None"
	case UsageInput:
		return "Input"
	case UsageOutput:
		return "Output"
	case UsageColorAttachment:
		return "ColorAttachment"
	case UsageDepthAttachment:
		return "DepthAttachment"
	case UsageDepthReadOnly:
		return "DepthReadOnly"
	case UsageResolveAttachment:
		return "ResolveAttachment"
	case UsageTransferSrc:
		return "TransferSrc"
	case UsageTransferDst:
		return "TransferDst"
	case UsageStorage:
		return "Storage"
	case UsageStorageRead:
		return "StorageRead"
	case UsageIndirect:
		return "Indirect"
	case UsageSampled:
		return "Sampled"
	case UsagePresent:
		return "Present"
	}
	return "Unknown"
}
