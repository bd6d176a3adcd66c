package visbuf

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rendergraph"

	"github.com/gogpu/rendergraph/graph"
)

// Inputs are the frame resources the renderer consumes. Buffer contents are
// owned by the geometry and material systems; the renderer sees opaque
// resource IDs.
type Inputs struct {
	Width  uint32
	Height uint32

	// VertexBuffer, IndexBuffer and MeshletBuffer hold the culled
	// geometry.
	VertexBuffer  graph.ResourceID
	IndexBuffer   graph.ResourceID
	MeshletBuffer graph.ResourceID

	// IndirectBuffer and CountBuffer come from the culling pipeline and
	// drive the visibility draw.
	IndirectBuffer graph.ResourceID
	CountBuffer    graph.ResourceID

	// SoftwareTriangleBuffer holds the sub-threshold triangles routed to
	// the compute rasterizer. Invalid disables the software pass.
	SoftwareTriangleBuffer graph.ResourceID

	// MaterialCount is the number of deferred material evaluation passes
	// to register. Zero registers none.
	MaterialCount int
}

// Outputs are the resources the registered pass chain produces.
type Outputs struct {
	Visibility graph.ResourceID
	Velocity   graph.ResourceID
	Depth      graph.ResourceID

	Albedo   graph.ResourceID
	Normal   graph.ResourceID
	Material graph.ResourceID

	// TileBuffer holds the per-tile material lists of the classification
	// pass.
	TileBuffer graph.ResourceID

	// VisibilityPass, SoftwarePass and ClassifyPass identify the chain's
	// fixed passes; SoftwarePass is invalid when the software path is
	// disabled. MaterialPasses holds one pass per material.
	VisibilityPass graph.RenderPassID
	SoftwarePass   graph.RenderPassID
	ClassifyPass   graph.RenderPassID
	MaterialPasses []graph.RenderPassID
}

// Renderer registers the visibility-buffer pass chain: visibility raster,
// optional software raster, material classification, and deferred material
// evaluation into the G-buffer.
type Renderer struct {
	classifier *MaterialClassifier
}

// NewRenderer creates a renderer using the given classifier for tile
// bookkeeping.
func NewRenderer(classifier *MaterialClassifier) *Renderer {
	return &Renderer{classifier: classifier}
}

func gbufferTarget(label string, w, h uint32, format gputypes.TextureFormat) graph.TextureDesc {
	return graph.TextureDesc{
		Label:       label,
		Size:        gputypes.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		SampleCount: 1,
		Dimension:   gputypes.TextureDimension2D,
		Format:      format,
		Usage:       gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	}
}

// AddPasses declares the full chain on the builder and returns the output
// resources.
func (r *Renderer) AddPasses(b *graph.Builder, in Inputs) (*Outputs, error) {
	out := &Outputs{
		SoftwarePass: graph.InvalidRenderPassID,
	}

	out.Visibility = b.CreateTexture(graph.TextureDesc{
		Label:       "visibility",
		Size:        gputypes.Extent3D{Width: in.Width, Height: in.Height, DepthOrArrayLayers: 1},
		SampleCount: 1,
		Dimension:   gputypes.TextureDimension2D,
		Format:      gputypes.TextureFormatR32Uint,
		Usage: gputypes.TextureUsageRenderAttachment |
			gputypes.TextureUsageTextureBinding |
			gputypes.TextureUsageStorageBinding,
	})
	out.Velocity = b.CreateTexture(gbufferTarget("velocity", in.Width, in.Height, gputypes.TextureFormatRG16Float))
	out.Depth = b.CreateTexture(graph.TextureDesc{
		Label:       "visibility-depth",
		Size:        gputypes.Extent3D{Width: in.Width, Height: in.Height, DepthOrArrayLayers: 1},
		SampleCount: 1,
		Dimension:   gputypes.TextureDimension2D,
		Format:      gputypes.TextureFormatDepth32Float,
		Usage:       gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})

	// Hardware raster: culled meshlets into visibility + velocity + depth.
	pb := b.BeginPass("visibility-raster", graph.PassGraphics).
		ColorTarget(out.Visibility).
		ColorTarget(out.Velocity).
		DepthTarget(out.Depth).
		RenderArea(in.Width, in.Height)
	if in.VertexBuffer.IsValid() {
		pb.Reads(in.VertexBuffer)
	}
	if in.IndexBuffer.IsValid() {
		pb.Reads(in.IndexBuffer)
	}
	if in.MeshletBuffer.IsValid() {
		pb.Reads(in.MeshletBuffer)
	}
	if in.IndirectBuffer.IsValid() {
		pb.Indirect(in.IndirectBuffer, 0, 0)
	}
	if in.CountBuffer.IsValid() {
		pb.Indirect(in.CountBuffer, 0, 1)
	}
	visPass, err := b.EndPass(pb)
	if err != nil {
		return nil, err
	}
	out.VisibilityPass = visPass

	// Optional compute raster for triangles too small for the hardware
	// path; writes the same visibility image through storage.
	if in.SoftwareTriangleBuffer.IsValid() {
		swPass, err := b.AddComputePass("software-raster", []graph.Binding{
			{Resource: in.SoftwareTriangleBuffer, Usage: graph.UsageStorageRead, Slot: 0},
			{Resource: out.Visibility, Usage: graph.UsageStorage, Slot: 1},
		})
		if err != nil {
			return nil, err
		}
		out.SoftwarePass = swPass
	}

	tilesX, tilesY := r.classifier.TilesFor(int(in.Width), int(in.Height))
	tileStride := uint64(4 * (1 + DefaultMaxMaterialsPerTile))
	out.TileBuffer = b.CreateBuffer(graph.BufferDesc{
		Label: "material-tiles",
		Size:  uint64(tilesX*tilesY) * tileStride,
		Usage: gputypes.BufferUsageStorage,
	})
	classifyPass, err := b.AddComputePass("material-classify", []graph.Binding{
		{Resource: out.Visibility, Usage: graph.UsageSampled, Slot: 0},
		{Resource: out.TileBuffer, Usage: graph.UsageStorage, Slot: 1},
	})
	if err != nil {
		return nil, err
	}
	out.ClassifyPass = classifyPass

	out.Albedo = b.CreateTexture(gbufferTarget("gbuffer-albedo", in.Width, in.Height, gputypes.TextureFormatRGBA8Unorm))
	out.Normal = b.CreateTexture(gbufferTarget("gbuffer-normal", in.Width, in.Height, gputypes.TextureFormatRGBA16Float))
	out.Material = b.CreateTexture(gbufferTarget("gbuffer-material", in.Width, in.Height, gputypes.TextureFormatRGBA8Unorm))

	for i := 0; i < in.MaterialCount; i++ {
		bindings := []graph.Binding{
			{Resource: out.Visibility, Usage: graph.UsageSampled, Slot: 0},
			{Resource: out.TileBuffer, Usage: graph.UsageStorageRead, Slot: 1},
			{Resource: out.Albedo, Usage: graph.UsageStorage, Slot: 2},
			{Resource: out.Normal, Usage: graph.UsageStorage, Slot: 3},
			{Resource: out.Material, Usage: graph.UsageStorage, Slot: 4},
		}
		if in.VertexBuffer.IsValid() {
			bindings = append(bindings, graph.Binding{Resource: in.VertexBuffer, Usage: graph.UsageStorageRead, Slot: 5})
		}
		if in.IndexBuffer.IsValid() {
			bindings = append(bindings, graph.Binding{Resource: in.IndexBuffer, Usage: graph.UsageStorageRead, Slot: 6})
		}
		pass, err := b.AddComputePass(fmt.Sprintf("material-eval-%d", i), bindings)
		if err != nil {
			return nil, err
		}
		out.MaterialPasses = append(out.MaterialPasses, pass)
	}

	rendergraph.Logger().Debug("visbuf: pass chain registered",
		slog.Int("materials", in.MaterialCount),
		slog.Bool("software_raster", out.SoftwarePass.IsValid()))
	return out, nil
}
