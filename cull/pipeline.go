package cull

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rendergraph"

	"github.com/gogpu/rendergraph/graph"
)

// State is the per-frame position of the pipeline in its linear flow.
type State uint8

// Pipeline states.
const (
	StateInit State = iota
	StateFrustumCull
	StateOcclusionPhase1
	StateRenderOccluders
	StateBuildHZB
	StateOcclusionPhase2
	StateMeshletCull
	StateTriangleCull
	StateDone
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateFrustumCull:
		return "FrustumCull"
	case StateOcclusionPhase1:
		return "OcclusionPhase1"
	case StateRenderOccluders:
		return "RenderOccluders"
	case StateBuildHZB:
		return "BuildHZB"
	case StateOcclusionPhase2:
		return "OcclusionPhase2"
	case StateMeshletCull:
		return "MeshletCull"
	case StateTriangleCull:
		return "TriangleCull"
	case StateDone:
		return "Done"
	}
	return "Unknown"
}

// Config tunes the culling pipeline. Zero values select defaults.
type Config struct {
	// MaxDrawDistance culls instances entirely beyond this distance.
	// Zero disables distance culling.
	MaxDrawDistance float32

	// SmallCullPixels drops triangles whose screen extent is below this
	// size. Defaults to 0.5 (sub-half-pixel with no sample coverage).
	SmallCullPixels float32

	// SoftwareRasterPixels routes triangles below this screen extent to
	// the software rasterization path. Defaults to 8.
	SoftwareRasterPixels float32
}

// DrawIndirectCommand matches the GPU indirect draw argument layout.
type DrawIndirectCommand struct {
	VertexCount   uint32
	InstanceCount uint32
	FirstVertex   uint32
	FirstInstance uint32
}

// CullResult is the outcome of one culling stage over an instance set.
type CullResult struct {
	// Visibility holds 0/1 per input instance.
	Visibility []uint32

	// VisibleCount is the exact number of surviving instances.
	VisibleCount uint32

	// Draws is the CPU evaluation of the indirect draw buffer contents.
	// Entry order is unspecified; only the count is contractual.
	Draws []DrawIndirectCommand

	// VisibilityBuffer, IndirectBuffer and CountBuffer are the graph
	// resources the equivalent GPU passes write.
	VisibilityBuffer graph.ResourceID
	IndirectBuffer   graph.ResourceID
	CountBuffer      graph.ResourceID

	// Passes are the graph passes the stage registered.
	Passes []graph.RenderPassID
}

// TwoPhaseResult is the outcome of temporal two-phase occlusion culling.
type TwoPhaseResult struct {
	Static  *CullResult
	Dynamic *CullResult

	// OccluderPass is the depth-only occluder pass, or
	// graph.InvalidRenderPassID when it was skipped.
	OccluderPass graph.RenderPassID

	// HZB is the hierarchical-Z buffer the second phase tested against:
	// freshly built when occluders were rendered, the previous frame's
	// buffer otherwise.
	HZB *HierarchicalZBuffer

	// HZBResource is the graph texture holding the built mip chain, or
	// graph.InvalidResourceID when no rebuild happened.
	HZBResource graph.ResourceID

	// Passes are all graph passes the stage registered, in order.
	Passes []graph.RenderPassID
}

// TriangleCullResult partitions surviving triangles between the hardware
// and software rasterization paths.
type TriangleCullResult struct {
	// Hardware holds indices of triangles for the hardware rasterizer.
	Hardware []int

	// Software holds indices of triangles below the screen-size
	// threshold, rasterized in compute.
	Software []int

	// Passes are the graph passes the stage registered.
	Passes []graph.RenderPassID
}

// Pipeline drives the per-frame culling flow, registering every stage as
// passes on a graph.Builder and evaluating the stage on the CPU. A Pipeline
// is single-threaded, like the builder it records on, and is discarded with
// the frame graph.
type Pipeline struct {
	builder *graph.Builder
	cfg     Config
	state   State
	stats   CullingStats
	queries *OcclusionQuerySystem
}

// NewPipeline creates a pipeline recording on the given builder.
func NewPipeline(b *graph.Builder, cfg Config) *Pipeline {
	if cfg.SmallCullPixels == 0 {
		cfg.SmallCullPixels = 0.5
	}
	if cfg.SoftwareRasterPixels == 0 {
		cfg.SoftwareRasterPixels = 8
	}
	return &Pipeline{
		builder: b,
		cfg:     cfg,
		state:   StateInit,
		queries: NewOcclusionQuerySystem(),
	}
}

// State returns the current pipeline state.
func (p *Pipeline) State() State { return p.state }

// Stats returns the frame's culling counters.
func (p *Pipeline) Stats() *CullingStats { return &p.stats }

// Queries returns the occlusion query system.
func (p *Pipeline) Queries() *OcclusionQuerySystem { return p.queries }

// Finish marks the frame's culling flow complete.
func (p *Pipeline) Finish() { p.state = StateDone }

// stateError reports a call out of the linear per-frame order.
func (p *Pipeline) stateError(op string) error {
	return fmt.Errorf("cull: %s not allowed in state %s", op, p.state)
}

// instanceBuffers declares the output buffers of a culling stage.
func (p *Pipeline) instanceBuffers(prefix string, count int) (vis, indirect, cnt graph.ResourceID) {
	n := uint64(count)
	if n == 0 {
		n = 1
	}
	vis = p.builder.CreateBuffer(graph.BufferDesc{
		Label: prefix + "-visibility",
		Size:  n * 4,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	indirect = p.builder.CreateBuffer(graph.BufferDesc{
		Label: prefix + "-indirect",
		Size:  n * 16,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageIndirect,
	})
	cnt = p.builder.CreateBuffer(graph.BufferDesc{
		Label: prefix + "-count",
		Size:  4,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	return vis, indirect, cnt
}

// FrustumCull tests every instance against the view frustum. It registers
// one compute pass writing a 0/1 visibility buffer, an atomically appended
// indirect-draw buffer, and a survivor count.
func (p *Pipeline) FrustumCull(instances []CullInstance, view *View) (*CullResult, error) {
	if p.state != StateInit {
		return nil, p.stateError("frustum cull")
	}

	vis, indirect, cnt := p.instanceBuffers("frustum", len(instances))
	pass, err := p.builder.AddComputePass("frustum-cull", []graph.Binding{
		{Resource: vis, Usage: graph.UsageStorage, Slot: 0},
		{Resource: indirect, Usage: graph.UsageStorage, Slot: 1},
		{Resource: cnt, Usage: graph.UsageStorage, Slot: 2},
	})
	if err != nil {
		return nil, err
	}

	res := &CullResult{
		Visibility:       make([]uint32, len(instances)),
		VisibilityBuffer: vis,
		IndirectBuffer:   indirect,
		CountBuffer:      cnt,
		Passes:           []graph.RenderPassID{pass},
	}

	frustum := FrustumFromMatrix(view.ViewProj)
	for i := range instances {
		inst := &instances[i]
		p.stats.TotalInstances++

		if inst.Flags.Has(FlagCulled) {
			p.stats.FrustumCulled++
			continue
		}
		if !inst.Flags.Has(FlagAlwaysRender) {
			if p.cfg.MaxDrawDistance > 0 {
				ws := inst.WorldSphere()
				if ws.Center.Sub(view.CameraPos).Len()-ws.Radius > p.cfg.MaxDrawDistance {
					p.stats.DistanceCulled++
					continue
				}
			}
			if !inst.Flags.Has(FlagNoFrustumCull) {
				ws := inst.WorldSphere()
				if !frustum.TestSphere(ws) || !frustum.TestAABB(inst.WorldAABB()) {
					p.stats.FrustumCulled++
					continue
				}
			}
		}

		res.Visibility[i] = 1
		res.VisibleCount++
		res.Draws = append(res.Draws, DrawIndirectCommand{
			InstanceCount: 1,
			FirstInstance: uint32(i),
		})
	}

	p.state = StateFrustumCull
	rendergraph.Logger().Debug("cull: frustum",
		slog.Int("instances", len(instances)),
		slog.Uint64("visible", uint64(res.VisibleCount)))
	return res, nil
}

// occlusionTest evaluates the two-phase HZB test for one instance.
func (p *Pipeline) occlusionTest(inst *CullInstance, hzb *HierarchicalZBuffer, view *View, coarseOnly bool) (bool, error) {
	if inst.Flags.Has(FlagCulled) {
		return false, nil
	}
	if inst.Flags.Has(FlagAlwaysRender) || inst.Flags.Has(FlagNoOcclusionCull) {
		return true, nil
	}
	ndc, ok := view.projectAABB(inst.WorldAABB())
	if !ok {
		// Crosses the camera plane; no screen bound can be formed.
		return true, nil
	}
	if coarseOnly {
		return hzb.TestAABBCoarse(ndc)
	}
	return hzb.TestAABB(ndc)
}

// OcclusionCull re-tests instances against a hierarchical-Z buffer in two
// sequential compute passes: a coarse rejection pass and a re-test at the
// mip whose texel footprint matches each instance's projected size.
func (p *Pipeline) OcclusionCull(instances []CullInstance, hzb *HierarchicalZBuffer, view *View) (*CullResult, error) {
	switch p.state {
	case StateInit, StateFrustumCull, StateBuildHZB:
	default:
		return nil, p.stateError("occlusion cull")
	}
	if hzb == nil || !hzb.Initialized() {
		return nil, ErrHZBNotInitialized
	}

	vis, indirect, cnt := p.instanceBuffers("occlusion", len(instances))
	phase1, err := p.builder.AddComputePass("occlusion-phase1", []graph.Binding{
		{Resource: vis, Usage: graph.UsageStorage, Slot: 0},
	})
	if err != nil {
		return nil, err
	}
	phase2, err := p.builder.AddComputePass("occlusion-phase2", []graph.Binding{
		{Resource: vis, Usage: graph.UsageStorage, Slot: 0},
		{Resource: indirect, Usage: graph.UsageStorage, Slot: 1},
		{Resource: cnt, Usage: graph.UsageStorage, Slot: 2},
	})
	if err != nil {
		return nil, err
	}

	res := &CullResult{
		Visibility:       make([]uint32, len(instances)),
		VisibilityBuffer: vis,
		IndirectBuffer:   indirect,
		CountBuffer:      cnt,
		Passes:           []graph.RenderPassID{phase1, phase2},
	}

	for i := range instances {
		inst := &instances[i]

		visible, err := p.occlusionTest(inst, hzb, view, true)
		if err != nil {
			return nil, err
		}
		if visible {
			visible, err = p.occlusionTest(inst, hzb, view, false)
			if err != nil {
				return nil, err
			}
		}
		if !visible {
			p.stats.OcclusionCulled++
			continue
		}

		res.Visibility[i] = 1
		res.VisibleCount++
		res.Draws = append(res.Draws, DrawIndirectCommand{
			InstanceCount: 1,
			FirstInstance: uint32(i),
		})
	}

	p.state = StateOcclusionPhase2
	return res, nil
}

// BuildHZB registers the mip reduction pass chain that rebuilds the HZB
// texture from a depth resource. One compute pass per level; the shared
// storage usage of the chain texture orders them.
func (p *Pipeline) BuildHZB(hzb *HierarchicalZBuffer, depth graph.ResourceID) (graph.ResourceID, []graph.RenderPassID, error) {
	if hzb == nil || !hzb.Initialized() {
		return graph.InvalidResourceID, nil, ErrHZBNotInitialized
	}

	tex := p.builder.CreateTexture(hzb.TextureDesc("hzb"))
	passes := make([]graph.RenderPassID, 0, hzb.MipCount()+1)
	for level := 0; level <= hzb.MipCount(); level++ {
		bindings := []graph.Binding{
			{Resource: tex, Usage: graph.UsageStorage, Slot: 1},
		}
		if level == 0 {
			bindings = append(bindings, graph.Binding{
				Resource: depth, Usage: graph.UsageSampled, Slot: 0,
			})
		}
		pass, err := p.builder.AddComputePass(fmt.Sprintf("hzb-mip-%d", level), bindings)
		if err != nil {
			return graph.InvalidResourceID, nil, err
		}
		passes = append(passes, pass)
	}
	p.state = StateBuildHZB
	return tex, passes, nil
}

// TwoPhaseCull performs temporal occlusion culling. Phase 1 tests both
// instance sets against the previous frame's HZB, survivors render as
// depth-only occluders, a fresh HZB is built from that depth, and phase 2
// re-tests both sets against it. The extra depth pass eliminates false
// negatives from stale occlusion data.
//
// With no dynamic instances the previous HZB is already exact, so the
// occluder and rebuild passes are skipped and the static set goes through
// plain OcclusionCull against the previous HZB.
func (p *Pipeline) TwoPhaseCull(static, dynamic []CullInstance, prevHZB *HierarchicalZBuffer, view *View) (*TwoPhaseResult, error) {
	switch p.state {
	case StateInit, StateFrustumCull:
	default:
		return nil, p.stateError("two-phase cull")
	}
	if prevHZB == nil || !prevHZB.Initialized() {
		return nil, ErrHZBNotInitialized
	}

	if len(dynamic) == 0 {
		staticRes, err := p.OcclusionCull(static, prevHZB, view)
		if err != nil {
			return nil, err
		}
		return &TwoPhaseResult{
			Static:       staticRes,
			Dynamic:      &CullResult{},
			OccluderPass: graph.InvalidRenderPassID,
			HZB:          prevHZB,
			HZBResource:  graph.InvalidResourceID,
			Passes:       staticRes.Passes,
		}, nil
	}

	// Phase 1: both sets against last frame's depth.
	phase1Pass, err := p.builder.AddComputePass("two-phase-cull-phase1", nil)
	if err != nil {
		return nil, err
	}
	p.state = StateOcclusionPhase1

	survivors := make([]CullInstance, 0, len(static)+len(dynamic))
	for _, set := range [][]CullInstance{static, dynamic} {
		for i := range set {
			visible, err := p.occlusionTest(&set[i], prevHZB, view, false)
			if err != nil {
				return nil, err
			}
			if visible {
				survivors = append(survivors, set[i])
			}
		}
	}

	// Survivors render depth-only occluders.
	occluderDepth := p.builder.CreateTransientTexture(graph.TextureDesc{
		Label:       "occluder-depth",
		Size:        gputypes.Extent3D{Width: view.Width, Height: view.Height, DepthOrArrayLayers: 1},
		SampleCount: 1,
		Dimension:   gputypes.TextureDimension2D,
		Format:      gputypes.TextureFormatDepth32Float,
		Usage:       gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	occluderPB := p.builder.BeginPass("render-occluders", graph.PassGraphics).
		DepthTarget(occluderDepth).
		RenderArea(view.Width, view.Height)
	occluderPass, err := p.builder.EndPass(occluderPB)
	if err != nil {
		return nil, err
	}
	p.state = StateRenderOccluders

	depthBuf := p.renderOccluderDepth(survivors, view, prevHZB.Mode())

	// Fresh HZB from the occluder depth.
	newHZB := NewHierarchicalZBuffer(view.Width, view.Height, prevHZB.Mode())
	newHZB.Initialize()
	if err := newHZB.Build(depthBuf, int(view.Width), int(view.Height)); err != nil {
		return nil, err
	}
	hzbTex, hzbPasses, err := p.BuildHZB(newHZB, occluderDepth)
	if err != nil {
		return nil, err
	}

	// Phase 2: both sets against the fresh depth.
	staticRes, err := p.OcclusionCull(static, newHZB, view)
	if err != nil {
		return nil, err
	}
	p.state = StateBuildHZB // allow the second OcclusionCull
	dynamicRes, err := p.OcclusionCull(dynamic, newHZB, view)
	if err != nil {
		return nil, err
	}

	res := &TwoPhaseResult{
		Static:       staticRes,
		Dynamic:      dynamicRes,
		OccluderPass: occluderPass,
		HZB:          newHZB,
		HZBResource:  hzbTex,
	}
	res.Passes = append(res.Passes, phase1Pass, occluderPass)
	res.Passes = append(res.Passes, hzbPasses...)
	res.Passes = append(res.Passes, staticRes.Passes...)
	res.Passes = append(res.Passes, dynamicRes.Passes...)
	return res, nil
}

// renderOccluderDepth splats the conservative (farthest) depth of each
// occluder's screen rectangle into a fresh depth buffer, resolving overlap
// with the normal depth test. Using the farthest box depth keeps the built
// HZB from ever rejecting geometry a real occluder would not.
func (p *Pipeline) renderOccluderDepth(occluders []CullInstance, view *View, mode ReductionMode) []float32 {
	w, h := int(view.Width), int(view.Height)
	depth := make([]float32, w*h)
	far := float32(1)
	if mode == ReductionMax {
		far = 0
	}
	for i := range depth {
		depth[i] = far
	}

	for i := range occluders {
		ndc, ok := view.projectAABB(occluders[i].WorldAABB())
		if !ok {
			continue
		}
		x0 := int(clampf((ndc.Min.X()*0.5+0.5)*float32(w), 0, float32(w-1)))
		x1 := int(clampf((ndc.Max.X()*0.5+0.5)*float32(w), 0, float32(w-1)))
		y0 := int(clampf((ndc.Min.Y()*0.5+0.5)*float32(h), 0, float32(h-1)))
		y1 := int(clampf((ndc.Max.Y()*0.5+0.5)*float32(h), 0, float32(h-1)))

		// Farthest point of the box, in the frame's depth convention.
		d := ndc.Max.Z()
		if mode == ReductionMax {
			d = ndc.Min.Z()
		}

		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				idx := y*w + x
				if mode == ReductionMax {
					if d > depth[idx] {
						depth[idx] = d
					}
				} else if d < depth[idx] {
					depth[idx] = d
				}
			}
		}
	}
	return depth
}

// MeshletCull tests clusters with the same frustum and occlusion tests as
// instances. A nil HZB skips the occlusion test.
func (p *Pipeline) MeshletCull(meshlets []Meshlet, hzb *HierarchicalZBuffer, view *View) (*CullResult, error) {
	switch p.state {
	case StateFrustumCull, StateOcclusionPhase2:
	default:
		return nil, p.stateError("meshlet cull")
	}

	vis, indirect, cnt := p.instanceBuffers("meshlet", len(meshlets))
	pass, err := p.builder.AddComputePass("meshlet-cull", []graph.Binding{
		{Resource: vis, Usage: graph.UsageStorage, Slot: 0},
		{Resource: indirect, Usage: graph.UsageStorage, Slot: 1},
		{Resource: cnt, Usage: graph.UsageStorage, Slot: 2},
	})
	if err != nil {
		return nil, err
	}

	res := &CullResult{
		Visibility:       make([]uint32, len(meshlets)),
		VisibilityBuffer: vis,
		IndirectBuffer:   indirect,
		CountBuffer:      cnt,
		Passes:           []graph.RenderPassID{pass},
	}

	frustum := FrustumFromMatrix(view.ViewProj)
	for i := range meshlets {
		m := &meshlets[i]
		if !frustum.TestSphere(m.Bounds) || !frustum.TestAABB(m.Box) {
			p.stats.FrustumCulled++
			continue
		}
		if hzb != nil {
			ndc, ok := view.projectAABB(m.Box)
			if ok {
				visible, err := hzb.TestAABB(ndc)
				if err != nil {
					return nil, err
				}
				if !visible {
					p.stats.OcclusionCulled++
					continue
				}
			}
		}

		res.Visibility[i] = 1
		res.VisibleCount++
		res.Draws = append(res.Draws, DrawIndirectCommand{
			VertexCount:   m.TriangleCount * 3,
			InstanceCount: 1,
			FirstVertex:   m.TriangleOffset * 3,
			FirstInstance: uint32(i),
		})
	}

	p.state = StateMeshletCull
	return res, nil
}

// TriangleCull classifies clip-space triangles: back-facing and sub-pixel
// triangles are dropped, small on-screen triangles route to the software
// rasterization path, the rest stay on the hardware path.
func (p *Pipeline) TriangleCull(tris []Triangle, view *View) (*TriangleCullResult, error) {
	switch p.state {
	case StateFrustumCull, StateOcclusionPhase2, StateMeshletCull:
	default:
		return nil, p.stateError("triangle cull")
	}

	pass, err := p.builder.AddComputePass("triangle-cull", nil)
	if err != nil {
		return nil, err
	}
	res := &TriangleCullResult{Passes: []graph.RenderPassID{pass}}

	w, h := float32(view.Width), float32(view.Height)
	for i, tri := range tris {
		if tri.V0.W() <= 0 || tri.V1.W() <= 0 || tri.V2.W() <= 0 {
			// Crosses the camera plane; leave clipping to the
			// hardware path.
			res.Hardware = append(res.Hardware, i)
			continue
		}

		x0 := (tri.V0.X()/tri.V0.W()*0.5 + 0.5) * w
		y0 := (tri.V0.Y()/tri.V0.W()*0.5 + 0.5) * h
		x1 := (tri.V1.X()/tri.V1.W()*0.5 + 0.5) * w
		y1 := (tri.V1.Y()/tri.V1.W()*0.5 + 0.5) * h
		x2 := (tri.V2.X()/tri.V2.W()*0.5 + 0.5) * w
		y2 := (tri.V2.Y()/tri.V2.W()*0.5 + 0.5) * h

		area := (x1-x0)*(y2-y0) - (x2-x0)*(y1-y0)
		if area <= 0 {
			p.stats.BackfaceCulled++
			continue
		}

		minX, maxX := min3(x0, x1, x2), max3(x0, x1, x2)
		minY, maxY := min3(y0, y1, y2), max3(y0, y1, y2)
		if maxX < 0 || minX >= w || maxY < 0 || minY >= h {
			p.stats.FrustumCulled++
			continue
		}

		extent := maxX - minX
		if maxY-minY > extent {
			extent = maxY - minY
		}
		if extent < p.cfg.SmallCullPixels {
			p.stats.SmallObjectCulled++
			continue
		}
		if extent < p.cfg.SoftwareRasterPixels {
			res.Software = append(res.Software, i)
			continue
		}
		res.Hardware = append(res.Hardware, i)
	}

	p.state = StateTriangleCull
	return res, nil
}

func min3(a, b, c float32) float32 {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func max3(a, b, c float32) float32 {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}
