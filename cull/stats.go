package cull

// CullingStats accumulates per-category culling counters for one frame.
type CullingStats struct {
	// TotalInstances is the number of instances fed into the pipeline.
	TotalInstances uint64

	// FrustumCulled counts instances rejected by the frustum test.
	FrustumCulled uint64

	// OcclusionCulled counts instances rejected by the HZB test.
	OcclusionCulled uint64

	// SmallObjectCulled counts geometry below the screen-size threshold.
	SmallObjectCulled uint64

	// DistanceCulled counts instances rejected by LOD distance.
	DistanceCulled uint64

	// BackfaceCulled counts triangles rejected by winding.
	BackfaceCulled uint64
}

// TotalCulled returns the sum of every category.
func (s *CullingStats) TotalCulled() uint64 {
	return s.FrustumCulled + s.OcclusionCulled + s.SmallObjectCulled +
		s.DistanceCulled + s.BackfaceCulled
}

// VisibilityRatio returns the fraction of instances that survived, in
// [0, 1]. A frame with no instances counts as fully visible.
func (s *CullingStats) VisibilityRatio() float64 {
	if s.TotalInstances == 0 {
		return 1
	}
	culled := s.TotalCulled()
	if culled >= s.TotalInstances {
		return 0
	}
	return float64(s.TotalInstances-culled) / float64(s.TotalInstances)
}

// Reset clears every counter.
func (s *CullingStats) Reset() {
	*s = CullingStats{}
}
