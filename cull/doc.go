// Package cull implements the GPU culling engine: frustum culling,
// hierarchical-Z occlusion culling (single- and two-phase temporal), and
// meshlet/triangle culling.
//
// Each stage registers its compute/graphics passes on a graph.Builder and
// simultaneously evaluates the culling math on the CPU, so survivor lists
// and counts are observable without a device (the same hybrid split the
// rest of the gogpu stack uses for its GPU pipelines). The engine holds no
// GPU state beyond its configuration, statistics, and the occlusion query
// system.
//
// Per-frame flow:
//
//	Init -> FrustumCull -> [OcclusionPhase1 -> RenderOccluders ->
//	BuildHZB -> OcclusionPhase2] -> MeshletCull -> TriangleCull -> Done
package cull
