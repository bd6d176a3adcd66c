// Package rendergraph is the GPU-driven rendering core of the gogpu stack:
// a declarative render graph with automatic barrier insertion, a multi-phase
// GPU culling pipeline, and a visibility-buffer renderer.
//
// # Overview
//
// A frame is described as a set of resources (textures, buffers) and passes
// (graphics, compute, transfer) recorded on a graph.Builder. Compiling the
// graph produces an immutable Schedule: a deterministic topological ordering
// of the passes plus the list of synchronization barriers required between
// them. The schedule is consumed by an external backend that issues the
// actual GPU commands; this module never touches device memory.
//
// # Architecture
//
// The module is organized into:
//   - graph: resource/pass model and the graph compiler
//   - cull: frustum, hierarchical-Z occlusion, two-phase temporal occlusion,
//     and meshlet/triangle culling stages
//   - visbuf: visibility-buffer rasterization and deferred material passes
//   - backend: registry of schedule executors
//
// # Control Flow
//
// The caller declares resources and passes on a graph.Builder. The culling
// engine appends its compute passes against the same builder, the visibility
// renderer appends passes consuming the culling outputs, and Compile produces
// the final ordered schedule and barrier list for the backend.
//
// # Lifecycle
//
// A graph and all of its resources and passes are created fresh each frame by
// a single builder, compiled once, handed to a backend for execution, then
// discarded. There is no incremental patching of a compiled schedule.
package rendergraph

// Version information
const (
	// Version is the current version of the library
	Version = "0.4.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 4

	// VersionPatch is the patch version
	VersionPatch = 0
)
