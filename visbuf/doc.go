// Package visbuf implements visibility-buffer rendering: geometry is first
// rasterized to a single-channel ID image encoding (instance, triangle) per
// pixel, and materials are shaded in a second pass that re-fetches triangle
// data through the ID.
//
// The package provides the ID encodings (VisibilityID, VisibilityID64), a
// compute-style software rasterizer for small triangles, perspective-correct
// attribute interpolation with analytic derivatives, screen tile material
// classification, and a Renderer that registers the full pass chain on a
// graph.Builder.
package visbuf
