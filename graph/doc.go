// Package graph provides the frame-graph resource/pass model and compiler.
//
// A Builder records resources and passes for one frame. Compile turns the
// recorded declarations into an immutable Schedule: a deterministic
// topological ordering of the passes plus the synchronization barriers an
// execution backend must insert between them.
//
// The package computes what must be ordered and made visible, never how to
// wait: pipeline stage flags, access flags, and image layouts use the
// standard graphics API numeric encoding so a backend can pass them through
// untranslated.
package graph
