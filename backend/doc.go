// Package backend provides a pluggable execution abstraction for compiled
// render graph schedules.
//
// The graph compiler decides what must be ordered and made visible; a
// backend decides how. It walks the ordered pass list, issues the real
// draw/dispatch calls, and translates every barrier into its API's native
// synchronization. Stage, access and layout values in a schedule use the
// standard numeric encoding, so a Vulkan backend can pass them through
// untranslated.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The recording backend is automatically registered on import:
//
//	import _ "github.com/gogpu/rendergraph/backend"
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name:
//
//	// Get the default (best available) backend
//	b := backend.Default()
//
//	// Or request a specific backend
//	b := backend.Get("record")
//
// # Executing a Schedule
//
//	b := backend.Default()
//	if err := b.Init(); err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	sched, err := builder.Compile()
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := b.Execute(sched); err != nil {
//		log.Fatal(err)
//	}
//
// # Available Backends
//
// - "record": records the command stream in memory (always available)
package backend
