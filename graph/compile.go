package graph

import (
	"container/heap"
	"log/slog"

	"github.com/gogpu/rendergraph"
)

// CompiledPass is one scheduled pass of an immutable Schedule.
type CompiledPass struct {
	// ID is the pass handle assigned at declaration.
	ID RenderPassID

	// Name is the declaration name, for debugging and logs.
	Name string

	// Desc is the pass description.
	Desc RenderPassDesc

	// Bindings are the resource bindings in declaration order.
	Bindings []Binding
}

// ResourceLifetime is the scheduled lifetime of one resource, exposed for
// the external pool's aliasing decisions. FirstUse and LastUse are indices
// into the ordered pass list; both are -1 for a resource no pass touches.
type ResourceLifetime struct {
	Resource ResourceID
	Type     ResourceType

	// Texture and Buffer carry the physical description; exactly one is
	// non-nil.
	Texture *TextureDesc
	Buffer  *BufferDesc

	FirstUse int
	LastUse  int
}

// Schedule is the compiled form of a frame graph: the ordered pass list and
// the barrier list a backend executes. A Schedule is an immutable value;
// it may be read concurrently by any number of consumers but is never
// patched in place. To change a frame, build and compile a new graph.
type Schedule struct {
	passes    []CompiledPass
	barriers  []Barrier
	lifetimes []ResourceLifetime
	indexOf   map[RenderPassID]int
}

// Passes returns the passes in execution order. The returned slice is owned
// by the schedule and must not be modified.
func (s *Schedule) Passes() []CompiledPass { return s.passes }

// Barriers returns every synchronization barrier of the schedule. The
// returned slice is owned by the schedule and must not be modified.
func (s *Schedule) Barriers() []Barrier { return s.barriers }

// Lifetimes returns the scheduled lifetime of every declared resource, in
// resource creation order.
func (s *Schedule) Lifetimes() []ResourceLifetime { return s.lifetimes }

// PassIndex returns the execution position of a pass, or -1 if the pass is
// not part of the schedule.
func (s *Schedule) PassIndex(id RenderPassID) int {
	if i, ok := s.indexOf[id]; ok {
		return i
	}
	return -1
}

// useRef is one entry of a resource's access-pattern history: the ordered
// sequence of (pass, usage) pairs in declaration order. This sequence, not
// wall-clock time, defines "last writer" and "next reader" for barriers.
type useRef struct {
	pass  int
	usage ResourceUsage
}

// passHeap is a min-heap of pass declaration indices. Popping the smallest
// ready index gives the stable tie-break that makes scheduling
// deterministic.
type passHeap []int

func (h passHeap) Len() int           { return len(h) }
func (h passHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h passHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *passHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *passHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Compile turns the recorded declarations into an immutable Schedule.
//
// For every resource the compiler walks the ordered (pass, usage) history.
// Each consecutive pair that is not two pure reads with identical layout
// contributes a dependency edge and a barrier; a layout change alone forces
// a barrier even when the access masks would otherwise be compatible.
// Explicit dependencies added via AddDependency contribute execution-only
// edges.
//
// The final order is a stable topological sort of the pass DAG with ties
// broken by declaration order, so identical declaration sequences produce
// bit-identical schedules. If the induced graph has a cycle, Compile fails
// with *CycleError; detection is iterative and never recurses or loops
// unboundedly.
func (b *Builder) Compile() (*Schedule, error) {
	n := len(b.passes)

	// Per-resource access-pattern history.
	uses := make([][]useRef, len(b.resources))
	for pi, p := range b.passes {
		for _, bind := range p.bindings {
			uses[bind.Resource] = append(uses[bind.Resource], useRef{pass: pi, usage: bind.Usage})
		}
	}

	succ := make([][]int, n)
	indeg := make([]int, n)
	edgeSeen := make(map[uint64]struct{})
	addEdge := func(src, dst int) {
		key := uint64(src)<<32 | uint64(dst)
		if _, ok := edgeSeen[key]; ok {
			return
		}
		edgeSeen[key] = struct{}{}
		succ[src] = append(succ[src], dst)
		indeg[dst]++
	}

	var barriers []Barrier

	// Inferred dependencies: consecutive pairs of each resource history.
	for _, res := range b.resources {
		hist := uses[res.id]
		for i := 0; i+1 < len(hist); i++ {
			u0, u1 := hist[i], hist[i+1]
			if u0.pass == u1.pass {
				continue
			}
			a0, a1 := u0.usage.Access(), u1.usage.Access()
			l0, l1 := u0.usage.ImageLayout(), u1.usage.ImageLayout()
			if a0 == AccessRead && a1 == AccessRead && l0 == l1 {
				// Read-after-read in the same layout needs no ordering.
				continue
			}
			addEdge(u0.pass, u1.pass)
			barriers = append(barriers, Barrier{
				SrcPass:   b.passes[u0.pass].id,
				DstPass:   b.passes[u1.pass].id,
				Resource:  res.id,
				SrcStage:  u0.usage.PipelineStages(),
				DstStage:  u1.usage.PipelineStages(),
				SrcAccess: u0.usage.AccessFlags(),
				DstAccess: u1.usage.AccessFlags(),
				OldLayout: l0,
				NewLayout: l1,
			})
		}
	}

	// Explicit dependencies: execution-only edges.
	for _, dep := range b.deps {
		addEdge(int(dep.Src), int(dep.Dst))
		srcStage, dstStage := dep.SrcStage, dep.DstStage
		if srcStage == 0 {
			srcStage = StageAllCommands
		}
		if dstStage == 0 {
			dstStage = StageAllCommands
		}
		barriers = append(barriers, Barrier{
			SrcPass:  dep.Src,
			DstPass:  dep.Dst,
			Resource: InvalidResourceID,
			SrcStage: srcStage,
			DstStage: dstStage,
		})
	}

	// Stable Kahn topological sort.
	ready := make(passHeap, 0, n)
	for i := 0; i < n; i++ {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}
	heap.Init(&ready)

	order := make([]int, 0, n)
	for ready.Len() > 0 {
		pi := heap.Pop(&ready).(int)
		order = append(order, pi)
		for _, next := range succ[pi] {
			indeg[next]--
			if indeg[next] == 0 {
				heap.Push(&ready, next)
			}
		}
	}

	if len(order) < n {
		cerr := &CycleError{}
		for i := 0; i < n; i++ {
			if indeg[i] > 0 {
				cerr.Passes = append(cerr.Passes, b.passes[i].id)
			}
		}
		rendergraph.Logger().Warn("graph: compile failed",
			slog.Int("unschedulable", len(cerr.Passes)))
		return nil, cerr
	}

	position := make([]int, n)
	for pos, pi := range order {
		position[pi] = pos
	}

	sched := &Schedule{
		passes:   make([]CompiledPass, 0, n),
		barriers: barriers,
		indexOf:  make(map[RenderPassID]int, n),
	}
	for pos, pi := range order {
		p := b.passes[pi]
		sched.passes = append(sched.passes, CompiledPass{
			ID:       p.id,
			Name:     p.name,
			Desc:     p.desc,
			Bindings: p.bindings,
		})
		sched.indexOf[p.id] = pos
	}

	// Scheduled lifetimes for the external pool.
	sched.lifetimes = make([]ResourceLifetime, 0, len(b.resources))
	for _, res := range b.resources {
		lt := ResourceLifetime{
			Resource: res.id,
			Type:     res.rtype,
			Texture:  res.texture,
			Buffer:   res.buffer,
			FirstUse: -1,
			LastUse:  -1,
		}
		for _, u := range uses[res.id] {
			pos := position[u.pass]
			if lt.FirstUse == -1 || pos < lt.FirstUse {
				lt.FirstUse = pos
			}
			if pos > lt.LastUse {
				lt.LastUse = pos
			}
		}
		sched.lifetimes = append(sched.lifetimes, lt)
	}

	rendergraph.Logger().Debug("graph: compiled",
		slog.Int("passes", n),
		slog.Int("barriers", len(barriers)),
		slog.Int("resources", len(b.resources)))
	return sched, nil
}
