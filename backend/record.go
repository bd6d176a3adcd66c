package backend

import (
	"log/slog"

	"github.com/gogpu/rendergraph"

	"github.com/gogpu/rendergraph/graph"
)

// Backend name constants.
const (
	// BackendRecord is the name of the in-memory recording backend.
	BackendRecord = "record"
	// BackendVulkan is the name of a Vulkan device backend.
	BackendVulkan = "vulkan"
	// BackendMetal is the name of a Metal device backend.
	BackendMetal = "metal"
)

// CommandKind discriminates recorded commands.
type CommandKind uint8

// Command kinds.
const (
	// CommandBarrier is a pipeline barrier before a pass.
	CommandBarrier CommandKind = iota
	// CommandPass is the execution of one pass.
	CommandPass
)

// Command is one entry of the recorded stream.
type Command struct {
	Kind CommandKind

	// Pass is the executed pass (Kind == CommandPass).
	Pass graph.RenderPassID

	// PassName is the declared pass name (Kind == CommandPass).
	PassName string

	// Barrier is the issued barrier (Kind == CommandBarrier).
	Barrier graph.Barrier
}

// RecordBackend executes schedules by recording the command stream in
// memory instead of issuing device calls. It stands in for a device backend
// in tests and when inspecting what a schedule would submit.
type RecordBackend struct {
	initialized bool
	commands    []Command
}

// init registers the recording backend on package import.
func init() {
	Register(BackendRecord, func() Backend {
		return &RecordBackend{}
	})
}

// NewRecordBackend creates a new recording backend.
func NewRecordBackend() *RecordBackend {
	return &RecordBackend{}
}

// Name returns the backend identifier.
func (b *RecordBackend) Name() string {
	return BackendRecord
}

// Init initializes the backend.
func (b *RecordBackend) Init() error {
	b.initialized = true
	return nil
}

// Close releases all backend resources.
func (b *RecordBackend) Close() {
	b.commands = nil
	b.initialized = false
}

// Execute walks the schedule in order, recording each pass preceded by the
// barriers that gate it.
func (b *RecordBackend) Execute(s *graph.Schedule) error {
	if !b.initialized {
		return ErrNotInitialized
	}

	// Group barriers by destination so each lands directly before the
	// pass it orders.
	byDst := make(map[graph.RenderPassID][]graph.Barrier)
	for _, bar := range s.Barriers() {
		byDst[bar.DstPass] = append(byDst[bar.DstPass], bar)
	}

	for _, pass := range s.Passes() {
		for _, bar := range byDst[pass.ID] {
			b.commands = append(b.commands, Command{Kind: CommandBarrier, Barrier: bar})
		}
		b.commands = append(b.commands, Command{
			Kind:     CommandPass,
			Pass:     pass.ID,
			PassName: pass.Name,
		})
	}

	rendergraph.Logger().Debug("backend: schedule recorded",
		slog.Int("passes", len(s.Passes())),
		slog.Int("barriers", len(s.Barriers())))
	return nil
}

// Commands returns the recorded stream across all executed schedules.
func (b *RecordBackend) Commands() []Command {
	return b.commands
}

// Reset drops the recorded stream, keeping the backend initialized.
func (b *RecordBackend) Reset() {
	b.commands = b.commands[:0]
}
