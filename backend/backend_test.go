package backend

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/rendergraph/graph"
)

func buildSchedule(t *testing.T) (*graph.Schedule, graph.RenderPassID, graph.RenderPassID) {
	t.Helper()
	b := graph.NewBuilder()
	tex := b.CreateTexture(graph.TextureDesc{
		Label:       "scratch",
		Size:        gputypes.Extent3D{Width: 64, Height: 64, DepthOrArrayLayers: 1},
		SampleCount: 1,
		Dimension:   gputypes.TextureDimension2D,
		Format:      gputypes.TextureFormatRGBA8Unorm,
		Usage:       gputypes.TextureUsageStorageBinding | gputypes.TextureUsageCopySrc,
	})
	produce, err := b.AddComputePass("produce", []graph.Binding{
		{Resource: tex, Usage: graph.UsageStorage},
	})
	if err != nil {
		t.Fatal(err)
	}
	consume, err := b.AddTransferPass("consume", []graph.Binding{
		{Resource: tex, Usage: graph.UsageTransferSrc},
	})
	if err != nil {
		t.Fatal(err)
	}
	sched, err := b.Compile()
	if err != nil {
		t.Fatal(err)
	}
	return sched, produce, consume
}

func TestRecordBackendName(t *testing.T) {
	b := NewRecordBackend()
	if b.Name() != "record" {
		t.Errorf("Name() = %q, want %q", b.Name(), "record")
	}
}

func TestRecordBackendRequiresInit(t *testing.T) {
	b := NewRecordBackend()
	sched, _, _ := buildSchedule(t)
	if err := b.Execute(sched); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("Execute() error = %v, want ErrNotInitialized", err)
	}
}

func TestRecordBackendExecute(t *testing.T) {
	b := NewRecordBackend()
	if err := b.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer b.Close()

	sched, produce, consume := buildSchedule(t)
	if err := b.Execute(sched); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	cmds := b.Commands()
	// produce, one barrier, consume.
	if len(cmds) != 3 {
		t.Fatalf("recorded %d commands, want 3", len(cmds))
	}
	if cmds[0].Kind != CommandPass || cmds[0].Pass != produce {
		t.Errorf("command 0 = %+v, want produce pass", cmds[0])
	}
	if cmds[1].Kind != CommandBarrier {
		t.Fatalf("command 1 = %+v, want barrier", cmds[1])
	}
	bar := cmds[1].Barrier
	if bar.SrcPass != produce || bar.DstPass != consume {
		t.Errorf("barrier edge %d->%d, want %d->%d", bar.SrcPass, bar.DstPass, produce, consume)
	}
	if bar.OldLayout != graph.ImageLayoutGeneral || bar.NewLayout != graph.ImageLayoutTransferSrcOptimal {
		t.Errorf("barrier layouts %v->%v, want General->TransferSrcOptimal", bar.OldLayout, bar.NewLayout)
	}
	if cmds[2].Kind != CommandPass || cmds[2].PassName != "consume" {
		t.Errorf("command 2 = %+v, want consume pass", cmds[2])
	}

	// Every barrier lands before its destination pass.
	seen := make(map[graph.RenderPassID]bool)
	for _, c := range cmds {
		switch c.Kind {
		case CommandBarrier:
			if seen[c.Barrier.DstPass] {
				t.Error("barrier recorded after its destination pass")
			}
		case CommandPass:
			seen[c.Pass] = true
		}
	}
}

func TestRecordBackendReset(t *testing.T) {
	b := NewRecordBackend()
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	sched, _, _ := buildSchedule(t)
	if err := b.Execute(sched); err != nil {
		t.Fatal(err)
	}
	b.Reset()
	if len(b.Commands()) != 0 {
		t.Error("Reset() left recorded commands")
	}
	if err := b.Execute(sched); err != nil {
		t.Errorf("Execute() after Reset() error = %v", err)
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	// Recording backend is auto-registered via init()
	if !IsRegistered("record") {
		t.Error("record backend should be auto-registered")
	}

	b := Get("record")
	if b == nil {
		t.Fatal("Get(record) returned nil")
	}
	if b.Name() != "record" {
		t.Errorf("Get(record).Name() = %q, want %q", b.Name(), "record")
	}
}

func TestRegistryGetUnregistered(t *testing.T) {
	b := Get("nonexistent")
	if b != nil {
		t.Error("Get(nonexistent) should return nil")
	}
}

func TestRegistryAvailable(t *testing.T) {
	available := Available()
	found := false
	for _, name := range available {
		if name == "record" {
			found = true
			break
		}
	}
	if !found {
		t.Error("Available() should include 'record'")
	}
}

func TestRegistryDefault(t *testing.T) {
	b := Default()
	if b == nil {
		t.Fatal("Default() returned nil")
	}
	// The recorder is the default when no device backend is registered
	if b.Name() != "record" {
		t.Logf("Default() returned %q (may vary based on available backends)", b.Name())
	}
}

func TestRegistryMustDefault(t *testing.T) {
	// Should not panic when the recording backend is available
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("MustDefault() panicked: %v", r)
		}
	}()
	b := MustDefault()
	if b == nil {
		t.Error("MustDefault() returned nil")
	}
}

func TestRegistryInitDefault(t *testing.T) {
	b, err := InitDefault()
	if err != nil {
		t.Fatalf("InitDefault() error = %v", err)
	}
	if b == nil {
		t.Fatal("InitDefault() returned nil backend")
	}
	defer b.Close()

	sched, _, _ := buildSchedule(t)
	if err := b.Execute(sched); err != nil {
		t.Errorf("Backend from InitDefault() should be usable: %v", err)
	}
}

func TestRegistryUnregister(t *testing.T) {
	testFactory := func() Backend {
		return &RecordBackend{}
	}
	Register("test-backend", testFactory)

	if !IsRegistered("test-backend") {
		t.Error("test-backend should be registered")
	}

	Unregister("test-backend")

	if IsRegistered("test-backend") {
		t.Error("test-backend should be unregistered")
	}
}

func TestRegistryIsRegistered(t *testing.T) {
	if !IsRegistered("record") {
		t.Error("record should be registered")
	}
	if IsRegistered("nonexistent") {
		t.Error("nonexistent should not be registered")
	}
}
