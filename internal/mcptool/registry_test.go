package mcptool

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jamesprial/mcp-oauth-2.1/internal/protocol"
)

type stubTool struct {
	def protocol.ToolDefinition
	out ToolOutput
	err error
}

func (s *stubTool) Definition() protocol.ToolDefinition { return s.def }
func (s *stubTool) Execute(ctx context.Context, args map[string]any) (ToolOutput, error) {
	return s.out, s.err
}

func TestToolRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	reg := NewToolRegistry()
	tool := &stubTool{def: protocol.ToolDefinition{Name: "echo"}, out: Text("hi")}

	if err := reg.RegisterTool("echo", tool); err != nil {
		t.Fatalf("RegisterTool() error = %v", err)
	}

	got, err := reg.GetTool("echo")
	if err != nil {
		t.Fatalf("GetTool() error = %v", err)
	}
	if got != tool {
		t.Error("GetTool() returned a different tool instance")
	}
}

func TestToolRegistry_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := NewToolRegistry()
	tool := &stubTool{def: protocol.ToolDefinition{Name: "echo"}}
	if err := reg.RegisterTool("echo", tool); err != nil {
		t.Fatalf("first RegisterTool() error = %v", err)
	}
	if err := reg.RegisterTool("echo", tool); err == nil {
		t.Error("expected error registering a duplicate tool name")
	}
}

func TestToolRegistry_GetMissing(t *testing.T) {
	t.Parallel()

	reg := NewToolRegistry()
	_, err := reg.GetTool("nope")
	if err == nil {
		t.Fatal("expected error for missing tool")
	}
	if !errors.Is(err, ErrToolNotFound) {
		t.Errorf("expected ErrToolNotFound, got %v", err)
	}
}

func TestToolRegistry_EmptyNameRejected(t *testing.T) {
	t.Parallel()

	reg := NewToolRegistry()
	if err := reg.RegisterTool("", &stubTool{}); err == nil {
		t.Error("expected error registering empty tool name")
	}
	if _, err := reg.GetTool(""); err == nil {
		t.Error("expected error looking up empty tool name")
	}
}

func TestToolRegistry_ListTools(t *testing.T) {
	t.Parallel()

	reg := NewToolRegistry()
	names := []string{"echo", "fs.read_file", "cmd.exec"}
	for _, n := range names {
		if err := reg.RegisterTool(n, &stubTool{def: protocol.ToolDefinition{Name: n}}); err != nil {
			t.Fatalf("RegisterTool(%q) error = %v", n, err)
		}
	}

	defs := reg.ListTools()
	if len(defs) != len(names) {
		t.Fatalf("ListTools() returned %d definitions, want %d", len(defs), len(names))
	}
	for i, def := range defs {
		if def.Name != names[i] {
			t.Errorf("ListTools()[%d].Name = %q, want %q (registration order)", i, def.Name, names[i])
		}
	}

	if second := reg.ListTools(); len(second) != len(defs) {
		t.Fatalf("second ListTools() returned %d definitions, want %d", len(second), len(defs))
	} else {
		for i := range defs {
			if second[i].Name != defs[i].Name {
				t.Errorf("ListTools() order changed across calls: %q vs %q at index %d", defs[i].Name, second[i].Name, i)
			}
		}
	}
}

func TestToolRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	reg := NewToolRegistry()
	if err := reg.RegisterTool("echo", &stubTool{def: protocol.ToolDefinition{Name: "echo"}}); err != nil {
		t.Fatalf("RegisterTool() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := reg.GetTool("echo"); err != nil {
				t.Errorf("GetTool() error = %v", err)
			}
			reg.ListTools()
		}()
	}
	wg.Wait()
}

type stubResource struct {
	def protocol.ResourceDefinition
	res *Resource
	err error
}

func (s *stubResource) Definition() protocol.ResourceDefinition { return s.def }
func (s *stubResource) Read(ctx context.Context) (*Resource, error) {
	return s.res, s.err
}

func TestResourceRegistry_RegisterAndRead(t *testing.T) {
	t.Parallel()

	reg := NewResourceRegistry()
	provider := &stubResource{
		def: protocol.ResourceDefinition{URI: "kv://foo", Name: "foo"},
		res: &Resource{URI: "kv://foo", Text: "bar"},
	}

	if err := reg.RegisterResource("kv://foo", provider); err != nil {
		t.Fatalf("RegisterResource() error = %v", err)
	}

	got, err := reg.GetResource(context.Background(), "kv://foo")
	if err != nil {
		t.Fatalf("GetResource() error = %v", err)
	}
	if got.Text != "bar" {
		t.Errorf("Text = %q, want %q", got.Text, "bar")
	}
}

func TestResourceRegistry_GetMissing(t *testing.T) {
	t.Parallel()

	reg := NewResourceRegistry()
	_, err := reg.GetResource(context.Background(), "kv://nope")
	if !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestResourceRegistry_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := NewResourceRegistry()
	provider := &stubResource{def: protocol.ResourceDefinition{URI: "kv://foo"}}
	if err := reg.RegisterResource("kv://foo", provider); err != nil {
		t.Fatalf("first RegisterResource() error = %v", err)
	}
	if err := reg.RegisterResource("kv://foo", provider); err == nil {
		t.Error("expected error registering a duplicate resource URI")
	}
}
