package mcptool

import (
	"context"
	"fmt"
	"sync"

	internalerrors "github.com/jamesprial/mcp-oauth-2.1/internal/errors"
	"github.com/jamesprial/mcp-oauth-2.1/internal/protocol"
)

// ToolRegistry holds the tools available for tools/call. Registration
// happens once at startup; lookups and listing are safe for concurrent use
// by many in-flight requests.
type ToolRegistry interface {
	RegisterTool(name string, tool Tool) error
	GetTool(name string) (Tool, error)
	ListTools() []protocol.ToolDefinition
}

type toolRegistry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewToolRegistry creates an empty thread-safe tool registry.
func NewToolRegistry() ToolRegistry {
	return &toolRegistry{tools: make(map[string]Tool)}
}

func (r *toolRegistry) RegisterTool(name string, tool Tool) error {
	if name == "" {
		return internalerrors.New("mcptool", "RegisterTool", internalerrors.ErrBadRequest, fmt.Errorf("tool name cannot be empty"))
	}
	if tool == nil {
		return internalerrors.New("mcptool", "RegisterTool", internalerrors.ErrBadRequest, fmt.Errorf("tool cannot be nil"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return internalerrors.New("mcptool", "RegisterTool", internalerrors.ErrBadRequest, ErrToolAlreadyRegistered).
			WithContext("tool_name", name)
	}

	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

func (r *toolRegistry) GetTool(name string) (Tool, error) {
	if name == "" {
		return nil, internalerrors.New("mcptool", "GetTool", internalerrors.ErrBadRequest, fmt.Errorf("tool name cannot be empty"))
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	if !exists {
		return nil, internalerrors.New("mcptool", "GetTool", internalerrors.ErrMethodNotFound, ErrToolNotFound).
			WithContext("tool_name", name)
	}

	return tool, nil
}

// ListTools returns tool definitions in registration order, so that
// consecutive calls are byte-identical in the absence of registry
// mutation and clients can diff successive listings.
func (r *toolRegistry) ListTools() []protocol.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]protocol.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// ResourceRegistry holds resource providers available for resources/read.
// Like ToolRegistry, registration is a startup-time concern; reads happen
// concurrently against an otherwise-immutable map.
type ResourceRegistry interface {
	RegisterResource(uri string, provider ResourceProvider) error
	GetResource(ctx context.Context, uri string) (*Resource, error)
	ListResources() []protocol.ResourceDefinition
}

type resourceRegistry struct {
	mu        sync.RWMutex
	providers map[string]ResourceProvider
	order     []string
}

// NewResourceRegistry creates an empty thread-safe resource registry.
func NewResourceRegistry() ResourceRegistry {
	return &resourceRegistry{providers: make(map[string]ResourceProvider)}
}

func (r *resourceRegistry) RegisterResource(uri string, provider ResourceProvider) error {
	if uri == "" {
		return internalerrors.New("mcptool", "RegisterResource", internalerrors.ErrBadRequest, fmt.Errorf("resource uri cannot be empty"))
	}
	if provider == nil {
		return internalerrors.New("mcptool", "RegisterResource", internalerrors.ErrBadRequest, fmt.Errorf("resource provider cannot be nil"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[uri]; exists {
		return internalerrors.New("mcptool", "RegisterResource", internalerrors.ErrBadRequest, ErrResourceAlreadyRegistered).
			WithContext("resource_uri", uri)
	}

	r.providers[uri] = provider
	r.order = append(r.order, uri)
	return nil
}

func (r *resourceRegistry) GetResource(ctx context.Context, uri string) (*Resource, error) {
	if uri == "" {
		return nil, internalerrors.New("mcptool", "GetResource", internalerrors.ErrBadRequest, fmt.Errorf("resource uri cannot be empty"))
	}

	r.mu.RLock()
	provider, exists := r.providers[uri]
	r.mu.RUnlock()

	if !exists {
		return nil, internalerrors.New("mcptool", "GetResource", internalerrors.ErrNotFound, ErrResourceNotFound).
			WithContext("resource_uri", uri)
	}

	resource, err := provider.Read(ctx)
	if err != nil {
		return nil, internalerrors.New("mcptool", "GetResource", internalerrors.ErrInternal, fmt.Errorf("failed to read resource: %w", err)).
			WithContext("resource_uri", uri)
	}

	return resource, nil
}

// ListResources returns resource definitions in registration order, for
// the same stable-listing guarantee as ListTools.
func (r *resourceRegistry) ListResources() []protocol.ResourceDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]protocol.ResourceDefinition, 0, len(r.order))
	for _, uri := range r.order {
		defs = append(defs, r.providers[uri].Definition())
	}
	return defs
}
