// Package mcptool defines the tool and resource contracts the router
// dispatches against, and thread-safe registries for both. A Tool is any
// collaborator that can validate its own arguments and produce ordered
// output content; the registries themselves never execute a tool, they
// only look one up by name.
package mcptool

import (
	"context"
	"errors"

	"github.com/jamesprial/mcp-oauth-2.1/internal/protocol"
)

// Tool is an executable unit invoked by tools/call.
type Tool interface {
	// Definition returns the tool's metadata for tools/list discovery.
	Definition() protocol.ToolDefinition

	// Execute runs the tool with the supplied arguments. Implementations
	// validate args against their own InputSchema before doing any work,
	// and return a *internalerrors.DomainError with an appropriate Kind
	// (ErrInvalidInput, ErrPermissionDenied, ErrTimeout, ErrExternal) on
	// failure so the router can pick the right wire error code.
	Execute(ctx context.Context, args map[string]any) (ToolOutput, error)
}

// ToolOutput is the ordered result of a successful tool execution.
type ToolOutput struct {
	Content []protocol.Content
	IsError bool
}

// Text is a convenience constructor for a single-part text output.
func Text(s string) ToolOutput {
	return ToolOutput{Content: []protocol.Content{{Type: "text", Text: s}}}
}

// JSON is a convenience constructor for a single-part structured output.
func JSON(v any) ToolOutput {
	return ToolOutput{Content: []protocol.Content{{Type: "json", JSON: v}}}
}

// ResourceProvider serves read-only content for a single registered URI.
type ResourceProvider interface {
	Definition() protocol.ResourceDefinition
	Read(ctx context.Context) (*Resource, error)
}

// Resource is the content returned by a ResourceProvider.
type Resource struct {
	URI      string
	MimeType string
	Text     string
}

// Sentinel errors for registry-level conditions, wrapped into a
// *internalerrors.DomainError by the registry before being returned.
var (
	ErrToolAlreadyRegistered     = errors.New("tool already registered")
	ErrResourceAlreadyRegistered = errors.New("resource already registered")
	ErrToolNotFound              = errors.New("tool not found")
	ErrResourceNotFound          = errors.New("resource not found")
)
