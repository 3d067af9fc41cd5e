// Package router dispatches decoded protocol.Request values to the method
// handlers named in the external interface: initialize, ping, tools/list,
// tools/call, resources/list, resources/read, and prompts/list. It is the
// one place that knows how every method maps onto the tool and resource
// registries.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	internalerrors "github.com/jamesprial/mcp-oauth-2.1/internal/errors"
	"github.com/jamesprial/mcp-oauth-2.1/internal/mcptool"
	"github.com/jamesprial/mcp-oauth-2.1/internal/protocol"
)

// Router handles a single decoded request and produces a response. A nil
// *protocol.Response with a non-nil error should never happen in practice;
// every branch below always returns a Response, even for malformed input,
// except for notifications which deliberately return (nil, nil).
type Router interface {
	Route(ctx context.Context, req *protocol.Request) (*protocol.Response, error)
}

// ServerInfo names the server as reported in initialize results.
type ServerInfo struct {
	Name    string
	Version string
}

// ToolMetricsRecorder receives a notification for every tools/call
// dispatch. *middleware.Metrics satisfies this by structural typing; the
// router never imports the middleware package.
type ToolMetricsRecorder interface {
	RecordToolInvocation(tool string)
}

type router struct {
	tools     mcptool.ToolRegistry
	resources mcptool.ResourceRegistry
	info      ServerInfo
	metrics   ToolMetricsRecorder
}

// New builds a Router bound to the given registries and server identity.
// metrics may be nil, in which case tool invocations are not recorded.
func New(tools mcptool.ToolRegistry, resources mcptool.ResourceRegistry, info ServerInfo, metrics ToolMetricsRecorder) Router {
	if tools == nil {
		panic("tools registry cannot be nil")
	}
	if resources == nil {
		panic("resources registry cannot be nil")
	}
	return &router{tools: tools, resources: resources, info: info, metrics: metrics}
}

// Route dispatches req to the matching handler. Requests without an ID are
// notifications and never receive a response.
func (rt *router) Route(ctx context.Context, req *protocol.Request) (resp *protocol.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			de := internalerrors.New("router", "Route", internalerrors.ErrInternal, fmt.Errorf("panic: %v", r))
			resp = protocol.ErrorFromDomain(idOf(req), "internal error", de)
		}
	}()

	if req == nil {
		return protocol.Fail(nil, protocol.CodeInvalidRequest, "request cannot be nil", nil), nil
	}
	if verr := req.Validate(); verr != nil {
		return protocol.ErrorFromDomain(req.ID, verr.Error(), verr), nil
	}

	notification := req.IsNotification()

	var out *protocol.Response
	switch req.Method {
	case protocol.MethodInitialize:
		out = rt.handleInitialize(req)
	case protocol.MethodPing:
		out = protocol.Success(req.ID, protocol.PingResult{})
	case protocol.MethodToolsList:
		out = protocol.Success(req.ID, protocol.ToolsListResult{Tools: rt.tools.ListTools()})
	case protocol.MethodToolsCall:
		out = rt.handleToolsCall(ctx, req)
	case protocol.MethodResourcesList:
		out = protocol.Success(req.ID, protocol.ResourcesListResult{Resources: rt.resources.ListResources()})
	case protocol.MethodResourcesRead:
		out = rt.handleResourcesRead(ctx, req)
	case protocol.MethodPromptsList:
		out = protocol.Success(req.ID, protocol.PromptsListResult{Prompts: []protocol.PromptDefinition{}})
	default:
		out = protocol.Fail(req.ID, protocol.CodeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method), nil)
	}

	if notification {
		return nil, nil
	}
	return out, nil
}

func idOf(req *protocol.Request) any {
	if req == nil {
		return nil
	}
	return req.ID
}

func (rt *router) handleInitialize(req *protocol.Request) *protocol.Response {
	var params protocol.InitializeParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return protocol.Fail(req.ID, protocol.CodeInvalidParams, "invalid initialize params", err.Error())
		}
	}

	result := protocol.InitializeResult{
		ProtocolVersion: protocol.MCPVersion,
		ServerInfo: protocol.ServerInfoResponse{
			Name:    rt.info.Name,
			Version: rt.info.Version,
		},
		Capabilities: protocol.Capabilities{
			Tools:     &protocol.ToolsCapability{},
			Resources: &protocol.ResourcesCapability{},
			Prompts:   &protocol.PromptsCapability{},
		},
	}
	return protocol.Success(req.ID, result)
}

func (rt *router) handleToolsCall(ctx context.Context, req *protocol.Request) *protocol.Response {
	if len(req.Params) == 0 {
		return protocol.Fail(req.ID, protocol.CodeInvalidParams, "params required", nil)
	}

	var params protocol.ToolsCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return protocol.Fail(req.ID, protocol.CodeInvalidParams, "invalid tools/call params", err.Error())
	}
	if params.Name == "" {
		return protocol.Fail(req.ID, protocol.CodeInvalidParams, "tool name is required", nil)
	}

	tool, err := rt.tools.GetTool(params.Name)
	if err != nil {
		if errors.Is(err, mcptool.ErrToolNotFound) {
			return protocol.Fail(req.ID, protocol.CodeMethodNotFound, fmt.Sprintf("tool not found: %s", params.Name), nil)
		}
		return protocol.ErrorFromDomain(req.ID, "failed to resolve tool", err)
	}

	if rt.metrics != nil {
		rt.metrics.RecordToolInvocation(params.Name)
	}

	args := params.Arguments
	if args == nil {
		args = map[string]any{}
	}

	output, err := tool.Execute(ctx, args)
	if err != nil {
		return protocol.ErrorFromDomain(req.ID, "tool execution failed", err)
	}

	result := protocol.ToolsCallResult{Content: output.Content, IsError: output.IsError}
	return protocol.Success(req.ID, result)
}

func (rt *router) handleResourcesRead(ctx context.Context, req *protocol.Request) *protocol.Response {
	if len(req.Params) == 0 {
		return protocol.Fail(req.ID, protocol.CodeInvalidParams, "params required", nil)
	}

	var params protocol.ResourcesReadParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return protocol.Fail(req.ID, protocol.CodeInvalidParams, "invalid resources/read params", err.Error())
	}
	if params.URI == "" {
		return protocol.Fail(req.ID, protocol.CodeInvalidParams, "resource uri is required", nil)
	}

	resource, err := rt.resources.GetResource(ctx, params.URI)
	if err != nil {
		if errors.Is(err, mcptool.ErrResourceNotFound) {
			return protocol.Fail(req.ID, protocol.CodeNotFound, fmt.Sprintf("resource not found: %s", params.URI), nil)
		}
		return protocol.ErrorFromDomain(req.ID, "failed to read resource", err)
	}

	result := protocol.ResourcesReadResult{
		Contents: []protocol.ResourceContent{{
			URI:      resource.URI,
			MimeType: resource.MimeType,
			Text:     resource.Text,
		}},
	}
	return protocol.Success(req.ID, result)
}
