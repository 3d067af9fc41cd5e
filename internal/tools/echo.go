// Package tools implements the fixed, demonstration tool set: echo,
// the filesystem and command tools guarded by a path/command allowlist
// (§4.5), and the memory.store/memory.recall pair backed by internal/store.
package tools

import (
	"context"
	"fmt"

	internalerrors "github.com/jamesprial/mcp-oauth-2.1/internal/errors"
	"github.com/jamesprial/mcp-oauth-2.1/internal/mcptool"
	"github.com/jamesprial/mcp-oauth-2.1/internal/protocol"
)

// EchoTool returns its "text" argument unchanged, as a single text part.
// It exists to give operators and tests a zero-dependency smoke-test tool.
type EchoTool struct{}

func NewEcho() *EchoTool { return &EchoTool{} }

func (t *EchoTool) Definition() protocol.ToolDefinition {
	return protocol.ToolDefinition{
		Name:        "echo",
		Description: "Returns the text argument unchanged.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
			},
			"required": []any{"text"},
		},
	}
}

func (t *EchoTool) Execute(ctx context.Context, args map[string]any) (mcptool.ToolOutput, error) {
	text, ok := args["text"].(string)
	if !ok {
		return mcptool.ToolOutput{}, internalerrors.New("tools", "echo", internalerrors.ErrInvalidInput, fmt.Errorf("text must be a string"))
	}
	return mcptool.Text(text), nil
}
