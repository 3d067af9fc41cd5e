package tools

import (
	"context"
	"fmt"

	internalerrors "github.com/jamesprial/mcp-oauth-2.1/internal/errors"
	"github.com/jamesprial/mcp-oauth-2.1/internal/mcptool"
	"github.com/jamesprial/mcp-oauth-2.1/internal/protocol"
	"github.com/jamesprial/mcp-oauth-2.1/internal/store"
)

// MemoryStoreTool implements memory.store: an upsert into the kv_store
// table shared with memory.recall.
type MemoryStoreTool struct {
	store store.Store
}

func NewMemoryStore(s store.Store) *MemoryStoreTool { return &MemoryStoreTool{store: s} }

func (t *MemoryStoreTool) Definition() protocol.ToolDefinition {
	return protocol.ToolDefinition{
		Name:        "memory.store",
		Description: "Stores a key-value pair in the persistent key-value store.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"key":   map[string]any{"type": "string"},
				"value": map[string]any{"type": "string"},
			},
			"required": []any{"key", "value"},
		},
	}
}

func (t *MemoryStoreTool) Execute(ctx context.Context, args map[string]any) (mcptool.ToolOutput, error) {
	key, ok := args["key"].(string)
	if !ok || key == "" {
		return mcptool.ToolOutput{}, internalerrors.New("tools", "memory.store", internalerrors.ErrInvalidInput, fmt.Errorf("key is required"))
	}
	value, ok := args["value"].(string)
	if !ok {
		return mcptool.ToolOutput{}, internalerrors.New("tools", "memory.store", internalerrors.ErrInvalidInput, fmt.Errorf("value must be a string"))
	}

	if err := t.store.Put(ctx, key, value); err != nil {
		return mcptool.ToolOutput{}, err
	}
	return mcptool.Text("stored"), nil
}

// MemoryRecallTool implements memory.recall: a lookup against the same
// kv_store table.
type MemoryRecallTool struct {
	store store.Store
}

func NewMemoryRecall(s store.Store) *MemoryRecallTool { return &MemoryRecallTool{store: s} }

func (t *MemoryRecallTool) Definition() protocol.ToolDefinition {
	return protocol.ToolDefinition{
		Name:        "memory.recall",
		Description: "Recalls a previously stored value by key.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"key": map[string]any{"type": "string"},
			},
			"required": []any{"key"},
		},
	}
}

func (t *MemoryRecallTool) Execute(ctx context.Context, args map[string]any) (mcptool.ToolOutput, error) {
	key, ok := args["key"].(string)
	if !ok || key == "" {
		return mcptool.ToolOutput{}, internalerrors.New("tools", "memory.recall", internalerrors.ErrInvalidInput, fmt.Errorf("key is required"))
	}

	value, err := t.store.Get(ctx, key)
	if err != nil {
		return mcptool.ToolOutput{}, err
	}
	return mcptool.Text(value), nil
}
