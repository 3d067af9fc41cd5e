package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	internalerrors "github.com/jamesprial/mcp-oauth-2.1/internal/errors"
	"github.com/jamesprial/mcp-oauth-2.1/internal/mcptool"
	"github.com/jamesprial/mcp-oauth-2.1/internal/protocol"
)

// ReadFileTool implements fs.read_file: a path read guarded by an allowlist
// of path prefixes captured at construction time (§4.5).
type ReadFileTool struct {
	allowedReadPaths []string
	timeout          time.Duration
}

func NewReadFile(allowedReadPaths []string, timeout time.Duration) *ReadFileTool {
	return &ReadFileTool{allowedReadPaths: allowedReadPaths, timeout: timeout}
}

func (t *ReadFileTool) Definition() protocol.ToolDefinition {
	return protocol.ToolDefinition{
		Name:        "fs.read_file",
		Description: "Reads a file from an allowlisted path.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{"type": "string"},
			},
			"required": []any{"path"},
		},
	}
}

func (t *ReadFileTool) Execute(ctx context.Context, args map[string]any) (mcptool.ToolOutput, error) {
	path, ok := args["path"].(string)
	if !ok || path == "" {
		return mcptool.ToolOutput{}, internalerrors.New("tools", "fs.read_file", internalerrors.ErrInvalidInput, fmt.Errorf("path is required"))
	}

	canon, err := checkAllowed(path, t.allowedReadPaths, "fs.read_file")
	if err != nil {
		return mcptool.ToolOutput{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	data, err := readFileCtx(ctx, canon)
	if err != nil {
		return mcptool.ToolOutput{}, internalerrors.New("tools", "fs.read_file", internalerrors.ErrExternal, err).
			WithContext("path", canon)
	}
	return mcptool.Text(string(data)), nil
}

// WriteFileTool implements fs.write_file: same allowlist rule as read, but
// over allowed_write_paths. The parent directory must already exist.
type WriteFileTool struct {
	allowedWritePaths []string
	timeout           time.Duration
}

func NewWriteFile(allowedWritePaths []string, timeout time.Duration) *WriteFileTool {
	return &WriteFileTool{allowedWritePaths: allowedWritePaths, timeout: timeout}
}

func (t *WriteFileTool) Definition() protocol.ToolDefinition {
	return protocol.ToolDefinition{
		Name:        "fs.write_file",
		Description: "Writes a file under an allowlisted path. The parent directory must already exist.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path":    map[string]any{"type": "string"},
				"content": map[string]any{"type": "string"},
			},
			"required": []any{"path", "content"},
		},
	}
}

func (t *WriteFileTool) Execute(ctx context.Context, args map[string]any) (mcptool.ToolOutput, error) {
	path, ok := args["path"].(string)
	if !ok || path == "" {
		return mcptool.ToolOutput{}, internalerrors.New("tools", "fs.write_file", internalerrors.ErrInvalidInput, fmt.Errorf("path is required"))
	}
	content, ok := args["content"].(string)
	if !ok {
		return mcptool.ToolOutput{}, internalerrors.New("tools", "fs.write_file", internalerrors.ErrInvalidInput, fmt.Errorf("content must be a string"))
	}

	canon, err := checkAllowed(path, t.allowedWritePaths, "fs.write_file")
	if err != nil {
		return mcptool.ToolOutput{}, err
	}

	parent := filepath.Dir(canon)
	if info, statErr := os.Stat(parent); statErr != nil || !info.IsDir() {
		return mcptool.ToolOutput{}, internalerrors.New("tools", "fs.write_file", internalerrors.ErrInvalidInput, fmt.Errorf("parent directory %q does not exist", parent)).
			WithContext("path", canon)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	if err := writeFileCtx(ctx, canon, []byte(content)); err != nil {
		return mcptool.ToolOutput{}, internalerrors.New("tools", "fs.write_file", internalerrors.ErrExternal, err).
			WithContext("path", canon)
	}
	return mcptool.Text(fmt.Sprintf("wrote %d bytes to %s", len(content), canon)), nil
}

func readFileCtx(ctx context.Context, path string) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := os.ReadFile(path)
		done <- result{data, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.data, r.err
	}
}

func writeFileCtx(ctx context.Context, path string, content []byte) error {
	done := make(chan error, 1)
	go func() {
		done <- os.WriteFile(path, content, 0o644)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
