package tools

import (
	"context"
	"fmt"
	"time"

	internalerrors "github.com/jamesprial/mcp-oauth-2.1/internal/errors"
	"github.com/jamesprial/mcp-oauth-2.1/internal/mcptool"
	"github.com/jamesprial/mcp-oauth-2.1/internal/protocol"
	"github.com/jamesprial/mcp-oauth-2.1/internal/supervisor"
)

// CmdExecTool implements cmd.exec: a command allowlisted by program name,
// spawned via internal/supervisor without a shell.
type CmdExecTool struct {
	allowedCommands []string
	sup             supervisor.Supervisor
	timeout         time.Duration
	killGrace       time.Duration
}

func NewCmdExec(allowedCommands []string, sup supervisor.Supervisor, timeout, killGrace time.Duration) *CmdExecTool {
	return &CmdExecTool{allowedCommands: allowedCommands, sup: sup, timeout: timeout, killGrace: killGrace}
}

func (t *CmdExecTool) Definition() protocol.ToolDefinition {
	return protocol.ToolDefinition{
		Name:        "cmd.exec",
		Description: "Runs an allowlisted command with the given argument vector. No shell is invoked.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"command": map[string]any{"type": "string"},
				"args": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required": []any{"command"},
		},
	}
}

func (t *CmdExecTool) Execute(ctx context.Context, args map[string]any) (mcptool.ToolOutput, error) {
	command, ok := args["command"].(string)
	if !ok || command == "" {
		return mcptool.ToolOutput{}, internalerrors.New("tools", "cmd.exec", internalerrors.ErrInvalidInput, fmt.Errorf("command is required"))
	}

	if !commandAllowed(command, t.allowedCommands) {
		return mcptool.ToolOutput{}, internalerrors.New("tools", "cmd.exec", internalerrors.ErrPermissionDenied, fmt.Errorf("command %q is not allowlisted", command)).
			WithContext("command", command)
	}

	argv, err := stringSlice(args["args"])
	if err != nil {
		return mcptool.ToolOutput{}, internalerrors.New("tools", "cmd.exec", internalerrors.ErrInvalidInput, err)
	}

	result, err := t.sup.Run(ctx, supervisor.Request{
		Program:   command,
		Args:      argv,
		Timeout:   t.timeout,
		KillGrace: t.killGrace,
	})
	if err != nil {
		var de *internalerrors.DomainError
		if ok := asDomainError(err, &de); ok && de.Kind == internalerrors.ErrTimeout {
			return mcptool.ToolOutput{}, err
		}
		return mcptool.ToolOutput{}, internalerrors.New("tools", "cmd.exec", internalerrors.ErrExternal, err).
			WithContext("command", command)
	}

	if result.ExitCode != 0 {
		return mcptool.ToolOutput{}, internalerrors.New("tools", "cmd.exec", internalerrors.ErrExternal,
			fmt.Errorf("exit code %d: %s", result.ExitCode, result.Stderr)).
			WithContext("command", command).
			WithContext("exit_code", result.ExitCode)
	}

	return mcptool.Text(string(result.Stdout)), nil
}

func stringSlice(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("args must be an array of strings")
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("args must be an array of strings")
		}
		out = append(out, s)
	}
	return out, nil
}

func asDomainError(err error, target **internalerrors.DomainError) bool {
	de, ok := err.(*internalerrors.DomainError)
	if ok {
		*target = de
	}
	return ok
}
