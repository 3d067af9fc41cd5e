package plugintool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	internalerrors "github.com/jamesprial/mcp-oauth-2.1/internal/errors"
	"github.com/jamesprial/mcp-oauth-2.1/internal/mcptool"
	"github.com/jamesprial/mcp-oauth-2.1/internal/protocol"
	"github.com/jamesprial/mcp-oauth-2.1/internal/supervisor"
)

// state names the plugin call state machine: Validated → Spawning →
// Running → (Completed | TimedOut | SpawnFailed). There are no retries at
// this layer; state is logged at each transition for diagnostics, not
// branched on, since Execute already returns as soon as a terminal state
// is reached.
type state string

const (
	stateValidated   state = "validated"
	stateSpawning    state = "spawning"
	stateRunning     state = "running"
	stateCompleted   state = "completed"
	stateTimedOut    state = "timed_out"
	stateSpawnFailed state = "spawn_failed"
)

// Tool adapts a Descriptor into an mcptool.Tool, using sup to spawn the
// command and validator (optional) to check arguments against the
// descriptor's input schema.
type Tool struct {
	desc      Descriptor
	sup       supervisor.Supervisor
	killGrace time.Duration
	validator SchemaValidator
}

// SchemaValidator validates a decoded arguments object against a JSON
// Schema. internal/mcptool wires github.com/santhosh-tekuri/jsonschema/v6
// as the concrete implementation; it is optional here so a descriptor
// without an input_schema never needs one.
type SchemaValidator interface {
	Validate(schema map[string]any, args map[string]any) error
}

// New builds a plugin Tool. validator may be nil when the descriptor
// carries no input schema or validation is not desired.
func New(desc Descriptor, sup supervisor.Supervisor, killGrace time.Duration, validator SchemaValidator) (*Tool, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return &Tool{desc: desc, sup: sup, killGrace: killGrace, validator: validator}, nil
}

func (t *Tool) Definition() protocol.ToolDefinition {
	schema := t.desc.InputSchema
	if schema == nil {
		schema = map[string]any{"type": "object"}
	}
	return protocol.ToolDefinition{
		Name:        t.desc.Name,
		Description: t.desc.Description,
		InputSchema: schema,
	}
}

func (t *Tool) logState(s state) {
	slog.Debug("plugin tool state transition", "plugin", t.desc.Name, "state", string(s))
}

func (t *Tool) Execute(ctx context.Context, args map[string]any) (mcptool.ToolOutput, error) {
	t.logState(stateValidated)
	if t.desc.InputSchema != nil && t.validator != nil {
		if err := t.validator.Validate(t.desc.InputSchema, args); err != nil {
			return mcptool.ToolOutput{}, internalerrors.New("plugintool", "Execute", internalerrors.ErrInvalidInput, err).
				WithContext("plugin", t.desc.Name)
		}
	}

	req, err := t.buildRequest(args)
	if err != nil {
		return mcptool.ToolOutput{}, err
	}

	t.logState(stateSpawning)
	t.logState(stateRunning)
	result, err := t.sup.Run(ctx, req)
	if err != nil {
		var de *internalerrors.DomainError
		if asDomainError(err, &de) {
			switch {
			case de.Kind == internalerrors.ErrTimeout:
				t.logState(stateTimedOut)
				return mcptool.ToolOutput{}, internalerrors.New("plugintool", "Execute", internalerrors.ErrTimeout, err).
					WithContext("plugin", t.desc.Name)
			default:
				t.logState(stateSpawnFailed)
				return mcptool.ToolOutput{}, internalerrors.New("plugintool", "Execute", internalerrors.ErrExternal, err).
					WithContext("plugin", t.desc.Name)
			}
		}
		return mcptool.ToolOutput{}, internalerrors.New("plugintool", "Execute", internalerrors.ErrExternal, err)
	}

	if result.ExitCode != 0 {
		stderr := string(result.Stderr)
		if len(stderr) > 2048 {
			stderr = stderr[:2048]
		}
		return mcptool.ToolOutput{}, internalerrors.New("plugintool", "Execute", internalerrors.ErrExternal,
			fmt.Errorf("exit code %d: %s", result.ExitCode, stderr)).
			WithContext("plugin", t.desc.Name).
			WithContext("exit_code", result.ExitCode)
	}

	t.logState(stateCompleted)
	return t.buildOutput(result.Stdout)
}

func (t *Tool) buildRequest(args map[string]any) (supervisor.Request, error) {
	env := os.Environ()
	for k, v := range t.desc.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	req := supervisor.Request{
		Program:   t.desc.Command,
		Args:      t.desc.ArgsTemplate,
		Dir:       t.desc.WorkingDir,
		Env:       env,
		Timeout:   time.Duration(t.desc.TimeoutSecs) * time.Second,
		KillGrace: t.killGrace,
	}

	switch t.desc.effectiveInputMode() {
	case InputModeArgs:
		req.Args = substituteArgs(t.desc.ArgsTemplate, args)
	case InputModeStdin:
		payload, err := json.Marshal(args)
		if err != nil {
			return supervisor.Request{}, internalerrors.New("plugintool", "Execute", internalerrors.ErrInvalidInput, err)
		}
		req.Stdin = payload
	case InputModeEnv:
		extra, err := envVars(args)
		if err != nil {
			return supervisor.Request{}, internalerrors.New("plugintool", "Execute", internalerrors.ErrInvalidInput, err)
		}
		req.Env = append(req.Env, extra...)
	}

	return req, nil
}

func (t *Tool) buildOutput(stdout []byte) (mcptool.ToolOutput, error) {
	switch t.desc.effectiveOutputMode() {
	case OutputModeJSON:
		var v any
		if err := json.Unmarshal(stdout, &v); err != nil {
			return mcptool.ToolOutput{}, internalerrors.New("plugintool", "Execute", internalerrors.ErrExternal, fmt.Errorf("output_mode=json: invalid JSON on stdout: %w", err)).
				WithContext("plugin", t.desc.Name)
		}
		if s, ok := v.(string); ok {
			return mcptool.Text(s), nil
		}
		return mcptool.JSON(v), nil
	default:
		return mcptool.Text(strings.TrimRight(string(stdout), "\n")), nil
	}
}

func asDomainError(err error, target **internalerrors.DomainError) bool {
	de, ok := err.(*internalerrors.DomainError)
	if ok {
		*target = de
	}
	return ok
}
