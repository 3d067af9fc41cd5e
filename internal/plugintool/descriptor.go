// Package plugintool turns a declarative plugin descriptor into an
// executable mcptool.Tool built on internal/supervisor. Nothing here is
// code the operator writes; everything comes from configuration (see
// internal/config's PluginDescriptorPath) loaded once at startup.
package plugintool

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	internalerrors "github.com/jamesprial/mcp-oauth-2.1/internal/errors"
)

// InputMode controls how tools/call arguments reach the child process.
type InputMode string

const (
	InputModeArgs  InputMode = "args"
	InputModeStdin InputMode = "stdin"
	InputModeEnv   InputMode = "env"
)

// OutputMode controls how the child's stdout becomes tool output.
type OutputMode string

const (
	OutputModeText OutputMode = "text"
	OutputModeJSON OutputMode = "json"
)

// Descriptor is the declarative definition of one plugin tool, loaded from
// a JSON file at startup.
type Descriptor struct {
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Command      string            `json:"command"`
	ArgsTemplate []string          `json:"args_template,omitempty"`
	WorkingDir   string            `json:"working_dir,omitempty"`
	Env          map[string]string `json:"env,omitempty"`
	TimeoutSecs  int               `json:"timeout_secs"`
	InputSchema  map[string]any    `json:"input_schema,omitempty"`
	InputMode    InputMode         `json:"input_mode,omitempty"`
	OutputMode   OutputMode        `json:"output_mode,omitempty"`
}

// Validate checks the descriptor's own invariants, independent of any
// particular tools/call invocation.
func (d *Descriptor) Validate() error {
	if d.Name == "" {
		return internalerrors.New("plugintool", "Validate", internalerrors.ErrInvalidInput, fmt.Errorf("name is required"))
	}
	if d.Command == "" {
		return internalerrors.New("plugintool", "Validate", internalerrors.ErrInvalidInput, fmt.Errorf("command is required")).
			WithContext("plugin", d.Name)
	}
	if d.TimeoutSecs <= 0 {
		return internalerrors.New("plugintool", "Validate", internalerrors.ErrInvalidInput, fmt.Errorf("timeout_secs must be positive")).
			WithContext("plugin", d.Name)
	}
	switch d.InputMode {
	case "", InputModeArgs, InputModeStdin, InputModeEnv:
	default:
		return internalerrors.New("plugintool", "Validate", internalerrors.ErrInvalidInput, fmt.Errorf("unknown input_mode %q", d.InputMode)).
			WithContext("plugin", d.Name)
	}
	switch d.OutputMode {
	case "", OutputModeText, OutputModeJSON:
	default:
		return internalerrors.New("plugintool", "Validate", internalerrors.ErrInvalidInput, fmt.Errorf("unknown output_mode %q", d.OutputMode)).
			WithContext("plugin", d.Name)
	}
	return nil
}

// effectiveInputMode returns the configured mode or the "args" default.
func (d *Descriptor) effectiveInputMode() InputMode {
	if d.InputMode == "" {
		return InputModeArgs
	}
	return d.InputMode
}

// effectiveOutputMode returns the configured mode or the "text" default.
func (d *Descriptor) effectiveOutputMode() OutputMode {
	if d.OutputMode == "" {
		return OutputModeText
	}
	return d.OutputMode
}

// LoadDescriptors reads one JSON file, or every *.json file in a directory,
// into a slice of Descriptor. An empty path returns no descriptors and no
// error — plugin tools are optional.
func LoadDescriptors(path string) ([]Descriptor, error) {
	if path == "" {
		return nil, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, internalerrors.New("plugintool", "LoadDescriptors", internalerrors.ErrExternal, err).
			WithContext("path", path)
	}

	var files []string
	if info.IsDir() {
		matches, err := filepath.Glob(filepath.Join(path, "*.json"))
		if err != nil {
			return nil, internalerrors.New("plugintool", "LoadDescriptors", internalerrors.ErrExternal, err)
		}
		files = matches
	} else {
		files = []string{path}
	}

	var descriptors []Descriptor
	seen := make(map[string]bool)
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, internalerrors.New("plugintool", "LoadDescriptors", internalerrors.ErrExternal, err).
				WithContext("file", file)
		}

		var fileDescriptors []Descriptor
		if err := json.Unmarshal(data, &fileDescriptors); err != nil {
			// Fall back to a single descriptor per file.
			var single Descriptor
			if singleErr := json.Unmarshal(data, &single); singleErr != nil {
				return nil, internalerrors.New("plugintool", "LoadDescriptors", internalerrors.ErrInvalidInput, err).
					WithContext("file", file)
			}
			fileDescriptors = []Descriptor{single}
		}

		for _, d := range fileDescriptors {
			if err := d.Validate(); err != nil {
				return nil, err
			}
			if seen[d.Name] {
				return nil, internalerrors.New("plugintool", "LoadDescriptors", internalerrors.ErrInvalidInput, fmt.Errorf("duplicate plugin name %q", d.Name))
			}
			seen[d.Name] = true
			descriptors = append(descriptors, d)
		}
	}

	return descriptors, nil
}
