package plugintool

import (
	"time"

	"github.com/jamesprial/mcp-oauth-2.1/internal/supervisor"
)

// BuildTools turns a set of loaded descriptors into registerable
// mcptool.Tool values, sharing one Supervisor across all of them.
func BuildTools(descriptors []Descriptor, sup supervisor.Supervisor, killGrace time.Duration, validator SchemaValidator) ([]*Tool, error) {
	tools := make([]*Tool, 0, len(descriptors))
	for _, d := range descriptors {
		tool, err := New(d, sup, killGrace, validator)
		if err != nil {
			return nil, err
		}
		tools = append(tools, tool)
	}
	return tools, nil
}
