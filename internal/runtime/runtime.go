// Package runtime bundles the process-wide state shared by every
// concurrent handler: the parsed configuration, the tool and resource
// registries, and handles to collaborator subsystems. It is constructed
// once at startup and passed by reference; tools hold a non-owning handle
// back to it rather than to each other, so shutdown has no cycles to break.
package runtime

import (
	"github.com/jamesprial/mcp-oauth-2.1/internal/config"
	"github.com/jamesprial/mcp-oauth-2.1/internal/mcptool"
)

// State is the shared, process-wide runtime handle. After construction,
// only the registries' internal maps and collaborator-owned state (e.g.
// the store) mutate; State itself is never reassigned.
type State struct {
	Config    *config.Config
	Tools     mcptool.ToolRegistry
	Resources mcptool.ResourceRegistry
}

// New builds a State from a loaded configuration and empty registries.
// Callers register tools and resources on the returned State before
// starting any transport.
func New(cfg *config.Config) *State {
	return &State{
		Config:    cfg,
		Tools:     mcptool.NewToolRegistry(),
		Resources: mcptool.NewResourceRegistry(),
	}
}
