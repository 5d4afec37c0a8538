package tools

import "context"

// Definition describes a tool to the language model.
type Definition struct {
	Name        string
	Description string
	Parameters  Parameters
}

// Parameters is the JSON-schema shaped argument description of a tool.
type Parameters struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Enum        []string `json:"enum,omitempty"`
}

// Tool is a named unit of work the model may ask the agent to run.
// Execute is total: upstream failures and bad arguments are encoded in the
// result under an "error" key with the tool's normal fields set to null,
// never surfaced as an error across the boundary.
type Tool interface {
	Name() string
	Description() string
	Parameters() Parameters
	Execute(ctx context.Context, args map[string]any) map[string]any
}

// Registry maps tool names to tools. It is populated once at startup and
// read-only afterwards, so it needs no locking.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(tool Tool) {
	if _, exists := r.tools[tool.Name()]; !exists {
		r.order = append(r.order, tool.Name())
	}
	r.tools[tool.Name()] = tool
}

func (r *Registry) Get(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// Definitions returns the catalog in registration order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		tool := r.tools[name]
		defs = append(defs, Definition{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	return defs
}
