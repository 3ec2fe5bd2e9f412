// Package cvtools holds the local functions the model may request during a
// chat: CV analysis, CV-JD comparison, JD requirement extraction, and
// improvement suggestions. They are deterministic, side-effect free, and
// never call the model themselves.
package cvtools

import (
	"encoding/json"
	"fmt"

	"github.com/lamnguyen/cvstudio/internal/llm"
)

// Handler parses raw JSON arguments and executes one tool.
type Handler func(args json.RawMessage) (string, error)

// Registry is a closed dispatch table mapping tool names to handlers.
// Unknown names are rejected explicitly.
type Registry struct {
	defs     []llm.ToolDef
	handlers map[string]Handler
}

// NewRegistry builds the registry with the four CV tools.
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[string]Handler)}
	r.register(analyzeCVDef, handleAnalyzeCV)
	r.register(compareCVJDDef, handleCompareCVJD)
	r.register(extractJDDef, handleExtractJDRequirements)
	r.register(suggestImprovementsDef, handleSuggestImprovements)
	return r
}

func (r *Registry) register(def llm.ToolDef, h Handler) {
	r.defs = append(r.defs, def)
	r.handlers[def.Name] = h
}

// Defs returns the tool schemas to advertise to the model.
func (r *Registry) Defs() []llm.ToolDef {
	return r.defs
}

// Call dispatches a tool call by name. A handler fault is returned as an
// error, never propagated as a panic, so one failing tool cannot abort an
// orchestration round.
func (r *Registry) Call(name string, args json.RawMessage) (result string, err error) {
	h, ok := r.handlers[name]
	if !ok {
		return "", fmt.Errorf("unknown function: %s", name)
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("function %s panicked: %v", name, rec)
		}
	}()
	return h(args)
}
