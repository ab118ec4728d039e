package tools

import "github.com/octofence/reactgate/internal/orchestrator"

// Specs adapts the Registry's catalog into the orchestrator's provider-
// agnostic ToolSpec shape, satisfying orchestrator.ToolCatalog.
func (r *Registry) Specs() []orchestrator.ToolSpec {
	out := make([]orchestrator.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		d := r.byName[name]
		out = append(out, orchestrator.ToolSpec{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Parameters,
		})
	}
	return out
}
