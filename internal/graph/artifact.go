package graph

import (
	"fmt"

	"masterclass/schemagraph/internal/db"
)

// FromDB rebuilds the graph of a stored render. An empty renderID selects
// the most recent render in the artifact.
func FromDB(d *db.DB, renderID string) (*Graph, error) {
	if renderID == "" {
		latest, err := d.LatestRender()
		if err != nil {
			return nil, fmt.Errorf("finding latest render: %w", err)
		}
		if latest == nil {
			return nil, fmt.Errorf("no renders stored in %s", d.Path)
		}
		renderID = latest.ID
	}

	nodes, err := d.AllNodes(renderID)
	if err != nil {
		return nil, fmt.Errorf("loading nodes: %w", err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("render %s has no tables", renderID)
	}
	edges, err := d.AllEdges(renderID)
	if err != nil {
		return nil, fmt.Errorf("loading edges: %w", err)
	}

	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	refs := make([]Edge, len(edges))
	for i, e := range edges {
		refs[i] = Edge{Source: e.SourceID, Target: e.TargetID}
	}
	return Build(ids, refs)
}
