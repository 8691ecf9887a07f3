package render

import (
	"context"

	"masterclass/schemagraph/internal/db"
)

// writeDB stores the diagram in a new SQLite artifact at path and returns
// the render ID.
func writeDB(ctx context.Context, d *diagram, path string) (id string, err error) {
	store, err := db.OpenDB(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := store.Migrate(); err != nil {
		return "", err
	}

	diagram := db.Diagram{Title: d.Title}
	for _, n := range d.Nodes {
		diagram.Nodes = append(diagram.Nodes, db.Node{ID: n.ID, X: n.LX, Y: n.LY})
	}
	for _, a := range d.Arrows {
		diagram.Edges = append(diagram.Edges, db.Edge{SourceID: a.Source, TargetID: a.Target})
	}

	r, err := store.WriteDiagram(ctx, diagram)
	if err != nil {
		return "", err
	}
	return r.ID, nil
}
