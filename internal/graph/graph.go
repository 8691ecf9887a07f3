// Package graph builds the directed table-reference graph and analyzes its
// structure.
package graph

import (
	"sort"

	"masterclass/schemagraph/internal/errs"
	"masterclass/schemagraph/internal/schema"
)

// Edge is a foreign-key reference: Source (child table) references Target (parent table)
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph holds the tables with precomputed adjacency lists.
// It is immutable once built.
type Graph struct {
	order   []string       // insertion order
	index   map[string]int // node -> position in order
	edges   []Edge
	edgeSet map[Edge]bool
	adj     map[string][]string // undirected
	outAdj  map[string][]string // child -> referenced tables
	inAdj   map[string][]string // parent -> referencing tables
}

// Build creates a Graph from table names and references. Repeated names and
// exact repeated edges collapse. Every edge endpoint must be declared in
// nodes, otherwise a *errs.SchemaError is returned.
func Build(nodes []string, edges []Edge) (*Graph, error) {
	g := &Graph{
		index:   make(map[string]int, len(nodes)),
		edgeSet: make(map[Edge]bool, len(edges)),
		adj:     make(map[string][]string, len(nodes)),
		outAdj:  make(map[string][]string, len(nodes)),
		inAdj:   make(map[string][]string, len(nodes)),
	}

	for _, n := range nodes {
		if n == "" {
			return nil, &errs.SchemaError{Kind: errs.EmptyNode}
		}
		if _, ok := g.index[n]; ok {
			continue
		}
		g.index[n] = len(g.order)
		g.order = append(g.order, n)
		g.adj[n] = nil // ensure entry exists
		g.outAdj[n] = nil
		g.inAdj[n] = nil
	}

	for _, e := range edges {
		for _, end := range []string{e.Source, e.Target} {
			if _, ok := g.index[end]; !ok {
				return nil, &errs.SchemaError{
					Kind:   errs.UnknownNode,
					Source: e.Source,
					Target: e.Target,
					Node:   end,
				}
			}
		}
		if g.edgeSet[e] {
			continue
		}
		g.edgeSet[e] = true
		g.edges = append(g.edges, e)

		g.outAdj[e.Source] = append(g.outAdj[e.Source], e.Target)
		g.inAdj[e.Target] = append(g.inAdj[e.Target], e.Source)
		if e.Source == e.Target {
			g.adj[e.Source] = append(g.adj[e.Source], e.Source)
			continue
		}
		g.adj[e.Source] = append(g.adj[e.Source], e.Target)
		g.adj[e.Target] = append(g.adj[e.Target], e.Source)
	}

	return g, nil
}

// FromCatalog builds the graph of a literal schema catalog.
func FromCatalog(c schema.Catalog) (*Graph, error) {
	edges := make([]Edge, len(c.Relationships))
	for i, r := range c.Relationships {
		edges[i] = Edge{Source: r.From, Target: r.To}
	}
	return Build(c.Tables, edges)
}

// Nodes returns the tables in declaration order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.order...)
}

// Edges returns the references in declaration order.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// NodeCount returns the number of tables.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of distinct references.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// HasNode reports whether id is a table of the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// HasEdge reports whether source references target.
func (g *Graph) HasEdge(source, target string) bool {
	return g.edgeSet[Edge{Source: source, Target: target}]
}

// Index returns the declaration position of id, or -1.
func (g *Graph) Index(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	return -1
}

// Parents returns the tables referenced by id.
func (g *Graph) Parents(id string) []string { return append([]string(nil), g.outAdj[id]...) }

// Children returns the tables that reference id.
func (g *Graph) Children(id string) []string { return append([]string(nil), g.inAdj[id]...) }

// Neighbors returns the tables adjacent to id in either direction.
func (g *Graph) Neighbors(id string) []string { return append([]string(nil), g.adj[id]...) }

// NodeIDs returns a sorted list of all tables (for deterministic output)
func (g *Graph) NodeIDs() []string {
	ids := g.Nodes()
	sort.Strings(ids)
	return ids
}

// Subgraph returns the graph restricted to the given tables and the
// references between them. Unknown tables are ignored.
func (g *Graph) Subgraph(ids []string) *Graph {
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		if g.HasNode(id) {
			keep[id] = true
		}
	}

	var nodes []string
	for _, id := range g.order {
		if keep[id] {
			nodes = append(nodes, id)
		}
	}
	var edges []Edge
	for _, e := range g.edges {
		if keep[e.Source] && keep[e.Target] {
			edges = append(edges, e)
		}
	}

	sub, _ := Build(nodes, edges) // endpoints filtered above
	return sub
}
