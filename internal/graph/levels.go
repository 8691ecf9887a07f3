package graph

import (
	"sort"

	"masterclass/schemagraph/internal/errs"
)

// FindCycle returns a reference cycle as a table path (first table repeated
// at the end), or nil if the graph is acyclic. Self-references are not cycles
// for this purpose: a table can always be created before its own rows point
// at each other.
func (g *Graph) FindCycle() []string {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(g.order))
	parent := make(map[string]string)

	var cycle []string
	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = grey
		for _, next := range g.outAdj[id] {
			if next == id {
				continue
			}
			switch color[next] {
			case white:
				parent[next] = id
				if dfs(next) {
					return true
				}
			case grey:
				cycle = []string{next}
				for cur := id; cur != next; cur = parent[cur] {
					cycle = append([]string{cur}, cycle...)
				}
				cycle = append([]string{next}, cycle...)
				return true
			}
		}
		color[id] = black
		return false
	}

	for _, id := range g.order {
		if color[id] == white && dfs(id) {
			return cycle
		}
	}
	return nil
}

// Levels groups tables so that every table's referenced tables sit in an
// earlier level. Level 0 holds tables that reference nothing. This is a valid
// creation order for the schema. A reference cycle yields a
// *errs.SchemaError of kind Cycle.
func (g *Graph) Levels() ([][]string, error) {
	if cycle := g.FindCycle(); cycle != nil {
		return nil, &errs.SchemaError{Kind: errs.Cycle, Cycle: cycle}
	}

	assigned := make(map[string]int, len(g.order))
	var levelOf func(id string) int
	levelOf = func(id string) int {
		if l, ok := assigned[id]; ok {
			return l
		}
		level := 0
		for _, p := range g.outAdj[id] {
			if p == id {
				continue
			}
			if l := levelOf(p) + 1; l > level {
				level = l
			}
		}
		assigned[id] = level
		return level
	}

	maxLevel := 0
	for _, id := range g.order {
		if l := levelOf(id); l > maxLevel {
			maxLevel = l
		}
	}
	if len(g.order) == 0 {
		return nil, nil
	}

	levels := make([][]string, maxLevel+1)
	for id, l := range assigned {
		levels[l] = append(levels[l], id)
	}
	for i := range levels {
		sort.Strings(levels[i])
	}
	return levels, nil
}
