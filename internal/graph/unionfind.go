package graph

// UnionFind implements union-find over dense indices with path compression
// and union by rank
type UnionFind struct {
	parent []int
	rank   []int
	size   []int
}

// NewUnionFind creates a UnionFind of n singleton components
func NewUnionFind(n int) *UnionFind {
	uf := &UnionFind{
		parent: make([]int, n),
		rank:   make([]int, n),
		size:   make([]int, n),
	}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

// Find returns the root of the component containing i, with path compression
func (uf *UnionFind) Find(i int) int {
	root := i
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for uf.parent[i] != root {
		next := uf.parent[i]
		uf.parent[i] = root
		i = next
	}
	return root
}

// Union merges the components containing a and b. Returns true if they were separate.
func (uf *UnionFind) Union(a, b int) bool {
	rootA, rootB := uf.Find(a), uf.Find(b)
	if rootA == rootB {
		return false
	}
	if uf.rank[rootA] < uf.rank[rootB] {
		rootA, rootB = rootB, rootA
	}
	uf.parent[rootB] = rootA
	uf.size[rootA] += uf.size[rootB]
	if uf.rank[rootA] == uf.rank[rootB] {
		uf.rank[rootA]++
	}
	return true
}

// Size returns the size of the component containing i
func (uf *UnionFind) Size(i int) int {
	return uf.size[uf.Find(i)]
}

// Components returns all components as index groups. Groups are ordered by
// their smallest member and members are ascending.
func (uf *UnionFind) Components() [][]int {
	slot := make(map[int]int)
	var result [][]int
	for i := range uf.parent {
		root := uf.Find(i)
		s, ok := slot[root]
		if !ok {
			s = len(result)
			slot[root] = s
			result = append(result, nil)
		}
		result[s] = append(result[s], i)
	}
	return result
}

// Components returns the weakly connected components of g as table groups,
// each in declaration order.
func (g *Graph) Components() [][]string {
	uf := NewUnionFind(len(g.order))
	for _, e := range g.edges {
		uf.Union(g.index[e.Source], g.index[e.Target])
	}
	groups := uf.Components()
	out := make([][]string, len(groups))
	for i, members := range groups {
		out[i] = make([]string, len(members))
		for j, idx := range members {
			out[i][j] = g.order[idx]
		}
	}
	return out
}
