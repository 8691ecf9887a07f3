package graph

// ArticulationTable is a table whose removal disconnects the graph
type ArticulationTable struct {
	Table     string `json:"table"`
	Neighbors int    `json:"neighbors"`
}

// BridgeEdge is a reference whose removal disconnects the graph.
// Source and Target follow the declared direction of the reference.
type BridgeEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// BridgeReport contains bridge analysis results
type BridgeReport struct {
	ArticulationTables []ArticulationTable `json:"articulation_tables"`
	BridgeEdges        []BridgeEdge        `json:"bridge_edges"`
	APCount            int                 `json:"ap_count"`
	BridgeCount        int                 `json:"bridge_count"`
}

// ComputeBridges finds articulation tables and bridge references
func ComputeBridges(g *Graph) *BridgeReport {
	n := g.NodeCount()
	if n == 0 {
		return &BridgeReport{}
	}

	// Deduplicated undirected adjacency by declaration index.
	// a->b and b->a collapse into one undirected edge.
	adjIdx := make([][]int, n)
	type edgePair struct{ u, v int }
	seen := make(map[edgePair]bool)
	for _, e := range g.edges {
		u, v := g.index[e.Source], g.index[e.Target]
		if u == v {
			continue
		}
		key := edgePair{u, v}
		if u > v {
			key = edgePair{v, u}
		}
		if !seen[key] {
			seen[key] = true
			adjIdx[u] = append(adjIdx[u], v)
			adjIdx[v] = append(adjIdx[v], u)
		}
	}

	disc := make([]int, n)
	low := make([]int, n)
	visited := make([]bool, n)
	isAP := make([]bool, n)
	var bridgePairs [][2]int
	counter := 1

	const noParent = -1

	// Iterative Tarjan for each connected component
	type frame struct {
		node, parent, ni int
	}

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}

		visited[start] = true
		disc[start] = counter
		low[start] = counter
		counter++

		stack := []frame{{start, noParent, 0}}
		rootChildren := 0

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			node := top.node

			if top.ni < len(adjIdx[node]) {
				child := adjIdx[node][top.ni]
				top.ni++

				if child == top.parent {
					continue
				}

				if visited[child] {
					// Back edge
					if disc[child] < low[node] {
						low[node] = disc[child]
					}
					continue
				}

				// Tree edge
				visited[child] = true
				disc[child] = counter
				low[child] = counter
				counter++
				if node == start {
					rootChildren++
				}
				stack = append(stack, frame{child, node, 0})
				continue
			}

			// Done with this node, pop and propagate
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				break
			}
			pn := stack[len(stack)-1].node
			if low[node] < low[pn] {
				low[pn] = low[node]
			}
			if low[node] > disc[pn] {
				bridgePairs = append(bridgePairs, [2]int{pn, node})
			}
			if pn != start && low[node] >= disc[pn] {
				isAP[pn] = true
			}
		}

		// Root is AP if 2+ tree children
		if rootChildren >= 2 {
			isAP[start] = true
		}
	}

	report := &BridgeReport{}
	for i := 0; i < n; i++ {
		if isAP[i] {
			report.ArticulationTables = append(report.ArticulationTables, ArticulationTable{
				Table:     g.order[i],
				Neighbors: len(adjIdx[i]),
			})
		}
	}
	for _, pair := range bridgePairs {
		a, b := g.order[pair[0]], g.order[pair[1]]
		if !g.HasEdge(a, b) {
			a, b = b, a
		}
		report.BridgeEdges = append(report.BridgeEdges, BridgeEdge{Source: a, Target: b})
	}
	report.APCount = len(report.ArticulationTables)
	report.BridgeCount = len(report.BridgeEdges)
	return report
}
