package graph

import "sort"

// HubTable is a table with high connectivity
type HubTable struct {
	Table        string `json:"table"`
	Degree       int    `json:"degree"`
	ReferencedBy int    `json:"referenced_by"`
	References   int    `json:"references"`
}

// DegreeBucket is one bucket in the degree histogram
type DegreeBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TopologyReport contains topology analysis results
type TopologyReport struct {
	TotalTables        int            `json:"total_tables"`
	TotalRelationships int            `json:"total_relationships"`
	NumComponents      int            `json:"num_components"`
	LargestComponent   int            `json:"largest_component"`
	SmallestComponent  int            `json:"smallest_component"`
	IsolatedCount      int            `json:"isolated_count"`
	IsolatedTables     []string       `json:"isolated_tables"`
	RootTables         []string       `json:"root_tables"`
	DegreeHistogram    []DegreeBucket `json:"degree_histogram"`
	Hubs               []HubTable     `json:"hubs"`
}

// ComputeTopology analyzes graph topology: components, isolated tables,
// degree distribution, hubs
func ComputeTopology(g *Graph, hubThreshold, topN int) *TopologyReport {
	topN = max(topN, 0)
	total := g.NodeCount()
	if total == 0 {
		return &TopologyReport{
			DegreeHistogram: defaultHistogram(),
		}
	}

	components := g.Components()
	largest, smallest := 0, total
	for _, c := range components {
		if len(c) > largest {
			largest = len(c)
		}
		if len(c) < smallest {
			smallest = len(c)
		}
	}

	ids := g.NodeIDs()

	// Isolated: no references in or out
	var isolated []string
	var roots []string
	for _, id := range ids {
		if len(g.adj[id]) == 0 {
			isolated = append(isolated, id)
			continue
		}
		// Roots are referenced but reference nothing themselves
		if len(g.outAdj[id]) == 0 {
			roots = append(roots, id)
		}
	}
	isolatedCount := len(isolated)
	if len(isolated) > topN {
		isolated = isolated[:topN]
	}

	// Degree histogram (log-scale buckets)
	buckets := [7]int{}
	for _, id := range ids {
		buckets[degreeBucket(len(g.adj[id]))]++
	}
	histogram := defaultHistogram()
	for i := range histogram {
		histogram[i].Count = buckets[i]
	}

	var hubs []HubTable
	for _, id := range ids {
		degree := len(g.adj[id])
		if degree > hubThreshold {
			hubs = append(hubs, HubTable{
				Table:        id,
				Degree:       degree,
				ReferencedBy: len(g.inAdj[id]),
				References:   len(g.outAdj[id]),
			})
		}
	}
	sort.SliceStable(hubs, func(i, j int) bool { return hubs[i].Degree > hubs[j].Degree })
	if len(hubs) > topN {
		hubs = hubs[:topN]
	}

	return &TopologyReport{
		TotalTables:        total,
		TotalRelationships: g.EdgeCount(),
		NumComponents:      len(components),
		LargestComponent:   largest,
		SmallestComponent:  smallest,
		IsolatedCount:      isolatedCount,
		IsolatedTables:     isolated,
		RootTables:         roots,
		DegreeHistogram:    histogram,
		Hubs:               hubs,
	}
}

func defaultHistogram() []DegreeBucket {
	return []DegreeBucket{
		{Label: "0"}, {Label: "1"}, {Label: "2-3"},
		{Label: "4-7"}, {Label: "8-15"}, {Label: "16-31"}, {Label: "32+"},
	}
}

func degreeBucket(degree int) int {
	switch {
	case degree == 0:
		return 0
	case degree == 1:
		return 1
	case degree <= 3:
		return 2
	case degree <= 7:
		return 3
	case degree <= 15:
		return 4
	case degree <= 31:
		return 5
	default:
		return 6
	}
}
