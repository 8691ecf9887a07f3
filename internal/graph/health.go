package graph

import (
	"errors"
	"math"

	"masterclass/schemagraph/internal/errs"
)

// HealthBreakdown shows the sub-scores of the health formula
type HealthBreakdown struct {
	Connectivity float64 `json:"connectivity"`
	Components   float64 `json:"components"`
	Fragility    float64 `json:"fragility"`
}

// AnalysisReport is the full analysis result
type AnalysisReport struct {
	HealthScore     float64         `json:"health_score"`
	HealthBreakdown HealthBreakdown `json:"health_breakdown"`
	Topology        *TopologyReport `json:"topology"`
	Bridges         *BridgeReport   `json:"bridges"`
	Levels          [][]string      `json:"levels,omitempty"`
	Cycle           []string        `json:"cycle,omitempty"`
}

// AnalyzerConfig holds analysis parameters
type AnalyzerConfig struct {
	HubThreshold int
	TopN         int
}

// DefaultConfig returns sensible defaults for schemas of a few dozen tables
func DefaultConfig() *AnalyzerConfig {
	return &AnalyzerConfig{
		HubThreshold: 3,
		TopN:         10,
	}
}

// Analyze runs all analyses and computes a composite health score.
// A reference cycle is reported in the result, not as an error.
func Analyze(g *Graph, config *AnalyzerConfig) *AnalysisReport {
	if config == nil {
		config = DefaultConfig()
	}
	topology := ComputeTopology(g, config.HubThreshold, config.TopN)
	bridges := ComputeBridges(g)

	report := &AnalysisReport{
		Topology: topology,
		Bridges:  bridges,
	}

	levels, err := g.Levels()
	var schemaErr *errs.SchemaError
	switch {
	case err == nil:
		report.Levels = levels
	case errors.As(err, &schemaErr):
		report.Cycle = schemaErr.Cycle
	}

	total := float64(topology.TotalTables)
	var connectivity, components, fragility float64
	if total > 0 {
		connectivity = clamp(1.0-math.Min(float64(topology.IsolatedCount)/total, 0.2)*5.0, 0, 1)
		fragility = clamp(1.0-math.Min(float64(bridges.APCount)/total, 0.25)*4.0, 0, 1)
	}
	if topology.NumComponents > 0 {
		components = clamp(1.0/float64(topology.NumComponents), 0, 1)
	}

	report.HealthScore = 0.40*connectivity + 0.35*components + 0.25*fragility
	report.HealthBreakdown = HealthBreakdown{
		Connectivity: connectivity,
		Components:   components,
		Fragility:    fragility,
	}
	return report
}

func clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
