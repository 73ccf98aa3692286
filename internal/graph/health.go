package graph

import "math"

// HealthBreakdown shows the sub-scores of the health formula
type HealthBreakdown struct {
	Connectivity float64 `json:"connectivity" yaml:"connectivity"`
	Components   float64 `json:"components" yaml:"components"`
	Reach        float64 `json:"reach" yaml:"reach"`
	Fragility    float64 `json:"fragility" yaml:"fragility"`
}

// AnalysisReport is the full analysis result
type AnalysisReport struct {
	HealthScore     float64         `json:"health_score" yaml:"health_score"`
	HealthBreakdown HealthBreakdown `json:"health_breakdown" yaml:"health_breakdown"`
	Topology        *TopologyReport `json:"topology" yaml:"topology"`
	Reach           *ReachReport    `json:"reach" yaml:"reach"`
	Bridges         *BridgeReport   `json:"bridges" yaml:"bridges"`
}

// AnalyzerConfig holds analysis parameters
type AnalyzerConfig struct {
	HubThreshold int
	TopN         int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *AnalyzerConfig {
	return &AnalyzerConfig{
		HubThreshold: 10,
		TopN:         50,
	}
}

// Analyze runs all analyses and computes a composite health score
func Analyze(snap *GraphSnapshot, config *AnalyzerConfig) *AnalysisReport {
	topology := ComputeTopology(snap, config.HubThreshold, config.TopN)
	reach := ComputeReach(snap, config.TopN)
	bridges := ComputeBridges(snap)

	total := float64(topology.TotalNodes)

	var connectivity, components, reachScore, fragility float64

	if total > 0 {
		connectivity = clamp(1.0-math.Min(float64(topology.OrphanCount)/total, 0.2)*5.0, 0, 1)
	}
	// Every seed starts its own component, so only extra components count.
	if topology.NumComponents > 0 {
		extra := topology.NumComponents - max(topology.NumRoots, 1) + 1
		components = clamp(1.0/float64(max(extra, 1)), 0, 1)
	}
	if total > 0 {
		reachScore = clamp(1.0-math.Min(float64(reach.DetachedCount)/total, 0.1)*10.0, 0, 1)
	}
	if total > 0 {
		fragility = clamp(1.0-math.Min(float64(bridges.APCount)/total, 0.05)*20.0, 0, 1)
	}

	healthScore := 0.30*connectivity + 0.25*components + 0.25*reachScore + 0.20*fragility

	return &AnalysisReport{
		HealthScore: healthScore,
		HealthBreakdown: HealthBreakdown{
			Connectivity: connectivity,
			Components:   components,
			Reach:        reachScore,
			Fragility:    fragility,
		},
		Topology: topology,
		Reach:    reach,
		Bridges:  bridges,
	}
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
