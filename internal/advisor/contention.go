package advisor

import (
	"fmt"
	"math"

	"github.com/dm/esadvisor/internal/model"
)

const (
	contentionHeapThreshold = 75.0
	contentionNodeFraction  = 0.5
)

// CheckContention emits a single cluster scaling recommendation when more
// than half of the nodes are above contentionHeapThreshold heap. It returns
// the names of the pressured nodes whenever the rule fires.
func CheckContention(nodes []model.NodeSnapshot) ([]model.Recommendation, []string) {
	var pressured []string
	for _, n := range nodes {
		if n.HeapUsedPercent > contentionHeapThreshold {
			pressured = append(pressured, n.NodeName)
		}
	}
	if float64(len(pressured)) <= float64(len(nodes))*contentionNodeFraction {
		return []model.Recommendation{}, nil
	}

	return []model.Recommendation{{
		Severity:    model.SeverityCritical,
		Category:    model.CategoryClusterScaling,
		Title:       "Cluster-Wide Memory Pressure",
		Description: fmt.Sprintf("%d/%d nodes show high memory usage. This indicates cluster-wide memory pressure.", len(pressured), len(nodes)),
		Impact:      model.ImpactHigh,
		Action:      "Scale cluster horizontally (add more nodes) or vertically (increase memory per node)",
		Priority:    1,
		Specifics: model.ScalingPlan{
			AffectedNodes: pressured,
			ScalingOptions: []string{
				fmt.Sprintf("Add %d more data nodes", int(math.Ceil(float64(len(pressured))*contentionNodeFraction))),
				"Increase memory by 50% on existing nodes",
				"Implement data tiering (hot/warm/cold)",
			},
		},
	}}, pressured
}
