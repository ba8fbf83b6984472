package engine

import (
	"net/url"
	"strings"

	"github.com/dm/esadvisor/internal/advisor"
	"github.com/dm/esadvisor/internal/model"
)

// BuildInput converts a raw poll into the advisor's input. Optional sections
// that were not fetched stay nil so the advisors that need them are skipped.
func BuildInput(snap *model.Snapshot, endpoint string) advisor.Input {
	if snap == nil {
		return advisor.Input{Endpoint: endpoint}
	}
	return advisor.Input{
		Nodes:        BuildNodeSnapshots(snap),
		Shards:       BuildShardAnalysis(snap.Shards),
		Allocation:   BuildAllocation(snap.Allocation, snap.Health),
		Health:       BuildClusterHealth(snap.Health),
		PendingTasks: BuildPendingTasks(snap.PendingTasks),
		Tasks:        BuildTasks(snap.Tasks),
		Indices:      BuildIndexMetrics(snap.IndexStats),
		Recoveries:   BuildRecoveries(snap.Recovery),
		Endpoint:     endpoint,
	}
}

// Analyze builds every snapshot from snap and runs the advisors.
func Analyze(snap *model.Snapshot, endpoint string) advisor.Report {
	return advisor.Generate(BuildInput(snap, endpoint))
}

// CommandEndpoint returns the cluster address used in suggested commands:
// rawURL without credentials, query or trailing slash. Unparseable input
// falls back to advisor.DefaultEndpoint.
func CommandEndpoint(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return advisor.DefaultEndpoint
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return strings.TrimSuffix(u.String(), "/")
}
