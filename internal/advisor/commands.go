package advisor

import (
	"fmt"
	"math"

	jsoniter "github.com/json-iterator/go"

	"github.com/dm/esadvisor/internal/format"
	"github.com/dm/esadvisor/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type rerouteMove struct {
	Index    string `json:"index"`
	Shard    int    `json:"shard"`
	FromNode string `json:"from_node"`
	ToNode   string `json:"to_node"`
}

type rerouteCommand struct {
	Move rerouteMove `json:"move"`
}

type rerouteBody struct {
	Commands []rerouteCommand `json:"commands"`
}

type indexSettings struct {
	NumberOfShards   int `json:"number_of_shards"`
	NumberOfReplicas int `json:"number_of_replicas"`
}

type createIndexBody struct {
	Settings indexSettings `json:"settings"`
}

// rerouteCommands renders one example _cluster/reroute call per move. The
// commands are advisory text and are never sent to the cluster.
func rerouteCommands(endpoint string, moves []model.ShardMove) []string {
	cmds := make([]string, 0, len(moves))
	for _, m := range moves {
		body, _ := json.Marshal(rerouteBody{Commands: []rerouteCommand{{Move: rerouteMove{
			Index:    m.Index,
			Shard:    m.Shard,
			FromNode: m.SourceNodeID,
			ToNode:   m.TargetNodeID,
		}}}})
		cmds = append(cmds, fmt.Sprintf(`curl -X POST "%s/_cluster/reroute" -H 'Content-Type: application/json' -d'%s'`, endpoint, body))
	}
	return cmds
}

func reindexCommand(endpoint, index string, primaries int) string {
	body, _ := json.Marshal(createIndexBody{Settings: indexSettings{NumberOfShards: primaries, NumberOfReplicas: 1}})
	return fmt.Sprintf(`curl -X PUT "%s/%s_reindexed" -H 'Content-Type: application/json' -d'%s'`, endpoint, index, body)
}

func heapCommand(suggestedHeap int64) string {
	gb := int64(math.Floor(format.BytesToGiB(suggestedHeap)))
	return fmt.Sprintf(`docker run -e "ES_JAVA_OPTS=-Xms%dg -Xmx%dg"`, gb, gb)
}
