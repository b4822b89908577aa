package lr

import (
	"math/rand"

	"github.com/dreamware/paramserver/internal/access"
	"github.com/dreamware/paramserver/internal/table"
)

// ServerTable is the sharded table a parameter-server node holds for this
// model.
type ServerTable = table.Table[Param]

// NewServerTable builds a ServerTable with the given shard count.
func NewServerTable(numShards int) *ServerTable {
	return table.New[Param](numShards)
}

// NewServerAgents builds the pull and push access agents a server node
// registers its transport handlers against: InitParam/Project for pulls,
// ApplyAdaGrad at learningRate for pushes. rng supplies the randomness
// used to break symmetry between a feature's first-seen weight and every
// other feature's; tests typically pass a seeded *rand.Rand for
// determinism.
func NewServerAgents(tb *ServerTable, learningRate float64, rng *rand.Rand) (*access.PullAccessAgent[Param, float64], *access.PushAccessAgent[Param, float64]) {
	pullAgent := access.NewPullAccessAgent(tb, func() Param { return InitParam(rng.Float64) }, Project)
	pushAgent := access.NewPushAccessAgent(tb, ApplyAdaGrad(learningRate))
	return pullAgent, pushAgent
}
