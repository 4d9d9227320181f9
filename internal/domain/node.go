package domain

import "time"

// NodeKind distinguishes the two harvestable node flavors
type NodeKind string

const (
	NodeTree  NodeKind = "tree"
	NodeStone NodeKind = "stone"
)

// NodeState is the lifecycle tag for a resource node. It replaces the
// isReserved + inProgress flag pair: a node is assignable only while
// NodeGrowing, and ProgressFinishAt is set iff the state is NodeWorking.
type NodeState string

const (
	NodeGrowing  NodeState = "growing"
	NodeReserved NodeState = "reserved"
	NodeWorking  NodeState = "working"
)

const (
	// NodeMaxSize caps growth
	NodeMaxSize = 100
	// NodeHarvestableSize is the minimum size a node must reach before
	// it can be reserved for work
	NodeHarvestableSize = 50
	// NodeMaxTier is the last tier before the cycle wraps back to 1
	NodeMaxTier = 3
)

// Work durations. Holding the kind's tool does not gate work, it only
// makes it faster.
const (
	WorkDurationTooled = 10 * time.Second
	WorkDurationBare   = 30 * time.Second
)

// ResourceNode is a depletable tree or stone on the village map
type ResourceNode struct {
	ID               string     `json:"id"`
	Kind             NodeKind   `json:"kind"`
	X                float64    `json:"x"`
	Y                float64    `json:"y"`
	Size             int        `json:"size"`  // growth counter, 0..100
	Yield            int        `json:"yield"` // resources paid out on completion
	State            NodeState  `json:"state"`
	ProgressFinishAt *time.Time `json:"progress_finish_at,omitempty"`
	Tier             int        `json:"tier"` // 1..3, cycles after depletion
}

// Harvestable reports whether the node can currently be reserved
func (n *ResourceNode) Harvestable() bool {
	return n.State == NodeGrowing && n.Size >= NodeHarvestableSize
}

// NextTier returns the tier a node advances to when it is reset (1→2→3→1)
func NextTier(tier int) int {
	if tier >= NodeMaxTier {
		return 1
	}
	return tier + 1
}

// KindProfile holds the per-kind behavior of the shared node lifecycle.
// ResetYieldMax seeds the post-reset yield: 0 means the yield restarts
// empty and regrows, a positive value means completion re-rolls the next
// yield uniformly in [1, ResetYieldMax].
type KindProfile struct {
	Yield         ItemType
	Tool          ItemType
	WorkState     PlayerState
	CommandLabel  string
	ResetYieldMax int
}

var kindProfiles = map[NodeKind]KindProfile{
	NodeTree: {
		Yield:        ItemWood,
		Tool:         ItemAxe,
		WorkState:    StateChopping,
		CommandLabel: "!chop",
	},
	NodeStone: {
		Yield:         ItemStone,
		Tool:          ItemPickaxe,
		WorkState:     StateMining,
		CommandLabel:  "!mine",
		ResetYieldMax: 4,
	},
}

// ProfileFor resolves the kind-specific behavior table for a node kind
func ProfileFor(kind NodeKind) (KindProfile, bool) {
	p, ok := kindProfiles[kind]
	return p, ok
}

// KindForSkill maps a skill track back to the node kind that trains it
func KindForSkill(skill SkillKind) NodeKind {
	if skill == SkillMining {
		return NodeStone
	}
	return NodeTree
}
