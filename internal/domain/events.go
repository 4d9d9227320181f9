package domain

// Event type constants shared by publishers and subscribers
const (
	EventTypeNodeCompleted  = "node.completed"
	EventTypeVillageDonated = "village.donated"
	EventTypeResourceSold   = "resource.sold"
	EventTypeToolBought     = "tool.bought"
	EventTypeToolBroken     = "tool.broken"
	EventTypeSkillLeveledUp = "skill.leveled_up"
	EventTypePlayerEvicted  = "player.evicted"
)

// NodeCompletedPayload is emitted when the completion sweep resolves a node
type NodeCompletedPayload struct {
	NodeID    string   `json:"node_id"`
	Kind      NodeKind `json:"kind"`
	PlayerID  string   `json:"player_id,omitempty"` // empty when the owner could not be resolved
	Yield     int      `json:"yield"`
	Timestamp int64    `json:"timestamp"`
}

// VillageDonatedPayload is emitted when a player donates a resource stack
type VillageDonatedPayload struct {
	PlayerID       string   `json:"player_id"`
	Resource       ItemType `json:"resource"`
	Amount         int      `json:"amount"`
	TargetAdvanced int      `json:"target_advanced"`
	Timestamp      int64    `json:"timestamp"`
}

// ResourceSoldPayload is emitted when a player sells a resource stack
type ResourceSoldPayload struct {
	PlayerID    string   `json:"player_id"`
	Resource    ItemType `json:"resource"`
	Amount      int      `json:"amount"`
	CoinsGained int      `json:"coins_gained"`
	Timestamp   int64    `json:"timestamp"`
}

// ToolBoughtPayload is emitted when a player buys a tool from the dealer
type ToolBoughtPayload struct {
	PlayerID  string   `json:"player_id"`
	Tool      ItemType `json:"tool"`
	Price     int      `json:"price"`
	Timestamp int64    `json:"timestamp"`
}

// ToolBrokenPayload is emitted when wear destroys a tool
type ToolBrokenPayload struct {
	PlayerID  string   `json:"player_id"`
	Tool      ItemType `json:"tool"`
	Timestamp int64    `json:"timestamp"`
}

// SkillLeveledUpPayload is emitted when a skill crosses its threshold
type SkillLeveledUpPayload struct {
	PlayerID  string    `json:"player_id"`
	Skill     SkillKind `json:"skill"`
	NewLevel  int       `json:"new_level"`
	Timestamp int64     `json:"timestamp"`
}

// PlayerEvictedPayload is emitted when the idle sweep sends a player off-screen
type PlayerEvictedPayload struct {
	PlayerID  string `json:"player_id"`
	Timestamp int64  `json:"timestamp"`
}
