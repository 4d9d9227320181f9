package domain

import "time"

// Command is a write-once audit record of a player action. The completion
// sweep reads the most recent command targeting a node to resolve which
// player is owed its yield.
type Command struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"player_id"`
	Command   string    `json:"command"`
	TargetID  string    `json:"target_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
