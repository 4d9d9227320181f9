package domain

import "time"

// PlayerState is the single activity tag for a player. It replaces the
// isBusy flag + business-type pair: a player is busy iff the state is not
// StateIdle, and a target may only be set while the state is StateRunning.
type PlayerState string

const (
	StateIdle     PlayerState = "idle"
	StateRunning  PlayerState = "running"
	StateChopping PlayerState = "chopping"
	StateMining   PlayerState = "mining"
)

// Off-screen anchor. Players are created here and evicted back to it.
const (
	OffscreenTargetID = "0"
	OffscreenX        = -100
	OffscreenY        = 600
)

// Skill holds one skill track (experience plus the next level threshold).
type Skill struct {
	Level       int `json:"level"`
	Experience  int `json:"experience"`
	NextLevelAt int `json:"next_level_at"`
}

// SkillKind identifies a skill track
type SkillKind string

const (
	SkillWood   SkillKind = "wood"
	SkillMining SkillKind = "mining"
)

// Player represents a villager controlled by a chat viewer
type Player struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	X            float64     `json:"x"`
	Y            float64     `json:"y"`
	TargetID     string      `json:"target_id,omitempty"` // empty when no target
	TargetX      float64     `json:"target_x,omitempty"`
	TargetY      float64     `json:"target_y,omitempty"`
	State        PlayerState `json:"state"`
	LastActionAt time.Time   `json:"last_action_at"`
	Coins        int         `json:"coins"`
	Reputation   int         `json:"reputation"`
	WoodSkill    Skill       `json:"wood_skill"`
	MiningSkill  Skill       `json:"mining_skill"`
	ColorIndex   int         `json:"color_index"`
}

// Busy reports whether the player is occupied (moving or working)
func (p *Player) Busy() bool {
	return p.State != StateIdle
}

// SkillFor returns the requested skill track
func (p *Player) SkillFor(kind SkillKind) Skill {
	if kind == SkillMining {
		return p.MiningSkill
	}
	return p.WoodSkill
}
