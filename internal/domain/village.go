package domain

// Village is the shared singleton aggregate every donation feeds into.
// GlobalTarget/GlobalTargetSuccess form the cooperative goal counter;
// both are nil while no goal is active.
type Village struct {
	ID                  string `json:"id"`
	Wood                int    `json:"wood"`
	Stone               int    `json:"stone"`
	GlobalTarget        *int   `json:"global_target,omitempty"`
	GlobalTargetSuccess *int   `json:"global_target_success,omitempty"`
}

// GoalActive reports whether a cooperative goal is currently defined
func (v *Village) GoalActive() bool {
	return v.GlobalTarget != nil && v.GlobalTargetSuccess != nil
}
