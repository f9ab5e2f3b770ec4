package model

// Category is an independent axis of action selection.
type Category string

const (
	CategoryCrime     Category = "crime"
	CategoryGym       Category = "gym"
	CategoryItem      Category = "item"
	CategoryEducation Category = "education"
)

// Decision is the policy's output for one category: the action to attempt
// and a human-readable reason. At most one per category per cycle; consumed
// by the executor and discarded.
type Decision struct {
	Category  Category
	TargetID  string
	Rationale string
}

// GymStats are the four trainable stats; gym decisions target one of these.
var GymStats = []string{"strength", "defense", "speed", "dexterity"}
