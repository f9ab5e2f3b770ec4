package model

import "time"

// StateOkay is the only player state in which actions may be attempted.
const StateOkay = "okay"

// Bar is a current/maximum resource pair (energy, nerve, happy, life).
type Bar struct {
	Current int `json:"current"`
	Maximum int `json:"maximum"`
}

// Bars holds the four player resource bars.
type Bars struct {
	Energy Bar `json:"energy"`
	Nerve  Bar `json:"nerve"`
	Happy  Bar `json:"happy"`
	Life   Bar `json:"life"`
}

// PlayerStatus is the profile status block. State is "okay" when the player
// is free to act, otherwise e.g. "hospital", "jail", "traveling".
type PlayerStatus struct {
	State       string `json:"state"`
	Description string `json:"description"`
}

// CurrentCourse is the education course in progress, if any.
type CurrentCourse struct {
	Name     string `json:"name"`
	TimeLeft int    `json:"time_left"`
}

// Course is one entry in the available education course listing.
type Course struct {
	Name      string `json:"name"`
	Completed int    `json:"completed"`
}

// EducationState carries the in-progress course plus the course catalogue.
// Courses may be nil until lazily fetched by the policy.
type EducationState struct {
	Current *CurrentCourse
	Courses map[string]Course
}

// Snapshot is the per-cycle materialized view of player state. It is built
// fresh on every poll and replaced wholesale by the next one; nothing merges
// into a stale snapshot.
type Snapshot struct {
	Name          string
	PlayerID      int64
	Status        PlayerStatus
	Bars          *Bars
	Cooldowns     map[string]int
	Notifications map[string]int
	Education     *EducationState
	FetchedAt     time.Time
}

// CanAct reports whether the hard status gate allows any action this cycle.
func (s *Snapshot) CanAct() bool {
	return s.Status.State == StateOkay
}

// Studying reports whether an education course is currently in progress.
func (s *Snapshot) Studying() bool {
	return s.Education != nil && s.Education.Current != nil
}
