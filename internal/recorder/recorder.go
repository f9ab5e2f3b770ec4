package recorder

// CycleRecord captures the state one poll cycle saw and how many decisions
// came out of it.
type CycleRecord struct {
	PlayerState string
	Energy      int
	EnergyMax   int
	Nerve       int
	NerveMax    int
	Happy       int
	HappyMax    int
	Life        int
	LifeMax     int
	Decisions   int
}

// ActionRecord captures one executed decision and its outcome.
type ActionRecord struct {
	Category  string
	TargetID  string
	Rationale string
	Success   bool
	Error     string
}

// Recorder persists bot history for offline inspection.
type Recorder interface {
	RecordCycle(rec *CycleRecord) error
	RecordAction(rec *ActionRecord) error
	Close() error
}
