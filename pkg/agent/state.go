package agent

// Lifecycle state of a worker record.
type WorkerState int

const (
	// The worker process is live and may accept work.
	WorkerStateAlive WorkerState = iota

	// The worker suspended execution waiting on a data dependency.
	WorkerStateBlocked

	// The worker process is gone. Terminal.
	WorkerStateDead
)

func (s WorkerState) String() string {
	switch s {
	case WorkerStateAlive:
		return "alive"
	case WorkerStateBlocked:
		return "blocked"
	case WorkerStateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Returns true if no further transitions are legal.
func (s WorkerState) IsTerminal() bool {
	return s == WorkerStateDead
}
