package endpoint

type State int32

const (
	StateIdle State = iota
	StateStarting
	StateRunning
	StateShuttingDown
	StateStopped
)

var stateName = map[State]string{
	StateIdle:         "idle",
	StateStarting:     "starting",
	StateRunning:      "running",
	StateShuttingDown: "shutting_down",
	StateStopped:      "stopped",
}

func (s State) String() string {
	return stateName[s]
}
