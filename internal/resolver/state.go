package resolver

// State is one step of the source chain. Every query walks the states in order and
// stops at the first that produces data.
type State int

const (
	StateCacheCheck State = iota
	StatePrimaryFetch
	StateSecondaryFetch
	StateSnapshotRead
	StateFallbackDataset
	StateDone
)

var stateNames = [...]string{
	StateCacheCheck:      "CACHE_CHECK",
	StatePrimaryFetch:    "PRIMARY_FETCH",
	StateSecondaryFetch:  "SECONDARY_FETCH",
	StateSnapshotRead:    "SNAPSHOT_READ",
	StateFallbackDataset: "FALLBACK_DATASET",
	StateDone:            "DONE",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "UNKNOWN"
	}
	return stateNames[s]
}
