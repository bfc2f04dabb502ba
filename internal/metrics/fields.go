package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod   = "method"
	AttrPath     = "path"
	AttrStatus   = "status"
	AttrProvider = "provider"
	AttrSport    = "sport"
	AttrKind     = "kind"
	AttrState    = "state"
	AttrResult   = "result"
	AttrReason   = "reason"
)
