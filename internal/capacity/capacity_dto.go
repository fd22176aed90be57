package capacity

// DayStrength is the derived availability for one calendar day. Never
// persisted; recomputed (or served from a short-lived cache) on demand.
type DayStrength struct {
	Date      string `json:"date"`
	Available int    `json:"available"`
	Total     int    `json:"total"`
	OnLeave   int    `json:"on_leave"`
	Label     string `json:"label"`

	// HighDemand flags days where two or more members are already on
	// approved leave, so submitters can check with the team first.
	HighDemand bool `json:"high_demand"`

	Holiday *string `json:"holiday,omitempty"`
}
