package model

// PingTarget identifies who a staleness ping should address.
type PingTarget string

const (
	TargetAuthor  PingTarget = "author"
	TargetSponsor PingTarget = "sponsor"

	// TargetNone is used when no ping fires, including dormant closures
	// (nobody is pinged on an item that is being closed).
	TargetNone PingTarget = ""
)

// StaleAnalysis is the decision produced for one SEP. The caller is
// responsible for executing it against the tracker; the analyzer itself
// never mutates anything.
//
// ShouldMarkDormant and ShouldClose are always both true or both false:
// dormancy always accompanies closure. ShouldPing is true only when both
// are false.
type StaleAnalysis struct {
	Item              SEPItem    `json:"item"`
	DaysSinceActivity int        `json:"daysSinceActivity"`
	ShouldPing        bool       `json:"shouldPing"`
	ShouldMarkDormant bool       `json:"shouldMarkDormant"`
	ShouldClose       bool       `json:"shouldClose"`
	PingTarget        PingTarget `json:"pingTarget,omitempty"`
	Reason            string     `json:"reason,omitempty"`
}

// Actionable reports whether the decision requires any tracker mutation.
func (a StaleAnalysis) Actionable() bool {
	return a.ShouldPing || a.ShouldClose
}

// UserActivity reports a specific participant's recency on a SEP,
// independent of who the responsible party is.
type UserActivity struct {
	Login             string `json:"login"`
	DaysSinceActivity int    `json:"daysSinceActivity"`
	ShouldPing        bool   `json:"shouldPing"`
}
