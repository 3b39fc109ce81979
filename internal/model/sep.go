// Package model contains domain types for the sepwatch application.
// These types are independent of any external GitHub library.
package model

import (
	"strings"
	"time"
)

// SEPState represents a SEP's lifecycle stage.
type SEPState string

const (
	StateProposal   SEPState = "proposal"
	StateDraft      SEPState = "draft"
	StateInReview   SEPState = "in-review"
	StateAccepted   SEPState = "accepted"
	StateFinal      SEPState = "final"
	StateRejected   SEPState = "rejected"
	StateWithdrawn  SEPState = "withdrawn"
	StateSuperseded SEPState = "superseded"
	StateDormant    SEPState = "dormant"

	// StateUnknown is used when none of the lifecycle labels are present.
	// Unknown items are analyzed but never acted on.
	StateUnknown SEPState = "unknown"
)

// AllSEPStates contains every recognized lifecycle state, in label
// precedence order. This is the single source of truth for state parsing.
var AllSEPStates = []SEPState{
	StateProposal,
	StateDraft,
	StateInReview,
	StateAccepted,
	StateFinal,
	StateRejected,
	StateWithdrawn,
	StateSuperseded,
	StateDormant,
}

// StateFromLabels derives the lifecycle state from an item's labels.
// Matching is case-insensitive. The first state (in precedence order)
// with a matching label wins; items with no lifecycle label at all are
// StateUnknown.
func StateFromLabels(labels []string) SEPState {
	normalized := make(map[string]bool, len(labels))
	for _, l := range labels {
		normalized[strings.ToLower(l)] = true
	}
	for _, s := range AllSEPStates {
		if normalized[string(s)] {
			return s
		}
	}
	return StateUnknown
}

// SEPItem represents one tracked proposal as fetched from the tracker.
// It is immutable for the duration of an analysis pass.
type SEPItem struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     SEPState  `json:"state"`
	Author    string    `json:"author"`
	Assignees []string  `json:"assignees,omitempty"`
	Labels    []string  `json:"labels,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	HTMLURL   string    `json:"htmlUrl,omitempty"`
	IsPR      bool      `json:"isPr,omitempty"`
}

// Comment is a single comment on a SEP, a read-only input to analysis.
type Comment struct {
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// Event is a single timeline event attributed to an actor.
type Event struct {
	Actor     string    `json:"actor"`
	CreatedAt time.Time `json:"createdAt"`
}
