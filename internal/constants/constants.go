// Package constants provides a centralized location for configuration
// values and magic strings used throughout the sepwatch application.
package constants

// Bot comment handling
const (
	// BotCommentMarker tags every comment sepwatch posts. Comments carrying
	// the marker never count as activity when computing staleness, and the
	// most recent marker-bearing comment drives the ping cooldown.
	BotCommentMarker = "<!-- sep-automation -->"
)

// Labels applied to tracked proposals
const (
	// SEPLabel marks an issue or PR as a tracked proposal.
	SEPLabel = "SEP"

	// DormantLabel is applied when a proposal is closed for prolonged
	// inactivity.
	DormantLabel = "dormant"
)

// Search queries used to discover open SEPs. Both are run and the results
// deduplicated, since older SEPs predate consistent labeling.
const (
	SEPLabelQuery = "label:SEP is:open"
	SEPTitleQuery = "SEP in:title is:open"
)

// Default governance thresholds, in days.
const (
	// DefaultProposalPingDays is how long a proposal may sit without
	// responsible-party activity before the author is pinged.
	DefaultProposalPingDays = 90

	// DefaultProposalDormantDays is how long a proposal may sit before it
	// is marked dormant and closed. Must exceed DefaultProposalPingDays
	// for the two-stage policy to be meaningful.
	DefaultProposalDormantDays = 180

	// DefaultDraftPingDays is how long a draft may sit before its sponsor
	// is pinged.
	DefaultDraftPingDays = 90

	// DefaultAcceptedPingDays is how long an accepted SEP may wait for its
	// reference implementation before the author is pinged.
	DefaultAcceptedPingDays = 30

	// DefaultPingCooldownDays is the minimum interval between automated
	// pings on the same item.
	DefaultPingCooldownDays = 14

	// DefaultMaintainerInactivityDays is the staleness threshold used when
	// auditing a specific maintainer's participation.
	DefaultMaintainerInactivityDays = 60
)

// Default target repository and authorization group.
const (
	DefaultTargetOwner     = "modelcontextprotocol"
	DefaultTargetRepo      = "modelcontextprotocol"
	DefaultMaintainersTeam = "core-maintainers"
)
