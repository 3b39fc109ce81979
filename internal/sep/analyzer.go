// Package sep implements staleness analysis for tracked proposals.
//
// The analyzer is pure computation: it consumes a SEP snapshot plus its
// pre-fetched comment and event history and produces a decision. It
// performs no I/O and never mutates the tracker, so two calls with
// identical inputs always yield identical decisions.
package sep

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spiffcs/sepwatch/config"
	"github.com/spiffcs/sepwatch/internal/constants"
	"github.com/spiffcs/sepwatch/internal/model"
)

// ErrNoResponsible is returned when a SEP has neither assignees nor an
// author, so no identity's activity can drive the staleness clock.
var ErrNoResponsible = errors.New("sep has no assignees and no author")

// Analyzer computes staleness decisions for SEPs.
type Analyzer struct {
	thresholds config.Thresholds

	// now is swappable for deterministic tests.
	now func() time.Time
}

// NewAnalyzer creates an analyzer with the given thresholds.
func NewAnalyzer(t config.Thresholds) *Analyzer {
	return &Analyzer{
		thresholds: t,
		now:        time.Now,
	}
}

// Analyze determines what action, if any, a SEP needs based on how long
// its responsible party has been inactive.
//
// The cooldown check dominates all state policy: if the most recent
// automated ping is younger than the cooldown window, the decision is a
// no-op regardless of underlying staleness.
func (a *Analyzer) Analyze(item model.SEPItem, comments []model.Comment, events []model.Event) (model.StaleAnalysis, error) {
	now := a.now()

	responsible, err := responsibleLogin(item)
	if err != nil {
		return model.StaleAnalysis{}, fmt.Errorf("sep #%d: %w", item.Number, err)
	}

	lastActive := lastUserActivity(responsible, events, comments)
	if lastActive.IsZero() {
		lastActive = item.CreatedAt
	}
	days := DaysBetween(lastActive, now)

	if lastPing, ok := lastBotPing(comments); ok {
		sincePing := DaysBetween(lastPing, now)
		if sincePing < a.thresholds.PingCooldownDays {
			return model.StaleAnalysis{
				Item:              item,
				DaysSinceActivity: days,
				Reason: fmt.Sprintf("recently pinged %d days ago (cooldown: %d days)",
					sincePing, a.thresholds.PingCooldownDays),
			}, nil
		}
	}

	switch item.State {
	case model.StateProposal:
		return a.analyzeProposal(item, days), nil
	case model.StateDraft:
		return a.analyzeDraft(item, days), nil
	case model.StateAccepted:
		return a.analyzeAccepted(item, days), nil
	default:
		return model.StaleAnalysis{Item: item, DaysSinceActivity: days}, nil
	}
}

// analyzeProposal applies the two-stage proposal policy. The dormant
// check runs first so an item past both thresholds is closed, never
// merely pinged.
func (a *Analyzer) analyzeProposal(item model.SEPItem, days int) model.StaleAnalysis {
	if days >= a.thresholds.ProposalDormantDays {
		return model.StaleAnalysis{
			Item:              item,
			DaysSinceActivity: days,
			ShouldMarkDormant: true,
			ShouldClose:       true,
			Reason: fmt.Sprintf("proposal inactive for %d days (threshold: %d)",
				days, a.thresholds.ProposalDormantDays),
		}
	}

	if days >= a.thresholds.ProposalPingDays {
		return model.StaleAnalysis{
			Item:              item,
			DaysSinceActivity: days,
			ShouldPing:        true,
			PingTarget:        model.TargetAuthor,
			Reason: fmt.Sprintf("proposal inactive for %d days (threshold: %d)",
				days, a.thresholds.ProposalPingDays),
		}
	}

	return model.StaleAnalysis{Item: item, DaysSinceActivity: days}
}

func (a *Analyzer) analyzeDraft(item model.SEPItem, days int) model.StaleAnalysis {
	if days >= a.thresholds.DraftPingDays {
		return model.StaleAnalysis{
			Item:              item,
			DaysSinceActivity: days,
			ShouldPing:        true,
			PingTarget:        model.TargetSponsor,
			Reason: fmt.Sprintf("draft inactive for %d days (threshold: %d)",
				days, a.thresholds.DraftPingDays),
		}
	}

	return model.StaleAnalysis{Item: item, DaysSinceActivity: days}
}

func (a *Analyzer) analyzeAccepted(item model.SEPItem, days int) model.StaleAnalysis {
	if days >= a.thresholds.AcceptedPingDays {
		return model.StaleAnalysis{
			Item:              item,
			DaysSinceActivity: days,
			ShouldPing:        true,
			PingTarget:        model.TargetAuthor,
			Reason: fmt.Sprintf("accepted SEP inactive for %d days - awaiting reference implementation",
				days),
		}
	}

	return model.StaleAnalysis{Item: item, DaysSinceActivity: days}
}

// CheckUserActivity computes a specific participant's days since last
// activity on a SEP and flags it against the maintainer inactivity
// threshold. Unlike Analyze, the login need not be the responsible party;
// this is the audit path.
func (a *Analyzer) CheckUserActivity(item model.SEPItem, login string, comments []model.Comment, events []model.Event) (model.UserActivity, error) {
	if login == "" {
		return model.UserActivity{}, errors.New("login must not be empty")
	}

	lastActive := lastUserActivity(login, events, comments)
	if lastActive.IsZero() {
		lastActive = item.CreatedAt
	}
	days := DaysBetween(lastActive, a.now())

	return model.UserActivity{
		Login:             login,
		DaysSinceActivity: days,
		ShouldPing:        days >= a.thresholds.MaintainerInactivityDays,
	}, nil
}

// responsibleLogin determines whose activity drives the staleness clock.
//
// Accepted SEPs always track the author (awaiting their reference
// implementation). Every other state tracks the first assignee, which is
// conventionally the sponsor, falling back to the author when no one is
// assigned.
func responsibleLogin(item model.SEPItem) (string, error) {
	if item.State != model.StateAccepted && len(item.Assignees) > 0 {
		return item.Assignees[0], nil
	}
	if item.Author == "" {
		return "", ErrNoResponsible
	}
	return item.Author, nil
}

// lastUserActivity finds the most recent instant the given login acted on
// the item, scanning both events and comments. Comments carrying the bot
// marker are excluded so the automation's own pings never reset the
// staleness clock. Returns the zero time when no activity matches.
func lastUserActivity(login string, events []model.Event, comments []model.Comment) time.Time {
	var last time.Time

	for _, e := range events {
		if e.Actor == login && e.CreatedAt.After(last) {
			last = e.CreatedAt
		}
	}

	for _, c := range comments {
		if strings.Contains(c.Body, constants.BotCommentMarker) {
			continue
		}
		if c.Author == login && c.CreatedAt.After(last) {
			last = c.CreatedAt
		}
	}

	return last
}

// lastBotPing returns the creation time of the most recent marker-bearing
// comment. Comments arrive oldest to newest, so the scan runs in reverse.
func lastBotPing(comments []model.Comment) (time.Time, bool) {
	for i := len(comments) - 1; i >= 0; i-- {
		if strings.Contains(comments[i].Body, constants.BotCommentMarker) {
			return comments[i].CreatedAt, true
		}
	}
	return time.Time{}, false
}
