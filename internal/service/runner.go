// Package service orchestrates a full analysis run: discover SEPs,
// fetch their histories in parallel, analyze each one, and execute the
// resulting decisions against the tracker.
package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/spiffcs/sepwatch/internal/constants"
	"github.com/spiffcs/sepwatch/internal/ghclient"
	"github.com/spiffcs/sepwatch/internal/log"
	"github.com/spiffcs/sepwatch/internal/maintainers"
	"github.com/spiffcs/sepwatch/internal/model"
	"github.com/spiffcs/sepwatch/internal/sep"
)

// DefaultWorkers bounds how many SEP histories are fetched concurrently.
const DefaultWorkers = 8

// ItemResult is the outcome of analyzing and (optionally) acting on one SEP.
type ItemResult struct {
	Item     model.SEPItem
	Analysis model.StaleAnalysis
	Err      error // fetch or analysis failure; Analysis is zero when set

	Executed bool  // a mutation was performed (never true in dry-run)
	ExecErr  error // execution failure; the run continues past it
}

// RunResult summarizes one full analysis pass.
type RunResult struct {
	Results  []ItemResult
	Pinged   int
	Closed   int
	NoOps    int
	Failures int
	DryRun   bool
}

// Runner drives the analysis pipeline.
type Runner struct {
	fetcher  ghclient.SEPFetcher
	mutator  ghclient.SEPMutator
	analyzer *sep.Analyzer
	resolver *maintainers.Resolver
	dryRun   bool
	workers  int
}

// NewRunner creates a runner. workers <= 0 selects DefaultWorkers.
func NewRunner(fetcher ghclient.SEPFetcher, mutator ghclient.SEPMutator, analyzer *sep.Analyzer, resolver *maintainers.Resolver, dryRun bool, workers int) *Runner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Runner{
		fetcher:  fetcher,
		mutator:  mutator,
		analyzer: analyzer,
		resolver: resolver,
		dryRun:   dryRun,
		workers:  workers,
	}
}

// Run discovers all open SEPs, analyzes them, and executes every
// actionable decision. Per-item failures are recorded and do not abort
// the run; only discovery failure does.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	items, err := r.fetcher.SearchSEPs(ctx)
	if err != nil {
		return nil, fmt.Errorf("discovering SEPs: %w", err)
	}

	results := r.analyzeAll(ctx, items)

	result := &RunResult{Results: results, DryRun: r.dryRun}
	for i := range results {
		res := &results[i]
		if res.Err != nil {
			result.Failures++
			log.Warn("analysis failed", "number", res.Item.Number, "error", res.Err)
			continue
		}
		if !res.Analysis.Actionable() {
			result.NoOps++
			log.Debug("no action", "number", res.Item.Number,
				"days_inactive", res.Analysis.DaysSinceActivity, "reason", res.Analysis.Reason)
			continue
		}

		if err := r.execute(ctx, res); err != nil {
			res.ExecErr = err
			result.Failures++
			log.Error("failed to execute decision", "number", res.Item.Number, "error", err)
			continue
		}
		if res.Analysis.ShouldClose {
			result.Closed++
		} else {
			result.Pinged++
		}
	}

	return result, nil
}

// AnalyzeOne fetches and analyzes a single SEP without executing anything.
func (r *Runner) AnalyzeOne(ctx context.Context, number int) (model.StaleAnalysis, error) {
	item, err := r.fetcher.GetSEP(ctx, number)
	if err != nil {
		return model.StaleAnalysis{}, err
	}
	comments, events, err := r.fetchHistory(ctx, number)
	if err != nil {
		return model.StaleAnalysis{}, err
	}
	return r.analyzer.Analyze(item, comments, events)
}

// AuditUser reports a specific participant's activity on a SEP.
func (r *Runner) AuditUser(ctx context.Context, number int, login string) (model.UserActivity, error) {
	item, err := r.fetcher.GetSEP(ctx, number)
	if err != nil {
		return model.UserActivity{}, err
	}
	comments, events, err := r.fetchHistory(ctx, number)
	if err != nil {
		return model.UserActivity{}, err
	}
	return r.analyzer.CheckUserActivity(item, login, comments, events)
}

// analyzeAll fetches each item's history and analyzes it, with bounded
// concurrency. Results keep a stable order by item number.
func (r *Runner) analyzeAll(ctx context.Context, items []model.SEPItem) []ItemResult {
	results := make([]ItemResult, len(items))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, item := range items {
		g.Go(func() error {
			res := ItemResult{Item: item}

			comments, events, err := r.fetchHistory(gctx, item.Number)
			if err != nil {
				res.Err = err
			} else {
				res.Analysis, res.Err = r.analyzer.Analyze(item, comments, events)
			}

			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; per-item failures live in results.
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].Item.Number < results[j].Item.Number
	})
	return results
}

// fetchHistory fetches an item's comments and timeline events in parallel.
func (r *Runner) fetchHistory(ctx context.Context, number int) ([]model.Comment, []model.Event, error) {
	var (
		comments []model.Comment
		events   []model.Event
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		comments, err = r.fetcher.ListComments(gctx, number)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = r.fetcher.ListTimelineEvents(gctx, number)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return comments, events, nil
}

// execute translates one actionable decision into tracker mutations.
// In dry-run mode it only logs what would happen.
func (r *Runner) execute(ctx context.Context, res *ItemResult) error {
	analysis := res.Analysis
	item := res.Item

	if analysis.ShouldClose {
		if r.dryRun {
			log.Info("[dry-run] would mark dormant and close", "number", item.Number,
				"days_inactive", analysis.DaysSinceActivity)
			return nil
		}

		if _, err := r.mutator.CreateComment(ctx, item.Number, closeMessage(analysis)); err != nil {
			return err
		}
		if err := r.mutator.AddLabels(ctx, item.Number, []string{constants.DormantLabel}); err != nil {
			return err
		}
		// Drop the stale lifecycle label so the item reads dormant, not
		// "proposal, dormant".
		if item.State != model.StateUnknown {
			if err := r.mutator.RemoveLabel(ctx, item.Number, string(item.State)); err != nil {
				return err
			}
		}
		if err := r.mutator.CloseIssue(ctx, item.Number); err != nil {
			return err
		}
		res.Executed = true
		log.Info("marked dormant and closed", "number", item.Number)
		return nil
	}

	target, ok := r.pingLogin(ctx, item, analysis.PingTarget)
	if !ok {
		return fmt.Errorf("no resolvable %s to ping", analysis.PingTarget)
	}

	if r.dryRun {
		log.Info("[dry-run] would ping", "number", item.Number, "target", target,
			"days_inactive", analysis.DaysSinceActivity)
		return nil
	}

	if _, err := r.mutator.CreateComment(ctx, item.Number, pingMessage(target, analysis)); err != nil {
		return err
	}
	res.Executed = true
	log.Info("pinged", "number", item.Number, "target", target)
	return nil
}

// pingLogin resolves a ping target to a concrete login. Sponsor targets
// go through the resolver so only a qualifying assignee is addressed.
func (r *Runner) pingLogin(ctx context.Context, item model.SEPItem, target model.PingTarget) (string, bool) {
	switch target {
	case model.TargetAuthor:
		return item.Author, item.Author != ""
	case model.TargetSponsor:
		return r.resolver.GetSponsor(ctx, item.Assignees)
	default:
		return "", false
	}
}

// pingMessage builds the comment body for a ping. Every body carries the
// bot marker so future analysis recognizes it.
func pingMessage(login string, analysis model.StaleAnalysis) string {
	var action string
	switch analysis.Item.State {
	case model.StateDraft:
		action = "As the sponsor of this SEP, could you post an update on its status?"
	case model.StateAccepted:
		action = "This accepted SEP is awaiting its reference implementation. Is one in progress?"
	default:
		action = "Are you still pursuing this proposal? Without a response it may be marked dormant and closed."
	}

	return fmt.Sprintf("@%s This SEP has had no activity from its %s for %d days. %s\n\n%s\n",
		login, analysis.PingTarget, analysis.DaysSinceActivity, action, constants.BotCommentMarker)
}

// closeMessage builds the comment body for a dormant closure.
func closeMessage(analysis model.StaleAnalysis) string {
	return fmt.Sprintf("This proposal has been inactive for %d days and is being marked dormant and closed. "+
		"It can be reopened at any time if work resumes.\n\n%s\n",
		analysis.DaysSinceActivity, constants.BotCommentMarker)
}
