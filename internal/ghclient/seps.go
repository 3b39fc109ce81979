package ghclient

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v57/github"

	"github.com/spiffcs/sepwatch/internal/constants"
	"github.com/spiffcs/sepwatch/internal/log"
	"github.com/spiffcs/sepwatch/internal/model"
)

// SearchSEPs finds all open SEPs in the target repository. Both the
// label query and the title query are run, since older SEPs predate
// consistent labeling; results are deduplicated by item number.
func (c *Client) SearchSEPs(ctx context.Context) ([]model.SEPItem, error) {
	seen := make(map[int]bool)
	var items []model.SEPItem

	for _, query := range []string{constants.SEPLabelQuery, constants.SEPTitleQuery} {
		found, err := c.searchIssues(ctx, query)
		if err != nil {
			return nil, err
		}
		for _, item := range found {
			if seen[item.Number] {
				continue
			}
			seen[item.Number] = true
			items = append(items, item)
		}
	}

	log.Info("discovered open SEPs", "count", len(items))
	return items, nil
}

// searchIssues runs one scoped search query with pagination.
func (c *Client) searchIssues(ctx context.Context, query string) ([]model.SEPItem, error) {
	fullQuery := fmt.Sprintf("repo:%s/%s %s", c.owner, c.repo, query)

	opts := &gh.SearchOptions{
		Sort:  "updated",
		Order: "desc",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	var items []model.SEPItem

	for {
		result, resp, err := c.client.Search.Issues(ctx, fullQuery, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to search for SEPs (%s): %w", query, err)
		}

		for _, issue := range result.Issues {
			items = append(items, issueToSEP(issue))
		}
		log.Trace("search page fetched", "query", query, "page", opts.Page, "items", len(result.Issues))

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return items, nil
}

// GetSEP fetches a single SEP by number.
func (c *Client) GetSEP(ctx context.Context, number int) (model.SEPItem, error) {
	issue, _, err := c.client.Issues.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return model.SEPItem{}, fmt.Errorf("failed to get issue #%d: %w", number, err)
	}
	return issueToSEP(issue), nil
}

// ListComments fetches all comments on an item, oldest to newest.
func (c *Client) ListComments(ctx context.Context, number int) ([]model.Comment, error) {
	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	var comments []model.Comment

	for {
		page, resp, err := c.client.Issues.ListComments(ctx, c.owner, c.repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments for #%d: %w", number, err)
		}

		for _, comment := range page {
			comments = append(comments, model.Comment{
				Author:    comment.GetUser().GetLogin(),
				Body:      comment.GetBody(),
				CreatedAt: comment.GetCreatedAt().Time,
			})
		}
		log.Trace("comments page fetched", "number", number, "page", opts.Page, "items", len(page))

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return comments, nil
}

// ListTimelineEvents fetches all timeline events for an item, keeping
// only the actor attribution and instant the analyzer consumes.
func (c *Client) ListTimelineEvents(ctx context.Context, number int) ([]model.Event, error) {
	opts := &gh.ListOptions{
		PerPage: 100,
	}

	var events []model.Event

	for {
		page, resp, err := c.client.Issues.ListIssueTimeline(ctx, c.owner, c.repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list timeline events for #%d: %w", number, err)
		}

		for _, ev := range page {
			events = append(events, model.Event{
				Actor:     ev.GetActor().GetLogin(),
				CreatedAt: ev.GetCreatedAt().Time,
			})
		}
		log.Trace("timeline page fetched", "number", number, "page", opts.Page, "items", len(page))

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return events, nil
}

// issueToSEP converts a GitHub issue to a SEPItem, deriving the
// lifecycle state from the issue's labels.
func issueToSEP(issue *gh.Issue) model.SEPItem {
	var labels []string
	for _, label := range issue.Labels {
		labels = append(labels, label.GetName())
	}

	var assignees []string
	for _, assignee := range issue.Assignees {
		assignees = append(assignees, assignee.GetLogin())
	}

	return model.SEPItem{
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		State:     model.StateFromLabels(labels),
		Author:    issue.GetUser().GetLogin(),
		Assignees: assignees,
		Labels:    labels,
		CreatedAt: issue.GetCreatedAt().Time,
		UpdatedAt: issue.GetUpdatedAt().Time,
		HTMLURL:   issue.GetHTMLURL(),
		IsPR:      issue.IsPullRequest(),
	}
}
