package ghclient

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v57/github"

	"github.com/spiffcs/sepwatch/internal/log"
)

// CreateComment posts a comment on an item and returns its URL.
func (c *Client) CreateComment(ctx context.Context, number int, body string) (string, error) {
	comment, _, err := c.client.Issues.CreateComment(ctx, c.owner, c.repo, number, &gh.IssueComment{
		Body: gh.String(body),
	})
	if err != nil {
		return "", fmt.Errorf("failed to comment on #%d: %w", number, err)
	}
	return comment.GetHTMLURL(), nil
}

// AddLabels adds labels to an item.
func (c *Client) AddLabels(ctx context.Context, number int, labels []string) error {
	_, _, err := c.client.Issues.AddLabelsToIssue(ctx, c.owner, c.repo, number, labels)
	if err != nil {
		return fmt.Errorf("failed to add labels to #%d: %w", number, err)
	}
	return nil
}

// RemoveLabel removes a label from an item. A 404 (label not present)
// is not an error.
func (c *Client) RemoveLabel(ctx context.Context, number int, label string) error {
	_, err := c.client.Issues.RemoveLabelForIssue(ctx, c.owner, c.repo, number, label)
	if err != nil {
		if isNotFound(err) {
			log.Debug("label already absent", "number", number, "label", label)
			return nil
		}
		return fmt.Errorf("failed to remove label %q from #%d: %w", label, number, err)
	}
	return nil
}

// CloseIssue transitions an item to the closed state.
func (c *Client) CloseIssue(ctx context.Context, number int) error {
	_, _, err := c.client.Issues.Edit(ctx, c.owner, c.repo, number, &gh.IssueRequest{
		State: gh.String("closed"),
	})
	if err != nil {
		return fmt.Errorf("failed to close #%d: %w", number, err)
	}
	return nil
}
