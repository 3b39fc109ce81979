package ghclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v57/github"

	"github.com/spiffcs/sepwatch/internal/model"
)

// IsTeamMember reports whether login has active membership in the given
// team. A 404 means "not a member", not a failure.
func (c *Client) IsTeamMember(ctx context.Context, teamSlug, login string) (bool, error) {
	membership, _, err := c.client.Teams.GetTeamMembershipBySlug(ctx, c.owner, teamSlug, login)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check membership of %s in %s: %w", login, teamSlug, err)
	}
	return membership.GetState() == "active", nil
}

// ListOrgTeams enumerates every team in the organization with its parent
// link. The full listing is how hierarchical sponsor discovery finds
// child teams without list-children permission.
func (c *Client) ListOrgTeams(ctx context.Context) ([]model.Team, error) {
	opts := &gh.ListOptions{
		PerPage: 100,
	}

	var teams []model.Team

	for {
		page, resp, err := c.client.Teams.ListTeams(ctx, c.owner, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list teams for org %s: %w", c.owner, err)
		}

		for _, team := range page {
			teams = append(teams, model.Team{
				Slug:       team.GetSlug(),
				Name:       team.GetName(),
				ParentSlug: team.GetParent().GetSlug(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return teams, nil
}

// ListTeamMembers enumerates the direct members of a team.
func (c *Client) ListTeamMembers(ctx context.Context, teamSlug string) ([]string, error) {
	opts := &gh.TeamListTeamMembersOptions{
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	var logins []string

	for {
		page, resp, err := c.client.Teams.ListTeamMembersBySlug(ctx, c.owner, teamSlug, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list members of team %s: %w", teamSlug, err)
		}

		for _, user := range page {
			logins = append(logins, user.GetLogin())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return logins, nil
}

// isNotFound reports whether err is a GitHub 404 response.
func isNotFound(err error) bool {
	var errResp *gh.ErrorResponse
	return errors.As(err, &errResp) &&
		errResp.Response != nil &&
		errResp.Response.StatusCode == http.StatusNotFound
}
