// Package maintainers resolves which identities are authorized to
// sponsor a SEP.
//
// Resolution strategy is pluggable: a direct team lookup, a recursive
// walk of the org team hierarchy, or a static allow-list. The strategy
// is chosen once, at resolver construction, and the resolver exposes a
// single contract regardless of which one is behind it.
package maintainers

import (
	"context"
	"fmt"

	"github.com/spiffcs/sepwatch/internal/log"
	"github.com/spiffcs/sepwatch/internal/model"
)

// TeamAPI is the slice of the tracker client that sponsor sources need.
type TeamAPI interface {
	// IsTeamMember reports whether login has active membership in the team.
	IsTeamMember(ctx context.Context, teamSlug, login string) (bool, error)

	// ListOrgTeams enumerates every team in the organization, including
	// parent links.
	ListOrgTeams(ctx context.Context) ([]model.Team, error)

	// ListTeamMembers enumerates the direct members of a team.
	ListTeamMembers(ctx context.Context, teamSlug string) ([]string, error)
}

// Source supplies the set of sponsor-eligible logins.
type Source interface {
	// Members returns every eligible login. Implementations degrade on
	// partial failure rather than aborting: an error means the build
	// produced nothing usable.
	Members(ctx context.Context) (map[string]bool, error)
}

// MembershipChecker is an optional interface a Source may implement to
// answer individual logins without enumerating the full set. The
// resolver prefers it when present and memoizes each answer.
type MembershipChecker interface {
	IsMember(ctx context.Context, login string) (bool, error)
}

// TeamSource resolves eligibility against a single team. Individual
// queries use the membership endpoint; full enumeration lists the team's
// direct members.
type TeamSource struct {
	api  TeamAPI
	team string
}

// NewTeamSource creates a source backed by one team's membership.
func NewTeamSource(api TeamAPI, teamSlug string) *TeamSource {
	return &TeamSource{api: api, team: teamSlug}
}

// Members returns the team's direct members.
func (s *TeamSource) Members(ctx context.Context) (map[string]bool, error) {
	logins, err := s.api.ListTeamMembers(ctx, s.team)
	if err != nil {
		return nil, fmt.Errorf("listing members of team %s: %w", s.team, err)
	}
	members := make(map[string]bool, len(logins))
	for _, l := range logins {
		members[l] = true
	}
	return members, nil
}

// IsMember checks one login's membership directly.
func (s *TeamSource) IsMember(ctx context.Context, login string) (bool, error) {
	return s.api.IsTeamMember(ctx, s.team, login)
}

// HierarchySource resolves eligibility by walking every team reachable
// from a root team. Child teams are discovered through parent links on
// the full org team listing, so the walk needs no elevated list-children
// permission.
type HierarchySource struct {
	api  TeamAPI
	root string
}

// NewHierarchySource creates a source rooted at the given team slug.
func NewHierarchySource(api TeamAPI, rootSlug string) *HierarchySource {
	return &HierarchySource{api: api, root: rootSlug}
}

// Members unions the direct membership of the root team and every team
// transitively below it. A team whose membership cannot be read is
// logged and skipped; the build only fails when zero members were
// collected across all teams.
func (s *HierarchySource) Members(ctx context.Context) (map[string]bool, error) {
	teams, err := s.api.ListOrgTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing org teams: %w", err)
	}

	children := make(map[string][]string)
	for _, t := range teams {
		if t.ParentSlug != "" {
			children[t.ParentSlug] = append(children[t.ParentSlug], t.Slug)
		}
	}

	members := make(map[string]bool)
	failed := 0

	queue := []string{s.root}
	seen := map[string]bool{s.root: true}
	for len(queue) > 0 {
		slug := queue[0]
		queue = queue[1:]

		logins, err := s.api.ListTeamMembers(ctx, slug)
		if err != nil {
			log.Warn("skipping team with unreadable membership", "team", slug, "error", err)
			failed++
		} else {
			log.Debug("collected team members", "team", slug, "count", len(logins))
			for _, l := range logins {
				members[l] = true
			}
		}

		for _, child := range children[slug] {
			if !seen[child] {
				seen[child] = true
				queue = append(queue, child)
			}
		}
	}

	if len(members) == 0 && failed > 0 {
		return nil, fmt.Errorf("no sponsor members collected: %d team membership lookups failed", failed)
	}
	return members, nil
}

// StaticSource resolves eligibility against a fixed allow-list from
// configuration. Keeping the list in sync with the authoritative team
// is an operational responsibility, not something this source enforces.
type StaticSource struct {
	logins []string
}

// NewStaticSource creates a source from a fixed list of logins.
func NewStaticSource(logins []string) *StaticSource {
	return &StaticSource{logins: logins}
}

// Members returns the configured allow-list. It never fails.
func (s *StaticSource) Members(context.Context) (map[string]bool, error) {
	members := make(map[string]bool, len(s.logins))
	for _, l := range s.logins {
		members[l] = true
	}
	return members, nil
}

// Interface assertions for all three strategies.
var (
	_ Source            = (*TeamSource)(nil)
	_ MembershipChecker = (*TeamSource)(nil)
	_ Source            = (*HierarchySource)(nil)
	_ Source            = (*StaticSource)(nil)
)
