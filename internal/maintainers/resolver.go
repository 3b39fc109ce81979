package maintainers

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/spiffcs/sepwatch/internal/log"
)

// Resolver answers "can this identity sponsor a SEP?" against a Source
// chosen at construction.
//
// Set-producing sources are built lazily on first query and cached for
// the rest of the session. The build is singleflight-guarded: concurrent
// first-time queries share one discovery walk instead of each issuing
// their own. A failed build caches an empty set for the session; there
// are no automatic retries, ClearCache is the explicit recovery path.
//
// Discovery failures are never surfaced to CanSponsor callers; they are
// logged and resolve to "not a sponsor".
type Resolver struct {
	source Source

	group singleflight.Group

	mu      sync.Mutex
	set     map[string]bool // session sponsor set, nil until first build
	built   bool
	byLogin map[string]bool // memoized answers for MembershipChecker sources
}

// NewResolver creates a resolver over the given source.
func NewResolver(source Source) *Resolver {
	return &Resolver{
		source:  source,
		byLogin: make(map[string]bool),
	}
}

// CanSponsor reports whether login is authorized to sponsor a SEP.
// The first call triggers the lazy source load.
func (r *Resolver) CanSponsor(ctx context.Context, login string) bool {
	if login == "" {
		return false
	}
	if checker, ok := r.source.(MembershipChecker); ok {
		return r.checkDirect(ctx, checker, login)
	}
	return r.sponsorSet(ctx)[login]
}

// GetSponsor returns the first assignee, in order, that qualifies as a
// sponsor. Sponsor priority follows assignee order, nothing else.
func (r *Resolver) GetSponsor(ctx context.Context, assignees []string) (string, bool) {
	for _, assignee := range assignees {
		if r.CanSponsor(ctx, assignee) {
			return assignee, true
		}
	}
	return "", false
}

// Sponsors returns every sponsor-eligible login, sorted. Unlike
// CanSponsor this always enumerates the full set through the source,
// even for sources that can answer individual logins directly.
func (r *Resolver) Sponsors(ctx context.Context) []string {
	set := r.sponsorSet(ctx)
	logins := make([]string, 0, len(set))
	for login := range set {
		logins = append(logins, login)
	}
	sort.Strings(logins)
	return logins
}

// ClearCache resets all lazy-load state so the next query rebuilds from
// the source. Needed for test isolation and to pick up team membership
// changes without restarting the process.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	r.set = nil
	r.built = false
	r.byLogin = make(map[string]bool)
	r.mu.Unlock()
	r.group.Forget(setKey)
}

const setKey = "sponsor-set"

// checkDirect answers one login via the source's membership endpoint,
// memoizing successes. Failed lookups are not cached, so a transient
// error does not pin a wrong answer for the session.
func (r *Resolver) checkDirect(ctx context.Context, checker MembershipChecker, login string) bool {
	r.mu.Lock()
	if ok, hit := r.byLogin[login]; hit {
		r.mu.Unlock()
		return ok
	}
	r.mu.Unlock()

	v, err, _ := r.group.Do("login:"+login, func() (any, error) {
		return checker.IsMember(ctx, login)
	})
	if err != nil {
		log.Warn("sponsor membership check failed", "login", login, "error", err)
		return false
	}

	ok := v.(bool)
	r.mu.Lock()
	r.byLogin[login] = ok
	r.mu.Unlock()
	return ok
}

// sponsorSet returns the session sponsor set, building it on first use.
func (r *Resolver) sponsorSet(ctx context.Context) map[string]bool {
	r.mu.Lock()
	if r.built {
		set := r.set
		r.mu.Unlock()
		return set
	}
	r.mu.Unlock()

	v, _, _ := r.group.Do(setKey, func() (any, error) {
		// Re-check under the flight: a caller that lost the race on the
		// built flag may enter here after the original flight completed.
		r.mu.Lock()
		if r.built {
			set := r.set
			r.mu.Unlock()
			return set, nil
		}
		r.mu.Unlock()

		members, err := r.source.Members(ctx)
		if err != nil {
			log.Warn("sponsor set build failed; caching empty set for this session", "error", err)
			members = map[string]bool{}
		}
		if members == nil {
			members = map[string]bool{}
		}

		r.mu.Lock()
		r.set = members
		r.built = true
		r.mu.Unlock()
		return members, nil
	})

	set, _ := v.(map[string]bool)
	if set == nil {
		set = map[string]bool{}
	}
	return set
}
