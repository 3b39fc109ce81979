package maintainers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/spiffcs/sepwatch/internal/model"
)

// fakeTeamAPI implements TeamAPI from in-memory data. Teams listed in
// failMembers return an error from ListTeamMembers.
type fakeTeamAPI struct {
	teams       []model.Team
	members     map[string][]string
	failMembers map[string]bool

	membershipCalls atomic.Int32
	listCalls       atomic.Int32
}

func (f *fakeTeamAPI) IsTeamMember(_ context.Context, teamSlug, login string) (bool, error) {
	f.membershipCalls.Add(1)
	if f.failMembers[teamSlug] {
		return false, errors.New("membership endpoint unavailable")
	}
	for _, l := range f.members[teamSlug] {
		if l == login {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTeamAPI) ListOrgTeams(context.Context) ([]model.Team, error) {
	return f.teams, nil
}

func (f *fakeTeamAPI) ListTeamMembers(_ context.Context, teamSlug string) ([]string, error) {
	f.listCalls.Add(1)
	if f.failMembers[teamSlug] {
		return nil, errors.New("forbidden")
	}
	return f.members[teamSlug], nil
}

// countingSource wraps a fixed member set and counts builds.
type countingSource struct {
	members map[string]bool
	err     error
	builds  atomic.Int32

	// release, when set, blocks Members until closed so tests can pile
	// up concurrent first-time queries.
	release chan struct{}
}

func (s *countingSource) Members(context.Context) (map[string]bool, error) {
	s.builds.Add(1)
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.members, nil
}

func TestGetSponsorPriority(t *testing.T) {
	tests := []struct {
		name      string
		eligible  map[string]bool
		assignees []string
		want      string
		wantOK    bool
	}{
		{
			name:      "first qualifying assignee wins",
			eligible:  map[string]bool{"alice": true, "bob": true},
			assignees: []string{"alice", "bob"},
			want:      "alice",
			wantOK:    true,
		},
		{
			name:      "second assignee only when first does not qualify",
			eligible:  map[string]bool{"bob": true},
			assignees: []string{"alice", "bob"},
			want:      "bob",
			wantOK:    true,
		},
		{
			name:      "no qualifying assignee",
			eligible:  map[string]bool{},
			assignees: []string{"alice", "bob"},
			wantOK:    false,
		},
		{
			name:      "empty assignee list",
			eligible:  map[string]bool{"alice": true},
			assignees: nil,
			wantOK:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(&countingSource{members: tt.eligible})
			got, ok := r.GetSponsor(context.Background(), tt.assignees)
			if ok != tt.wantOK {
				t.Fatalf("GetSponsor() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("GetSponsor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolverBuildsSetOnce(t *testing.T) {
	src := &countingSource{members: map[string]bool{"alice": true}}
	r := NewResolver(src)
	ctx := context.Background()

	for range 5 {
		if !r.CanSponsor(ctx, "alice") {
			t.Fatal("CanSponsor(alice) = false, want true")
		}
		if r.CanSponsor(ctx, "mallory") {
			t.Fatal("CanSponsor(mallory) = true, want false")
		}
	}

	if got := src.builds.Load(); got != 1 {
		t.Errorf("source built %d times, want 1", got)
	}
}

func TestResolverSingleFlightConcurrentFirstQuery(t *testing.T) {
	src := &countingSource{
		members: map[string]bool{"alice": true},
		release: make(chan struct{}),
	}
	r := NewResolver(src)
	ctx := context.Background()

	const callers = 16
	var wg sync.WaitGroup
	results := make([]bool, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = r.CanSponsor(ctx, "alice")
		}()
	}

	// Let the concurrent callers queue up on the in-flight build.
	close(src.release)
	wg.Wait()

	for i, ok := range results {
		if !ok {
			t.Errorf("caller %d: CanSponsor(alice) = false, want true", i)
		}
	}
	if got := src.builds.Load(); got != 1 {
		t.Errorf("source built %d times under concurrency, want 1", got)
	}
}

func TestResolverFailedBuildCachesEmptySet(t *testing.T) {
	src := &countingSource{err: errors.New("discovery unavailable")}
	r := NewResolver(src)
	ctx := context.Background()

	if r.CanSponsor(ctx, "alice") {
		t.Error("CanSponsor after failed build = true, want false")
	}
	// No automatic retry within the session.
	if r.CanSponsor(ctx, "alice") {
		t.Error("CanSponsor on second query = true, want false")
	}
	if got := src.builds.Load(); got != 1 {
		t.Errorf("source built %d times after failure, want 1 (no retry)", got)
	}
}

func TestResolverClearCacheForcesRebuild(t *testing.T) {
	src := &countingSource{members: map[string]bool{"alice": true}}
	r := NewResolver(src)
	ctx := context.Background()

	r.CanSponsor(ctx, "alice")
	r.ClearCache()
	r.CanSponsor(ctx, "alice")

	if got := src.builds.Load(); got != 2 {
		t.Errorf("source built %d times across ClearCache, want 2", got)
	}
}

func TestTeamSourceMemoizesDirectChecks(t *testing.T) {
	api := &fakeTeamAPI{members: map[string][]string{"core-maintainers": {"alice"}}}
	r := NewResolver(NewTeamSource(api, "core-maintainers"))
	ctx := context.Background()

	for range 3 {
		if !r.CanSponsor(ctx, "alice") {
			t.Fatal("CanSponsor(alice) = false, want true")
		}
	}
	if r.CanSponsor(ctx, "mallory") {
		t.Fatal("CanSponsor(mallory) = true, want false")
	}

	// One call per distinct login, not per query.
	if got := api.membershipCalls.Load(); got != 2 {
		t.Errorf("membership endpoint called %d times, want 2", got)
	}
}

func TestSponsorsEnumeratesTeamSource(t *testing.T) {
	// CanSponsor answers TeamSource queries through the per-login
	// membership endpoint; listing must go through full enumeration.
	api := &fakeTeamAPI{members: map[string][]string{"core-maintainers": {"bob", "alice"}}}
	r := NewResolver(NewTeamSource(api, "core-maintainers"))
	ctx := context.Background()

	got := r.Sponsors(ctx)
	want := []string{"alice", "bob"}
	if len(got) != len(want) {
		t.Fatalf("Sponsors() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sponsors() = %v, want %v (sorted)", got, want)
		}
	}

	if calls := api.listCalls.Load(); calls != 1 {
		t.Errorf("team members listed %d times, want 1", calls)
	}
	if calls := api.membershipCalls.Load(); calls != 0 {
		t.Errorf("membership endpoint called %d times during enumeration, want 0", calls)
	}

	// The enumeration set is cached like any other build.
	r.Sponsors(ctx)
	if calls := api.listCalls.Load(); calls != 1 {
		t.Errorf("team members listed %d times after second call, want 1", calls)
	}
}

func TestTeamSourceDirectCheckFailureNotCached(t *testing.T) {
	api := &fakeTeamAPI{
		members:     map[string][]string{"broken": {"alice"}},
		failMembers: map[string]bool{"broken": true},
	}
	r := NewResolver(NewTeamSource(api, "broken"))
	ctx := context.Background()

	if r.CanSponsor(ctx, "alice") {
		t.Error("CanSponsor over failing endpoint = true, want false")
	}
	r.CanSponsor(ctx, "alice")

	// Both queries hit the endpoint: failures are not memoized.
	if got := api.membershipCalls.Load(); got != 2 {
		t.Errorf("membership endpoint called %d times, want 2", got)
	}
}

func TestHierarchySourceWalksParentLinks(t *testing.T) {
	api := &fakeTeamAPI{
		teams: []model.Team{
			{Slug: "core-maintainers"},
			{Slug: "sdk", ParentSlug: "core-maintainers"},
			{Slug: "sdk-go", ParentSlug: "sdk"},
			{Slug: "unrelated"},
		},
		members: map[string][]string{
			"core-maintainers": {"alice"},
			"sdk":              {"bob"},
			"sdk-go":           {"carol"},
			"unrelated":        {"mallory"},
		},
	}

	src := NewHierarchySource(api, "core-maintainers")
	members, err := src.Members(context.Background())
	if err != nil {
		t.Fatalf("Members() error = %v", err)
	}

	for _, login := range []string{"alice", "bob", "carol"} {
		if !members[login] {
			t.Errorf("members missing %q", login)
		}
	}
	if members["mallory"] {
		t.Error("members includes mallory from a team outside the hierarchy")
	}
}

func TestHierarchySourcePartialFailure(t *testing.T) {
	api := &fakeTeamAPI{
		teams: []model.Team{
			{Slug: "core-maintainers"},
			{Slug: "sdk", ParentSlug: "core-maintainers"},
			{Slug: "infra", ParentSlug: "core-maintainers"},
		},
		members: map[string][]string{
			"core-maintainers": {"alice"},
			"sdk":              {"bob"},
			"infra":            {"carol"},
		},
		failMembers: map[string]bool{"infra": true},
	}

	src := NewHierarchySource(api, "core-maintainers")
	members, err := src.Members(context.Background())
	if err != nil {
		t.Fatalf("Members() error = %v, want partial result", err)
	}

	// The two readable teams still contribute.
	if !members["alice"] || !members["bob"] {
		t.Errorf("members = %v, want alice and bob", members)
	}
	if members["carol"] {
		t.Error("members includes carol from the failed team")
	}
}

func TestHierarchySourceTotalFailure(t *testing.T) {
	api := &fakeTeamAPI{
		teams: []model.Team{
			{Slug: "core-maintainers"},
		},
		members:     map[string][]string{"core-maintainers": {"alice"}},
		failMembers: map[string]bool{"core-maintainers": true},
	}

	src := NewHierarchySource(api, "core-maintainers")
	if _, err := src.Members(context.Background()); err == nil {
		t.Error("Members() error = nil, want error when zero members collected")
	}
}

func TestStaticSource(t *testing.T) {
	r := NewResolver(NewStaticSource([]string{"alice", "bob"}))
	ctx := context.Background()

	if !r.CanSponsor(ctx, "alice") {
		t.Error("CanSponsor(alice) = false, want true")
	}
	if r.CanSponsor(ctx, "carol") {
		t.Error("CanSponsor(carol) = true, want false")
	}
	if r.CanSponsor(ctx, "") {
		t.Error("CanSponsor(\"\") = true, want false")
	}
}
