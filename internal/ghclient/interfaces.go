package ghclient

import (
	"context"

	"github.com/spiffcs/sepwatch/internal/maintainers"
	"github.com/spiffcs/sepwatch/internal/model"
)

// SEPFetcher defines the read-only tracker surface the analysis pipeline
// consumes. This interface enables mocking the client in unit tests.
type SEPFetcher interface {
	// SearchSEPs finds all open SEPs in the target repository.
	SearchSEPs(ctx context.Context) ([]model.SEPItem, error)

	// GetSEP fetches a single SEP by number.
	GetSEP(ctx context.Context, number int) (model.SEPItem, error)

	// ListComments fetches all comments on an item, oldest to newest.
	ListComments(ctx context.Context, number int) ([]model.Comment, error)

	// ListTimelineEvents fetches all timeline events for an item.
	ListTimelineEvents(ctx context.Context, number int) ([]model.Event, error)
}

// SEPMutator defines the tracker mutations the decision executor
// performs. The analyzer itself never touches this surface.
type SEPMutator interface {
	CreateComment(ctx context.Context, number int, body string) (string, error)
	AddLabels(ctx context.Context, number int, labels []string) error
	RemoveLabel(ctx context.Context, number int, label string) error
	CloseIssue(ctx context.Context, number int) error
}

// Ensure Client implements all consumed capability surfaces.
var (
	_ SEPFetcher          = (*Client)(nil)
	_ SEPMutator          = (*Client)(nil)
	_ maintainers.TeamAPI = (*Client)(nil)
)
