package analytics

import "context"

// Store defines the interface for persisting analytics events.
type Store interface {
	SaveResolution(ctx context.Context, event *ResolutionEvent) error
	SaveCommunityViewed(ctx context.Context, event *CommunityViewedEvent) error
}
