package analytics

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/community-web/internal/messaging"
)

// Publishers bundles the typed publish functions for every analytics topic.
type Publishers struct {
	Resolution      messaging.Publish[ResolutionEvent]
	CommunityViewed messaging.Publish[CommunityViewedEvent]
}

// NewPublishers creates publish functions for all analytics topics on publisher.
func NewPublishers(publisher message.Publisher) Publishers {
	return Publishers{
		Resolution:      messaging.NewPublishFunc[ResolutionEvent](publisher, TopicURLResolved),
		CommunityViewed: messaging.NewPublishFunc[CommunityViewedEvent](publisher, TopicCommunityViewed),
	}
}

// Discard returns publish functions that drop every event.
func Discard() Publishers {
	return Publishers{
		Resolution:      func(*ResolutionEvent) error { return nil },
		CommunityViewed: func(*CommunityViewedEvent) error { return nil },
	}
}
