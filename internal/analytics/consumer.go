package analytics

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/community-web/internal/messaging"
	"go.uber.org/zap"
)

// RegisterConsumers adds one consumer per analytics topic to group, each persisting
// into store.
func RegisterConsumers(group *messaging.ConsumerGroup, subscriber message.Subscriber, store Store, logger *zap.Logger) {
	group.Add(messaging.NewConsumer[ResolutionEvent](subscriber, TopicURLResolved, store.SaveResolution, logger))
	group.Add(messaging.NewConsumer[CommunityViewedEvent](subscriber, TopicCommunityViewed, store.SaveCommunityViewed, logger))
}
