package container

import (
	"context"
	"fmt"

	"github.com/samber/do"
	"github.com/serroba/community-web/internal/analytics"
	analyticsstore "github.com/serroba/community-web/internal/analytics/store"
	"github.com/serroba/community-web/internal/messaging"
	"go.uber.org/zap"
)

// ConsumerGroupName is the Redis Streams consumer group of the analytics consumer.
const ConsumerGroupName = "analytics"

// PublisherGroupPackage provides the analytics publishers. With Options.Events unset the
// publishers discard every event and Redis is never contacted.
func PublisherGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		publisher, err := messaging.NewRedisStreamPublisher(
			do.MustInvoke[*Redis](i).Client,
			do.MustInvoke[*zap.Logger](i),
		)
		if err != nil {
			return nil, fmt.Errorf("create publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(i, func(i *do.Injector) (analytics.Publishers, error) {
		if !do.MustInvoke[*Options](i).Events {
			return analytics.Discard(), nil
		}

		return analytics.NewPublishers(do.MustInvoke[*messaging.PublisherGroup](i).Publisher()), nil
	})
}

// ConsumerGroupPackage provides the analytics *messaging.ConsumerGroup.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, newAnalyticsStore)

	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := messaging.NewRedisStreamSubscriber(do.MustInvoke[*Redis](i).Client, ConsumerGroupName, logger)
		if err != nil {
			return nil, fmt.Errorf("create subscriber: %w", err)
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		analytics.RegisterConsumers(group, subscriber, do.MustInvoke[analytics.Store](i), logger)

		return group, nil
	})
}

func newAnalyticsStore(i *do.Injector) (analytics.Store, error) {
	opts := do.MustInvoke[*Options](i)
	logger := do.MustInvoke[*zap.Logger](i)

	switch opts.AnalyticsStore {
	case "", "noop":
		return analyticsstore.NewNoop(logger), nil
	case StoragePostgres:
		pg := analyticsstore.NewPostgres(do.MustInvoke[*Postgres](i).Pool)
		if err := pg.Migrate(context.Background()); err != nil {
			return nil, fmt.Errorf("migrate analytics: %w", err)
		}

		return pg, nil
	default:
		return nil, fmt.Errorf("unknown analytics store %q", opts.AnalyticsStore)
	}
}
