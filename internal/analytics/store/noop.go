package store

import (
	"context"

	"github.com/serroba/community-web/internal/analytics"
	"go.uber.org/zap"
)

// Noop is a no-op implementation of analytics.Store that logs events.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveResolution(_ context.Context, event *analytics.ResolutionEvent) error {
	n.logger.Info("url resolution event received",
		zap.String("requestId", event.RequestID),
		zap.String("originalUrl", event.OriginalURL),
		zap.String("canonicalUrl", event.CanonicalURL),
		zap.String("outcome", event.Outcome),
		zap.String("action", event.Action),
		zap.Time("resolvedAt", event.ResolvedAt),
	)

	return nil
}

func (n *Noop) SaveCommunityViewed(_ context.Context, event *analytics.CommunityViewedEvent) error {
	n.logger.Info("community viewed event received",
		zap.String("community", event.Community),
		zap.String("page", event.Page),
		zap.Time("viewedAt", event.ViewedAt),
		zap.String("referrer", event.Referrer),
	)

	return nil
}

// Compile-time check.
var _ analytics.Store = (*Noop)(nil)
