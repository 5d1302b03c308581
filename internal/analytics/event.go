package analytics

import "time"

const (
	// TopicURLResolved carries ResolutionEvent for requests whose URL was rewritten,
	// redirected or not found.
	TopicURLResolved = "url.resolved"
	// TopicCommunityViewed carries CommunityViewedEvent.
	TopicCommunityViewed = "community.viewed"
)

// ResolutionEvent records how an incoming URL was canonicalized.
type ResolutionEvent struct {
	RequestID    string    `json:"requestId"`
	OriginalURL  string    `json:"originalUrl"`
	CanonicalURL string    `json:"canonicalUrl"`
	Outcome      string    `json:"outcome"`
	Action       string    `json:"action"`
	Community    string    `json:"community,omitempty"`
	ResolvedAt   time.Time `json:"resolvedAt"`
	ClientIP     string    `json:"clientIp"`
	UserAgent    string    `json:"userAgent"`
}

// CommunityViewedEvent represents a community page being served.
type CommunityViewedEvent struct {
	RequestID string    `json:"requestId"`
	Community string    `json:"community"`
	Page      string    `json:"page,omitempty"`
	URL       string    `json:"url,omitempty"`
	ViewedAt  time.Time `json:"viewedAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
	Referrer  string    `json:"referrer,omitempty"`
}
