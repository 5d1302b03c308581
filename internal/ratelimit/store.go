package ratelimit

import (
	"context"
	"time"
)

// Store counts requests per key over a sliding window.
//
// PolicyLimiter embeds the window length in every key, so a key is always recorded
// with the same window. Implementations must only forget a key once its own window
// has passed.
type Store interface {
	// Record adds a request at the current time and returns how many requests for key
	// fall inside the trailing window, including this one.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}
