package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Subject identifies the client a request is counted against. Read and write budgets are
// kept per community, so a client busy in one community does not exhaust another.
type Subject struct {
	Client    string
	Community string
}

func (s Subject) key(scope Scope) string {
	if s.Community == "" || (scope != ScopeRead && scope != ScopeWrite) {
		return s.Client
	}

	return s.Client + "@" + s.Community
}

// LimitExceeded describes the limit a request ran into.
type LimitExceeded struct {
	Scope  Scope
	Route  string
	Config LimitConfig
	Count  int64
}

// RetryAfter is the longest a client has to wait before the window frees a slot.
func (e *LimitExceeded) RetryAfter() time.Duration {
	return e.Config.Window.Round(time.Second)
}

func (e *LimitExceeded) String() string {
	target := string(e.Scope) + " scope"
	if e.Route != "" {
		target = e.Route
	}

	return fmt.Sprintf("%s, %d/%d requests in %s", target, e.Count, e.Config.Max, e.Config.Window)
}

// PolicyLimiter enforces the limits of a Policy over a Store.
type PolicyLimiter struct {
	store  Store
	policy *Policy
}

// NewPolicyLimiter creates a new policy-based rate limiter.
func NewPolicyLimiter(store Store, policy *Policy) *PolicyLimiter {
	return &PolicyLimiter{
		store:  store,
		policy: policy,
	}
}

// Allow records the request against every limit of every scope and reports the first
// limit exceeded, if any.
func (l *PolicyLimiter) Allow(ctx context.Context, subject Subject, scopes []Scope) (bool, *LimitExceeded, error) {
	for _, scope := range scopes {
		for _, limit := range l.policy.Limits[scope] {
			key := fmt.Sprintf("%s:%s:%d", subject.key(scope), scope, limit.Window.Milliseconds())

			exceeded, err := l.record(ctx, key, limit)
			if err != nil {
				return false, nil, err
			}

			if exceeded != nil {
				exceeded.Scope = scope

				return false, exceeded, nil
			}
		}
	}

	return true, nil, nil
}

// AllowRoute applies endpoint specific limits instead of the policy. Counters are shared
// by every request matching the route template.
func (l *PolicyLimiter) AllowRoute(
	ctx context.Context,
	subject Subject,
	route string,
	limits []LimitConfig,
) (bool, *LimitExceeded, error) {
	for _, limit := range limits {
		key := fmt.Sprintf("%s:route:%s:%d", subject.key(ScopeRead), route, limit.Window.Milliseconds())

		exceeded, err := l.record(ctx, key, limit)
		if err != nil {
			return false, nil, err
		}

		if exceeded != nil {
			exceeded.Route = route

			return false, exceeded, nil
		}
	}

	return true, nil, nil
}

func (l *PolicyLimiter) record(ctx context.Context, key string, limit LimitConfig) (*LimitExceeded, error) {
	count, err := l.store.Record(ctx, key, limit.Window)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", key, err)
	}

	if count > limit.Max {
		return &LimitExceeded{Config: limit, Count: count}, nil
	}

	return nil, nil
}
