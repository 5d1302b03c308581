package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/community-web/internal/analytics"
)

const analyticsSchema = `
	CREATE TABLE IF NOT EXISTS url_resolutions (
		id            BIGSERIAL PRIMARY KEY,
		request_id    TEXT NOT NULL,
		original_url  TEXT NOT NULL,
		canonical_url TEXT NOT NULL,
		outcome       TEXT NOT NULL,
		action        TEXT NOT NULL,
		community     TEXT,
		client_ip     TEXT,
		user_agent    TEXT,
		resolved_at   TIMESTAMPTZ NOT NULL
	);
	CREATE TABLE IF NOT EXISTS community_views (
		id         BIGSERIAL PRIMARY KEY,
		request_id TEXT NOT NULL,
		community  TEXT NOT NULL,
		page       TEXT,
		url        TEXT,
		client_ip  TEXT,
		user_agent TEXT,
		referrer   TEXT,
		viewed_at  TIMESTAMPTZ NOT NULL
	);
	ALTER TABLE community_views ADD COLUMN IF NOT EXISTS url TEXT;
`

// Postgres persists analytics events into PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a new PostgreSQL analytics store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the analytics tables if they do not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, analyticsSchema)

	return err
}

func (p *Postgres) SaveResolution(ctx context.Context, event *analytics.ResolutionEvent) error {
	query := `
		INSERT INTO url_resolutions
			(request_id, original_url, canonical_url, outcome, action, community, client_ip, user_agent, resolved_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9)
	`

	_, err := p.pool.Exec(ctx, query,
		event.RequestID,
		event.OriginalURL,
		event.CanonicalURL,
		event.Outcome,
		event.Action,
		event.Community,
		event.ClientIP,
		event.UserAgent,
		event.ResolvedAt,
	)

	return err
}

func (p *Postgres) SaveCommunityViewed(ctx context.Context, event *analytics.CommunityViewedEvent) error {
	query := `
		INSERT INTO community_views
			(request_id, community, page, url, client_ip, user_agent, referrer, viewed_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, NULLIF($7, ''), $8)
	`

	_, err := p.pool.Exec(ctx, query,
		event.RequestID,
		event.Community,
		event.Page,
		event.URL,
		event.ClientIP,
		event.UserAgent,
		event.Referrer,
		event.ViewedAt,
	)

	return err
}

// Compile-time check.
var _ analytics.Store = (*Postgres)(nil)
