package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/community-web/internal/community"
)

const communitiesSchema = `
	CREATE TABLE IF NOT EXISTS communities (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL
	)
`

// PostgresStore is a PostgreSQL implementation of community.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed community store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the communities table if it does not exist.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, communitiesSchema)

	return err
}

func (p *PostgresStore) Save(ctx context.Context, c *community.Community) error {
	query := `
		INSERT INTO communities (id, name, display_name, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO NOTHING
	`

	tag, err := p.pool.Exec(ctx, query,
		c.ID,
		string(c.Name),
		c.DisplayName,
		c.Description,
		c.CreatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return community.ErrAlreadyExists
	}

	return nil
}

func (p *PostgresStore) GetByName(ctx context.Context, name community.Name) (*community.Community, error) {
	query := `
		SELECT id, name, display_name, description, created_at
		FROM communities
		WHERE name = $1
	`

	c, err := scanCommunity(p.pool.QueryRow(ctx, query, string(name)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, community.ErrNotFound
		}

		return nil, err
	}

	return c, nil
}

func (p *PostgresStore) List(ctx context.Context) ([]*community.Community, error) {
	query := `
		SELECT id, name, display_name, description, created_at
		FROM communities
		ORDER BY name
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*community.Community

	for rows.Next() {
		c, err := scanCommunity(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, c)
	}

	return out, rows.Err()
}

func scanCommunity(row pgx.Row) (*community.Community, error) {
	var (
		c    community.Community
		name string
	)

	if err := row.Scan(&c.ID, &name, &c.DisplayName, &c.Description, &c.CreatedAt); err != nil {
		return nil, err
	}

	c.Name = community.Name(name)

	return &c, nil
}

// Compile-time check.
var _ community.Repository = (*PostgresStore)(nil)
