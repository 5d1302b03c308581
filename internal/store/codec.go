package store

import (
	"strconv"
	"time"

	"github.com/serroba/community-web/internal/community"
)

// communityFields encodes a community as a Redis hash.
func communityFields(c *community.Community) map[string]any {
	return map[string]any{
		"id":           c.ID,
		"name":         string(c.Name),
		"display_name": c.DisplayName,
		"description":  c.Description,
		"created_at":   c.CreatedAt.UnixNano(),
	}
}

// communityFromFields decodes a Redis hash written by communityFields.
// It returns community.ErrNotFound for an empty hash.
func communityFromFields(fields map[string]string) (*community.Community, error) {
	if len(fields) == 0 {
		return nil, community.ErrNotFound
	}

	var createdAt time.Time

	if ts, ok := fields["created_at"]; ok {
		if nanos, err := strconv.ParseInt(ts, 10, 64); err == nil {
			createdAt = time.Unix(0, nanos).UTC()
		}
	}

	return &community.Community{
		ID:          fields["id"],
		Name:        community.Name(fields["name"]),
		DisplayName: fields["display_name"],
		Description: fields["description"],
		CreatedAt:   createdAt,
	}, nil
}
