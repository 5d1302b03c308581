package community

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	ErrNotFound      = errors.New("community not found")
	ErrAlreadyExists = errors.New("community already exists")
	ErrInvalidName   = errors.New("invalid community name")
)

// Name is a community identifier. It doubles as a DNS label under the subdomain schema.
type Name string

var namePattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// Validate checks that n can be used both as a subdomain label and as a path segment.
func (n Name) Validate() error {
	if !namePattern.MatchString(string(n)) {
		return fmt.Errorf("%w: %q must be 1-63 lowercase letters, digits or hyphens", ErrInvalidName, string(n))
	}

	return nil
}

// Community is a tenant of the platform.
type Community struct {
	ID          string
	Name        Name
	DisplayName string
	Description string
	CreatedAt   time.Time
}

// Repository defines the interface for community storage operations.
type Repository interface {
	// Save stores a new community. Returns ErrAlreadyExists if the name is taken.
	Save(ctx context.Context, c *Community) error
	// GetByName returns ErrNotFound if no community has the given name.
	GetByName(ctx context.Context, name Name) (*Community, error)
	// List returns all communities ordered by name.
	List(ctx context.Context) ([]*Community, error)
}

// IDGenerator generates unique community identifiers.
type IDGenerator func() string

// Registrar creates communities after validating them.
type Registrar struct {
	store      Repository
	generateID IDGenerator
	now        func() time.Time
}

// NewRegistrar creates a new community registrar.
func NewRegistrar(store Repository, generator IDGenerator) *Registrar {
	return &Registrar{
		store:      store,
		generateID: generator,
		now:        time.Now,
	}
}

// Register validates the name and stores a new community.
func (r *Registrar) Register(ctx context.Context, name Name, displayName, description string) (*Community, error) {
	if err := name.Validate(); err != nil {
		return nil, err
	}

	if displayName == "" {
		displayName = string(name)
	}

	c := &Community{
		ID:          r.generateID(),
		Name:        name,
		DisplayName: displayName,
		Description: description,
		CreatedAt:   r.now().UTC(),
	}

	if err := r.store.Save(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}
