package urlschema

import (
	"errors"
	"fmt"
	"net/netip"
	"slices"
	"strings"
)

// ErrInvalidConfig is returned when a Config violates its invariants.
var ErrInvalidConfig = errors.New("invalid url schema config")

// DefaultReservedSegments are the top-level segments that never address a community.
var DefaultReservedSegments = []string{"admin", "error"}

// Config is the process-wide schema configuration. It is built once at startup and
// treated as an immutable value afterwards.
type Config struct {
	// Hostname is the platform apex domain, e.g. "codidact.com".
	Hostname string
	// UseSubdomainSchema selects community.hostname as the public addressing scheme.
	UseSubdomainSchema bool
	// CommunitySeparator is the path segment preceding a community name.
	CommunitySeparator string
	// SeparatorAliases are alternate spellings of CommunitySeparator accepted on input.
	SeparatorAliases []string
	// ReservedSegments are administrative top-level segments. Nil means DefaultReservedSegments.
	ReservedSegments []string
	// Scheme forces the canonical scheme when set; otherwise the request scheme is kept.
	Scheme string
}

// Normalize returns a copy of c with the hostname in canonical form, slices cloned and
// defaults applied.
func (c Config) Normalize() Config {
	out := c
	out.Hostname = normalizeHost(c.Hostname)
	out.CommunitySeparator = strings.TrimSpace(c.CommunitySeparator)
	out.Scheme = strings.ToLower(strings.TrimSpace(c.Scheme))
	out.SeparatorAliases = cleanSegments(c.SeparatorAliases)

	if c.ReservedSegments == nil {
		out.ReservedSegments = slices.Clone(DefaultReservedSegments)
	} else {
		out.ReservedSegments = cleanSegments(c.ReservedSegments)
	}

	return out
}

// Validate checks the invariants of an already normalized config.
func (c Config) Validate() error {
	if c.Hostname == "" {
		return fmt.Errorf("%w: hostname is required", ErrInvalidConfig)
	}

	if strings.ContainsAny(c.Hostname, "/:?#@ ") {
		return fmt.Errorf("%w: hostname %q must not contain a scheme, port or path", ErrInvalidConfig, c.Hostname)
	}

	if _, err := netip.ParseAddr(c.Hostname); err == nil {
		return fmt.Errorf("%w: hostname %q must not be an IP address", ErrInvalidConfig, c.Hostname)
	}

	if err := validateSegment("community separator", c.CommunitySeparator); err != nil {
		return err
	}

	for _, seg := range c.ReservedSegments {
		if err := validateSegment("reserved segment", seg); err != nil {
			return err
		}
	}

	if slices.Contains(c.ReservedSegments, c.CommunitySeparator) {
		return fmt.Errorf("%w: community separator %q is a reserved segment", ErrInvalidConfig, c.CommunitySeparator)
	}

	for _, alias := range c.SeparatorAliases {
		if err := validateSegment("separator alias", alias); err != nil {
			return err
		}

		if alias == c.CommunitySeparator {
			return fmt.Errorf("%w: separator alias %q equals the community separator", ErrInvalidConfig, alias)
		}

		if slices.Contains(c.ReservedSegments, alias) {
			return fmt.Errorf("%w: separator alias %q is a reserved segment", ErrInvalidConfig, alias)
		}
	}

	switch c.Scheme {
	case "", "http", "https":
	default:
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidConfig, c.Scheme)
	}

	return nil
}

func validateSegment(what, seg string) error {
	if seg == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, what)
	}

	if strings.Contains(seg, "/") {
		return fmt.Errorf("%w: %s %q must not contain '/'", ErrInvalidConfig, what, seg)
	}

	return nil
}

func cleanSegments(in []string) []string {
	out := make([]string, 0, len(in))

	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || slices.Contains(out, s) {
			continue
		}

		out = append(out, s)
	}

	return out
}
