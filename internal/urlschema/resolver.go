// Package urlschema computes canonical request URLs for a platform that addresses
// communities either by subdomain (community.hostname/path) or by path
// (hostname/separator/community/path).
//
// Resolution is a pure function of the request URL and the Config: it performs no
// I/O, keeps no state between calls and is safe for concurrent use.
package urlschema

import (
	"net/url"
	"slices"
	"strings"
)

// NotFoundPath is the page every address naming a nested subdomain is sent to.
const NotFoundPath = "/error/404"

const defaultScheme = "https"

// Resolver resolves request URLs against a fixed Config.
type Resolver struct {
	cfg      Config
	aliases  map[string]struct{}
	reserved map[string]struct{}
}

// NewResolver normalizes and validates cfg and returns a Resolver bound to it.
func NewResolver(cfg Config) (*Resolver, error) {
	cfg = cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return newResolver(cfg), nil
}

// Resolve resolves u against cfg without validating it. Prefer NewResolver at startup
// and (*Resolver).Resolve per request.
func Resolve(u *url.URL, cfg Config) Result {
	return newResolver(cfg.Normalize()).Resolve(u)
}

func newResolver(cfg Config) *Resolver {
	r := &Resolver{
		cfg:      cfg,
		aliases:  make(map[string]struct{}, len(cfg.SeparatorAliases)),
		reserved: make(map[string]struct{}, len(cfg.ReservedSegments)),
	}

	for _, a := range cfg.SeparatorAliases {
		r.aliases[a] = struct{}{}
	}

	for _, s := range cfg.ReservedSegments {
		r.reserved[s] = struct{}{}
	}

	return r
}

// Config returns a copy of the normalized configuration.
func (r *Resolver) Config() Config {
	c := r.cfg
	c.SeparatorAliases = slices.Clone(r.cfg.SeparatorAliases)
	c.ReservedSegments = slices.Clone(r.cfg.ReservedSegments)

	return c
}

// Resolve computes the canonical form of the absolute URL u.
//
// Hosts outside the platform domain pass through, a single subdomain label is moved
// into the path after the community separator, and two or more labels resolve to
// OutcomeNotFound at NotFoundPath. The port never survives.
func (r *Resolver) Resolve(u *url.URL) Result {
	host := normalizeHost(u.Hostname())

	escaped := u.EscapedPath()
	if escaped == "" {
		escaped = "/"
	}

	labels, owned := subdomainLabels(host, r.cfg.Hostname)

	switch {
	case !owned:
		return r.build(u, host, escaped, u.RawQuery, "")
	case len(labels) > 1:
		res := r.build(u, r.cfg.Hostname, NotFoundPath, "", "")
		res.Outcome = OutcomeNotFound

		return res
	case len(labels) == 1:
		return r.build(u, r.cfg.Hostname, r.communityPath(labels[0], escaped), u.RawQuery, labels[0])
	default:
		return r.build(u, r.cfg.Hostname, r.rootPath(escaped), u.RawQuery, "")
	}
}

// PublicURL returns the address clients should use for path inside community.
func (r *Resolver) PublicURL(scheme, community, path string) *url.URL {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	u := &url.URL{Scheme: r.scheme(scheme)}

	if r.cfg.UseSubdomainSchema {
		u.Host = community + "." + r.cfg.Hostname
		u.Path = path

		return u
	}

	u.Host = r.cfg.Hostname
	u.Path = "/" + r.cfg.CommunitySeparator + "/" + community + path

	return u
}

// CommunityFromPath splits a canonical path of the form /separator/name/rest.
func (r *Resolver) CommunityFromPath(path string) (name, rest string, ok bool) {
	first, tail := splitFirstSegment(path)
	if first != r.cfg.CommunitySeparator {
		return "", "", false
	}

	name, rest = splitFirstSegment(tail)
	if name == "" {
		return "", "", false
	}

	return name, rest, true
}

// IsReserved reports whether segment is an administrative top-level segment.
func (r *Resolver) IsReserved(segment string) bool {
	_, ok := r.reserved[segment]

	return ok
}

func (r *Resolver) communityPath(community, escaped string) string {
	return "/" + url.PathEscape(r.cfg.CommunitySeparator) + "/" + community + escaped
}

// rootPath handles requests addressed to the apex itself.
func (r *Resolver) rootPath(escaped string) string {
	if r.cfg.UseSubdomainSchema {
		return escaped
	}

	first, rest := splitFirstSegment(escaped)

	name, err := url.PathUnescape(first)
	if err != nil || r.IsReserved(name) {
		return escaped
	}

	if _, ok := r.aliases[name]; ok {
		return "/" + url.PathEscape(r.cfg.CommunitySeparator) + rest
	}

	return escaped
}

func (r *Resolver) scheme(in string) string {
	switch {
	case r.cfg.Scheme != "":
		return r.cfg.Scheme
	case in == "":
		return defaultScheme
	default:
		return strings.ToLower(in)
	}
}

func (r *Resolver) build(in *url.URL, host, escaped, query, community string) Result {
	scheme := r.scheme(in.Scheme)

	out := &url.URL{Scheme: scheme, Host: host, RawQuery: query}
	setEscapedPath(out, escaped)

	return Result{
		Outcome:       OutcomeRewritten,
		URL:           out,
		Community:     community,
		SchemeChanged: scheme != in.Scheme,
		HostChanged:   host != in.Hostname(),
		PortDropped:   in.Port() != "",
		PathChanged:   escaped != in.EscapedPath(),
		QueryChanged:  query != in.RawQuery,
	}
}

func setEscapedPath(u *url.URL, escaped string) {
	p, err := url.PathUnescape(escaped)
	if err != nil {
		u.Path = escaped

		return
	}

	u.Path = p
	if p != escaped {
		u.RawPath = escaped
	}
}

// splitFirstSegment splits "/a/b/c" into "a" and "/b/c".
func splitFirstSegment(p string) (first, rest string) {
	p = strings.TrimPrefix(p, "/")

	i := strings.IndexByte(p, '/')
	if i < 0 {
		return p, ""
	}

	return p[:i], p[i:]
}
