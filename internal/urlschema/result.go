package urlschema

import "net/url"

// Outcome discriminates the result of a resolution.
type Outcome int

const (
	// OutcomeRewritten means URL is the address to treat the request as. It may equal
	// the input, in which case Changed reports false.
	OutcomeRewritten Outcome = iota
	// OutcomeNotFound means the request addresses a community that cannot exist.
	OutcomeNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRewritten:
		return "rewritten"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Result is the canonical form computed for a request URL.
type Result struct {
	Outcome Outcome
	URL     *url.URL

	// Community is set when the community was taken from a subdomain label.
	Community string

	// HostChanged compares hostnames only; a dropped port is reported by PortDropped.
	SchemeChanged bool
	HostChanged   bool
	PortDropped   bool
	PathChanged   bool
	QueryChanged  bool
}

// Changed reports whether the canonical URL differs from the input in any component.
func (r Result) Changed() bool {
	return r.SchemeChanged || r.HostChanged || r.PortDropped || r.PathChanged || r.QueryChanged
}

// NotFound reports whether the outcome is OutcomeNotFound.
func (r Result) NotFound() bool {
	return r.Outcome == OutcomeNotFound
}

// OriginChanged reports whether the scheme or hostname differs from the input.
func (r Result) OriginChanged() bool {
	return r.SchemeChanged || r.HostChanged
}
