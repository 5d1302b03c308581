package urlschema

import (
	"net/netip"
	"strings"

	"golang.org/x/net/idna"
)

// normalizeHost converts a hostname (without port) to lower-case ASCII form.
// IP literals are returned as-is apart from case.
func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	host = strings.TrimSuffix(host, ".")

	if host == "" {
		return ""
	}

	if isIPLiteral(host) {
		return strings.ToLower(host)
	}

	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil || ascii == "" {
		ascii = host
	}

	return strings.ToLower(ascii)
}

func isIPLiteral(host string) bool {
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	_, err := netip.ParseAddr(host)

	return err == nil
}

// subdomainLabels returns the labels of host left of root. The second return value is
// false when host is not owned by the platform at all.
func subdomainLabels(host, root string) ([]string, bool) {
	if host == "" || host == root || isIPLiteral(host) {
		return nil, true
	}

	prefix, ok := strings.CutSuffix(host, "."+root)
	if !ok {
		return nil, false
	}

	if prefix == "" {
		return nil, true
	}

	return strings.Split(prefix, "."), true
}
