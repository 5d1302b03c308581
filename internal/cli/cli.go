// Package cli implements the urlschema command, which resolves URLs offline against a
// URL schema configuration.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/serroba/community-web/internal/urlschema"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the urlschema command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "urlschema",
		Short:         "Inspect community URL canonicalization",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newResolveCmd())

	return root
}

type resolveFlags struct {
	hostname  string
	subdomain bool
	separator string
	aliases   []string
	reserved  []string
	scheme    string
	json      bool
}

// resolution is one JSON output line.
type resolution struct {
	Input     string `json:"input"`
	Outcome   string `json:"outcome"`
	URL       string `json:"url"`
	Community string `json:"community,omitempty"`
	Changed   bool   `json:"changed"`
}

func newResolveCmd() *cobra.Command {
	var flags resolveFlags

	cmd := &cobra.Command{
		Use:   "resolve URL...",
		Short: "Print the canonical form of each URL",
		Long: `Resolve each URL the way the server would before routing it.

URLs without a scheme are read as host/path. Each input prints one line of the
form OUTCOME CANONICAL_URL, or one JSON object with --json.`,
		Example: `  urlschema resolve --hostname codidact.com --subdomain-schema scifi.codidact.com/meta
  urlschema resolve --hostname codidact.com --alias comunidad --json https://codidact.com/comunidad/foo`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.OutOrStdout(), flags, args)
		},
	}

	cmd.Flags().StringVar(&flags.hostname, "hostname", "", "platform domain communities live under")
	cmd.Flags().BoolVar(&flags.subdomain, "subdomain-schema", false, "address communities as subdomains")
	cmd.Flags().StringVar(&flags.separator, "separator", "community", "path segment preceding the community name")
	cmd.Flags().StringArrayVar(&flags.aliases, "alias", nil, "alternate separator rewritten to --separator (repeatable)")
	cmd.Flags().StringArrayVar(&flags.reserved, "reserved", nil,
		"top-level segment that is never a community (repeatable, default admin and error)")
	cmd.Flags().StringVar(&flags.scheme, "scheme", "", "force http or https on canonical URLs")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print JSON lines")
	_ = cmd.MarkFlagRequired("hostname")

	return cmd
}

func runResolve(out io.Writer, flags resolveFlags, args []string) error {
	resolver, err := urlschema.NewResolver(urlschema.Config{
		Hostname:           flags.hostname,
		UseSubdomainSchema: flags.subdomain,
		CommunitySeparator: flags.separator,
		SeparatorAliases:   flags.aliases,
		ReservedSegments:   flags.reserved,
		Scheme:             flags.scheme,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)

	for _, arg := range args {
		u, err := parseInput(arg)
		if err != nil {
			return err
		}

		res := resolver.Resolve(u)

		if flags.json {
			if err := enc.Encode(resolution{
				Input:     arg,
				Outcome:   res.Outcome.String(),
				URL:       res.URL.String(),
				Community: res.Community,
				Changed:   res.Changed(),
			}); err != nil {
				return fmt.Errorf("write result: %w", err)
			}

			continue
		}

		if _, err := fmt.Fprintf(out, "%s %s\n", res.Outcome, res.URL); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}

	return nil
}

func parseInput(raw string) (*url.URL, error) {
	if !strings.Contains(raw, "://") {
		raw = "//" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", raw, err)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("invalid url %q: missing host", raw)
	}

	return u, nil
}
