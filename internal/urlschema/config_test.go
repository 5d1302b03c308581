package urlschema_test

import (
	"testing"

	"github.com/serroba/community-web/internal/urlschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Normalize(t *testing.T) {
	t.Run("lowercases hostname and drops trailing dot", func(t *testing.T) {
		cfg := urlschema.Config{Hostname: " Codidact.COM. ", CommunitySeparator: "community"}.Normalize()

		assert.Equal(t, "codidact.com", cfg.Hostname)
	})

	t.Run("converts unicode hostname to ascii", func(t *testing.T) {
		cfg := urlschema.Config{Hostname: "bücher.example", CommunitySeparator: "community"}.Normalize()

		assert.Equal(t, "xn--bcher-kva.example", cfg.Hostname)
	})

	t.Run("applies default reserved segments", func(t *testing.T) {
		cfg := urlschema.Config{Hostname: "codidact.com", CommunitySeparator: "community"}.Normalize()

		assert.Equal(t, urlschema.DefaultReservedSegments, cfg.ReservedSegments)
	})

	t.Run("keeps explicit empty reserved segments", func(t *testing.T) {
		cfg := urlschema.Config{
			Hostname:           "codidact.com",
			CommunitySeparator: "community",
			ReservedSegments:   []string{},
		}.Normalize()

		assert.Empty(t, cfg.ReservedSegments)
	})

	t.Run("drops blank and duplicate aliases", func(t *testing.T) {
		cfg := urlschema.Config{
			Hostname:           "codidact.com",
			CommunitySeparator: "community",
			SeparatorAliases:   []string{"comunidad", " ", "comunidad", " gemeinschaft "},
		}.Normalize()

		assert.Equal(t, []string{"comunidad", "gemeinschaft"}, cfg.SeparatorAliases)
	})

	t.Run("does not share slices with the input", func(t *testing.T) {
		aliases := []string{"comunidad"}
		cfg := urlschema.Config{
			Hostname:           "codidact.com",
			CommunitySeparator: "community",
			SeparatorAliases:   aliases,
		}.Normalize()

		aliases[0] = "changed"

		assert.Equal(t, []string{"comunidad"}, cfg.SeparatorAliases)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := func() urlschema.Config {
		return urlschema.Config{Hostname: "codidact.com", CommunitySeparator: "community"}
	}

	tests := []struct {
		name   string
		mutate func(c *urlschema.Config)
	}{
		{name: "empty hostname", mutate: func(c *urlschema.Config) { c.Hostname = "" }},
		{name: "hostname with scheme", mutate: func(c *urlschema.Config) { c.Hostname = "https://codidact.com" }},
		{name: "hostname with port", mutate: func(c *urlschema.Config) { c.Hostname = "codidact.com:8080" }},
		{name: "hostname with path", mutate: func(c *urlschema.Config) { c.Hostname = "codidact.com/x" }},
		{name: "hostname is ip", mutate: func(c *urlschema.Config) { c.Hostname = "127.0.0.1" }},
		{name: "empty separator", mutate: func(c *urlschema.Config) { c.CommunitySeparator = "" }},
		{name: "separator with slash", mutate: func(c *urlschema.Config) { c.CommunitySeparator = "c/d" }},
		{name: "separator reserved", mutate: func(c *urlschema.Config) { c.CommunitySeparator = "admin" }},
		{name: "alias equals separator", mutate: func(c *urlschema.Config) {
			c.SeparatorAliases = []string{"community"}
		}},
		{name: "alias reserved", mutate: func(c *urlschema.Config) { c.SeparatorAliases = []string{"error"} }},
		{name: "alias with slash", mutate: func(c *urlschema.Config) { c.SeparatorAliases = []string{"a/b"} }},
		{name: "unsupported scheme", mutate: func(c *urlschema.Config) { c.Scheme = "ftp" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(&cfg)

			_, err := urlschema.NewResolver(cfg)

			require.Error(t, err)
			assert.ErrorIs(t, err, urlschema.ErrInvalidConfig)
		})
	}

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.SeparatorAliases = []string{"comunidad"}
		cfg.Scheme = "HTTPS"

		r, err := urlschema.NewResolver(cfg)

		require.NoError(t, err)
		assert.Equal(t, "https", r.Config().Scheme)
	})
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "rewritten", urlschema.OutcomeRewritten.String())
	assert.Equal(t, "not_found", urlschema.OutcomeNotFound.String())
	assert.Equal(t, "unknown", urlschema.Outcome(42).String())
}
