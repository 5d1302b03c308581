package ratelimit_test

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"mime/multipart"
	"net/url"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/community-web/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMultipartNotSupported = errors.New("multipart not supported in mock")

// mockHumaContext implements the parts of huma.Context scope resolution reads.
type mockHumaContext struct {
	method    string
	operation *huma.Operation
}

func (m *mockHumaContext) Operation() *huma.Operation {
	return m.operation
}
func (m *mockHumaContext) Context() context.Context          { return context.Background() }
func (m *mockHumaContext) TLS() *tls.ConnectionState         { return nil }
func (m *mockHumaContext) Version() huma.ProtoVersion        { return huma.ProtoVersion{} }
func (m *mockHumaContext) Method() string                    { return m.method }
func (m *mockHumaContext) Host() string                      { return "" }
func (m *mockHumaContext) RemoteAddr() string                { return "" }
func (m *mockHumaContext) URL() url.URL                      { return url.URL{} }
func (m *mockHumaContext) Param(_ string) string             { return "" }
func (m *mockHumaContext) Query(_ string) string             { return "" }
func (m *mockHumaContext) Header(_ string) string            { return "" }
func (m *mockHumaContext) EachHeader(_ func(string, string)) {}
func (m *mockHumaContext) BodyReader() io.Reader             { return nil }
func (m *mockHumaContext) GetMultipartForm() (*multipart.Form, error) {
	return nil, errMultipartNotSupported
}
func (m *mockHumaContext) SetReadDeadline(_ time.Time) error { return nil }
func (m *mockHumaContext) SetStatus(_ int)                   {}
func (m *mockHumaContext) Status() int                       { return 0 }
func (m *mockHumaContext) AppendHeader(_, _ string)          {}
func (m *mockHumaContext) SetHeader(_, _ string)             {}
func (m *mockHumaContext) BodyWriter() io.Writer             { return nil }

func TestMethodScope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method string
		want   ratelimit.Scope
	}{
		{method: "GET", want: ratelimit.ScopeRead},
		{method: "HEAD", want: ratelimit.ScopeRead},
		{method: "OPTIONS", want: ratelimit.ScopeRead},
		{method: "POST", want: ratelimit.ScopeWrite},
		{method: "PUT", want: ratelimit.ScopeWrite},
		{method: "PATCH", want: ratelimit.ScopeWrite},
		{method: "DELETE", want: ratelimit.ScopeWrite},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ratelimit.MethodScope(tt.method))
		})
	}
}

func TestOperationScopeResolver_Resolve(t *testing.T) {
	t.Parallel()

	resolver := ratelimit.NewOperationScopeResolver()

	withConfig := func(cfg ratelimit.EndpointConfig) *huma.Operation {
		return &huma.Operation{Metadata: map[string]any{ratelimit.MetadataKey: cfg}}
	}

	tests := []struct {
		name      string
		method    string
		operation *huma.Operation
		want      []ratelimit.Scope
	}{
		{
			name:   "nil operation uses method",
			method: "GET",
			want:   []ratelimit.Scope{ratelimit.ScopeGlobal, ratelimit.ScopeRead},
		},
		{
			name:      "operation without metadata uses method",
			method:    "POST",
			operation: &huma.Operation{},
			want:      []ratelimit.Scope{ratelimit.ScopeGlobal, ratelimit.ScopeWrite},
		},
		{
			name:      "unrelated metadata uses method",
			method:    "GET",
			operation: &huma.Operation{Metadata: map[string]any{"other": "value"}},
			want:      []ratelimit.Scope{ratelimit.ScopeGlobal, ratelimit.ScopeRead},
		},
		{
			name:      "admin scope from metadata",
			method:    "POST",
			operation: withConfig(ratelimit.EndpointConfig{Scope: ratelimit.ScopeAdmin}),
			want:      []ratelimit.Scope{ratelimit.ScopeGlobal, ratelimit.ScopeAdmin},
		},
		{
			name:      "metadata overrides GET to write",
			method:    "GET",
			operation: withConfig(ratelimit.EndpointConfig{Scope: ratelimit.ScopeWrite}),
			want:      []ratelimit.Scope{ratelimit.ScopeGlobal, ratelimit.ScopeWrite},
		},
		{
			name:   "limits without scope use method",
			method: "POST",
			operation: withConfig(ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{{Window: time.Minute, Max: 10}},
			}),
			want: []ratelimit.Scope{ratelimit.ScopeGlobal, ratelimit.ScopeWrite},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := &mockHumaContext{method: tt.method, operation: tt.operation}

			assert.Equal(t, tt.want, resolver.Resolve(ctx))
		})
	}
}

func TestEndpointConfigFrom(t *testing.T) {
	t.Parallel()

	t.Run("nil operation", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, ratelimit.EndpointConfigFrom(&mockHumaContext{}))
	})

	t.Run("wrong metadata type", func(t *testing.T) {
		t.Parallel()

		ctx := &mockHumaContext{operation: &huma.Operation{
			Metadata: map[string]any{ratelimit.MetadataKey: "wrong type"},
		}}

		assert.Nil(t, ratelimit.EndpointConfigFrom(ctx))
	})

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		ctx := &mockHumaContext{operation: &huma.Operation{
			Metadata: map[string]any{ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Scope:    ratelimit.ScopeAdmin,
				Disabled: true,
			}},
		}}

		cfg := ratelimit.EndpointConfigFrom(ctx)

		require.NotNil(t, cfg)
		assert.Equal(t, ratelimit.ScopeAdmin, cfg.Scope)
		assert.True(t, cfg.Disabled)
	})
}
