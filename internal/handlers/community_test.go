package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/community-web/internal/analytics"
	"github.com/serroba/community-web/internal/community"
	"github.com/serroba/community-web/internal/handlers"
	"github.com/serroba/community-web/internal/messaging"
	"github.com/serroba/community-web/internal/store"
	"github.com/serroba/community-web/internal/urlschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// noopPublish returns a publish function that always succeeds.
func noopPublish[T any]() messaging.Publish[T] {
	return func(_ *T) error { return nil }
}

func newResolver(t *testing.T, subdomain bool) *urlschema.Resolver {
	t.Helper()

	r, err := urlschema.NewResolver(urlschema.Config{
		Hostname:           "codidact.com",
		UseSubdomainSchema: subdomain,
		CommunitySeparator: "community",
		SeparatorAliases:   []string{"comunidad"},
	})
	require.NoError(t, err)

	return r
}

func newTestHandler(
	t *testing.T,
	s community.Repository,
	publish messaging.Publish[analytics.CommunityViewedEvent],
) *handlers.CommunityHandler {
	t.Helper()

	ids := 0
	registrar := community.NewRegistrar(s, func() string {
		ids++

		return "id-" + string(rune('0'+ids))
	})

	return handlers.NewCommunityHandler(s, registrar, newResolver(t, false), publish, zap.NewNop())
}

func statusOf(t *testing.T, err error) int {
	t.Helper()

	var se huma.StatusError
	require.ErrorAs(t, err, &se)

	return se.GetStatus()
}

func createCommunity(t *testing.T, h *handlers.CommunityHandler, name string) *handlers.CreateCommunityResponse {
	t.Helper()

	req := &handlers.CreateCommunityRequest{}
	req.Body.Name = name

	resp, err := h.CreateCommunity(context.Background(), req)
	require.NoError(t, err)

	return resp
}

func TestCreateCommunity(t *testing.T) {
	t.Run("creates community with its public address", func(t *testing.T) {
		h := newTestHandler(t, store.NewMemoryStore(), noopPublish[analytics.CommunityViewedEvent]())

		req := &handlers.CreateCommunityRequest{}
		req.Body.Name = "scifi"
		req.Body.DisplayName = "Science Fiction"

		resp, err := h.CreateCommunity(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "id-1", resp.Body.ID)
		assert.Equal(t, "Science Fiction", resp.Body.DisplayName)
		assert.Equal(t, "https://codidact.com/community/scifi/", resp.Body.URL)
		assert.Equal(t, resp.Body.URL, resp.Headers.Location)
	})

	t.Run("returns 409 for duplicates", func(t *testing.T) {
		h := newTestHandler(t, store.NewMemoryStore(), noopPublish[analytics.CommunityViewedEvent]())
		createCommunity(t, h, "scifi")

		req := &handlers.CreateCommunityRequest{}
		req.Body.Name = "scifi"

		resp, err := h.CreateCommunity(context.Background(), req)

		assert.Nil(t, resp)
		assert.Equal(t, http.StatusConflict, statusOf(t, err))
	})

	t.Run("returns 422 for names that are not DNS labels", func(t *testing.T) {
		h := newTestHandler(t, store.NewMemoryStore(), noopPublish[analytics.CommunityViewedEvent]())

		req := &handlers.CreateCommunityRequest{}
		req.Body.Name = "Sci_Fi"

		_, err := h.CreateCommunity(context.Background(), req)

		assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))
	})

	t.Run("returns 500 on store error", func(t *testing.T) {
		h := newTestHandler(t, &mockStore{err: errMock}, noopPublish[analytics.CommunityViewedEvent]())

		req := &handlers.CreateCommunityRequest{}
		req.Body.Name = "scifi"

		_, err := h.CreateCommunity(context.Background(), req)

		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	})
}

func TestCommunityPage(t *testing.T) {
	t.Run("serves known communities and publishes a view", func(t *testing.T) {
		var events []*analytics.CommunityViewedEvent

		h := newTestHandler(t, store.NewMemoryStore(), func(e *analytics.CommunityViewedEvent) error {
			events = append(events, e)

			return nil
		})
		createCommunity(t, h, "scifi")

		ctx := handlers.ContextWithRequestMeta(context.Background(), handlers.RequestMeta{
			RequestID:    "req-1",
			ClientIP:     "192.0.2.1",
			UserAgent:    "TestAgent/1.0",
			Referrer:     "https://example.com",
			CanonicalURL: "https://example.com/community/scifi/meta",
		})

		resp, err := h.Subpage(ctx, &handlers.CommunitySubpageRequest{Community: "scifi", Page: "meta"})

		require.NoError(t, err)
		assert.Equal(t, "scifi", resp.Body.Community.Name)
		assert.Equal(t, "meta", resp.Body.Page)

		require.Len(t, events, 1)
		assert.Equal(t, "req-1", events[0].RequestID)
		assert.Equal(t, "scifi", events[0].Community)
		assert.Equal(t, "meta", events[0].Page)
		assert.Equal(t, "192.0.2.1", events[0].ClientIP)
		assert.Equal(t, "https://example.com", events[0].Referrer)
		assert.Equal(t, "https://example.com/community/scifi/meta", events[0].URL)
	})

	t.Run("returns 404 for unknown communities", func(t *testing.T) {
		h := newTestHandler(t, store.NewMemoryStore(), noopPublish[analytics.CommunityViewedEvent]())

		_, err := h.Community(context.Background(), &handlers.CommunityPageRequest{Community: "nope"})

		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("returns 404 for invalid names without hitting the store", func(t *testing.T) {
		h := newTestHandler(t, &mockStore{err: errMock}, noopPublish[analytics.CommunityViewedEvent]())

		_, err := h.Community(context.Background(), &handlers.CommunityPageRequest{Community: "Not Valid"})

		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("returns 500 on store error", func(t *testing.T) {
		h := newTestHandler(t, &mockStore{err: errMock}, noopPublish[analytics.CommunityViewedEvent]())

		_, err := h.Community(context.Background(), &handlers.CommunityPageRequest{Community: "scifi"})

		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	})

	t.Run("serves the page when publishing fails", func(t *testing.T) {
		h := newTestHandler(t, store.NewMemoryStore(), func(*analytics.CommunityViewedEvent) error {
			return errors.New("publish error")
		})
		createCommunity(t, h, "scifi")

		resp, err := h.Community(context.Background(), &handlers.CommunityPageRequest{Community: "scifi"})

		require.NoError(t, err)
		assert.Empty(t, resp.Body.Page)
	})
}

func TestHome(t *testing.T) {
	t.Run("lists communities with path schema addresses", func(t *testing.T) {
		h := newTestHandler(t, store.NewMemoryStore(), noopPublish[analytics.CommunityViewedEvent]())
		createCommunity(t, h, "writing")
		createCommunity(t, h, "cooking")

		resp, err := h.Home(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "codidact.com", resp.Body.Hostname)
		require.Len(t, resp.Body.Communities, 2)
		assert.Equal(t, "cooking", resp.Body.Communities[0].Name)
		assert.Equal(t, "https://codidact.com/community/cooking/", resp.Body.Communities[0].URL)
	})

	t.Run("uses subdomain addresses under the subdomain schema", func(t *testing.T) {
		s := store.NewMemoryStore()
		registrar := community.NewRegistrar(s, func() string { return "id" })
		h := handlers.NewCommunityHandler(s, registrar, newResolver(t, true),
			noopPublish[analytics.CommunityViewedEvent](), zap.NewNop())
		createCommunity(t, h, "scifi")

		resp, err := h.Home(context.Background(), nil)

		require.NoError(t, err)
		require.Len(t, resp.Body.Communities, 1)
		assert.Equal(t, "https://scifi.codidact.com/", resp.Body.Communities[0].URL)
	})

	t.Run("returns 500 on store error", func(t *testing.T) {
		h := newTestHandler(t, &mockStore{err: errMock}, noopPublish[analytics.CommunityViewedEvent]())

		_, err := h.Home(context.Background(), nil)

		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	})
}

func TestAdminOverview(t *testing.T) {
	h := newTestHandler(t, store.NewMemoryStore(), noopPublish[analytics.CommunityViewedEvent]())
	createCommunity(t, h, "scifi")

	resp, err := h.AdminOverview(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, "community", resp.Body.CommunitySeparator)
	assert.False(t, resp.Body.UseSubdomainSchema)
	assert.Equal(t, []string{"comunidad"}, resp.Body.SeparatorAliases)
	assert.Equal(t, urlschema.DefaultReservedSegments, resp.Body.ReservedSegments)
	assert.Equal(t, 1, resp.Body.Communities)
}

func TestErrorPage(t *testing.T) {
	h := newTestHandler(t, store.NewMemoryStore(), noopPublish[analytics.CommunityViewedEvent]())

	tests := []struct {
		code int
		want int
	}{
		{code: 404, want: http.StatusNotFound},
		{code: 410, want: http.StatusGone},
		{code: 503, want: http.StatusServiceUnavailable},
		{code: 200, want: http.StatusNotFound},
		{code: 499, want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.code), func(t *testing.T) {
			resp, err := h.ErrorPage(context.Background(), &handlers.ErrorPageRequest{Code: tt.code})

			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Status)
			assert.Equal(t, tt.want, resp.Body.Status)
			assert.Equal(t, http.StatusText(tt.want), resp.Body.Title)
		})
	}
}
