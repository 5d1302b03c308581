package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/community-web/internal/ratelimit"
)

// RegisterRoutes registers the community routes. Community pages live under separator,
// the path every subdomain request is rewritten to.
func RegisterRoutes(api huma.API, h *CommunityHandler, separator string) {
	communityPath := "/" + separator + "/{community}"

	huma.Register(api, huma.Operation{
		OperationID: "get-home",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Platform home",
		Description: "Lists the communities hosted on the platform with their public addresses.",
		Tags:        []string{"Communities"},
	}, h.Home)

	huma.Register(api, huma.Operation{
		OperationID: "get-community",
		Method:      http.MethodGet,
		Path:        communityPath,
		Summary:     "Community front page",
		Tags:        []string{"Communities"},
	}, h.Community)

	huma.Register(api, huma.Operation{
		OperationID: "get-community-page",
		Method:      http.MethodGet,
		Path:        communityPath + "/{page}",
		Summary:     "Community page",
		Tags:        []string{"Communities"},
	}, h.Subpage)

	// Nested subdomains are rewritten here, so it must stay cheap and unlimited.
	huma.Register(api, huma.Operation{
		OperationID: "get-error-page",
		Method:      http.MethodGet,
		Path:        "/error/{code}",
		Summary:     "Error page",
		Tags:        []string{"Errors"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, h.ErrorPage)

	huma.Register(api, huma.Operation{
		OperationID: "get-admin",
		Method:      http.MethodGet,
		Path:        "/admin",
		Summary:     "Admin overview",
		Description: "Reports the URL schema configuration and the number of communities.",
		Tags:        []string{"Admin"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeAdmin},
		},
	}, h.AdminOverview)

	huma.Register(api, huma.Operation{
		OperationID:   "create-community",
		Method:        http.MethodPost,
		Path:          "/admin/communities",
		Summary:       "Create community",
		Tags:          []string{"Admin"},
		DefaultStatus: http.StatusCreated,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 5},
					{Window: 24 * time.Hour, Max: 50},
				},
			},
		},
	}, h.CreateCommunity)
}
