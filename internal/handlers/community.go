package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/community-web/internal/analytics"
	"github.com/serroba/community-web/internal/community"
	"github.com/serroba/community-web/internal/messaging"
	"github.com/serroba/community-web/internal/urlschema"
	"go.uber.org/zap"
)

// CommunityHandler serves the platform home, community pages and the admin surface.
type CommunityHandler struct {
	store                community.Repository
	registrar            *community.Registrar
	resolver             *urlschema.Resolver
	publishCommunityView messaging.Publish[analytics.CommunityViewedEvent]
	logger               *zap.Logger
}

// NewCommunityHandler creates a new community handler.
func NewCommunityHandler(
	store community.Repository,
	registrar *community.Registrar,
	resolver *urlschema.Resolver,
	publishCommunityView messaging.Publish[analytics.CommunityViewedEvent],
	logger *zap.Logger,
) *CommunityHandler {
	return &CommunityHandler{
		store:                store,
		registrar:            registrar,
		resolver:             resolver,
		publishCommunityView: publishCommunityView,
		logger:               logger,
	}
}

// Home lists every community with its public address.
func (h *CommunityHandler) Home(ctx context.Context, _ *struct{}) (*HomeResponse, error) {
	communities, err := h.store.List(ctx)
	if err != nil {
		h.logger.Error("failed to list communities", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list communities")
	}

	resp := &HomeResponse{}
	resp.Body.Hostname = h.resolver.Config().Hostname
	resp.Body.Communities = make([]CommunitySummary, 0, len(communities))

	for _, c := range communities {
		resp.Body.Communities = append(resp.Body.Communities, CommunitySummary{
			Name:        string(c.Name),
			DisplayName: c.DisplayName,
			URL:         h.publicURL(c.Name, "/"),
		})
	}

	return resp, nil
}

// Community serves the front page of a community.
func (h *CommunityHandler) Community(ctx context.Context, req *CommunityPageRequest) (*CommunityPageResponse, error) {
	return h.page(ctx, req.Community, "")
}

// Subpage serves a page inside a community.
func (h *CommunityHandler) Subpage(ctx context.Context, req *CommunitySubpageRequest) (*CommunityPageResponse, error) {
	return h.page(ctx, req.Community, req.Page)
}

func (h *CommunityHandler) page(ctx context.Context, name, page string) (*CommunityPageResponse, error) {
	c, err := h.lookup(ctx, community.Name(name))
	if err != nil {
		return nil, err
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.CommunityViewedEvent{
		RequestID: meta.RequestID,
		Community: string(c.Name),
		Page:      page,
		URL:       meta.CanonicalURL,
		ViewedAt:  time.Now().UTC(),
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
	}

	if err := h.publishCommunityView(event); err != nil {
		h.logger.Error("failed to publish community view",
			zap.String("community", event.Community),
			zap.Error(err),
		)
	}

	resp := &CommunityPageResponse{}
	resp.Body.Community = h.body(c)
	resp.Body.Page = page

	return resp, nil
}

func (h *CommunityHandler) lookup(ctx context.Context, name community.Name) (*community.Community, error) {
	if name.Validate() != nil {
		return nil, huma.Error404NotFound("community not found")
	}

	c, err := h.store.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, community.ErrNotFound) {
			return nil, huma.Error404NotFound("community not found")
		}

		h.logger.Error("failed to get community", zap.String("community", string(name)), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to get community")
	}

	return c, nil
}

// AdminOverview reports the URL schema in effect and the number of communities.
func (h *CommunityHandler) AdminOverview(ctx context.Context, _ *struct{}) (*AdminOverviewResponse, error) {
	communities, err := h.store.List(ctx)
	if err != nil {
		h.logger.Error("failed to list communities", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list communities")
	}

	cfg := h.resolver.Config()

	resp := &AdminOverviewResponse{}
	resp.Body.Hostname = cfg.Hostname
	resp.Body.UseSubdomainSchema = cfg.UseSubdomainSchema
	resp.Body.CommunitySeparator = cfg.CommunitySeparator
	resp.Body.SeparatorAliases = nonNil(cfg.SeparatorAliases)
	resp.Body.ReservedSegments = nonNil(cfg.ReservedSegments)
	resp.Body.Scheme = cfg.Scheme
	resp.Body.Communities = len(communities)

	return resp, nil
}

// CreateCommunity registers a new community.
func (h *CommunityHandler) CreateCommunity(
	ctx context.Context,
	req *CreateCommunityRequest,
) (*CreateCommunityResponse, error) {
	c, err := h.registrar.Register(ctx, community.Name(req.Body.Name), req.Body.DisplayName, req.Body.Description)
	if err != nil {
		switch {
		case errors.Is(err, community.ErrInvalidName):
			return nil, huma.Error422UnprocessableEntity(err.Error())
		case errors.Is(err, community.ErrAlreadyExists):
			return nil, huma.Error409Conflict("community already exists")
		default:
			h.logger.Error("failed to create community", zap.String("community", req.Body.Name), zap.Error(err))

			return nil, huma.Error500InternalServerError("failed to create community")
		}
	}

	h.logger.Info("community created", zap.String("community", string(c.Name)), zap.String("id", c.ID))

	resp := &CreateCommunityResponse{Body: h.body(c)}
	resp.Headers.Location = resp.Body.URL

	return resp, nil
}

// ErrorPage renders the page for an HTTP error status. Codes that are not client or
// server errors render as 404.
func (h *CommunityHandler) ErrorPage(_ context.Context, req *ErrorPageRequest) (*ErrorPageResponse, error) {
	code := req.Code
	if code < http.StatusBadRequest || code > 599 || http.StatusText(code) == "" {
		code = http.StatusNotFound
	}

	resp := &ErrorPageResponse{Status: code}
	resp.Body.Status = code
	resp.Body.Title = http.StatusText(code)

	return resp, nil
}

func (h *CommunityHandler) body(c *community.Community) CommunityBody {
	return CommunityBody{
		ID:          c.ID,
		Name:        string(c.Name),
		DisplayName: c.DisplayName,
		Description: c.Description,
		URL:         h.publicURL(c.Name, "/"),
		CreatedAt:   c.CreatedAt,
	}
}

func (h *CommunityHandler) publicURL(name community.Name, path string) string {
	return h.resolver.PublicURL("", string(name), path).String()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}
