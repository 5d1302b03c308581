package handlers

import "time"

// CommunitySummary is a community as listed on the home page.
type CommunitySummary struct {
	Name        string `doc:"Community name"         example:"scifi"                            json:"name"`
	DisplayName string `doc:"Human readable name"    example:"Science Fiction"                  json:"displayName"`
	URL         string `doc:"Public community address" example:"https://codidact.com/community/scifi" json:"url"`
}

// CommunityBody describes a single community.
type CommunityBody struct {
	ID          string    `doc:"Community ID"           json:"id"`
	Name        string    `doc:"Community name"         json:"name"`
	DisplayName string    `doc:"Human readable name"    json:"displayName"`
	Description string    `doc:"Community description"  json:"description,omitempty"`
	URL         string    `doc:"Public community address" json:"url"`
	CreatedAt   time.Time `doc:"Creation time"          json:"createdAt"`
}

// HomeResponse is the platform home page.
type HomeResponse struct {
	Body struct {
		Hostname    string             `doc:"Platform domain" example:"codidact.com" json:"hostname"`
		Communities []CommunitySummary `doc:"Hosted communities"                       json:"communities"`
	}
}

// CommunityPageRequest addresses the front page of a community.
type CommunityPageRequest struct {
	Community string `doc:"Community name" example:"scifi" path:"community"`
}

// CommunitySubpageRequest addresses a page inside a community.
type CommunitySubpageRequest struct {
	Community string `doc:"Community name" example:"scifi" path:"community"`
	Page      string `doc:"Page name"      example:"meta"  path:"page"`
}

// CommunityPageResponse is a community page.
type CommunityPageResponse struct {
	Body struct {
		Community CommunityBody `json:"community"`
		Page      string        `doc:"Requested page" json:"page,omitempty"`
	}
}

// ErrorPageRequest addresses the error page for an HTTP status.
type ErrorPageRequest struct {
	Code int `doc:"HTTP status code" example:"404" path:"code"`
}

// ErrorPageResponse renders an error page with the matching status.
type ErrorPageResponse struct {
	Status int
	Body   struct {
		Status int    `doc:"HTTP status code" json:"status"`
		Title  string `doc:"Status text"      json:"title"`
	}
}

// AdminOverviewResponse reports the URL schema configuration.
type AdminOverviewResponse struct {
	Body struct {
		Hostname           string   `json:"hostname"`
		UseSubdomainSchema bool     `json:"useSubdomainSchema"`
		CommunitySeparator string   `json:"communitySeparator"`
		SeparatorAliases   []string `json:"separatorAliases"`
		ReservedSegments   []string `json:"reservedSegments"`
		Scheme             string   `json:"scheme,omitempty"`
		Communities        int      `doc:"Number of communities" json:"communities"`
	}
}

// CreateCommunityRequest is the request body for creating a community.
type CreateCommunityRequest struct {
	Body struct {
		Name        string `doc:"Community name, also its subdomain" example:"scifi" json:"name" maxLength:"63" minLength:"1"`
		DisplayName string `doc:"Human readable name" example:"Science Fiction" json:"displayName,omitempty"`
		Description string `doc:"Community description" json:"description,omitempty"`
	}
}

// CreateCommunityResponse is the response for a created community.
type CreateCommunityResponse struct {
	Headers struct {
		Location string `doc:"Public community address" header:"Location"`
	}
	Body CommunityBody
}
