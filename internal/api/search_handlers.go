package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/watchlogapp/watchlog-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search catalog",
		Description: "Full-text search across the title catalog",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching the catalog.
type SearchInput struct {
	Query     string  `query:"q" validate:"required,min=1,max=200" doc:"Search query"`
	MediaType string  `query:"media_type" validate:"omitempty,mediatype" doc:"Restrict to anime or manga"`
	Genres    string  `query:"genres" validate:"omitempty,max=200" doc:"Comma-separated genres to filter by"`
	AirStatus string  `query:"air_status" validate:"omitempty,max=30" doc:"Filter by airing status"`
	MinYear   int     `query:"min_year" validate:"omitempty,gte=1900" doc:"Earliest release year"`
	MaxYear   int     `query:"max_year" validate:"omitempty,gte=1900" doc:"Latest release year"`
	MinScore  float64 `query:"min_score" validate:"omitempty,gte=0,lte=10" doc:"Minimum community score"`
	Limit     int     `query:"limit" validate:"omitempty,gte=1,lte=100" doc:"Max results (default 25)"`
	Offset    int     `query:"offset" validate:"omitempty,gte=0" doc:"Pagination offset"`
	SortBy    string  `query:"sort" validate:"omitempty,oneof=relevance title year score recent" doc:"Sort field (default relevance)"`
	SortOrder string  `query:"order" validate:"omitempty,oneof=asc desc" doc:"Sort direction"`
	Facets    bool    `query:"facets" doc:"Include facet counts in the response"`
}

// SearchOutput wraps the search result for Huma.
type SearchOutput struct {
	Body search.Result
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if !s.searchLimiter.Allow(userID) {
		s.logger.Warn("search rate limit exceeded", "user_id", userID)
		return nil, huma.Error429TooManyRequests("Too many search requests. Please slow down.")
	}

	params := search.DefaultParams()
	params.Query = input.Query
	params.MediaType = input.MediaType
	params.AirStatus = input.AirStatus
	params.MinYear = input.MinYear
	params.MaxYear = input.MaxYear
	params.MinScore = input.MinScore
	params.Offset = input.Offset
	params.IncludeFacets = input.Facets
	params.Highlight = true

	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	if input.SortBy != "" {
		params.SortBy = input.SortBy
	}
	if input.SortOrder != "" {
		params.SortOrder = input.SortOrder
	}

	if input.Genres != "" {
		for g := range strings.SplitSeq(input.Genres, ",") {
			if g = strings.TrimSpace(g); g != "" {
				params.Genres = append(params.Genres, g)
			}
		}
	}

	result, err := s.services.Catalog.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	return &SearchOutput{Body: *result}, nil
}
