package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/watchlogapp/watchlog-server/internal/domain"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCatalogItem",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/{id}",
		Summary:     "Get catalog item",
		Description: "Returns one catalog title by ID",
		Tags:        []string{"Catalog"},
	}, s.handleGetCatalogItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "putCatalogItem",
		Method:      http.MethodPut,
		Path:        "/api/v1/catalog",
		Summary:     "Upsert catalog item",
		Description: "Creates or replaces a catalog title. Used by catalog seeding.",
		Tags:        []string{"Catalog"},
	}, s.handlePutCatalogItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "reindexCatalog",
		Method:      http.MethodPost,
		Path:        "/api/v1/catalog/reindex",
		Summary:     "Rebuild search index",
		Description: "Drops and rebuilds the catalog search index from the store",
		Tags:        []string{"Catalog"},
	}, s.handleReindexCatalog)
}

// === DTOs ===

// CatalogItemResponse contains catalog title data in API responses.
type CatalogItemResponse struct {
	ID           string    `json:"id" doc:"Catalog item ID"`
	MediaType    string    `json:"media_type" doc:"anime or manga"`
	Title        string    `json:"title" doc:"Canonical title"`
	TitleEnglish string    `json:"title_english,omitempty" doc:"English title"`
	TitleNative  string    `json:"title_native,omitempty" doc:"Native-script title"`
	Synopsis     string    `json:"synopsis,omitempty" doc:"Short description"`
	Genres       []string  `json:"genres,omitempty" doc:"Genre labels"`
	UnitCount    int       `json:"unit_count" doc:"Total episodes or chapters, 0 when unknown"`
	Year         int       `json:"year,omitempty" doc:"Release year"`
	AirStatus    string    `json:"air_status,omitempty" doc:"airing, finished, or upcoming"`
	MeanScore    float64   `json:"mean_score,omitempty" doc:"Community mean score"`
	UpdatedAt    time.Time `json:"updated_at" doc:"Last update time"`
}

// CatalogItemOutput wraps a catalog item response for Huma.
type CatalogItemOutput struct {
	Body CatalogItemResponse
}

// GetCatalogItemInput contains parameters for fetching a catalog item.
type GetCatalogItemInput struct {
	ID string `path:"id" doc:"Catalog item ID"`
}

// PutCatalogItemRequest is the request body for upserting a catalog item.
type PutCatalogItemRequest struct {
	ID           string   `json:"id,omitempty" doc:"Existing item ID; omit to create"`
	MediaType    string   `json:"media_type" validate:"required,mediatype" doc:"anime or manga"`
	Title        string   `json:"title" validate:"required,max=500" doc:"Canonical title"`
	TitleEnglish string   `json:"title_english,omitempty" validate:"omitempty,max=500"`
	TitleNative  string   `json:"title_native,omitempty" validate:"omitempty,max=500"`
	Synopsis     string   `json:"synopsis,omitempty" validate:"omitempty,max=10000"`
	Genres       []string `json:"genres,omitempty"`
	UnitCount    int      `json:"unit_count,omitempty" validate:"omitempty,gte=0"`
	Year         int      `json:"year,omitempty" validate:"omitempty,gte=1900"`
	AirStatus    string   `json:"air_status,omitempty" validate:"omitempty,max=30"`
	MeanScore    float64  `json:"mean_score,omitempty" validate:"omitempty,gte=0,lte=10"`
}

// PutCatalogItemInput wraps the upsert request for Huma.
type PutCatalogItemInput struct {
	Body PutCatalogItemRequest
}

// ReindexResponse reports a completed reindex.
type ReindexResponse struct {
	IndexedCount int `json:"indexed_count" doc:"Number of catalog items indexed"`
}

// ReindexOutput wraps the reindex response for Huma.
type ReindexOutput struct {
	Body ReindexResponse
}

// === Handlers ===

func (s *Server) handleGetCatalogItem(ctx context.Context, input *GetCatalogItemInput) (*CatalogItemOutput, error) {
	item, err := s.services.Catalog.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &CatalogItemOutput{Body: toCatalogItemResponse(item)}, nil
}

func (s *Server) handlePutCatalogItem(ctx context.Context, input *PutCatalogItemInput) (*CatalogItemOutput, error) {
	item := &domain.CatalogItem{
		MediaType:    domain.MediaType(input.Body.MediaType),
		Title:        input.Body.Title,
		TitleEnglish: input.Body.TitleEnglish,
		TitleNative:  input.Body.TitleNative,
		Synopsis:     input.Body.Synopsis,
		Genres:       input.Body.Genres,
		UnitCount:    input.Body.UnitCount,
		Year:         input.Body.Year,
		AirStatus:    input.Body.AirStatus,
		MeanScore:    input.Body.MeanScore,
	}
	item.ID = input.Body.ID

	saved, err := s.services.Catalog.Put(ctx, item)
	if err != nil {
		return nil, err
	}

	return &CatalogItemOutput{Body: toCatalogItemResponse(saved)}, nil
}

func (s *Server) handleReindexCatalog(ctx context.Context, _ *struct{}) (*ReindexOutput, error) {
	count, err := s.services.Catalog.Reindex(ctx)
	if err != nil {
		return nil, err
	}

	return &ReindexOutput{Body: ReindexResponse{IndexedCount: count}}, nil
}

func toCatalogItemResponse(item *domain.CatalogItem) CatalogItemResponse {
	return CatalogItemResponse{
		ID:           item.ID,
		MediaType:    string(item.MediaType),
		Title:        item.Title,
		TitleEnglish: item.TitleEnglish,
		TitleNative:  item.TitleNative,
		Synopsis:     item.Synopsis,
		Genres:       item.Genres,
		UnitCount:    item.UnitCount,
		Year:         item.Year,
		AirStatus:    item.AirStatus,
		MeanScore:    item.MeanScore,
		UpdatedAt:    item.UpdatedAt,
	}
}
