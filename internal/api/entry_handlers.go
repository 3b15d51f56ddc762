package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/watchlogapp/watchlog-server/internal/domain"
	"github.com/watchlogapp/watchlog-server/internal/store"
)

func (s *Server) registerEntryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listEntries",
		Method:      http.MethodGet,
		Path:        "/api/v1/entries",
		Summary:     "List entries",
		Description: "Returns the user's full list in sort order",
		Tags:        []string{"Entries"},
	}, s.handleListEntries)

	huma.Register(s.api, huma.Operation{
		OperationID: "createEntry",
		Method:      http.MethodPost,
		Path:        "/api/v1/entries",
		Summary:     "Create entry",
		Description: "Adds a catalog item to the user's list",
		Tags:        []string{"Entries"},
	}, s.handleCreateEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "getEntry",
		Method:      http.MethodGet,
		Path:        "/api/v1/entries/{id}",
		Summary:     "Get entry",
		Description: "Returns an entry by ID",
		Tags:        []string{"Entries"},
	}, s.handleGetEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateEntry",
		Method:      http.MethodPatch,
		Path:        "/api/v1/entries/{id}",
		Summary:     "Update entry",
		Description: "Applies a field-level delta to an entry",
		Tags:        []string{"Entries"},
	}, s.handleUpdateEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteEntry",
		Method:      http.MethodDelete,
		Path:        "/api/v1/entries/{id}",
		Summary:     "Delete entry",
		Description: "Removes an entry from the user's list",
		Tags:        []string{"Entries"},
	}, s.handleDeleteEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "bulkUpdateEntries",
		Method:      http.MethodPost,
		Path:        "/api/v1/entries/bulk",
		Summary:     "Bulk update entries",
		Description: "Applies one delta to many entries. All-or-nothing.",
		Tags:        []string{"Entries"},
	}, s.handleBulkUpdateEntries)

	huma.Register(s.api, huma.Operation{
		OperationID: "bulkDeleteEntries",
		Method:      http.MethodPost,
		Path:        "/api/v1/entries/bulk-delete",
		Summary:     "Bulk delete entries",
		Description: "Deletes many entries. All-or-nothing.",
		Tags:        []string{"Entries"},
	}, s.handleBulkDeleteEntries)

	huma.Register(s.api, huma.Operation{
		OperationID: "reorderEntries",
		Method:      http.MethodPost,
		Path:        "/api/v1/entries/reorder",
		Summary:     "Reorder entries",
		Description: "Persists new sort positions for the given entries",
		Tags:        []string{"Entries"},
	}, s.handleReorderEntries)
}

// === DTOs ===

// EntryResponse contains list entry data in API responses.
type EntryResponse struct {
	ID            string    `json:"id" doc:"Entry ID"`
	CatalogItemID string    `json:"catalog_item_id" doc:"Catalog item this entry tracks"`
	MediaType     string    `json:"media_type" doc:"anime or manga"`
	Status        string    `json:"status" doc:"List status"`
	Title         string    `json:"title" doc:"Denormalized catalog title"`
	Progress      int       `json:"progress" doc:"Episodes watched or chapters read"`
	Score         *float64  `json:"score,omitempty" doc:"User score 0-10, absent when unrated"`
	Tags          []string  `json:"tags,omitempty" doc:"User tags"`
	Notes         string    `json:"notes,omitempty" doc:"Free-form notes"`
	SortOrder     int       `json:"sort_order" doc:"Position within the list"`
	IsFavorite    bool      `json:"is_favorite"`
	IsPinned      bool      `json:"is_pinned"`
	IsPrivate     bool      `json:"is_private"`
	CreatedAt     time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt     time.Time `json:"updated_at" doc:"Last update time"`
}

// EntryOutput wraps a single entry response for Huma.
type EntryOutput struct {
	Body EntryResponse
}

// ListEntriesOutput wraps the entry list response for Huma.
type ListEntriesOutput struct {
	Body ListEntriesResponse
}

// ListEntriesResponse contains a user's list.
type ListEntriesResponse struct {
	Entries []EntryResponse `json:"entries" doc:"Entries in sort order"`
	Total   int             `json:"total" doc:"Number of entries"`
}

// CreateEntryRequest is the request body for creating an entry.
type CreateEntryRequest struct {
	CatalogItemID string   `json:"catalog_item_id" validate:"required" doc:"Catalog item to add"`
	MediaType     string   `json:"media_type" validate:"required,mediatype" doc:"anime or manga"`
	Status        string   `json:"status" validate:"required,liststatus" doc:"Initial list status"`
	Title         string   `json:"title,omitempty" validate:"omitempty,max=500" doc:"Fallback title when the item is not in the catalog"`
	Progress      int      `json:"progress,omitempty" validate:"omitempty,gte=0" doc:"Initial progress"`
	Score         *float64 `json:"score,omitempty" validate:"omitempty,gte=0,lte=10" doc:"Initial score"`
	Tags          []string `json:"tags,omitempty" doc:"Initial tags"`
	Notes         string   `json:"notes,omitempty" validate:"omitempty,max=2000" doc:"Initial notes"`
}

// CreateEntryInput wraps the create entry request for Huma.
type CreateEntryInput struct {
	Body CreateEntryRequest
}

// GetEntryInput contains parameters for fetching an entry.
type GetEntryInput struct {
	ID string `path:"id" doc:"Entry ID"`
}

// EntryDeltaRequest carries the nilable delta fields of a PATCH.
type EntryDeltaRequest struct {
	Status     *string   `json:"status,omitempty" validate:"omitempty,liststatus" doc:"New status"`
	Progress   *int      `json:"progress,omitempty" validate:"omitempty,gte=0" doc:"New progress"`
	Score      *float64  `json:"score,omitempty" validate:"omitempty,gte=0,lte=10" doc:"New score"`
	ClearScore bool      `json:"clear_score,omitempty" doc:"Remove the score entirely"`
	Tags       *[]string `json:"tags,omitempty" doc:"Replacement tag set"`
	Notes      *string   `json:"notes,omitempty" validate:"omitempty,max=2000" doc:"New notes"`
	IsFavorite *bool     `json:"is_favorite,omitempty"`
	IsPinned   *bool     `json:"is_pinned,omitempty"`
	IsPrivate  *bool     `json:"is_private,omitempty"`
}

// UpdateEntryInput wraps the update entry request for Huma.
type UpdateEntryInput struct {
	ID   string `path:"id" doc:"Entry ID"`
	Body EntryDeltaRequest
}

// DeleteEntryInput contains parameters for deleting an entry.
type DeleteEntryInput struct {
	ID string `path:"id" doc:"Entry ID"`
}

// BulkUpdateRequest applies one delta to a set of entries.
type BulkUpdateRequest struct {
	EntryIDs []string          `json:"entry_ids" validate:"required,min=1,max=500" doc:"Target entry IDs"`
	Delta    EntryDeltaRequest `json:"delta" doc:"Delta applied to every target"`
}

// BulkUpdateInput wraps the bulk update request for Huma.
type BulkUpdateInput struct {
	Body BulkUpdateRequest
}

// BulkDeleteRequest deletes a set of entries.
type BulkDeleteRequest struct {
	EntryIDs []string `json:"entry_ids" validate:"required,min=1,max=500" doc:"Target entry IDs"`
}

// BulkDeleteInput wraps the bulk delete request for Huma.
type BulkDeleteInput struct {
	Body BulkDeleteRequest
}

// OrderUpdateRequest is one entry's new position.
type OrderUpdateRequest struct {
	ID        string `json:"id" validate:"required" doc:"Entry ID"`
	SortOrder int    `json:"sort_order" validate:"gte=0" doc:"New zero-based position"`
}

// ReorderRequest carries the changed positions of a reorder. Unchanged
// entries are omitted.
type ReorderRequest struct {
	Updates []OrderUpdateRequest `json:"updates" validate:"required,min=1,max=500" doc:"Changed positions"`
}

// ReorderInput wraps the reorder request for Huma.
type ReorderInput struct {
	Body ReorderRequest
}

// === Handlers ===

func (s *Server) handleListEntries(ctx context.Context, _ *struct{}) (*ListEntriesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.services.Entries.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]EntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = toEntryResponse(e)
	}

	return &ListEntriesOutput{Body: ListEntriesResponse{Entries: resp, Total: len(resp)}}, nil
}

func (s *Server) handleCreateEntry(ctx context.Context, input *CreateEntryInput) (*EntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entry := &domain.ListEntry{
		CatalogItemID: input.Body.CatalogItemID,
		MediaType:     domain.MediaType(input.Body.MediaType),
		Status:        domain.Status(input.Body.Status),
		Title:         input.Body.Title,
		Progress:      input.Body.Progress,
		Score:         input.Body.Score,
		Tags:          input.Body.Tags,
		Notes:         input.Body.Notes,
	}

	created, err := s.services.Entries.Create(ctx, userID, entry)
	if err != nil {
		return nil, err
	}

	return &EntryOutput{Body: toEntryResponse(created)}, nil
}

func (s *Server) handleGetEntry(ctx context.Context, input *GetEntryInput) (*EntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.Entries.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &EntryOutput{Body: toEntryResponse(entry)}, nil
}

func (s *Server) handleUpdateEntry(ctx context.Context, input *UpdateEntryInput) (*EntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := s.services.Entries.Update(ctx, userID, input.ID, toDelta(input.Body))
	if err != nil {
		return nil, err
	}

	return &EntryOutput{Body: toEntryResponse(updated)}, nil
}

func (s *Server) handleDeleteEntry(ctx context.Context, input *DeleteEntryInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Entries.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Entry deleted"}}, nil
}

func (s *Server) handleBulkUpdateEntries(ctx context.Context, input *BulkUpdateInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Entries.BulkUpdate(ctx, userID, input.Body.EntryIDs, toDelta(input.Body.Delta)); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Entries updated"}}, nil
}

func (s *Server) handleBulkDeleteEntries(ctx context.Context, input *BulkDeleteInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Entries.BulkDelete(ctx, userID, input.Body.EntryIDs); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Entries deleted"}}, nil
}

func (s *Server) handleReorderEntries(ctx context.Context, input *ReorderInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	updates := make([]store.OrderUpdate, len(input.Body.Updates))
	for i, u := range input.Body.Updates {
		updates[i] = store.OrderUpdate{ID: u.ID, SortOrder: u.SortOrder}
	}

	if err := s.services.Entries.SetOrder(ctx, userID, updates); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Order updated"}}, nil
}

// === Mapping helpers ===

func toEntryResponse(e *domain.ListEntry) EntryResponse {
	return EntryResponse{
		ID:            e.ID,
		CatalogItemID: e.CatalogItemID,
		MediaType:     string(e.MediaType),
		Status:        string(e.Status),
		Title:         e.Title,
		Progress:      e.Progress,
		Score:         e.Score,
		Tags:          e.Tags,
		Notes:         e.Notes,
		SortOrder:     e.SortOrder,
		IsFavorite:    e.IsFavorite,
		IsPinned:      e.IsPinned,
		IsPrivate:     e.IsPrivate,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func toDelta(req EntryDeltaRequest) *domain.EntryDelta {
	delta := &domain.EntryDelta{
		Progress:   req.Progress,
		Score:      req.Score,
		ClearScore: req.ClearScore,
		Tags:       req.Tags,
		Notes:      req.Notes,
		IsFavorite: req.IsFavorite,
		IsPinned:   req.IsPinned,
		IsPrivate:  req.IsPrivate,
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		delta.Status = &status
	}
	return delta
}
