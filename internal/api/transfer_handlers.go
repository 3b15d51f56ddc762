package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/watchlogapp/watchlog-server/internal/transfer"
)

func (s *Server) registerTransferRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "importList",
		Method:      http.MethodPost,
		Path:        "/api/v1/transfer/import",
		Summary:     "Import a list",
		Description: "Imports entries from a JSON, CSV, or legacy SQLite export. Records are processed independently; failures are reported per record.",
		Tags:        []string{"Transfer"},
	}, s.handleImport)

	huma.Register(s.api, huma.Operation{
		OperationID: "exportList",
		Method:      http.MethodGet,
		Path:        "/api/v1/transfer/export",
		Summary:     "Export the list",
		Description: "Exports the user's full list as JSON or CSV",
		Tags:        []string{"Transfer"},
	}, s.handleExport)
}

// === DTOs ===

// ImportRequest is the request body for an import run. Data is base64 in
// JSON transport; clients post the raw export file bytes.
type ImportRequest struct {
	Format  string            `json:"format" validate:"required,oneof=json csv sqlite" doc:"Source format"`
	Data    []byte            `json:"data" validate:"required" doc:"Export file contents, base64-encoded"`
	Options *transfer.Options `json:"options,omitempty" doc:"Merge behavior; defaults to overwrite-everything"`
}

// ImportInput wraps the import request for Huma.
type ImportInput struct {
	Body ImportRequest
}

// ImportOutput wraps the import result for Huma.
type ImportOutput struct {
	Body transfer.Result
}

// ExportInput contains parameters for exporting the list.
type ExportInput struct {
	Format string `query:"format" validate:"omitempty,oneof=json csv" doc:"Export format (default json)"`
}

// ExportOutput returns the raw export file.
type ExportOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// === Handlers ===

func (s *Server) handleImport(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	opts := transfer.DefaultOptions()
	if input.Body.Options != nil {
		opts = *input.Body.Options
	}

	result, err := s.services.Transfer.Import(ctx, userID, input.Body.Data, transfer.Format(input.Body.Format), opts)
	if err != nil {
		return nil, err
	}

	return &ImportOutput{Body: *result}, nil
}

func (s *Server) handleExport(ctx context.Context, input *ExportInput) (*ExportOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	format := transfer.FormatJSON
	if input.Format != "" {
		format = transfer.Format(input.Format)
	}
	if !format.Exportable() {
		return nil, huma.Error400BadRequest("format is not exportable")
	}

	data, err := s.services.Transfer.Export(ctx, userID, format)
	if err != nil {
		return nil, err
	}

	contentType := "application/json"
	if format == transfer.FormatCSV {
		contentType = "text/csv"
	}

	return &ExportOutput{ContentType: contentType, Body: data}, nil
}
