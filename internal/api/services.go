package api

import (
	"github.com/watchlogapp/watchlog-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Entries  *service.EntryService
	Catalog  *service.CatalogService
	Transfer *service.TransferService
}
