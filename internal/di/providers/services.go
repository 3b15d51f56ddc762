package providers

import (
	"github.com/samber/do/v2"

	"github.com/watchlogapp/watchlog-server/internal/logger"
	"github.com/watchlogapp/watchlog-server/internal/service"
)

// ProvideEntryService provides the list entry service.
func ProvideEntryService(i do.Injector) (*service.EntryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewEntryService(storeHandle.Store, log.Logger), nil
}

// ProvideCatalogService provides the catalog service and wires the store's
// search indexer.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(storeHandle.Store, searchHandle.Index, log.Logger), nil
}

// ProvideTransferService provides the import/export service.
func ProvideTransferService(i do.Injector) (*service.TransferService, error) {
	entries := do.MustInvoke[*service.EntryService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTransferService(entries, log.Logger), nil
}
