package repository

import (
	"context"

	"github.com/jhoicas/Cotizador-api/internal/domain/catalog"
)

// CatalogRepository carga el catálogo de precios desde su origen (archivo, base de datos).
// El catálogo devuelto ya está validado y es inmutable.
type CatalogRepository interface {
	LoadCatalog(ctx context.Context) (*catalog.Catalog, error)
}
