package repository

import (
	"context"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// SavedConfigurationRepository define el puerto de persistencia para configuraciones guardadas (DIP).
// La implementación vive en infrastructure.
type SavedConfigurationRepository interface {
	Create(ctx context.Context, cfg *entity.SavedConfiguration) error
	GetByID(ctx context.Context, id string) (*entity.SavedConfiguration, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.SavedConfiguration, error)
	Delete(ctx context.Context, id string) error
}
