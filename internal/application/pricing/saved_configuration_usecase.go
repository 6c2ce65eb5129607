package pricing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// SavedConfigurationUseCase guarda snapshots de sesiones por empresa y los vuelve a abrir como sesiones nuevas.
type SavedConfigurationUseCase struct {
	repo     repository.SavedConfigurationRepository
	sessions *SessionService
	now      func() time.Time
}

// NewSavedConfigurationUseCase construye el caso de uso.
func NewSavedConfigurationUseCase(repo repository.SavedConfigurationRepository, sessions *SessionService) *SavedConfigurationUseCase {
	return &SavedConfigurationUseCase{
		repo:     repo,
		sessions: sessions,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Save guarda el snapshot actual de la sesión con un nombre único dentro de la empresa.
func (uc *SavedConfigurationUseCase) Save(ctx context.Context, companyID, userID, sessionID, name string) (*entity.SavedConfiguration, error) {
	name = strings.TrimSpace(name)
	if companyID == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	view, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	cfg := &entity.SavedConfiguration{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		UserID:    userID,
		Name:      name,
		Snapshot:  view.Snapshot,
		Total:     view.Breakdown.Total.IntPart(),
		Currency:  view.Breakdown.Currency,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// List configuraciones de la empresa.
func (uc *SavedConfigurationUseCase) List(ctx context.Context, companyID string, limit, offset int) ([]*entity.SavedConfiguration, error) {
	page := dto.PageRequest{Limit: limit, Offset: offset}
	page.Normalize()
	return uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
}

// Get devuelve la configuración si pertenece a la empresa.
func (uc *SavedConfigurationUseCase) Get(ctx context.Context, companyID, id string) (*entity.SavedConfiguration, error) {
	cfg, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cfg.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return cfg, nil
}

// Open abre una sesión nueva a partir de la configuración guardada, revalidada contra el catálogo vigente.
func (uc *SavedConfigurationUseCase) Open(ctx context.Context, companyID, id string) (*SessionView, error) {
	cfg, err := uc.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	view, err := uc.sessions.CreateFromSnapshot(ctx, cfg.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("abrir configuración %s: %w", id, err)
	}
	return view, nil
}

// Delete elimina la configuración si pertenece a la empresa.
func (uc *SavedConfigurationUseCase) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uc.Get(ctx, companyID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}
