package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

var _ repository.SavedConfigurationRepository = (*SavedConfigurationRepo)(nil)

// SavedConfigurationRepo guarda los snapshots en una columna JSONB.
type SavedConfigurationRepo struct {
	q Querier
}

// NewSavedConfigurationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSavedConfigurationRepository(q Querier) *SavedConfigurationRepo {
	return &SavedConfigurationRepo{q: q}
}

// Create persiste una configuración. Nombre repetido en la empresa = domain.ErrDuplicate.
func (r *SavedConfigurationRepo) Create(ctx context.Context, cfg *entity.SavedConfiguration) error {
	snap, err := json.Marshal(cfg.Snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	query := `
		INSERT INTO saved_configurations (id, company_id, user_id, name, snapshot, total, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.q.Exec(ctx, query,
		cfg.ID, cfg.CompanyID, cfg.UserID, cfg.Name, snap, cfg.Total, string(cfg.Currency),
		cfg.CreatedAt, cfg.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert saved configuration: %w", err)
	}
	return nil
}

// GetByID obtiene una configuración; domain.ErrNotFound si no existe.
func (r *SavedConfigurationRepo) GetByID(ctx context.Context, id string) (*entity.SavedConfiguration, error) {
	query := `
		SELECT id, company_id, user_id, name, snapshot, total, currency, created_at, updated_at
		FROM saved_configurations WHERE id = $1`
	c, err := scanSavedConfiguration(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get saved configuration: %w", err)
	}
	return c, nil
}

// ListByCompany lista las configuraciones de la empresa, más recientes primero.
func (r *SavedConfigurationRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.SavedConfiguration, error) {
	query := `
		SELECT id, company_id, user_id, name, snapshot, total, currency, created_at, updated_at
		FROM saved_configurations WHERE company_id = $1
		ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list saved configurations: %w", err)
	}
	defer rows.Close()
	var list []*entity.SavedConfiguration
	for rows.Next() {
		c, err := scanSavedConfiguration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan saved configuration: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Delete elimina por ID; domain.ErrNotFound si no existía.
func (r *SavedConfigurationRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM saved_configurations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete saved configuration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSavedConfiguration(row pgx.Row) (*entity.SavedConfiguration, error) {
	var c entity.SavedConfiguration
	var snap []byte
	var currency string
	if err := row.Scan(&c.ID, &c.CompanyID, &c.UserID, &c.Name, &snap, &c.Total, &currency, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(snap, &c.Snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	c.Currency = entity.Currency(currency)
	return &c, nil
}
