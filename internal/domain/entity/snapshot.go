package entity

import "time"

// Snapshot proyección serializable de un SelectionState.
// Es la unidad que se guarda y restaura; al restaurar se revalida contra el catálogo vigente.
type Snapshot struct {
	Cycle      Cycle               `json:"cycle"`
	Currency   Currency            `json:"currency"`
	TierName   string              `json:"tier_name"`
	Selections []SnapshotSelection `json:"selections"`
}

// SnapshotSelection módulo seleccionado dentro de un snapshot.
type SnapshotSelection struct {
	DepartmentID   string   `json:"department_id"`
	ModuleID       string   `json:"module_id"`
	Quantity       int      `json:"quantity"`
	IntegrationIDs []string `json:"integration_ids"`
}

// PricingSession registro persistido de una sesión de cotización.
type PricingSession struct {
	ID            string    `json:"id"`
	Snapshot      Snapshot  `json:"snapshot"`
	ShowContactUs bool      `json:"show_contact_us,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SavedConfiguration configuración guardada por una empresa (persistida en PostgreSQL).
type SavedConfiguration struct {
	ID        string
	CompanyID string
	UserID    string
	Name      string
	Snapshot  Snapshot
	Total     int64 // total redondeado al momento de guardar, solo informativo
	Currency  Currency
	CreatedAt time.Time
	UpdatedAt time.Time
}
