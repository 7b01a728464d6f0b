package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Page XP is fixed at catalog-edit time; completion awards read it from the
// page row, never from the client.
type Page struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ModuleID  uuid.UUID `gorm:"type:uuid;not null;index" json:"module_id"`
	Module    *Module   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	Title     string    `gorm:"not null" json:"title"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	XPValue   int       `gorm:"column:xp_value;not null;default:0" json:"xp_value"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Page) TableName() string { return "page" }
