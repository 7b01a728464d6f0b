package progress

import (
	"time"

	"github.com/google/uuid"
)

// UserXPTotal is a materialized aggregate: total_xp is recomputed from
// completed user_progress rows inside every completion transaction, never
// incremented in place. The row doubles as the per-user lock target that
// serializes completion writes.
type UserXPTotal struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	TotalXP   int       `gorm:"column:total_xp;not null;default:0" json:"total_xp"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserXPTotal) TableName() string { return "user_xp_total" }
