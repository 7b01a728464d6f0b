package progress

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// UserProgress is the durable per-(user, page) completion record and the
// source of truth for XP. Only the transition into completed awards XP;
// xp_earned is frozen at the page's xp_value at that moment.
type UserProgress struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index;index:idx_user_progress_user_page,unique" json:"user_id"`
	PageID      uuid.UUID  `gorm:"type:uuid;not null;index;index:idx_user_progress_user_page,unique" json:"page_id"`
	Status      Status     `gorm:"not null;default:'not_started'" json:"status"`
	XPEarned    int        `gorm:"column:xp_earned;not null;default:0" json:"xp_earned"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserProgress) TableName() string { return "user_progress" }
