package progress

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Reflection is the single free-text annotation per (user, page). Saving
// overwrites; no history is kept.
type Reflection struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_reflection_user_page,unique" json:"user_id"`
	PageID    uuid.UUID `gorm:"type:uuid;not null;index:idx_reflection_user_page,unique" json:"page_id"`
	Text      string    `gorm:"not null" json:"text"`
	WordCount int       `gorm:"column:word_count;not null;default:0" json:"word_count"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Reflection) TableName() string { return "reflection" }

// CountWords counts whitespace-delimited tokens after trimming.
func CountWords(text string) int {
	return len(strings.Fields(strings.TrimSpace(text)))
}
