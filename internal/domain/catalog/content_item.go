package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ContentKind string

const (
	KindScene    ContentKind = "scene"
	KindTakeaway ContentKind = "takeaway"
	KindCode     ContentKind = "code"
	KindQuiz     ContentKind = "quiz"
	KindConcept  ContentKind = "concept"
)

type ContentItem struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PageID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"page_id"`
	Page      *Page          `gorm:"constraint:OnDelete:CASCADE;foreignKey:PageID;references:ID" json:"page,omitempty"`
	Kind      ContentKind    `gorm:"not null" json:"kind"`
	SortOrder int            `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	Payload   datatypes.JSON `gorm:"type:jsonb;column:payload" json:"payload"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (ContentItem) TableName() string { return "content_item" }
