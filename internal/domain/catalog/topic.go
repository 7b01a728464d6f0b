package catalog

import (
	"time"

	"github.com/google/uuid"
)

type Topic struct {
	ID                  uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Slug                string       `gorm:"not null;uniqueIndex" json:"slug"`
	Title               string       `gorm:"not null" json:"title"`
	SortOrder           int          `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	UnlockPolicy        UnlockPolicy `gorm:"column:unlock_policy;not null;default:'free'" json:"unlock_policy"`
	UnlockValue         int          `gorm:"column:unlock_value;not null;default:0" json:"unlock_value"`
	PrerequisiteTopicID *uuid.UUID   `gorm:"type:uuid;column:prerequisite_topic_id" json:"prerequisite_topic_id,omitempty"`
	CreatedAt           time.Time    `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt           time.Time    `gorm:"not null;default:now()" json:"updated_at"`
}

func (Topic) TableName() string { return "topic" }
