package catalog

import (
	"time"

	"github.com/google/uuid"
)

type Module struct {
	ID                   uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TopicID              uuid.UUID    `gorm:"type:uuid;not null;index;index:idx_module_topic_sort,unique" json:"topic_id"`
	Topic                *Topic       `gorm:"constraint:OnDelete:CASCADE;foreignKey:TopicID;references:ID" json:"topic,omitempty"`
	Title                string       `gorm:"not null" json:"title"`
	SortOrder            int          `gorm:"column:sort_order;not null;default:0;index:idx_module_topic_sort,unique" json:"sort_order"`
	UnlockPolicy         UnlockPolicy `gorm:"column:unlock_policy;not null;default:'free'" json:"unlock_policy"`
	UnlockValue          int          `gorm:"column:unlock_value;not null;default:0" json:"unlock_value"`
	PrerequisiteModuleID *uuid.UUID   `gorm:"type:uuid;column:prerequisite_module_id" json:"prerequisite_module_id,omitempty"`
	CreatedAt            time.Time    `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt            time.Time    `gorm:"not null;default:now()" json:"updated_at"`
}

func (Module) TableName() string { return "module" }
