package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenlearn/progression-backend/internal/domain/catalog"
	"github.com/lumenlearn/progression-backend/internal/platform/logger"
)

// TopicRepo is read-only: the catalog is owned by the authoring system.
type TopicRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*catalog.Topic, error)
	GetBySortOrder(ctx context.Context, tx *gorm.DB, sortOrder int) (*catalog.Topic, error)
	ListOrdered(ctx context.Context, tx *gorm.DB) ([]*catalog.Topic, error)
}

type topicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	return &topicRepo{db: db, log: baseLog.With("repo", "TopicRepo")}
}

func (r *topicRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*catalog.Topic, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row catalog.Topic
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *topicRepo) GetBySortOrder(ctx context.Context, tx *gorm.DB, sortOrder int) (*catalog.Topic, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var row catalog.Topic
	if err := t.WithContext(ctx).Where("sort_order = ?", sortOrder).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *topicRepo) ListOrdered(ctx context.Context, tx *gorm.DB) ([]*catalog.Topic, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var rows []*catalog.Topic
	if err := t.WithContext(ctx).Order("sort_order ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
