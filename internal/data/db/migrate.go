package db

import (
	"gorm.io/gorm"

	"github.com/lumenlearn/progression-backend/internal/domain/catalog"
	"github.com/lumenlearn/progression-backend/internal/domain/progress"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Content catalog (read-only to this service; owned by authoring)
		// =========================
		&catalog.Topic{},
		&catalog.Module{},
		&catalog.Page{},
		&catalog.ContentItem{},

		// =========================
		// Per-user progression state
		// =========================
		&progress.UserProgress{},
		&progress.Reflection{},
		&progress.QuizAttempt{},
		&progress.UserXPTotal{},
	)
}
