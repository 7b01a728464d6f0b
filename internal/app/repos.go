package app

import (
	"gorm.io/gorm"

	catalogrepo "github.com/lumenlearn/progression-backend/internal/data/repos/catalog"
	progressrepo "github.com/lumenlearn/progression-backend/internal/data/repos/progress"
	"github.com/lumenlearn/progression-backend/internal/platform/logger"
)

type Repos struct {
	Topic       catalogrepo.TopicRepo
	Module      catalogrepo.ModuleRepo
	Page        catalogrepo.PageRepo
	ContentItem catalogrepo.ContentItemRepo

	UserProgress progressrepo.UserProgressRepo
	XPTotal      progressrepo.UserXPTotalRepo
	Reflection   progressrepo.ReflectionRepo
	QuizAttempt  progressrepo.QuizAttemptRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Topic:       catalogrepo.NewTopicRepo(db, log),
		Module:      catalogrepo.NewModuleRepo(db, log),
		Page:        catalogrepo.NewPageRepo(db, log),
		ContentItem: catalogrepo.NewContentItemRepo(db, log),

		UserProgress: progressrepo.NewUserProgressRepo(db, log),
		XPTotal:      progressrepo.NewUserXPTotalRepo(db, log),
		Reflection:   progressrepo.NewReflectionRepo(db, log),
		QuizAttempt:  progressrepo.NewQuizAttemptRepo(db, log),
	}
}
