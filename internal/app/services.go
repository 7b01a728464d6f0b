package app

import (
	"gorm.io/gorm"

	dataagg "github.com/lumenlearn/progression-backend/internal/data/aggregates"
	domainagg "github.com/lumenlearn/progression-backend/internal/domain/aggregates"
	"github.com/lumenlearn/progression-backend/internal/observability"
	"github.com/lumenlearn/progression-backend/internal/platform/logger"
	"github.com/lumenlearn/progression-backend/internal/platform/redisx"
	"github.com/lumenlearn/progression-backend/internal/services"
)

type Services struct {
	Progression domainagg.ProgressionAggregate

	Catalog       services.CatalogService
	Unlock        services.UnlockService
	Completion    services.CompletionService
	Quiz          services.QuizService
	Reflection    services.ReflectionService
	ProgressQuery services.ProgressQueryService
}

func wireServices(db *gorm.DB, log *logger.Logger, repos Repos, cache *redisx.Cache, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	progression := dataagg.NewProgressionAggregate(dataagg.ProgressionAggregateDeps{
		Base: dataagg.BaseDeps{
			DB:    db,
			Log:   log,
			Hooks: dataagg.NewObservabilityHooks(metrics),
		},
		Pages:    repos.Page,
		Modules:  repos.Module,
		Content:  repos.ContentItem,
		Progress: repos.UserProgress,
		Totals:   repos.XPTotal,
		Attempts: repos.QuizAttempt,
	})

	return Services{
		Progression:   progression,
		Catalog:       services.NewCatalogService(log, repos.Topic, repos.Module, repos.Page, repos.ContentItem),
		Unlock:        services.NewUnlockService(db, log, repos.Topic, repos.Module, repos.Page, repos.UserProgress),
		Completion:    services.NewCompletionService(log, progression, cache),
		Quiz:          services.NewQuizService(log, progression, repos.QuizAttempt),
		Reflection:    services.NewReflectionService(log, repos.Page, repos.Reflection),
		ProgressQuery: services.NewProgressQueryService(log, repos.Module, repos.Page, repos.UserProgress, cache),
	}
}
