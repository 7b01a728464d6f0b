package app

import (
	httpH "github.com/lumenlearn/progression-backend/internal/http/handlers"
	"github.com/lumenlearn/progression-backend/internal/platform/logger"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Catalog    *httpH.CatalogHandler
	Progress   *httpH.ProgressHandler
	Quiz       *httpH.QuizHandler
	Reflection *httpH.ReflectionHandler
	Unlock     *httpH.UnlockHandler
}

func wireHandlers(log *logger.Logger, svcs Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Catalog:    httpH.NewCatalogHandler(svcs.Catalog),
		Progress:   httpH.NewProgressHandler(svcs.Completion, svcs.ProgressQuery),
		Quiz:       httpH.NewQuizHandler(svcs.Quiz),
		Reflection: httpH.NewReflectionHandler(svcs.Reflection),
		Unlock:     httpH.NewUnlockHandler(svcs.Unlock),
	}
}
