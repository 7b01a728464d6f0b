package app

import (
	"github.com/gin-gonic/gin"

	apphttp "github.com/lumenlearn/progression-backend/internal/http"
	"github.com/lumenlearn/progression-backend/internal/observability"
	"github.com/lumenlearn/progression-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, metrics *observability.Metrics, mw Middleware, h Handlers) *gin.Engine {
	log.Info("Wiring router...")
	return apphttp.NewRouter(apphttp.RouterConfig{
		Log:     log,
		Metrics: metrics,

		AuthMiddleware: mw.Auth,

		HealthHandler:     h.Health,
		CatalogHandler:    h.Catalog,
		ProgressHandler:   h.Progress,
		QuizHandler:       h.Quiz,
		ReflectionHandler: h.Reflection,
		UnlockHandler:     h.Unlock,
	})
}
