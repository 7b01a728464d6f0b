package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/lumenlearn/progression-backend/internal/http/handlers"
	httpMW "github.com/lumenlearn/progression-backend/internal/http/middleware"
	"github.com/lumenlearn/progression-backend/internal/observability"
	"github.com/lumenlearn/progression-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler     *httpH.HealthHandler
	CatalogHandler    *httpH.CatalogHandler
	ProgressHandler   *httpH.ProgressHandler
	QuizHandler       *httpH.QuizHandler
	ReflectionHandler *httpH.ReflectionHandler
	UnlockHandler     *httpH.UnlockHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("progression-backend"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}

	if cfg.CatalogHandler != nil {
		api.GET("/topics", cfg.CatalogHandler.ListTopics)
		api.GET("/topics/:id", cfg.CatalogHandler.GetTopic)
		api.GET("/topics/:id/modules", cfg.CatalogHandler.ListModules)
		api.GET("/modules/:id/pages", cfg.CatalogHandler.ListPages)
		api.GET("/pages/:id/content", cfg.CatalogHandler.ListContentItems)
	}

	if cfg.UnlockHandler != nil {
		api.GET("/modules/:id/unlocked", cfg.UnlockHandler.IsModuleUnlocked)
		api.GET("/topics/:id/unlocked", cfg.UnlockHandler.IsTopicUnlocked)
		api.GET("/topics/:id/unlocks", cfg.UnlockHandler.TopicUnlockMap)
	}

	if cfg.ProgressHandler != nil {
		api.POST("/pages/:id/complete", cfg.ProgressHandler.CompletePage)
		api.GET("/modules/:id/progress", cfg.ProgressHandler.GetModuleProgress)
		api.GET("/me/xp", cfg.ProgressHandler.GetMyXP)
		api.GET("/me/progress", cfg.ProgressHandler.ListMyProgress)
	}

	if cfg.QuizHandler != nil {
		api.POST("/pages/:id/quiz/:contentId/attempts", cfg.QuizHandler.SubmitAnswer)
		api.GET("/quiz/:contentId/attempts", cfg.QuizHandler.ListAttempts)
	}

	if cfg.ReflectionHandler != nil {
		api.PUT("/pages/:id/reflection", cfg.ReflectionHandler.SaveReflection)
		api.GET("/pages/:id/reflection", cfg.ReflectionHandler.GetReflection)
	}

	return r
}
