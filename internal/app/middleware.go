package app

import (
	httpMW "github.com/lumenlearn/progression-backend/internal/http/middleware"
	"github.com/lumenlearn/progression-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireMiddleware(log *logger.Logger) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log),
	}
}
