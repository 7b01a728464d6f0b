package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumenlearn/progression-backend/internal/http/response"
	"github.com/lumenlearn/progression-backend/internal/services"
)

type ReflectionHandler struct {
	svc services.ReflectionService
}

func NewReflectionHandler(svc services.ReflectionService) *ReflectionHandler {
	return &ReflectionHandler{svc: svc}
}

type saveReflectionRequest struct {
	Text string `json:"text"`
}

// PUT /api/pages/:id/reflection
func (h *ReflectionHandler) SaveReflection(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	pageID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req saveReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", fmt.Errorf("invalid request body: %w", err))
		return
	}

	row, err := h.svc.Save(c.Request.Context(), userID, pageID, req.Text)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"reflection": row})
}

// GET /api/pages/:id/reflection
func (h *ReflectionHandler) GetReflection(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	pageID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	row, err := h.svc.Get(c.Request.Context(), userID, pageID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"reflection": row})
}
