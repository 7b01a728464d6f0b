package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/lumenlearn/progression-backend/internal/http/response"
	"github.com/lumenlearn/progression-backend/internal/services"
)

type CatalogHandler struct {
	svc services.CatalogService
}

func NewCatalogHandler(svc services.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// GET /api/topics
func (h *CatalogHandler) ListTopics(c *gin.Context) {
	topics, err := h.svc.ListTopics(c.Request.Context())
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"topics": topics})
}

// GET /api/topics/:id
func (h *CatalogHandler) GetTopic(c *gin.Context) {
	topicID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	topic, err := h.svc.GetTopic(c.Request.Context(), topicID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"topic": topic})
}

// GET /api/topics/:id/modules
func (h *CatalogHandler) ListModules(c *gin.Context) {
	topicID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	modules, err := h.svc.ListModules(c.Request.Context(), topicID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"modules": modules})
}

// GET /api/modules/:id/pages
func (h *CatalogHandler) ListPages(c *gin.Context) {
	moduleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	pages, err := h.svc.ListPages(c.Request.Context(), moduleID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"pages": pages})
}

// GET /api/pages/:id/content
func (h *CatalogHandler) ListContentItems(c *gin.Context) {
	pageID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	items, err := h.svc.ListContentItems(c.Request.Context(), pageID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"content_items": items})
}
