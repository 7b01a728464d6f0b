package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/lumenlearn/progression-backend/internal/http/response"
	"github.com/lumenlearn/progression-backend/internal/services"

	domainagg "github.com/lumenlearn/progression-backend/internal/domain/aggregates"
)

type UnlockHandler struct {
	svc services.UnlockService
}

func NewUnlockHandler(svc services.UnlockService) *UnlockHandler {
	return &UnlockHandler{svc: svc}
}

// GET /api/modules/:id/unlocked
//
// An unknown module id answers locked rather than 404: the boolean is the
// contract, fail closed.
func (h *UnlockHandler) IsModuleUnlocked(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	moduleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	unlocked, err := h.svc.IsModuleUnlocked(c.Request.Context(), userID, moduleID)
	if err != nil {
		if domainagg.IsCode(err, domainagg.CodeNotFound) {
			response.RespondOK(c, gin.H{"module_id": moduleID, "unlocked": false})
			return
		}
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"module_id": moduleID, "unlocked": unlocked})
}

// GET /api/topics/:id/unlocked
func (h *UnlockHandler) IsTopicUnlocked(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	topicID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	unlocked, err := h.svc.IsTopicUnlocked(c.Request.Context(), userID, topicID)
	if err != nil {
		if domainagg.IsCode(err, domainagg.CodeNotFound) {
			response.RespondOK(c, gin.H{"topic_id": topicID, "unlocked": false})
			return
		}
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"topic_id": topicID, "unlocked": unlocked})
}

// GET /api/topics/:id/unlocks
func (h *UnlockHandler) TopicUnlockMap(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	topicID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	unlocks, err := h.svc.TopicUnlockMap(c.Request.Context(), userID, topicID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"topic_id": topicID, "unlocks": unlocks})
}
