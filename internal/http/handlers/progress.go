package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/lumenlearn/progression-backend/internal/http/response"
	"github.com/lumenlearn/progression-backend/internal/services"
)

type ProgressHandler struct {
	completion services.CompletionService
	queries    services.ProgressQueryService
}

func NewProgressHandler(completion services.CompletionService, queries services.ProgressQueryService) *ProgressHandler {
	return &ProgressHandler{completion: completion, queries: queries}
}

// POST /api/pages/:id/complete
//
// Idempotent: repeating the call returns the frozen XP award and does not
// re-report unlocks.
func (h *ProgressHandler) CompletePage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	pageID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	res, err := h.completion.CompletePage(c.Request.Context(), userID, pageID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"page_id":             res.PageID,
		"module_id":           res.ModuleID,
		"xp_earned":           res.XPEarned,
		"new_total_xp":        res.NewTotalXP,
		"unlocked_module_ids": res.UnlockedModuleIDs,
		"already_completed":   res.AlreadyCompleted,
	})
}

// GET /api/modules/:id/progress
func (h *ProgressHandler) GetModuleProgress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	moduleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	mp, err := h.queries.GetModuleProgress(c.Request.Context(), userID, moduleID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": mp})
}

// GET /api/me/xp
func (h *ProgressHandler) GetMyXP(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	xp, err := h.queries.GetUserTotalXP(c.Request.Context(), userID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"xp": xp})
}

// GET /api/me/progress
func (h *ProgressHandler) ListMyProgress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	rows, err := h.queries.ListPageProgress(c.Request.Context(), userID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": rows})
}
