package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lumenlearn/progression-backend/internal/http/response"
	"github.com/lumenlearn/progression-backend/internal/services"
)

type QuizHandler struct {
	svc services.QuizService
}

func NewQuizHandler(svc services.QuizService) *QuizHandler {
	return &QuizHandler{svc: svc}
}

type submitAnswerRequest struct {
	SelectedOptionID string `json:"selected_option_id"`
}

// POST /api/pages/:id/quiz/:contentId/attempts
func (h *QuizHandler) SubmitAnswer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	pageID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	quizContentID, ok := pathUUID(c, "contentId")
	if !ok {
		return
	}
	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(req.SelectedOptionID) == "" {
		response.RespondError(c, http.StatusBadRequest, "validation", fmt.Errorf("selected_option_id is required"))
		return
	}

	res, err := h.svc.SubmitAnswer(c.Request.Context(), userID, pageID, quizContentID, req.SelectedOptionID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"attempt_id":        res.AttemptID,
		"attempt_number":    res.AttemptNumber,
		"is_correct":        res.IsCorrect,
		"correct_option_id": res.CorrectOptionID,
		"explanation":       res.Explanation,
	})
}

// GET /api/quiz/:contentId/attempts
func (h *QuizHandler) ListAttempts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	quizContentID, ok := pathUUID(c, "contentId")
	if !ok {
		return
	}
	attempts, err := h.svc.ListAttempts(c.Request.Context(), userID, quizContentID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"attempts": attempts})
}
