package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/lumenlearn/progression-backend/internal/domain/aggregates"
	"github.com/lumenlearn/progression-backend/internal/platform/ctxutil"
)

type stubUnlockService struct {
	unlocked bool
	err      error
	unlocks  map[uuid.UUID]bool
}

func (s *stubUnlockService) IsModuleUnlocked(ctx context.Context, userID, moduleID uuid.UUID) (bool, error) {
	return s.unlocked, s.err
}

func (s *stubUnlockService) IsTopicUnlocked(ctx context.Context, userID, topicID uuid.UUID) (bool, error) {
	return s.unlocked, s.err
}

func (s *stubUnlockService) TopicUnlockMap(ctx context.Context, userID, topicID uuid.UUID) (map[uuid.UUID]bool, error) {
	return s.unlocks, s.err
}

func unlockRequest(t *testing.T, h *UnlockHandler, handler gin.HandlerFunc, path string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: uuid.New()})
		c.Request = c.Request.WithContext(ctx)
	})
	r.GET("/modules/:id/unlocked", handler)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIsModuleUnlocked_ReportsState(t *testing.T) {
	h := NewUnlockHandler(&stubUnlockService{unlocked: true})
	w := unlockRequest(t, h, h.IsModuleUnlocked, "/modules/"+uuid.NewString()+"/unlocked")

	if w.Code != http.StatusOK {
		t.Fatalf("status: got=%d body=%s", w.Code, w.Body.String())
	}
	var body struct {
		Unlocked bool `json:"unlocked"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !body.Unlocked {
		t.Fatalf("expected unlocked true: %s", w.Body.String())
	}
}

func TestIsModuleUnlocked_UnknownModuleAnswersLocked(t *testing.T) {
	notFound := domainagg.NewError(domainagg.CodeNotFound, "Unlock.IsModuleUnlocked", "module not found", nil)
	h := NewUnlockHandler(&stubUnlockService{err: notFound})
	w := unlockRequest(t, h, h.IsModuleUnlocked, "/modules/"+uuid.NewString()+"/unlocked")

	if w.Code != http.StatusOK {
		t.Fatalf("unknown module must answer 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Unlocked bool `json:"unlocked"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Unlocked {
		t.Fatalf("unknown module must answer locked: %s", w.Body.String())
	}
}

func TestIsModuleUnlocked_InternalErrorPropagates(t *testing.T) {
	internal := domainagg.NewError(domainagg.CodeInternal, "Unlock.IsModuleUnlocked", "boom", nil)
	h := NewUnlockHandler(&stubUnlockService{err: internal})
	w := unlockRequest(t, h, h.IsModuleUnlocked, "/modules/"+uuid.NewString()+"/unlocked")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status: got=%d body=%s", w.Code, w.Body.String())
	}
}

func TestIsModuleUnlocked_BadUUIDRejected(t *testing.T) {
	h := NewUnlockHandler(&stubUnlockService{unlocked: true})
	w := unlockRequest(t, h, h.IsModuleUnlocked, "/modules/not-a-uuid/unlocked")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got=%d body=%s", w.Code, w.Body.String())
	}
}
