package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lumenlearn/progression-backend/internal/platform/ctxutil"
	"github.com/lumenlearn/progression-backend/internal/platform/logger"
)

const testSecret = "auth-middleware-test-secret"

func newAuthTestRouter(t *testing.T) (*gin.Engine, *uuid.UUID) {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)
	gin.SetMode(gin.TestMode)

	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}

	var seenUserID uuid.UUID
	r := gin.New()
	r.Use(NewAuthMiddleware(log).RequireAuth())
	r.GET("/probe", func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd != nil {
			seenUserID = rd.UserID
		}
		c.Status(http.StatusNoContent)
	})
	return r, &seenUserID
}

func signToken(t *testing.T, secret, subject string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestRequireAuth_AcceptsValidToken(t *testing.T) {
	r, seen := newAuthTestRouter(t)

	userID := uuid.New()
	token := signToken(t, testSecret, userID.String(), time.Now().Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status: got=%d want=204 body=%s", w.Code, w.Body.String())
	}
	if *seen != userID {
		t.Fatalf("user id from context: got=%s want=%s", *seen, userID)
	}
}

func TestRequireAuth_RejectsMissingHeader(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: got=%d want=401", w.Code)
	}
}

func TestRequireAuth_RejectsWrongSecret(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	token := signToken(t, "some-other-secret", uuid.NewString(), time.Now().Add(time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: got=%d want=401", w.Code)
	}
}

func TestRequireAuth_RejectsExpiredToken(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	token := signToken(t, testSecret, uuid.NewString(), time.Now().Add(-time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: got=%d want=401", w.Code)
	}
}

func TestRequireAuth_RejectsNonUUIDSubject(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	token := signToken(t, testSecret, "service-account", time.Now().Add(time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: got=%d want=401", w.Code)
	}
}
