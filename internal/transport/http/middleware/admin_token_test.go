package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newGuardedRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin/ping", AdminToken(secret), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return router
}

func TestAdminToken_ValidSecret(t *testing.T) {
	router := newGuardedRouter("s3cret")
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("x-admin-token", "s3cret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAdminToken_WrongSecret(t *testing.T) {
	router := newGuardedRouter("s3cret")
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("x-admin-token", "wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "无效的管理员口令") {
		t.Fatalf("missing rejection message: %s", rec.Body.String())
	}
}

func TestAdminToken_MissingHeader(t *testing.T) {
	router := newGuardedRouter("s3cret")
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAdminToken_EmptyConfiguredSecretRejectsAll(t *testing.T) {
	router := newGuardedRouter("")
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("x-admin-token", "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("an unset secret must close the console, got %d", rec.Code)
	}
}
