package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authTestServer(t *testing.T) http.Handler {
	t.Helper()
	authMiddleware := NewAuthMiddlewareHandler("test-api-key")
	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("ok"))
		require.NoError(t, err)
	})
	return authMiddleware.AuthCheck()(handler)
}

func TestAuthCheck_HealthAlwaysAllowed(t *testing.T) {
	handler := authTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthCheck_MissingToken(t *testing.T) {
	handler := authTestServer(t)

	req := httptest.NewRequest("POST", "/complete-set", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthCheck_InvalidToken(t *testing.T) {
	handler := authTestServer(t)

	req := httptest.NewRequest("POST", "/complete-set", nil)
	req.Header.Set("X-Coachbyte-Token", "wrong-key")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthCheck_ValidToken(t *testing.T) {
	handler := authTestServer(t)

	req := httptest.NewRequest("POST", "/complete-set", nil)
	req.Header.Set("X-Coachbyte-Token", "test-api-key")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthCheck_BearerToken(t *testing.T) {
	handler := authTestServer(t)

	req := httptest.NewRequest("POST", "/complete-set", nil)
	req.Header.Set("Authorization", "Bearer test-api-key")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthCheck_NoKeyConfigured(t *testing.T) {
	authMiddleware := NewAuthMiddlewareHandler("")
	handler := authMiddleware.AuthCheck()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/complete-set", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthCheck_Options(t *testing.T) {
	handler := authTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/complete-set", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "GET, POST, OPTIONS", rr.Header().Get("Allow"))
}
