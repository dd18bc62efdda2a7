package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/sartoria-hq/tailor-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(svc jwt.Service) *chi.Mux {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(svc.JWTAuth()))
		r.Use(AuthRequired(svc.JWTAuth()))
		r.Get("/probe", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})
	return r
}

func TestAuthRequired_ValidAccessToken(t *testing.T) {
	t.Parallel()

	svc := jwt.NewJWTService("test-secret-key", "1h")
	token, expiresAt, err := svc.GenerateAccessToken("user-1", "company-1", "admin")
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	newProtectedRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequired_MissingToken(t *testing.T) {
	t.Parallel()

	svc := jwt.NewJWTService("test-secret-key", "1h")

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	rec := httptest.NewRecorder()
	newProtectedRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequired_RejectsNonAccessToken(t *testing.T) {
	t.Parallel()

	svc := jwt.NewJWTService("test-secret-key", "1h")
	_, tokenString, err := svc.JWTAuth().Encode(map[string]interface{}{
		"user_id":    "user-1",
		"company_id": "company-1",
		"type":       "refresh",
		"exp":        time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rec := httptest.NewRecorder()
	newProtectedRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequired_RejectsTokenWithoutCompany(t *testing.T) {
	t.Parallel()

	svc := jwt.NewJWTService("test-secret-key", "1h")
	_, tokenString, err := svc.JWTAuth().Encode(map[string]interface{}{
		"user_id": "user-1",
		"type":    "access",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rec := httptest.NewRecorder()
	newProtectedRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
