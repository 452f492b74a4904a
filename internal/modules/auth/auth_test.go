package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/georgemunganga/kasir-backend/internal/modules/user"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newTestAuth(t *testing.T) Service {
	t.Helper()
	hash, err := user.HashPassword("rahasia", bcrypt.MinCost)
	require.NoError(t, err)
	return NewService(user.NewService([]user.User{{Name: "Admin", PasswordHash: hash}}), testSecret, time.Hour)
}

func TestLoginAndVerify(t *testing.T) {
	svc := newTestAuth(t)

	token, err := svc.Login(context.Background(), "admin", "rahasia")
	require.NoError(t, err)

	name, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "Admin", name)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuth(t)

	_, err := svc.Login(context.Background(), "Admin", "salah")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "Budi", "rahasia")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyRejects(t *testing.T) {
	svc := newTestAuth(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.StandardClaims{
		Issuer:    issuer,
		Subject:   "Admin",
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	})
	expiredToken, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.StandardClaims{
		Issuer:    issuer,
		Subject:   "Admin",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	forgedToken, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired": expiredToken,
		"forged":  forgedToken,
		"garbage": "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestHandlerAndMiddleware(t *testing.T) {
	svc := newTestAuth(t)
	router := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(router)
	router.Group(func(r chi.Router) {
		r.Use(Middleware(svc))
		r.Get("/api/v1/whoami", func(w http.ResponseWriter, r *http.Request) {
			name, _ := CashierFrom(r.Context())
			w.Write([]byte(name))
		})
	})

	login := func(password string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]string{"name": "Admin", "password": password})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body)))
		return w
	}

	w := login("salah")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = login("rahasia")
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotEmpty(t, resp["token"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+resp["token"])
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Admin", w.Body.String())
}
