package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framevault/framevault-server/internal/config"
)

func newRouter(t *testing.T, v *Validator) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(v.Middleware())
	r.GET("/api/assets", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(SubjectKey))
	})
	return r
}

func sign(t *testing.T, key *rsa.PrivateKey, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestMiddlewareDisabledPassesThrough(t *testing.T) {
	v, err := NewValidator(context.Background(), &config.Config{AuthEnabled: false}, zerolog.Nop())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	newRouter(t, v).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/assets", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddlewareEnforcesToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	cfg := &config.Config{AuthEnabled: true, AuthIssuer: "https://id.example.com", AuthAudience: "framevault"}
	v := NewValidatorWithKeyfunc(cfg, func(*jwt.Token) (any, error) { return &key.PublicKey, nil }, zerolog.Nop())
	router := newRouter(t, v)

	valid := jwt.RegisteredClaims{
		Issuer:    cfg.AuthIssuer,
		Audience:  jwt.ClaimStrings{"framevault"},
		Subject:   "photographer-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	wrongAudience := valid
	wrongAudience.Audience = jwt.ClaimStrings{"other"}

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "missing header", status: http.StatusUnauthorized, body: `"missing bearer token"`},
		{name: "not bearer", header: "Basic abc", status: http.StatusUnauthorized, body: `"missing bearer token"`},
		{name: "valid", header: "Bearer " + sign(t, key, valid), status: http.StatusOK, body: "photographer-1"},
		{name: "wrong key", header: "Bearer " + sign(t, other, valid), status: http.StatusUnauthorized, body: `"invalid token"`},
		{name: "wrong audience", header: "Bearer " + sign(t, key, wrongAudience), status: http.StatusUnauthorized, body: `"invalid token"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/assets", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
			if tt.status == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), `"success":false`)
			}
		})
	}
}
