package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/config"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/metrics"
)

const testSecret = "test-secret"

func newAuthRouter(cfg config.AuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(), Logger(metrics.NewCollector()), Auth(cfg))
	r.GET("/secure", func(c *gin.Context) {
		id, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	return r
}

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_ValidToken(t *testing.T) {
	r := newAuthRouter(config.AuthConfig{JWTSecret: testSecret})
	token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"user_id": "pantry-7",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w := get(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"pantry-7"}`, w.Body.String())
}

func TestAuth_SubjectClaim(t *testing.T) {
	r := newAuthRouter(config.AuthConfig{JWTSecret: testSecret})
	token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "pantry-9"})

	w := get(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"pantry-9"}`, w.Body.String())
}

func TestAuth_Rejections(t *testing.T) {
	r := newAuthRouter(config.AuthConfig{JWTSecret: testSecret})

	expired := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"user_id": "u",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"user_id": "u"})
	noIdentity := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"role": "admin"})

	for name, header := range map[string]string{
		"missing header": "",
		"bad format":     "Token abc",
		"expired":        "Bearer " + expired,
		"wrong key":      "Bearer " + wrongKey,
		"no identity":    "Bearer " + noIdentity,
		"garbage":        "Bearer not.a.jwt",
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, get(r, header).Code)
		})
	}
}

func TestAuth_MissingSecret(t *testing.T) {
	r := newAuthRouter(config.AuthConfig{})
	assert.Equal(t, http.StatusInternalServerError, get(r, "Bearer x").Code)
}

func TestAuth_Disabled(t *testing.T) {
	r := newAuthRouter(config.AuthConfig{Disabled: true, DevUserID: "local"})

	w := get(r, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"local"}`, w.Body.String())
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
