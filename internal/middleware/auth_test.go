package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secreto-de-prueba"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func protectedRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{JWTAuth(testSecret)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": GetClaims(c).Username})
	})
	r.GET("/dato", handlers...)
	return r
}

func request(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/dato", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthValidToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id":  uuid.NewString(),
		"username": "caja@rumbo.mx",
		"role":     "cajero",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	w := request(protectedRouter(), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "caja@rumbo.mx")
}

func TestJWTAuthMissingOrMalformedHeader(t *testing.T) {
	r := protectedRouter()

	w := request(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/dato", nil)
	req.Header.Set("Authorization", "Basic abc123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"role":    "cajero",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	w := request(protectedRouter(), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	token := signToken(t, "otro-secreto", jwt.MapClaims{
		"user_id": uuid.NewString(),
		"role":    "cajero",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	w := request(protectedRouter(), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	managerOnly := protectedRouter("gerente", "director")

	cajero := signToken(t, testSecret, jwt.MapClaims{
		"user_id": uuid.NewString(), "username": "c", "role": "cajero",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	w := request(managerOnly, cajero)
	assert.Equal(t, http.StatusForbidden, w.Code)

	gerente := signToken(t, testSecret, jwt.MapClaims{
		"user_id": uuid.NewString(), "username": "g", "role": "gerente",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	w = request(managerOnly, gerente)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestActorID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	id := uuid.New()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(ClaimsKey, &JWTClaims{UserID: id.String()})
	got := ActorID(c)
	require.NotNil(t, got)
	assert.Equal(t, id, *got)

	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	c2.Set(ClaimsKey, &JWTClaims{UserID: "no-es-uuid"})
	assert.Nil(t, ActorID(c2))
}
