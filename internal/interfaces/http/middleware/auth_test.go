package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"payledger.backend/internal/domain/entities"
	"payledger.backend/pkg/jwt"
)

func newAuthRouter(svc *jwt.JWTService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(svc)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"owner": actor.Owner.String(), "email": GetEmail(c)})
	})
	r.GET("/me", handlers...)
	return r
}

func doGet(r http.Handler, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if auth != "" {
		req.Header.Set(AuthorizationHeader, auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	svc := jwt.NewJWTService("secret", time.Hour)
	id := uuid.New()
	token, err := svc.GenerateToken(jwt.Identity{SubjectID: id, OwnerType: "business", Email: "ops@acme.ng"})
	require.NoError(t, err)

	w := doGet(newAuthRouter(svc), BearerPrefix+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "business:"+id.String())
	assert.Contains(t, w.Body.String(), "ops@acme.ng")
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	svc := jwt.NewJWTService("secret", time.Hour)
	other := jwt.NewJWTService("other", time.Hour)
	expired := jwt.NewJWTService("secret", -time.Minute)

	foreign, _ := other.GenerateToken(jwt.Identity{SubjectID: uuid.New(), OwnerType: "user"})
	stale, _ := expired.GenerateToken(jwt.Identity{SubjectID: uuid.New(), OwnerType: "user"})
	robot, _ := svc.GenerateToken(jwt.Identity{SubjectID: uuid.New(), OwnerType: "robot"})

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc",
		"bad signature":  BearerPrefix + foreign,
		"expired":        BearerPrefix + stale,
		"unknown owner":  BearerPrefix + robot,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			w := doGet(newAuthRouter(svc), header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
		})
	}
}

func TestAuthMiddleware_ExpiredTokenMessage(t *testing.T) {
	svc := jwt.NewJWTService("secret", time.Hour)
	stale, _ := jwt.NewJWTService("secret", -time.Minute).GenerateToken(jwt.Identity{SubjectID: uuid.New(), OwnerType: "user"})

	w := doGet(newAuthRouter(svc), BearerPrefix+stale)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"code":"UNAUTHORIZED","message":"Token has expired"}`, w.Body.String())
}

func TestRequireCapability(t *testing.T) {
	svc := jwt.NewJWTService("secret", time.Hour)
	r := newAuthRouter(svc, RequireCapability(entities.CapabilityApprovePayouts))

	approver, _ := svc.GenerateToken(jwt.Identity{SubjectID: uuid.New(), OwnerType: "user", Role: "admin", Capabilities: []string{"payouts:approve"}})
	payer, _ := svc.GenerateToken(jwt.Identity{SubjectID: uuid.New(), OwnerType: "user", Role: "admin", Capabilities: []string{"payouts:pay"}})

	assert.Equal(t, http.StatusOK, doGet(r, BearerPrefix+approver).Code)
	w := doGet(r, BearerPrefix+payer)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestRequireCapability_WithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RequireCapability(entities.CapabilityPayPayouts), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
