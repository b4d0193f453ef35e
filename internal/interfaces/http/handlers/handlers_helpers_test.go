package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"payledger.backend/internal/domain/entities"
	"payledger.backend/internal/interfaces/http/middleware"
)

func testActor(caps ...string) entities.Actor {
	return entities.NewActor(uuid.New(), entities.Owner{Type: entities.OwnerTypeUser, ID: uuid.New()}, "user", caps)
}

// newTestRouter authenticates every request as actor when actor is non-nil
func newTestRouter(actor *entities.Actor, email string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if actor != nil {
			c.Set(middleware.ActorKey, *actor)
			c.Set(middleware.EmailKey, email)
		}
		c.Next()
	})
	return r
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
